// Package ber implements the subset of X.690 Basic Encoding Rules needed to
// build and parse SNMPv2c messages: TLV tag/length framing, minimal
// two's-complement signed integers, sign-guarded unsigned integers, octet
// strings and object identifiers. End-of-contents and indefinite-length
// forms are not supported.
package ber

import "github.com/pkg/errors"

// Decode error taxonomy (spec §4.1, §7). These are sentinel errors so
// callers can classify a failure with errors.Is; the wrapping at the call
// site names the field that failed to decode.
var (
	// ErrTruncatedInput is returned when fewer bytes are available than a
	// tag, length or value header declares. snmp.DecodeMessage also returns
	// it for unexpected bytes left over after a complete element.
	ErrTruncatedInput = errors.New("ber: truncated input")

	// ErrLengthOverflow is returned when a long-form length would exceed
	// what fits in a Go int, or exceeds the message-size assumption (spec §6).
	ErrLengthOverflow = errors.New("ber: length overflow")

	// ErrInvalidTag is returned for a malformed tag byte (e.g. high-tag-number
	// form with number > 30, which this codec does not support) or an
	// unexpected tag where a specific one was required.
	ErrInvalidTag = errors.New("ber: invalid tag")

	// ErrInvalidInteger is returned when an INTEGER or unsigned-integer
	// encoding is empty or otherwise malformed.
	ErrInvalidInteger = errors.New("ber: invalid integer")

	// ErrInvalidOid is returned when an OBJECT IDENTIFIER encoding is empty,
	// truncated mid-subidentifier, or has a subidentifier with a leading
	// 0x80 padding byte.
	ErrInvalidOid = errors.New("ber: invalid oid")
)

// PartialDecodeError pairs a decode error with the hex form of the bytes
// that failed. No decoder in this package returns it; snmp.DecodeMessage
// reports partial progress through snmp.PartialDecode instead.
type PartialDecodeError struct {
	Err error
	Hex string
}

func (e *PartialDecodeError) Error() string {
	return "ber: partial decode: " + e.Err.Error()
}

func (e *PartialDecodeError) Unwrap() error {
	return e.Err
}
