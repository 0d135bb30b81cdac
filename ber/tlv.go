package ber

import "github.com/pkg/errors"

// Element is a single decoded TLV: its tag, the raw content bytes, and
// (recorded separately by the caller) however much of the input it consumed.
type Element struct {
	Tag     Tag
	Content []byte
}

// EncodeTLV composes a tag byte, its length header, and content into a full
// TLV encoding.
func EncodeTLV(tagByte byte, content []byte) []byte {
	lenBytes := EncodeLength(len(content))
	out := make([]byte, 0, 1+len(lenBytes)+len(content))
	out = append(out, tagByte)
	out = append(out, lenBytes...)
	out = append(out, content...)
	return out
}

// DecodeElement decodes one TLV at the front of data, returning the element
// and the bytes remaining after it.
func DecodeElement(data []byte) (Element, []byte, error) {
	tag, rest, err := DecodeTag(data)
	if err != nil {
		return Element{}, nil, err
	}
	length, rest, err := DecodeLength(rest)
	if err != nil {
		return Element{}, nil, err
	}
	if len(rest) < length {
		return Element{}, nil, errors.Wrap(ErrTruncatedInput, "element content")
	}
	return Element{Tag: tag, Content: rest[:length]}, rest[length:], nil
}

// EncodeInteger produces a full INTEGER TLV for a signed value.
func EncodeInteger(i int64) []byte {
	return EncodeTLV(TagInteger, EncodeIntegerBytes(i))
}

// EncodeUnsignedTagged produces a full TLV for an unsigned value under the
// given (possibly application-class) tag, used for Counter32/Counter64/
// Gauge32/TimeTicks which all share the unsigned-integer content encoding.
func EncodeUnsignedTagged(tagByte byte, u uint64) []byte {
	return EncodeTLV(tagByte, EncodeUnsignedBytes(u))
}

// EncodeOctetString produces a full OCTET STRING TLV.
func EncodeOctetString(b []byte) []byte {
	return EncodeTLV(TagOctetString, b)
}

// EncodeOID produces a full OBJECT IDENTIFIER TLV from a dot-separated
// string form.
func EncodeOID(oid string) ([]byte, error) {
	subIDs, err := ParseOIDString(oid)
	if err != nil {
		return nil, err
	}
	content, err := EncodeOIDBytes(subIDs)
	if err != nil {
		return nil, err
	}
	return EncodeTLV(TagObjectID, content), nil
}

// EncodeNull produces the NULL TLV (always zero-length content).
func EncodeNull() []byte {
	return []byte{TagNull, 0x00}
}

// EncodeSequence wraps content in a constructed SEQUENCE TLV.
func EncodeSequence(content []byte) []byte {
	return EncodeTLV(TagSequence, content)
}
