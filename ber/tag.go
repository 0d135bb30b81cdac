package ber

import "github.com/pkg/errors"

// ASN.1 class bits, shifted into position within the tag byte.
const (
	ClassUniversal       = 0x00
	ClassApplication     = 0x40
	ClassContextSpecific = 0x80
	ClassPrivate         = 0xC0

	constructedBit = 0x20

	tagNumberMask = 0x1F
	highTagNumber = 0x1F // reserved form this codec rejects (number > 30)
)

// Universal tag numbers used directly by this codec.
const (
	TagInteger        = 0x02
	TagOctetString    = 0x04
	TagNull           = 0x05
	TagObjectID       = 0x06
	TagSequence       = 0x30 // class universal, constructed, number 16
	TagSequenceNumber = 0x10
)

// Tag is a decoded X.690 identifier octet (short form only: class,
// primitive/constructed bit, and a tag number in [0,30]).
type Tag struct {
	Class       byte
	Constructed bool
	Number      byte
}

// Byte re-encodes the tag back into its single identifier octet.
func (t Tag) Byte() byte {
	b := t.Class | t.Number
	if t.Constructed {
		b |= constructedBit
	}
	return b
}

// EncodeTag returns the single identifier octet for class/constructed/number.
// Only the X.690 short form is supported (number <= 30); SNMP never needs
// the high-tag-number form.
func EncodeTag(class byte, constructed bool, number byte) (byte, error) {
	if number >= highTagNumber {
		return 0, errors.Wrap(ErrInvalidTag, "tag number exceeds short form")
	}
	b := class | number
	if constructed {
		b |= constructedBit
	}
	return b, nil
}

// DecodeTag parses the identifier octet at the start of data, returning the
// decoded Tag and the remaining bytes after it.
func DecodeTag(data []byte) (Tag, []byte, error) {
	if len(data) < 1 {
		return Tag{}, nil, errors.Wrap(ErrTruncatedInput, "tag")
	}
	b := data[0]
	number := b & tagNumberMask
	if number == highTagNumber {
		return Tag{}, nil, errors.Wrap(ErrInvalidTag, "high-tag-number form unsupported")
	}
	t := Tag{
		Class:       b &^ (constructedBit | tagNumberMask),
		Constructed: b&constructedBit != 0,
		Number:      number,
	}
	return t, data[1:], nil
}
