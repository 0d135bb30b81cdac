package ber

import "github.com/pkg/errors"

// EncodeIntegerBytes returns the minimal two's-complement big-endian
// encoding of a signed integer: the high bit of the first byte carries the
// sign, and a redundant leading 0xFF (for negatives) or 0x00 (for
// non-negatives) is stripped whenever the following byte's high bit already
// agrees with the sign (spec §4.1).
func EncodeIntegerBytes(i int64) []byte {
	if i == 0 {
		return []byte{0x00}
	}

	var buf [8]byte
	u := uint64(i)
	for n := 8; n > 0; n-- {
		buf[n-1] = byte(u)
		u >>= 8
	}

	start := 0
	negative := i < 0
	for start < 7 {
		b := buf[start]
		next := buf[start+1]
		if negative {
			if b != 0xFF || next&0x80 == 0 {
				break
			}
		} else {
			if b != 0x00 || next&0x80 != 0 {
				break
			}
		}
		start++
	}
	out := make([]byte, 8-start)
	copy(out, buf[start:])
	return out
}

// DecodeIntegerBytes decodes a minimal two's-complement big-endian signed
// integer. Non-minimal (redundant leading byte) encodings are accepted on
// decode — only the encoder enforces minimality, per the usual BER
// liberal-in-what-you-accept stance — but the round-trip property (spec §8)
// only holds for minimal inputs, which is what EncodeIntegerBytes always
// produces.
func DecodeIntegerBytes(data []byte) (int64, error) {
	if len(data) == 0 {
		return 0, errors.Wrap(ErrInvalidInteger, "empty integer")
	}
	if len(data) > 8 {
		return 0, errors.Wrap(ErrInvalidInteger, "integer wider than 64 bits")
	}
	v := int64(int8(data[0]))
	for _, b := range data[1:] {
		v = v<<8 | int64(b)
	}
	return v, nil
}
