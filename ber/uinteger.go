package ber

import "github.com/pkg/errors"

// EncodeUnsignedBytes returns the minimal big-endian magnitude encoding of an
// unsigned integer. If the high bit of the most significant byte would be
// set, a 0x00 byte is prepended so the value cannot be misread as negative —
// required for Counter64 (spec §4.1).
func EncodeUnsignedBytes(u uint64) []byte {
	if u == 0 {
		return []byte{0x00}
	}

	var buf [8]byte
	v := u
	for n := 8; n > 0; n-- {
		buf[n-1] = byte(v)
		v >>= 8
	}

	start := 0
	for start < 7 && buf[start] == 0 {
		start++
	}

	if buf[start]&0x80 != 0 {
		out := make([]byte, 8-start+1)
		out[0] = 0x00
		copy(out[1:], buf[start:])
		return out
	}
	out := make([]byte, 8-start)
	copy(out, buf[start:])
	return out
}

// DecodeUnsignedBytes decodes a big-endian unsigned integer, tolerating a
// leading sign-guard 0x00 byte.
func DecodeUnsignedBytes(data []byte) (uint64, error) {
	if len(data) == 0 {
		return 0, errors.Wrap(ErrInvalidInteger, "empty unsigned integer")
	}
	if len(data) > 9 {
		return 0, errors.Wrap(ErrInvalidInteger, "unsigned integer wider than 64 bits")
	}
	if len(data) == 9 && data[0] != 0x00 {
		return 0, errors.Wrap(ErrInvalidInteger, "unsigned integer overflows 64 bits")
	}
	var v uint64
	for _, b := range data {
		v = v<<8 | uint64(b)
	}
	return v, nil
}
