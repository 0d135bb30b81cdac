package ber

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// EncodeOIDBytes encodes an OID (already split into sub-identifiers) into
// its BER content bytes: the first two sub-identifiers are combined as
// 40*a+b, each subsequent sub-identifier is base-128 with the high bit set
// on every byte but the last (spec §4.1). Callers must supply at least two
// sub-identifiers.
func EncodeOIDBytes(subIDs []uint32) ([]byte, error) {
	if len(subIDs) < 2 {
		return nil, errors.Wrap(ErrInvalidOid, "fewer than two sub-identifiers")
	}

	out := make([]byte, 0, len(subIDs)+2)
	out = append(out, encodeBase128(40*subIDs[0]+subIDs[1])...)
	for _, sub := range subIDs[2:] {
		out = append(out, encodeBase128(sub)...)
	}
	return out, nil
}

func encodeBase128(v uint32) []byte {
	if v == 0 {
		return []byte{0x00}
	}
	var tmp [5]byte
	i := len(tmp)
	for v > 0 {
		i--
		tmp[i] = byte(v & 0x7F)
		v >>= 7
	}
	out := tmp[i:]
	for j := 0; j < len(out)-1; j++ {
		out[j] |= 0x80
	}
	return append([]byte(nil), out...)
}

// DecodeOIDBytes decodes an OID's content bytes back into sub-identifiers.
// A base-128 group that runs off the end of data without a terminating byte
// (high bit clear) is rejected, per spec §4.1.
func DecodeOIDBytes(data []byte) ([]uint32, error) {
	if len(data) == 0 {
		return nil, errors.Wrap(ErrInvalidOid, "empty oid")
	}

	var subIDs []uint32
	var acc uint64
	groupStarted := false
	for _, b := range data {
		if !groupStarted && b == 0x80 {
			return nil, errors.Wrap(ErrInvalidOid, "sub-identifier with leading 0x80 padding byte")
		}
		acc = acc<<7 | uint64(b&0x7F)
		groupStarted = true
		if acc > 0xFFFFFFFF {
			return nil, errors.Wrap(ErrLengthOverflow, "oid sub-identifier overflows 32 bits")
		}
		if b&0x80 == 0 {
			subIDs = append(subIDs, uint32(acc))
			acc = 0
			groupStarted = false
		}
	}
	if groupStarted {
		return nil, errors.Wrap(ErrInvalidOid, "unterminated sub-identifier")
	}

	if len(subIDs) == 0 {
		return nil, errors.Wrap(ErrInvalidOid, "no sub-identifiers decoded")
	}
	first := subIDs[0]
	var a, b uint32
	if first < 40 {
		a, b = 0, first
	} else if first < 80 {
		a, b = 1, first-40
	} else {
		a, b = 2, first-80
	}
	result := make([]uint32, 0, len(subIDs)+1)
	result = append(result, a, b)
	result = append(result, subIDs[1:]...)
	return result, nil
}

// ParseOIDString splits a dot-separated OID into sub-identifiers. Leading
// and trailing dots are rejected per the canonical-form invariant (spec §3).
func ParseOIDString(s string) ([]uint32, error) {
	if s == "" || strings.HasPrefix(s, ".") || strings.HasSuffix(s, ".") {
		return nil, errors.Wrap(ErrInvalidOid, "non-canonical oid string")
	}
	parts := strings.Split(s, ".")
	subIDs := make([]uint32, len(parts))
	for i, p := range parts {
		v, err := strconv.ParseUint(p, 10, 32)
		if err != nil {
			return nil, errors.Wrapf(ErrInvalidOid, "sub-identifier %q: %v", p, err)
		}
		subIDs[i] = uint32(v)
	}
	return subIDs, nil
}

// FormatOIDString renders sub-identifiers in canonical dot-separated form.
func FormatOIDString(subIDs []uint32) string {
	parts := make([]string, len(subIDs))
	for i, v := range subIDs {
		parts[i] = strconv.FormatUint(uint64(v), 10)
	}
	return strings.Join(parts, ".")
}
