package ber

import "github.com/pkg/errors"

const maxDatagramSize = 65535 // spec §6: message size assumption, per datagram

// EncodeLength encodes n using the X.690 short form (n < 128) or long form
// (0x80|numBytes followed by numBytes big-endian bytes). Indefinite length
// is never produced.
func EncodeLength(n int) []byte {
	if n < 0 {
		panic("ber: negative length")
	}
	if n < 0x80 {
		return []byte{byte(n)}
	}
	var tmp [8]byte
	i := len(tmp)
	v := uint64(n)
	for v > 0 {
		i--
		tmp[i] = byte(v)
		v >>= 8
	}
	out := make([]byte, 0, 1+len(tmp)-i)
	out = append(out, 0x80|byte(len(tmp)-i))
	out = append(out, tmp[i:]...)
	return out
}

// DecodeLength parses a length field at the start of data. It rejects the
// indefinite-length form (0x80 alone) since request parsing and response
// parsing both require definite lengths (spec §4.1). It returns the decoded
// length and the bytes remaining after the length field.
func DecodeLength(data []byte) (int, []byte, error) {
	if len(data) < 1 {
		return 0, nil, errors.Wrap(ErrTruncatedInput, "length")
	}
	first := data[0]
	rest := data[1:]
	if first&0x80 == 0 {
		return int(first), rest, nil
	}
	numBytes := int(first &^ 0x80)
	if numBytes == 0 {
		return 0, nil, errors.Wrap(ErrInvalidTag, "indefinite length not supported")
	}
	if numBytes > 8 {
		return 0, nil, errors.Wrap(ErrLengthOverflow, "length field too wide")
	}
	if len(rest) < numBytes {
		return 0, nil, errors.Wrap(ErrTruncatedInput, "length bytes")
	}
	var n uint64
	for i := 0; i < numBytes; i++ {
		n = n<<8 | uint64(rest[i])
	}
	if n > maxDatagramSize || n > uint64(^uint(0)>>1) {
		return 0, nil, errors.Wrap(ErrLengthOverflow, "length exceeds datagram assumption")
	}
	return int(n), rest[numBytes:], nil
}
