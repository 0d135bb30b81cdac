// Package snmp implements SNMPv2c message encoding/decoding (GetRequest,
// GetBulkRequest, GetResponse) on top of the ber package's X.690 primitives,
// and the Value tagged variant carried by each varbind. Reassembling a
// GetBulk reply into table rows is done by the poll package.
package snmp

import (
	"encoding/hex"
	"fmt"
	"strconv"

	"github.com/gescheit/fastsnmp/ber"
	"github.com/pkg/errors"
)

// Kind identifies which SNMP data type a Value holds (spec §3).
type Kind int

const (
	KindInteger32 Kind = iota
	// KindUnsigned32 round-trips as KindGauge32: RFC 2578 defines Unsigned32
	// with the identical [APPLICATION 2] wire tag as Gauge32, so a wire-level
	// decoder with no MIB context has no way to recover the distinction.
	KindUnsigned32
	KindCounter32
	KindCounter64
	KindGauge32
	KindTimeTicks
	KindOctetString
	KindObjectIdentifier
	KindIPAddress
	KindOpaque
	KindNull
	KindNoSuchObject
	KindNoSuchInstance
	KindEndOfMibView
)

// application-class and context-class tags used by SNMP varbind values,
// on top of the universal tags ber already knows about (spec §4.1/§4.2).
const (
	tagIPAddress      = ber.ClassApplication | 0x00 // [APPLICATION 0]
	tagCounter32      = ber.ClassApplication | 0x01
	tagGauge32        = ber.ClassApplication | 0x02
	tagTimeTicks      = ber.ClassApplication | 0x03
	tagOpaque         = ber.ClassApplication | 0x04
	tagCounter64      = ber.ClassApplication | 0x06
	tagNoSuchObject   = ber.ClassContextSpecific | 0x00
	tagNoSuchInstance = ber.ClassContextSpecific | 0x01
	tagEndOfMibView   = ber.ClassContextSpecific | 0x02
)

// Value is the tagged variant over every SNMP varbind value type named in
// spec §3. The three terminator markers (NoSuchObject, NoSuchInstance,
// EndOfMibView) are distinct sentinel kinds, never confused with Null.
type Value struct {
	Kind Kind

	Int      int64  // KindInteger32
	Uint     uint64 // KindUnsigned32, KindCounter32, KindCounter64, KindGauge32, KindTimeTicks
	Bytes    []byte // KindOctetString, KindIPAddress, KindOpaque
	ObjectID string // KindObjectIdentifier, canonical dot-separated form
}

// IsTerminal reports whether the value is one of the three sentinels that
// end a GetBulk column's walk (spec §4.3 step 2), or Null — the row
// assembler treats both the same way when deciding a column has finished.
func (v Value) IsTerminal() bool {
	switch v.Kind {
	case KindNull, KindNoSuchObject, KindNoSuchInstance, KindEndOfMibView:
		return true
	}
	return false
}

func (v Value) String() string {
	switch v.Kind {
	case KindInteger32:
		return strconv.FormatInt(v.Int, 10)
	case KindUnsigned32, KindCounter32, KindCounter64, KindGauge32, KindTimeTicks:
		return strconv.FormatUint(v.Uint, 10)
	case KindOctetString:
		return string(v.Bytes)
	case KindObjectIdentifier:
		return v.ObjectID
	case KindIPAddress:
		if len(v.Bytes) != 4 {
			return hex.EncodeToString(v.Bytes)
		}
		return fmt.Sprintf("%d.%d.%d.%d", v.Bytes[0], v.Bytes[1], v.Bytes[2], v.Bytes[3])
	case KindOpaque:
		return hex.EncodeToString(v.Bytes)
	case KindNull:
		return "Null"
	case KindNoSuchObject:
		return "NoSuchObject"
	case KindNoSuchInstance:
		return "NoSuchInstance"
	case KindEndOfMibView:
		return "EndOfMibView"
	}
	return fmt.Sprintf("unrecognised value kind %d", v.Kind)
}

// Null is the outgoing value of every requested varbind in a Get/GetBulk
// request (spec §4.2).
var Null = Value{Kind: KindNull}

func encodeValue(v Value) ([]byte, error) {
	switch v.Kind {
	case KindInteger32:
		return ber.EncodeInteger(v.Int), nil
	case KindUnsigned32:
		// Same wire tag as Gauge32 (RFC 2578); decodeValue's tagGauge32
		// branch is what a round trip of this value comes back as.
		return ber.EncodeUnsignedTagged(tagGauge32, v.Uint), nil
	case KindCounter32:
		return ber.EncodeUnsignedTagged(tagCounter32, v.Uint), nil
	case KindCounter64:
		return ber.EncodeUnsignedTagged(tagCounter64, v.Uint), nil
	case KindGauge32:
		return ber.EncodeUnsignedTagged(tagGauge32, v.Uint), nil
	case KindTimeTicks:
		return ber.EncodeUnsignedTagged(tagTimeTicks, v.Uint), nil
	case KindOctetString:
		return ber.EncodeOctetString(v.Bytes), nil
	case KindObjectIdentifier:
		return ber.EncodeOID(v.ObjectID)
	case KindIPAddress:
		return ber.EncodeTLV(tagIPAddress, v.Bytes), nil
	case KindOpaque:
		return ber.EncodeTLV(tagOpaque, v.Bytes), nil
	case KindNull:
		return ber.EncodeNull(), nil
	case KindNoSuchObject:
		return []byte{tagNoSuchObject, 0x00}, nil
	case KindNoSuchInstance:
		return []byte{tagNoSuchInstance, 0x00}, nil
	case KindEndOfMibView:
		return []byte{tagEndOfMibView, 0x00}, nil
	}
	return nil, errors.Errorf("snmp: unsupported value kind %d", v.Kind)
}

func decodeValue(el ber.Element) (Value, error) {
	switch el.Tag.Byte() {
	case ber.TagInteger:
		i, err := ber.DecodeIntegerBytes(el.Content)
		if err != nil {
			return Value{}, err
		}
		return Value{Kind: KindInteger32, Int: i}, nil
	case ber.TagOctetString:
		return Value{Kind: KindOctetString, Bytes: append([]byte(nil), el.Content...)}, nil
	case ber.TagObjectID:
		subIDs, err := ber.DecodeOIDBytes(el.Content)
		if err != nil {
			return Value{}, err
		}
		return Value{Kind: KindObjectIdentifier, ObjectID: ber.FormatOIDString(subIDs)}, nil
	case ber.TagNull:
		return Value{Kind: KindNull}, nil
	case tagIPAddress:
		return Value{Kind: KindIPAddress, Bytes: append([]byte(nil), el.Content...)}, nil
	case tagCounter32:
		u, err := ber.DecodeUnsignedBytes(el.Content)
		if err != nil {
			return Value{}, err
		}
		return Value{Kind: KindCounter32, Uint: u}, nil
	case tagGauge32:
		u, err := ber.DecodeUnsignedBytes(el.Content)
		if err != nil {
			return Value{}, err
		}
		return Value{Kind: KindGauge32, Uint: u}, nil
	case tagTimeTicks:
		u, err := ber.DecodeUnsignedBytes(el.Content)
		if err != nil {
			return Value{}, err
		}
		return Value{Kind: KindTimeTicks, Uint: u}, nil
	case tagOpaque:
		return Value{Kind: KindOpaque, Bytes: append([]byte(nil), el.Content...)}, nil
	case tagCounter64:
		u, err := ber.DecodeUnsignedBytes(el.Content)
		if err != nil {
			return Value{}, err
		}
		return Value{Kind: KindCounter64, Uint: u}, nil
	case tagNoSuchObject:
		return Value{Kind: KindNoSuchObject}, nil
	case tagNoSuchInstance:
		return Value{Kind: KindNoSuchInstance}, nil
	case tagEndOfMibView:
		return Value{Kind: KindEndOfMibView}, nil
	}
	return Value{}, errors.Wrapf(ber.ErrInvalidTag, "unsupported value tag 0x%02x", el.Tag.Byte())
}
