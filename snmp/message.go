package snmp

import (
	"github.com/gescheit/fastsnmp/ber"
	"github.com/pkg/errors"
)

// Version is the SNMP protocol version field. Only v2c is supported (spec §1
// Non-goals: no SNMPv1 traps, no SNMPv3).
type Version int

const SNMPv2c Version = 1

// PDU message types, as the context-specific, constructed tag on the PDU's
// outer TLV (spec §4.2).
const (
	TagGetRequest     = 0xA0
	TagGetNextRequest = 0xA1
	TagGetResponse    = 0xA2
	TagGetBulkRequest = 0xA5
)

// DefaultMaxRepetitions is the GetBulk max-repetitions value used when the
// caller doesn't override it (spec §9 Open Questions: the source varies
// between 5, 20 and 60 across revisions; 60 is chosen as the default here).
const DefaultMaxRepetitions = 60

// Varbind is a single (OID, Value) pair inside a PDU (spec §3).
type Varbind struct {
	OID   string
	Value Value
}

// PDU is a decoded SNMPv2c message: envelope fields flattened together with
// the PDU body, mirroring the three-stage unmarshal used by the teacher's
// session.go (strip the SNMP message tag, re-tag as ASN.1 SEQUENCE, then
// decode fields) but built entirely on the ber package so the varbind value
// union and the typed decode-error taxonomy (spec §4.1/§7) are available.
type PDU struct {
	Version      Version
	Community    string
	MessageType  byte
	RequestID    int32
	ErrorStatus  int
	ErrorIndex   int
	NonRepeaters int // not set by DecodeMessage: a GetBulk's value is in ErrorStatus
	MaxReps      int // not set by DecodeMessage: a GetBulk's value is in ErrorIndex
	Varbinds     []Varbind
}

// EncodeRequest builds the wire bytes for a GetRequest/GetBulkRequest. For
// GetBulk, nonRepeaters and maxRepetitions occupy the error-status/
// error-index slots (spec §4.2); every outgoing varbind value is Null.
func EncodeRequest(msgType byte, community string, requestID int32, nonRepeaters, maxRepetitions int, oids []string) ([]byte, error) {
	errorStatus, errorIndex := 0, 0
	if msgType == TagGetBulkRequest {
		errorStatus, errorIndex = nonRepeaters, maxRepetitions
	}

	var varbindsContent []byte
	for _, oid := range oids {
		oidTLV, err := ber.EncodeOID(oid)
		if err != nil {
			return nil, errors.Wrapf(err, "encoding oid %q", oid)
		}
		content := append(append([]byte{}, oidTLV...), EncodeNull()...)
		varbindsContent = append(varbindsContent, ber.EncodeSequence(content)...)
	}

	pduBody := append([]byte{}, ber.EncodeInteger(int64(requestID))...)
	pduBody = append(pduBody, ber.EncodeInteger(int64(errorStatus))...)
	pduBody = append(pduBody, ber.EncodeInteger(int64(errorIndex))...)
	pduBody = append(pduBody, ber.EncodeSequence(varbindsContent)...)

	pduTLV := ber.EncodeTLV(msgType, pduBody)

	envelope := append([]byte{}, ber.EncodeInteger(int64(SNMPv2c))...)
	envelope = append(envelope, ber.EncodeOctetString([]byte(community))...)
	envelope = append(envelope, pduTLV...)

	return ber.EncodeSequence(envelope), nil
}

// EncodeNull returns the full NULL TLV, exported for callers (e.g. tests)
// building varbinds outside EncodeRequest.
func EncodeNull() []byte {
	return ber.EncodeNull()
}

// DecodeMessage parses a full SNMPv2c datagram. If the outer SEQUENCE header
// and envelope fields (version, community, PDU tag) parse but an inner
// varbind fails, a *PartialDecode is returned alongside the error, carrying
// whatever top-level fields were already decoded (spec §4.1/§7).
func DecodeMessage(data []byte) (*PDU, *PartialDecode, error) {
	outer, rest, err := ber.DecodeElement(data)
	if err != nil {
		return nil, nil, err
	}
	if outer.Tag.Byte() != ber.TagSequence {
		return nil, nil, errors.Wrap(ber.ErrInvalidTag, "expected outer sequence")
	}
	if len(rest) != 0 {
		return nil, nil, errors.Wrap(ber.ErrTruncatedInput, "trailing bytes after message")
	}

	body := outer.Content

	versionEl, body, err := ber.DecodeElement(body)
	if err != nil {
		return nil, nil, err
	}
	version, err := ber.DecodeIntegerBytes(versionEl.Content)
	if err != nil {
		return nil, nil, err
	}

	communityEl, body, err := ber.DecodeElement(body)
	if err != nil {
		return nil, nil, err
	}

	pduEl, body, err := ber.DecodeElement(body)
	if err != nil {
		return nil, nil, err
	}
	if len(body) != 0 {
		return nil, nil, errors.Wrap(ber.ErrTruncatedInput, "trailing bytes after pdu")
	}

	pdu := &PDU{
		Version:     Version(version),
		Community:   string(communityEl.Content),
		MessageType: pduEl.Tag.Byte(),
	}

	partial := &PartialDecode{PDU: *pdu}

	reqIDEl, pduBody, err := ber.DecodeElement(pduEl.Content)
	if err != nil {
		return nil, partial, err
	}
	reqID, err := ber.DecodeIntegerBytes(reqIDEl.Content)
	if err != nil {
		return nil, partial, err
	}
	pdu.RequestID = int32(reqID)
	partial.PDU.RequestID = pdu.RequestID

	errStatusEl, pduBody, err := ber.DecodeElement(pduBody)
	if err != nil {
		return nil, partial, err
	}
	errStatus, err := ber.DecodeIntegerBytes(errStatusEl.Content)
	if err != nil {
		return nil, partial, err
	}
	pdu.ErrorStatus = int(errStatus)
	partial.PDU.ErrorStatus = pdu.ErrorStatus

	errIndexEl, pduBody, err := ber.DecodeElement(pduBody)
	if err != nil {
		return nil, partial, err
	}
	errIndex, err := ber.DecodeIntegerBytes(errIndexEl.Content)
	if err != nil {
		return nil, partial, err
	}
	pdu.ErrorIndex = int(errIndex)
	partial.PDU.ErrorIndex = pdu.ErrorIndex

	varbindListEl, pduBody, err := ber.DecodeElement(pduBody)
	if err != nil {
		return nil, partial, err
	}
	if len(pduBody) != 0 {
		return nil, partial, errors.Wrap(ber.ErrTruncatedInput, "trailing bytes after varbind list")
	}

	varbinds, err := decodeVarbindList(varbindListEl.Content)
	partial.PDU.Varbinds = varbinds
	if err != nil {
		return nil, partial, err
	}
	pdu.Varbinds = varbinds

	return pdu, nil, nil
}

// PartialDecode is returned alongside a decode error when the outer envelope
// parsed successfully but an inner PDU element did not (spec §4.1). It
// supports robustness diagnostics against malformed trailing bytes without
// discarding the fields that did parse.
type PartialDecode struct {
	PDU PDU
}

func decodeVarbindList(content []byte) ([]Varbind, error) {
	var varbinds []Varbind
	rest := content
	for len(rest) > 0 {
		vbEl, next, err := ber.DecodeElement(rest)
		if err != nil {
			return varbinds, err
		}
		rest = next

		oidEl, vbBody, err := ber.DecodeElement(vbEl.Content)
		if err != nil {
			return varbinds, err
		}
		subIDs, err := ber.DecodeOIDBytes(oidEl.Content)
		if err != nil {
			return varbinds, err
		}

		valEl, vbBody, err := ber.DecodeElement(vbBody)
		if err != nil {
			return varbinds, err
		}
		if len(vbBody) != 0 {
			return varbinds, errors.Wrap(ber.ErrTruncatedInput, "trailing bytes in varbind")
		}

		value, err := decodeValue(valEl)
		if err != nil {
			return varbinds, err
		}

		varbinds = append(varbinds, Varbind{OID: ber.FormatOIDString(subIDs), Value: value})
	}
	return varbinds, nil
}
