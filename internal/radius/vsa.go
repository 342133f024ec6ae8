package radius

import (
	"encoding/binary"

	"layeh.com/radius"
)

// VSAEntry はVendor-Specific属性内の1エントリを表す
type VSAEntry struct {
	VendorID uint32
	Type     byte
	Value    []byte
}

// ParseVSA はVendor-Specific属性（type 26）のペイロードを分解する。
// 形式: vendor_id(4) || [type(1) length(1) value(length-2)]+
// 境界を越えるエントリでパース全体を失敗させ、長さ0の値は
// エラーにせず読み飛ばす。
func ParseVSA(data []byte) ([]VSAEntry, error) {
	if len(data) < 4 {
		return nil, ErrShortVSA
	}
	vendorID := binary.BigEndian.Uint32(data[:4])

	var entries []VSAEntry
	rest := data[4:]
	for len(rest) > 0 {
		if len(rest) < 2 {
			return nil, ErrShortVSA
		}
		typ := rest[0]
		length := int(rest[1])
		if length < 2 || length > len(rest) {
			return nil, ErrShortVSA
		}
		value := rest[2:length]
		rest = rest[length:]

		// 長さ0の値は破棄（パースエラーにはしない）
		if len(value) == 0 {
			continue
		}
		entries = append(entries, VSAEntry{VendorID: vendorID, Type: typ, Value: value})
	}
	return entries, nil
}

// LookupVSA はパケット内のVendor-Specific属性から(vendor, type)に一致する
// 最初の値を探す。不正な形のVSAは読み飛ばす。
func LookupVSA(p *radius.Packet, vendorID uint32, vendorType byte) ([]byte, bool) {
	for _, avp := range p.Attributes {
		if avp.Type != radius.Type(AttrTypeVendorSpecific) {
			continue
		}
		entries, err := ParseVSA(avp.Attribute)
		if err != nil {
			continue
		}
		for _, e := range entries {
			if e.VendorID == vendorID && e.Type == vendorType {
				return e.Value, true
			}
		}
	}
	return nil, false
}

// AddVSA は(vendor, type, value)をVendor-Specific属性としてパケットに追加する
func AddVSA(p *radius.Packet, vendorID uint32, vendorType byte, value []byte) error {
	if len(value) > 253-6 {
		return ErrLongVSA
	}
	buf := make([]byte, 6+len(value))
	binary.BigEndian.PutUint32(buf[:4], vendorID)
	buf[4] = vendorType
	buf[5] = byte(2 + len(value))
	copy(buf[6:], value)
	p.Add(radius.Type(AttrTypeVendorSpecific), radius.Attribute(buf))
	return nil
}

// AddMikrotikGroup はMikrotik-Group VSA（14988/3）を追加する
func AddMikrotikGroup(p *radius.Packet, group string) error {
	return AddVSA(p, VendorMikrotik, MikrotikGroupType, []byte(group))
}

// AddMikrotikRateLimit はMikrotik-Rate-Limit VSA（14988/8）を追加する
func AddMikrotikRateLimit(p *radius.Packet, rateLimit string) error {
	return AddVSA(p, VendorMikrotik, MikrotikRateLimitType, []byte(rateLimit))
}
