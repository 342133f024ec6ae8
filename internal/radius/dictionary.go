// Package radius はlayeh.com/radius上の属性抽出・応答生成・VSA処理を提供する。
package radius

import "fmt"

// RADIUS属性タイプ定数（RFC 2865/2866/2869）
const (
	AttrTypeUserName          = 1
	AttrTypeUserPassword      = 2
	AttrTypeCHAPPassword      = 3
	AttrTypeNASIPAddress      = 4
	AttrTypeNASPort           = 5
	AttrTypeServiceType       = 6
	AttrTypeFramedProtocol    = 7
	AttrTypeFramedIPAddr      = 8
	AttrTypeFilterID          = 11
	AttrTypeVendorSpecific    = 26
	AttrTypeSessionTimeout    = 27
	AttrTypeIdleTimeout       = 28
	AttrTypeCalledStationID   = 30
	AttrTypeCallingStationID  = 31
	AttrTypeNASIdentifier     = 32
	AttrTypeAcctStatusType    = 40
	AttrTypeAcctInputOct      = 42
	AttrTypeAcctOutputOct     = 43
	AttrTypeAcctSessionID     = 44
	AttrTypeAcctSessionTime   = 46
	AttrTypeAcctTermCause     = 49
	AttrTypeAcctInputGiga     = 52
	AttrTypeAcctOutputGiga    = 53
	AttrTypeCHAPChallenge     = 60
)

// ベンダーID
const (
	VendorMicrosoft uint32 = 311
	VendorMikrotik  uint32 = 14988
)

// Microsoftベンダー属性タイプ（RFC 2548）
const (
	MSCHAPResponseType  = 1
	MSCHAPErrorType     = 2
	MSCHAPChallengeType = 11
	MSCHAP2ResponseType = 25
	MSCHAP2SuccessType  = 26
)

// MikroTikベンダー属性タイプ
const (
	MikrotikGroupType     = 3
	MikrotikRateLimitType = 8
)

// attributeNames は属性コード→名前の辞書
var attributeNames = map[int]string{
	AttrTypeUserName:         "User-Name",
	AttrTypeUserPassword:     "User-Password",
	AttrTypeCHAPPassword:     "CHAP-Password",
	AttrTypeNASIPAddress:     "NAS-IP-Address",
	AttrTypeNASPort:          "NAS-Port",
	AttrTypeServiceType:      "Service-Type",
	AttrTypeFramedProtocol:   "Framed-Protocol",
	AttrTypeFramedIPAddr:     "Framed-IP-Address",
	AttrTypeFilterID:         "Filter-Id",
	AttrTypeVendorSpecific:   "Vendor-Specific",
	AttrTypeSessionTimeout:   "Session-Timeout",
	AttrTypeIdleTimeout:      "Idle-Timeout",
	AttrTypeCalledStationID:  "Called-Station-Id",
	AttrTypeCallingStationID: "Calling-Station-Id",
	AttrTypeNASIdentifier:    "NAS-Identifier",
	AttrTypeAcctStatusType:   "Acct-Status-Type",
	AttrTypeAcctInputOct:     "Acct-Input-Octets",
	AttrTypeAcctOutputOct:    "Acct-Output-Octets",
	AttrTypeAcctSessionID:    "Acct-Session-Id",
	AttrTypeAcctSessionTime:  "Acct-Session-Time",
	AttrTypeAcctTermCause:    "Acct-Terminate-Cause",
	AttrTypeAcctInputGiga:    "Acct-Input-Gigawords",
	AttrTypeAcctOutputGiga:   "Acct-Output-Gigawords",
	AttrTypeCHAPChallenge:    "CHAP-Challenge",
}

// vendorNames はベンダーID→名前の辞書
var vendorNames = map[uint32]string{
	VendorMicrosoft: "Microsoft",
	VendorMikrotik:  "MikroTik",
}

// statusTypeNames はAcct-Status-Type値→名前の辞書（RFC 2866）
var statusTypeNames = map[uint32]string{
	1: "Start",
	2: "Stop",
	3: "Interim-Update",
	7: "Accounting-On",
	8: "Accounting-Off",
}

// terminateCauseNames はAcct-Terminate-Cause値→名前の辞書（RFC 2866）
var terminateCauseNames = map[uint32]string{
	1:  "User-Request",
	2:  "Lost-Carrier",
	3:  "Lost-Service",
	4:  "Idle-Timeout",
	5:  "Session-Timeout",
	6:  "Admin-Reset",
	7:  "Admin-Reboot",
	8:  "Port-Error",
	9:  "NAS-Error",
	10: "NAS-Request",
	11: "NAS-Reboot",
	12: "Port-Unneeded",
	13: "Port-Preempted",
	14: "Port-Suspended",
	15: "Service-Unavailable",
	16: "Callback",
	17: "User-Error",
	18: "Host-Request",
}

// AttributeName は属性コードの表示名を返す（未知コードは数値表記）
func AttributeName(code int) string {
	if name, ok := attributeNames[code]; ok {
		return name
	}
	return fmt.Sprintf("Attr-%d", code)
}

// VendorName はベンダーIDの表示名を返す
func VendorName(id uint32) string {
	if name, ok := vendorNames[id]; ok {
		return name
	}
	return fmt.Sprintf("Vendor-%d", id)
}

// StatusTypeName はAcct-Status-Type値の表示名を返す
func StatusTypeName(v uint32) string {
	if name, ok := statusTypeNames[v]; ok {
		return name
	}
	return fmt.Sprintf("Status-%d", v)
}

// TerminateCauseName はAcct-Terminate-Cause値の表示名を返す。
// 0（属性なし）はRFC既定の"User-Request"扱い。
func TerminateCauseName(v uint32) string {
	if v == 0 {
		return "User-Request"
	}
	if name, ok := terminateCauseNames[v]; ok {
		return name
	}
	return fmt.Sprintf("Cause-%d", v)
}
