package radius

import (
	"encoding/binary"

	"layeh.com/radius"
	"layeh.com/radius/rfc2865"
	"layeh.com/radius/rfc2866"
	"layeh.com/radius/rfc2869"
	"layeh.com/radius/vendors/microsoft"
)

// ExtractAccessAttributes はAccess-Requestから認証に必要な属性を抽出する。
// User-Passwordは復号済みの平文を保持する（復号失敗時はPasswordOK=false）。
func ExtractAccessAttributes(p *radius.Packet) (*AccessAttributes, error) {
	attrs := &AccessAttributes{}

	// User-Name（必須）
	attrs.UserName = rfc2865.UserName_GetString(p)
	if attrs.UserName == "" {
		return nil, ErrMissingUserName
	}

	attrs.CallingStationID = rfc2865.CallingStationID_GetString(p)
	attrs.CalledStationID = rfc2865.CalledStationID_GetString(p)
	attrs.NASIdentifier = rfc2865.NASIdentifier_GetString(p)
	if ip := rfc2865.NASIPAddress_Get(p); ip != nil {
		attrs.NASIPAddress = ip.String()
	}
	if ip := rfc2865.FramedIPAddress_Get(p); ip != nil {
		attrs.FramedIPAddress = ip.String()
	}

	// User-Password（PAP）。属性の有無と復号可否を区別して保持する。
	if raw := p.Get(radius.Type(AttrTypeUserPassword)); raw != nil {
		attrs.HasUserPassword = true
		if pw, err := rfc2865.UserPassword_LookupString(p); err == nil {
			attrs.UserPassword = pw
			attrs.PasswordOK = true
		}
	}

	// CHAP
	attrs.CHAPPassword = rfc2865.CHAPPassword_Get(p)
	attrs.CHAPChallenge = rfc2865.CHAPChallenge_Get(p)

	// MS-CHAP系VSA（RFC 2548）
	attrs.MSCHAPChallenge = microsoft.MSCHAPChallenge_Get(p)
	attrs.MSCHAPResponse = microsoft.MSCHAPResponse_Get(p)
	attrs.MSCHAP2Response = microsoft.MSCHAP2Response_Get(p)

	return attrs, nil
}

// ExtractAccountingAttributes はAccounting-Requestから必要な属性を抽出する。
func ExtractAccountingAttributes(p *radius.Packet) (*AccountingAttributes, error) {
	attrs := &AccountingAttributes{}

	// Acct-Status-Type（必須）
	statusTypeAttr := p.Get(radius.Type(AttrTypeAcctStatusType))
	if len(statusTypeAttr) < 4 {
		return nil, ErrMissingStatusType
	}
	attrs.AcctStatusType = binary.BigEndian.Uint32(statusTypeAttr)

	// Acct-Session-Id（必須）
	attrs.AcctSessionID = rfc2866.AcctSessionID_GetString(p)
	if attrs.AcctSessionID == "" {
		return nil, ErrMissingSessionID
	}

	attrs.UserName = rfc2865.UserName_GetString(p)
	attrs.CallingStationID = rfc2865.CallingStationID_GetString(p)
	if ip := rfc2865.NASIPAddress_Get(p); ip != nil {
		attrs.NasIPAddress = ip.String()
	}
	if ip := rfc2865.FramedIPAddress_Get(p); ip != nil {
		attrs.FramedIPAddress = ip.String()
	}

	attrs.SessionTime = uint32(rfc2866.AcctSessionTime_Get(p))
	attrs.InputOctets = uint32(rfc2866.AcctInputOctets_Get(p))
	attrs.OutputOctets = uint32(rfc2866.AcctOutputOctets_Get(p))
	attrs.InputGigawords = uint32(rfc2869.AcctInputGigawords_Get(p))
	attrs.OutputGigawords = uint32(rfc2869.AcctOutputGigawords_Get(p))
	attrs.TerminateCause = uint32(rfc2866.AcctTerminateCause_Get(p))

	return attrs, nil
}
