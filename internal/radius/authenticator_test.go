package radius

import (
	"crypto/md5"
	"testing"

	"layeh.com/radius"
	"layeh.com/radius/rfc2866"
)

// signAccountingRequest はRFC 2866のRequest Authenticatorを計算して設定する
func signAccountingRequest(t *testing.T, p *radius.Packet, secret []byte) {
	t.Helper()
	p.Authenticator = [16]byte{}
	data, err := p.MarshalBinary()
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	h := md5.New()
	h.Write(data)
	h.Write(secret)
	copy(p.Authenticator[:], h.Sum(nil))
}

func TestVerifyAccountingAuthenticator(t *testing.T) {
	secret := []byte("xyzzy")
	p := radius.New(radius.CodeAccountingRequest, secret)
	rfc2866.AcctStatusType_Set(p, rfc2866.AcctStatusType_Value_Start)
	rfc2866.AcctSessionID_SetString(p, "S1")
	signAccountingRequest(t, p, secret)

	if !VerifyAccountingAuthenticator(p, secret) {
		t.Error("正しいAuthenticatorが検証できない")
	}
}

func TestVerifyAccountingAuthenticator_WrongSecret(t *testing.T) {
	secret := []byte("xyzzy")
	p := radius.New(radius.CodeAccountingRequest, secret)
	rfc2866.AcctStatusType_Set(p, rfc2866.AcctStatusType_Value_Start)
	rfc2866.AcctSessionID_SetString(p, "S1")
	signAccountingRequest(t, p, secret)

	if VerifyAccountingAuthenticator(p, []byte("wrong")) {
		t.Error("誤ったSecretで検証が通ってしまった")
	}
}

func TestVerifyAccountingAuthenticator_Tampered(t *testing.T) {
	secret := []byte("xyzzy")
	p := radius.New(radius.CodeAccountingRequest, secret)
	rfc2866.AcctStatusType_Set(p, rfc2866.AcctStatusType_Value_Start)
	rfc2866.AcctSessionID_SetString(p, "S1")
	signAccountingRequest(t, p, secret)

	// 署名後に属性を改ざん
	rfc2866.AcctSessionID_SetString(p, "S2")

	if VerifyAccountingAuthenticator(p, secret) {
		t.Error("改ざんパケットで検証が通ってしまった")
	}
}
