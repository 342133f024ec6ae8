package auth

import (
	"crypto/md5"
	"crypto/subtle"

	"layeh.com/radius/rfc2759"
	"layeh.com/radius/rfc3079"

	"github.com/oyaguma3/ppp-radius-server/internal/model"
	"github.com/oyaguma3/ppp-radius-server/internal/mschap"
	radiuspkg "github.com/oyaguma3/ppp-radius-server/internal/radius"
)

// MS-CHAP-Response / MS-CHAP2-Response属性のレイアウト（RFC 2548）
const (
	mschapResponseLen  = 50 // ident(1) flags(1) LM(24) NT(24)
	mschap2ResponseLen = 50 // ident(1) flags(1) peer-challenge(16) reserved(8) NT(24)
)

// verifyPAP は復号済みUser-Passwordを保存パスワードと比較する。
func (a *Authenticator) verifyPAP(req *Request, user *model.User) *Result {
	if !req.Attrs.PasswordOK {
		// 復号失敗は検証失敗として扱う
		return reject(MethodPAP, "User-Password decrypt failed")
	}
	if subtle.ConstantTimeCompare([]byte(req.Attrs.UserPassword), []byte(user.Password)) != 1 {
		return reject(MethodPAP, "password mismatch")
	}
	return accept(MethodPAP)
}

// verifyCHAP はMD5(CHAP-Id || 平文パスワード || チャレンジ)を照合する（RFC 1994）。
// CHAP-Challenge属性がない場合はRequest Authenticatorをチャレンジとして
// 使う（RFC 2865 5.3）。
func (a *Authenticator) verifyCHAP(req *Request, user *model.User) *Result {
	chapPassword := req.Attrs.CHAPPassword
	if len(chapPassword) != 17 {
		return reject(MethodCHAP, "malformed CHAP-Password")
	}

	challenge := req.Attrs.CHAPChallenge
	if len(challenge) == 0 {
		challenge = req.Packet.Authenticator[:]
	}

	h := md5.New()
	h.Write(chapPassword[:1]) // CHAP-Id
	h.Write([]byte(user.Password))
	h.Write(challenge)

	if subtle.ConstantTimeCompare(h.Sum(nil), chapPassword[1:]) != 1 {
		return reject(MethodCHAP, "CHAP response mismatch")
	}
	return accept(MethodCHAP)
}

// verifyMSCHAP はMS-CHAP（v1）のNT-Responseを照合する（RFC 2433）。
// LM-Responseは検証しない。
func (a *Authenticator) verifyMSCHAP(req *Request, user *model.User) *Result {
	response := req.Attrs.MSCHAPResponse
	if len(response) != mschapResponseLen {
		return reject(MethodMSCHAP, "malformed MS-CHAP-Response")
	}
	challenge := req.Attrs.MSCHAPChallenge
	if len(challenge) != 8 {
		return reject(MethodMSCHAP, "malformed MS-CHAP-Challenge")
	}

	expected, err := mschap.NTResponseV1(challenge, user.Password)
	if err != nil {
		return reject(MethodMSCHAP, "NT-Response computation failed")
	}
	if subtle.ConstantTimeCompare(expected, response[26:50]) != 1 {
		return reject(MethodMSCHAP, "NT-Response mismatch")
	}
	return accept(MethodMSCHAP)
}

// verifyMSCHAPv2 はMS-CHAPv2のNT-Responseを照合し、成功時は
// MS-CHAP2-SuccessのAuthenticator ResponseとMS-MPPE鍵を計算する（RFC 2759/3079）。
func (a *Authenticator) verifyMSCHAPv2(req *Request, user *model.User) *Result {
	response := req.Attrs.MSCHAP2Response
	if len(response) != mschap2ResponseLen {
		return reject(MethodMSCHAPv2, "malformed MS-CHAP2-Response")
	}
	authChallenge := req.Attrs.MSCHAPChallenge
	if len(authChallenge) != 16 {
		return reject(MethodMSCHAPv2, "malformed MS-CHAP-Challenge")
	}

	ident := response[0]
	peerChallenge := response[2:18]
	ntResponse := response[26:50]
	username := []byte(req.Attrs.UserName)
	password := []byte(user.Password)

	expected, err := rfc2759.GenerateNTResponse(authChallenge, peerChallenge, username, password)
	if err != nil {
		return reject(MethodMSCHAPv2, "NT-Response computation failed")
	}
	if subtle.ConstantTimeCompare(expected, ntResponse) != 1 {
		return reject(MethodMSCHAPv2, "NT-Response mismatch")
	}

	// MS-CHAP2-Success: ident || "S=<Authenticator Response>"
	authResp, err := rfc2759.GenerateAuthenticatorResponse(authChallenge, peerChallenge, ntResponse, username, password)
	if err != nil {
		return reject(MethodMSCHAPv2, "authenticator response computation failed")
	}
	payload := make([]byte, len(authResp)+1)
	payload[0] = ident
	copy(payload[1:], authResp)

	// MPPEセッション鍵（RFC 3079）
	recvKey, err := rfc3079.MakeKey(ntResponse, password, false)
	if err != nil {
		return reject(MethodMSCHAPv2, "MPPE key derivation failed")
	}
	sendKey, err := rfc3079.MakeKey(ntResponse, password, true)
	if err != nil {
		return reject(MethodMSCHAPv2, "MPPE key derivation failed")
	}

	result := accept(MethodMSCHAPv2)
	result.Success = &radiuspkg.MSCHAPv2Success{
		Payload: payload,
		RecvKey: recvKey,
		SendKey: sendKey,
	}
	return result
}
