package radius

import (
	"github.com/oyaguma3/ppp-radius-server/internal/model"
	"layeh.com/radius"
	"layeh.com/radius/rfc2865"
	"layeh.com/radius/vendors/microsoft"
)

// MSCHAPv2Success はMS-CHAPv2成功時にAccess-Acceptへ載せる素材を表す
type MSCHAPv2Success struct {
	Payload []byte // MS-CHAP2-Success: ident || "S=" || 大文字16進40文字
	RecvKey []byte // MS-MPPE-Recv-Key（平文、暗号化はエンコーダ側）
	SendKey []byte // MS-MPPE-Send-Key
}

// BuildAccessAccept はAccess-Acceptパケットを生成する（RFC 2865）。
// プロファイルがdefault以外の場合はFilter-IdとMikrotik-Groupを、
// session_timeout/rate_limit設定時は対応属性を付与する。
// successが非nilならMS-CHAP2-SuccessとMS-MPPE鍵のVSAを載せる。
// Response Authenticatorはgo-radiusライブラリのEncode()が自動計算する。
func BuildAccessAccept(request *radius.Packet, username string, profile *model.Profile, success *MSCHAPv2Success) (*radius.Packet, error) {
	response := request.Response(radius.CodeAccessAccept)

	if err := rfc2865.UserName_AddString(response, username); err != nil {
		return nil, err
	}

	if profile != nil {
		if profile.Name != model.DefaultProfileName {
			if err := rfc2865.FilterID_AddString(response, profile.Name); err != nil {
				return nil, err
			}
			if err := AddMikrotikGroup(response, profile.Name); err != nil {
				return nil, err
			}
		}
		if profile.SessionTimeout > 0 {
			if err := rfc2865.SessionTimeout_Add(response, rfc2865.SessionTimeout(profile.SessionTimeout)); err != nil {
				return nil, err
			}
		}
		if profile.IdleTimeout > 0 {
			if err := rfc2865.IdleTimeout_Add(response, rfc2865.IdleTimeout(profile.IdleTimeout)); err != nil {
				return nil, err
			}
		}
		if profile.RateLimit != "" {
			if err := AddMikrotikRateLimit(response, profile.RateLimit); err != nil {
				return nil, err
			}
		}
	}

	if success != nil {
		if err := microsoft.MSCHAP2Success_Add(response, success.Payload); err != nil {
			return nil, err
		}
		if len(success.RecvKey) > 0 && len(success.SendKey) > 0 {
			if err := microsoft.MSMPPERecvKey_Add(response, success.RecvKey); err != nil {
				return nil, err
			}
			if err := microsoft.MSMPPESendKey_Add(response, success.SendKey); err != nil {
				return nil, err
			}
			if err := microsoft.MSMPPEEncryptionPolicy_Add(response, microsoft.MSMPPEEncryptionPolicy_Value_EncryptionAllowed); err != nil {
				return nil, err
			}
			if err := microsoft.MSMPPEEncryptionTypes_Add(response, microsoft.MSMPPEEncryptionTypes_Value_RC440or128BitAllowed); err != nil {
				return nil, err
			}
		}
	}

	return response, nil
}

// BuildAccessReject はAccess-Rejectパケットを生成する。
// 診断情報は載せずUser-Nameのエコーのみ（拒否理由はログ側に残す）。
func BuildAccessReject(request *radius.Packet, username string) *radius.Packet {
	response := request.Response(radius.CodeAccessReject)
	_ = rfc2865.UserName_AddString(response, username)
	return response
}

// BuildAccountingResponse はAccounting-Responseパケットを生成する（RFC 2866）。
// Response Authenticatorはgo-radiusライブラリのEncode()が自動計算する。
func BuildAccountingResponse(request *radius.Packet) *radius.Packet {
	return request.Response(radius.CodeAccountingResponse)
}
