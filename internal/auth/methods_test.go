package auth

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"testing"

	"go.uber.org/mock/gomock"
	"layeh.com/radius"
	"layeh.com/radius/rfc2759"
	"layeh.com/radius/rfc2865"
	"layeh.com/radius/vendors/microsoft"

	"github.com/oyaguma3/ppp-radius-server/internal/mocks"
	"github.com/oyaguma3/ppp-radius-server/internal/model"
	"github.com/oyaguma3/ppp-radius-server/internal/mschap"
	radiuspkg "github.com/oyaguma3/ppp-radius-server/internal/radius"
)

func mustHex(t *testing.T, s string) []byte {
	t.Helper()
	b, err := hex.DecodeString(s)
	if err != nil {
		t.Fatalf("hex: %v", err)
	}
	return b
}

func chapPacket(t *testing.T, username, password string, withChallenge bool) *radius.Packet {
	t.Helper()
	p := radius.New(radius.CodeAccessRequest, []byte("xyzzy"))

	var challenge []byte
	if withChallenge {
		challenge = make([]byte, 16)
		for i := range challenge {
			challenge[i] = 0xAA
		}
		rfc2865.CHAPChallenge_Set(p, challenge)
	} else {
		// CHAP-Challenge省略時はRequest Authenticatorがチャレンジになる
		challenge = p.Authenticator[:]
	}

	const ident = 0x07
	h := md5.New()
	h.Write([]byte{ident})
	h.Write([]byte(password))
	h.Write(challenge)
	chapPassword := append([]byte{ident}, h.Sum(nil)...)
	rfc2865.CHAPPassword_Set(p, chapPassword)
	rfc2865.UserName_SetString(p, username)
	return p
}

func TestVerifyCHAP_Accept(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	users := mocks.NewMockUserStore(ctrl)
	profiles := mocks.NewMockProfileStore(ctrl)
	users.EXPECT().FindByUsername(gomock.Any(), "alice").Return(activeUser("wonderland"), nil)
	profiles.EXPECT().FindByName(gomock.Any(), "default").Return(&model.Profile{Name: "default"}, nil)

	a := NewAuthenticator(users, profiles)
	result, err := a.Process(context.Background(), newRequest(t, chapPacket(t, "alice", "wonderland", true)))
	if err != nil {
		t.Fatalf("予期しないエラー: %v", err)
	}
	if !result.Accept || result.Method != MethodCHAP {
		t.Errorf("result = %+v", result)
	}
}

func TestVerifyCHAP_ChallengeFallback(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	users := mocks.NewMockUserStore(ctrl)
	profiles := mocks.NewMockProfileStore(ctrl)
	users.EXPECT().FindByUsername(gomock.Any(), "alice").Return(activeUser("wonderland"), nil)
	profiles.EXPECT().FindByName(gomock.Any(), "default").Return(&model.Profile{Name: "default"}, nil)

	a := NewAuthenticator(users, profiles)
	result, err := a.Process(context.Background(), newRequest(t, chapPacket(t, "alice", "wonderland", false)))
	if err != nil {
		t.Fatalf("予期しないエラー: %v", err)
	}
	if !result.Accept {
		t.Errorf("Request Authenticatorフォールバックで失敗: %q", result.Reason)
	}
}

func TestVerifyCHAP_WrongPassword(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	users := mocks.NewMockUserStore(ctrl)
	profiles := mocks.NewMockProfileStore(ctrl)
	users.EXPECT().FindByUsername(gomock.Any(), "alice").Return(activeUser("rabbit"), nil)

	a := NewAuthenticator(users, profiles)
	result, err := a.Process(context.Background(), newRequest(t, chapPacket(t, "alice", "wonderland", true)))
	if err != nil {
		t.Fatalf("予期しないエラー: %v", err)
	}
	if result.Accept {
		t.Error("誤ったパスワードでAcceptされた")
	}
}

// RFC 2759 9.2のベクターでMS-CHAPv2のAccept経路を検証する
func TestVerifyMSCHAPv2_Accept(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	authChallenge := mustHex(t, "5B5D7C7D7B3F2F3E3C2C602132262628")
	peerChallenge := mustHex(t, "21402324255E262A28295F2B3A337C7E")
	ntResponse := mustHex(t, "82309ECD8D708B5EA08FAA3981CD83544233114A3D85D6DF")

	// ident(1) flags(1) peer-challenge(16) reserved(8) nt-response(24)
	response := make([]byte, 50)
	response[0] = 0x01
	copy(response[2:18], peerChallenge)
	copy(response[26:50], ntResponse)

	p := radius.New(radius.CodeAccessRequest, []byte("xyzzy"))
	rfc2865.UserName_SetString(p, "User")
	microsoft.MSCHAPChallenge_Set(p, authChallenge)
	microsoft.MSCHAP2Response_Set(p, response)

	users := mocks.NewMockUserStore(ctrl)
	profiles := mocks.NewMockProfileStore(ctrl)
	users.EXPECT().FindByUsername(gomock.Any(), "User").
		Return(&model.User{Username: "User", Password: "clientPass", IsActive: true, Profile: "default"}, nil)
	profiles.EXPECT().FindByName(gomock.Any(), "default").Return(&model.Profile{Name: "default"}, nil)

	a := NewAuthenticator(users, profiles)
	result, err := a.Process(context.Background(), newRequest(t, p))
	if err != nil {
		t.Fatalf("予期しないエラー: %v", err)
	}
	if !result.Accept || result.Method != MethodMSCHAPv2 {
		t.Fatalf("result = %+v", result)
	}

	if result.Success == nil {
		t.Fatal("Successが設定されていない")
	}
	want := "S=407A5589115FD0D6209F510FE9C04566932CDA56"
	if result.Success.Payload[0] != 0x01 {
		t.Errorf("ident = %#x", result.Success.Payload[0])
	}
	if got := string(result.Success.Payload[1:]); got != want {
		t.Errorf("Payload = %q, want %q", got, want)
	}
	if len(result.Success.RecvKey) == 0 || len(result.Success.SendKey) == 0 {
		t.Error("MPPE鍵が導出されていない")
	}
}

func TestVerifyMSCHAPv2_WrongPassword(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	authChallenge := mustHex(t, "5B5D7C7D7B3F2F3E3C2C602132262628")
	peerChallenge := mustHex(t, "21402324255E262A28295F2B3A337C7E")
	ntResponse, err := rfc2759.GenerateNTResponse(authChallenge, peerChallenge, []byte("User"), []byte("wrongPass"))
	if err != nil {
		t.Fatalf("nt response: %v", err)
	}

	response := make([]byte, 50)
	copy(response[2:18], peerChallenge)
	copy(response[26:50], ntResponse)

	p := radius.New(radius.CodeAccessRequest, []byte("xyzzy"))
	rfc2865.UserName_SetString(p, "User")
	microsoft.MSCHAPChallenge_Set(p, authChallenge)
	microsoft.MSCHAP2Response_Set(p, response)

	users := mocks.NewMockUserStore(ctrl)
	profiles := mocks.NewMockProfileStore(ctrl)
	users.EXPECT().FindByUsername(gomock.Any(), "User").
		Return(&model.User{Username: "User", Password: "clientPass", IsActive: true}, nil)

	a := NewAuthenticator(users, profiles)
	result, err := a.Process(context.Background(), newRequest(t, p))
	if err != nil {
		t.Fatalf("予期しないエラー: %v", err)
	}
	if result.Accept {
		t.Error("誤ったパスワードでAcceptされた")
	}
	if result.Success != nil {
		t.Error("Reject時にSuccessが設定されている")
	}
}

func TestVerifyMSCHAP_Accept(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	challenge := mustHex(t, "102DB5DF085D3041")
	ntResponse, err := mschap.NTResponseV1(challenge, "clientPass")
	if err != nil {
		t.Fatalf("nt response: %v", err)
	}

	// ident(1) flags(1) lm-response(24) nt-response(24)
	response := make([]byte, 50)
	response[1] = 0x01 // Use-NT-Response
	copy(response[26:50], ntResponse)

	p := radius.New(radius.CodeAccessRequest, []byte("xyzzy"))
	rfc2865.UserName_SetString(p, "User")
	microsoft.MSCHAPChallenge_Set(p, challenge)
	microsoft.MSCHAPResponse_Set(p, response)

	users := mocks.NewMockUserStore(ctrl)
	profiles := mocks.NewMockProfileStore(ctrl)
	users.EXPECT().FindByUsername(gomock.Any(), "User").
		Return(&model.User{Username: "User", Password: "clientPass", IsActive: true, Profile: "default"}, nil)
	profiles.EXPECT().FindByName(gomock.Any(), "default").Return(&model.Profile{Name: "default"}, nil)

	a := NewAuthenticator(users, profiles)
	result, err := a.Process(context.Background(), newRequest(t, p))
	if err != nil {
		t.Fatalf("予期しないエラー: %v", err)
	}
	if !result.Accept || result.Method != MethodMSCHAP {
		t.Errorf("result = %+v", result)
	}
}

func TestVerifyMSCHAP_MalformedResponse(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	p := radius.New(radius.CodeAccessRequest, []byte("xyzzy"))
	rfc2865.UserName_SetString(p, "User")
	microsoft.MSCHAPChallenge_Set(p, make([]byte, 8))
	// 不正長（固定長50バイトのセッタは拒否するため、VSAを直接組み立てる）
	radiuspkg.AddVSA(p, radiuspkg.VendorMicrosoft, radiuspkg.MSCHAPResponseType, make([]byte, 10))

	users := mocks.NewMockUserStore(ctrl)
	profiles := mocks.NewMockProfileStore(ctrl)
	users.EXPECT().FindByUsername(gomock.Any(), "User").
		Return(&model.User{Username: "User", Password: "clientPass", IsActive: true}, nil)

	a := NewAuthenticator(users, profiles)
	result, err := a.Process(context.Background(), newRequest(t, p))
	if err != nil {
		t.Fatalf("予期しないエラー: %v", err)
	}
	if result.Accept {
		t.Error("不正長の応答でAcceptされた")
	}
	if result.Reason != "malformed MS-CHAP-Response" {
		t.Errorf("Reason = %q", result.Reason)
	}
}
