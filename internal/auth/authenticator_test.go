package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/mock/gomock"
	"layeh.com/radius"
	"layeh.com/radius/rfc2865"
	"layeh.com/radius/vendors/microsoft"

	"github.com/oyaguma3/ppp-radius-server/internal/mocks"
	"github.com/oyaguma3/ppp-radius-server/internal/model"
	radiuspkg "github.com/oyaguma3/ppp-radius-server/internal/radius"
	"github.com/oyaguma3/ppp-radius-server/internal/store"
)

// newRequest は抽出済み属性付きのRequestを組み立てる
func newRequest(t *testing.T, p *radius.Packet) *Request {
	t.Helper()
	attrs, err := radiuspkg.ExtractAccessAttributes(p)
	if err != nil {
		t.Fatalf("extract: %v", err)
	}
	return &Request{
		TraceID: "test-trace",
		SrcIP:   "192.168.1.1",
		Packet:  p,
		Attrs:   attrs,
	}
}

// papPacket はRequest Authenticator 0x0102...10のPAPリクエストを作る
func papPacket(t *testing.T, username, password string) *radius.Packet {
	t.Helper()
	p := radius.New(radius.CodeAccessRequest, []byte("xyzzy"))
	for i := 0; i < 16; i++ {
		p.Authenticator[i] = byte(i + 1)
	}
	rfc2865.UserName_SetString(p, username)
	rfc2865.UserPassword_SetString(p, password)
	return p
}

func activeUser(password string) *model.User {
	return &model.User{ID: 1, Username: "alice", Password: password, IsActive: true, Profile: "default"}
}

func TestProcess_PAPAccept(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	users := mocks.NewMockUserStore(ctrl)
	profiles := mocks.NewMockProfileStore(ctrl)
	users.EXPECT().FindByUsername(gomock.Any(), "alice").Return(activeUser("wonderland"), nil)
	profiles.EXPECT().FindByName(gomock.Any(), "default").
		Return(&model.Profile{Name: model.DefaultProfileName}, nil)

	a := NewAuthenticator(users, profiles)
	result, err := a.Process(context.Background(), newRequest(t, papPacket(t, "alice", "wonderland")))
	if err != nil {
		t.Fatalf("予期しないエラー: %v", err)
	}
	if !result.Accept {
		t.Fatalf("Accept = false, reason = %q", result.Reason)
	}
	if result.Method != MethodPAP {
		t.Errorf("Method = %q, want pap", result.Method)
	}
	if result.Profile == nil || result.Profile.Name != model.DefaultProfileName {
		t.Errorf("Profile = %+v", result.Profile)
	}
}

func TestProcess_PAPReject_WrongPassword(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	users := mocks.NewMockUserStore(ctrl)
	profiles := mocks.NewMockProfileStore(ctrl)
	users.EXPECT().FindByUsername(gomock.Any(), "alice").Return(activeUser("wonderland"), nil)

	a := NewAuthenticator(users, profiles)
	result, err := a.Process(context.Background(), newRequest(t, papPacket(t, "alice", "rabbit")))
	if err != nil {
		t.Fatalf("予期しないエラー: %v", err)
	}
	if result.Accept {
		t.Error("誤ったパスワードでAcceptされた")
	}
	if result.Reason != "password mismatch" {
		t.Errorf("Reason = %q", result.Reason)
	}
}

func TestProcess_UserChecks(t *testing.T) {
	expired := time.Now().Add(-time.Hour)

	tests := []struct {
		name   string
		user   *model.User
		err    error
		reason string
	}{
		{"unknown user", nil, store.ErrNotFound, "user not found"},
		{"disabled user", &model.User{Username: "alice", Password: "wonderland", IsActive: false}, nil, "user disabled"},
		{"expired user", &model.User{Username: "alice", Password: "wonderland", IsActive: true, ExpiredAt: &expired}, nil, "user expired"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			users := mocks.NewMockUserStore(ctrl)
			profiles := mocks.NewMockProfileStore(ctrl)
			users.EXPECT().FindByUsername(gomock.Any(), "alice").Return(tt.user, tt.err)

			a := NewAuthenticator(users, profiles)
			result, err := a.Process(context.Background(), newRequest(t, papPacket(t, "alice", "wonderland")))
			if err != nil {
				t.Fatalf("予期しないエラー: %v", err)
			}
			if result.Accept {
				t.Error("Acceptされてしまった")
			}
			if result.Reason != tt.reason {
				t.Errorf("Reason = %q, want %q", result.Reason, tt.reason)
			}
		})
	}
}

func TestProcess_StoreError(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	users := mocks.NewMockUserStore(ctrl)
	profiles := mocks.NewMockProfileStore(ctrl)
	users.EXPECT().FindByUsername(gomock.Any(), "alice").Return(nil, errors.New("db locked"))

	a := NewAuthenticator(users, profiles)
	if _, err := a.Process(context.Background(), newRequest(t, papPacket(t, "alice", "wonderland"))); err == nil {
		t.Error("ストア障害がエラーとして伝搬しない")
	}
}

func TestProcess_NoSupportedMethod(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	users := mocks.NewMockUserStore(ctrl)
	profiles := mocks.NewMockProfileStore(ctrl)

	p := radius.New(radius.CodeAccessRequest, []byte("xyzzy"))
	rfc2865.UserName_SetString(p, "alice")

	a := NewAuthenticator(users, profiles)
	result, err := a.Process(context.Background(), newRequest(t, p))
	if err != nil {
		t.Fatalf("予期しないエラー: %v", err)
	}
	if result.Accept || result.Method != MethodNone {
		t.Errorf("result = %+v", result)
	}
	if result.Reason != "no supported method" {
		t.Errorf("Reason = %q", result.Reason)
	}
}

func TestProcess_DanglingProfile(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	users := mocks.NewMockUserStore(ctrl)
	profiles := mocks.NewMockProfileStore(ctrl)
	user := activeUser("wonderland")
	user.Profile = "ghost"
	users.EXPECT().FindByUsername(gomock.Any(), "alice").Return(user, nil)
	profiles.EXPECT().FindByName(gomock.Any(), "ghost").Return(nil, store.ErrNotFound)

	a := NewAuthenticator(users, profiles)
	result, err := a.Process(context.Background(), newRequest(t, papPacket(t, "alice", "wonderland")))
	if err != nil {
		t.Fatalf("予期しないエラー: %v", err)
	}
	if !result.Accept {
		t.Fatalf("Accept = false: %q", result.Reason)
	}
	if result.Profile != nil {
		t.Errorf("参照先のないプロファイルはnilになること: %+v", result.Profile)
	}
}

func TestSelectMethod_Order(t *testing.T) {
	chal := make([]byte, 16)
	tests := []struct {
		name  string
		attrs *radiuspkg.AccessAttributes
		want  Method
	}{
		{"mschapv2 wins over all", &radiuspkg.AccessAttributes{
			MSCHAPChallenge: chal, MSCHAP2Response: make([]byte, 50),
			MSCHAPResponse: make([]byte, 50), CHAPPassword: make([]byte, 17), HasUserPassword: true,
		}, MethodMSCHAPv2},
		{"mschap before chap", &radiuspkg.AccessAttributes{
			MSCHAPChallenge: chal[:8], MSCHAPResponse: make([]byte, 50), CHAPPassword: make([]byte, 17),
		}, MethodMSCHAP},
		{"chap before pap", &radiuspkg.AccessAttributes{
			CHAPPassword: make([]byte, 17), HasUserPassword: true,
		}, MethodCHAP},
		{"pap", &radiuspkg.AccessAttributes{HasUserPassword: true}, MethodPAP},
		{"challenge without response is not mschap", &radiuspkg.AccessAttributes{
			MSCHAPChallenge: chal, HasUserPassword: true,
		}, MethodPAP},
		{"none", &radiuspkg.AccessAttributes{}, MethodNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := selectMethod(tt.attrs); got != tt.want {
				t.Errorf("selectMethod = %q, want %q", got, tt.want)
			}
		})
	}
}

// rfc2548のVSAセッタが載せた属性が方式選択まで通ることの確認
func TestSelectMethod_FromPacket(t *testing.T) {
	p := radius.New(radius.CodeAccessRequest, []byte("xyzzy"))
	rfc2865.UserName_SetString(p, "User")
	microsoft.MSCHAPChallenge_Set(p, make([]byte, 16))
	microsoft.MSCHAP2Response_Set(p, make([]byte, 50))

	req := newRequest(t, p)
	if got := selectMethod(req.Attrs); got != MethodMSCHAPv2 {
		t.Errorf("selectMethod = %q, want mschapv2", got)
	}
}
