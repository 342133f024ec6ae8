package server

import (
	"crypto/md5"
	"net"
	"testing"

	"go.uber.org/mock/gomock"
	"layeh.com/radius"
	"layeh.com/radius/rfc2865"
	"layeh.com/radius/rfc2866"

	"github.com/oyaguma3/ppp-radius-server/internal/acct"
	"github.com/oyaguma3/ppp-radius-server/internal/auth"
	"github.com/oyaguma3/ppp-radius-server/internal/mocks"
	"github.com/oyaguma3/ppp-radius-server/internal/model"
	"github.com/oyaguma3/ppp-radius-server/internal/store"
)

// captureWriter は応答パケットを捕捉するradius.ResponseWriter
type captureWriter struct {
	resp *radius.Packet
}

func (w *captureWriter) Write(p *radius.Packet) error {
	w.resp = p
	return nil
}

func testRequest(p *radius.Packet) *radius.Request {
	return &radius.Request{
		RemoteAddr: &net.UDPAddr{IP: net.ParseIP("192.168.1.1"), Port: 50000},
		Packet:     p,
	}
}

// 仕様シナリオ1/2: PAPのAccept/Reject
func TestAuthHandler_PAP(t *testing.T) {
	tests := []struct {
		name     string
		password string
		want     radius.Code
	}{
		{"accept", "wonderland", radius.CodeAccessAccept},
		{"reject", "rabbit", radius.CodeAccessReject},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			users := mocks.NewMockUserStore(ctrl)
			profiles := mocks.NewMockProfileStore(ctrl)
			users.EXPECT().FindByUsername(gomock.Any(), "alice").
				Return(&model.User{Username: "alice", Password: "wonderland", IsActive: true, Profile: "default"}, nil)
			if tt.want == radius.CodeAccessAccept {
				profiles.EXPECT().FindByName(gomock.Any(), "default").
					Return(&model.Profile{Name: "default"}, nil)
			}

			p := radius.New(radius.CodeAccessRequest, []byte("xyzzy"))
			for i := 0; i < 16; i++ {
				p.Authenticator[i] = byte(i + 1)
			}
			rfc2865.UserName_SetString(p, "alice")
			rfc2865.UserPassword_SetString(p, tt.password)

			h := NewAuthHandler(auth.NewAuthenticator(users, profiles))
			w := &captureWriter{}
			h.ServeRADIUS(w, testRequest(p))

			if w.resp == nil {
				t.Fatal("応答が送信されていない")
			}
			if w.resp.Code != tt.want {
				t.Errorf("Code = %v, want %v", w.resp.Code, tt.want)
			}
			if w.resp.Identifier != p.Identifier {
				t.Errorf("Identifier = %d, want %d", w.resp.Identifier, p.Identifier)
			}
		})
	}
}

func TestAuthHandler_MissingUserNameDropped(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	users := mocks.NewMockUserStore(ctrl)
	profiles := mocks.NewMockProfileStore(ctrl)

	p := radius.New(radius.CodeAccessRequest, []byte("xyzzy"))
	rfc2865.UserPassword_SetString(p, "whatever")

	h := NewAuthHandler(auth.NewAuthenticator(users, profiles))
	w := &captureWriter{}
	h.ServeRADIUS(w, testRequest(p))

	if w.resp != nil {
		t.Error("User-Nameなしのパケットに応答してしまった")
	}
}

func TestAuthHandler_NonAccessRequestDropped(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	users := mocks.NewMockUserStore(ctrl)
	profiles := mocks.NewMockProfileStore(ctrl)

	p := radius.New(radius.CodeStatusServer, []byte("xyzzy"))

	h := NewAuthHandler(auth.NewAuthenticator(users, profiles))
	w := &captureWriter{}
	h.ServeRADIUS(w, testRequest(p))

	if w.resp != nil {
		t.Error("Access-Request以外に応答してしまった")
	}
}

// signAcct はRFC 2866のRequest Authenticatorを計算して設定する
func signAcct(t *testing.T, p *radius.Packet, secret []byte) {
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

func newAcctProcessor(t *testing.T) (*acct.Processor, *mocks.MockUserStore, *mocks.MockSessionStore, *mocks.MockAccountingStore) {
	t.Helper()
	ctrl := gomock.NewController(t)
	users := mocks.NewMockUserStore(ctrl)
	sessions := mocks.NewMockSessionStore(ctrl)
	records := mocks.NewMockAccountingStore(ctrl)
	return acct.NewProcessor(users, sessions, records), users, sessions, records
}

func TestAcctHandler_StartAcked(t *testing.T) {
	processor, users, sessions, records := newAcctProcessor(t)

	secret := []byte("xyzzy")
	p := radius.New(radius.CodeAccountingRequest, secret)
	rfc2866.AcctStatusType_Set(p, rfc2866.AcctStatusType_Value_Start)
	rfc2866.AcctSessionID_SetString(p, "S1")
	rfc2865.UserName_SetString(p, "alice")
	signAcct(t, p, secret)

	records.EXPECT().Append(gomock.Any(), gomock.Any()).Return(nil)
	users.EXPECT().FindByUsername(gomock.Any(), "alice").
		Return(&model.User{Username: "alice"}, nil)
	sessions.EXPECT().Start(gomock.Any(), gomock.Any()).Return(nil)

	h := NewAcctHandler(processor)
	w := &captureWriter{}
	h.ServeRADIUS(w, testRequest(p))

	if w.resp == nil {
		t.Fatal("Accounting-Responseが送信されていない")
	}
	if w.resp.Code != radius.CodeAccountingResponse {
		t.Errorf("Code = %v", w.resp.Code)
	}
	if w.resp.Identifier != p.Identifier {
		t.Errorf("Identifier = %d, want %d", w.resp.Identifier, p.Identifier)
	}
}

func TestAcctHandler_StoreErrorStillAcked(t *testing.T) {
	processor, _, sessions, records := newAcctProcessor(t)

	secret := []byte("xyzzy")
	p := radius.New(radius.CodeAccountingRequest, secret)
	rfc2866.AcctStatusType_Set(p, rfc2866.AcctStatusType_Value_InterimUpdate)
	rfc2866.AcctSessionID_SetString(p, "S1")
	signAcct(t, p, secret)

	records.EXPECT().Append(gomock.Any(), gomock.Any()).Return(nil)
	sessions.EXPECT().UpdateInterim(gomock.Any(), gomock.Any()).Return(store.ErrNotFound)

	h := NewAcctHandler(processor)
	w := &captureWriter{}
	h.ServeRADIUS(w, testRequest(p))

	if w.resp == nil || w.resp.Code != radius.CodeAccountingResponse {
		t.Error("ストア障害でもAckを返すこと")
	}
}

func TestAcctHandler_BadAuthenticatorDropped(t *testing.T) {
	processor, _, _, _ := newAcctProcessor(t)

	secret := []byte("xyzzy")
	p := radius.New(radius.CodeAccountingRequest, secret)
	rfc2866.AcctStatusType_Set(p, rfc2866.AcctStatusType_Value_Start)
	rfc2866.AcctSessionID_SetString(p, "S1")
	// Authenticator未署名（radius.Newのランダム値のまま）

	h := NewAcctHandler(processor)
	w := &captureWriter{}
	h.ServeRADIUS(w, testRequest(p))

	if w.resp != nil {
		t.Error("Authenticator不正のパケットに応答してしまった")
	}
}

func TestAcctHandler_MissingSessionIDDropped(t *testing.T) {
	processor, _, _, _ := newAcctProcessor(t)

	secret := []byte("xyzzy")
	p := radius.New(radius.CodeAccountingRequest, secret)
	rfc2866.AcctStatusType_Set(p, rfc2866.AcctStatusType_Value_Start)
	signAcct(t, p, secret)

	h := NewAcctHandler(processor)
	w := &captureWriter{}
	h.ServeRADIUS(w, testRequest(p))

	if w.resp != nil {
		t.Error("Acct-Session-Idなしのパケットに応答してしまった")
	}
}
