package auth

import (
	"context"
	"log/slog"
	"time"

	radiuspkg "github.com/oyaguma3/ppp-radius-server/internal/radius"
	"github.com/oyaguma3/ppp-radius-server/internal/store"
)

// Authenticator はProcessorインターフェースの実装。
type Authenticator struct {
	users    store.UserStore
	profiles store.ProfileStore
}

// NewAuthenticator は新しいAuthenticatorを生成する。
func NewAuthenticator(users store.UserStore, profiles store.ProfileStore) *Authenticator {
	return &Authenticator{users: users, profiles: profiles}
}

// Process はAccess-Requestを検証しAccept/Rejectを判定する。
// ストア障害はエラーとして返し、呼び出し側がRejectに変換する。
func (a *Authenticator) Process(ctx context.Context, req *Request) (*Result, error) {
	attrs := req.Attrs

	// 1. 認証方式選択（最初に一致した方式を使う）
	method := selectMethod(attrs)
	if method == MethodNone {
		return reject(method, "no supported method"), nil
	}

	// 2. ユーザー検索と状態チェック
	user, err := a.users.FindByUsername(ctx, attrs.UserName)
	if err != nil {
		if err == store.ErrNotFound {
			return reject(method, "user not found"), nil
		}
		return nil, err
	}
	if !user.IsActive {
		return reject(method, "user disabled"), nil
	}
	if user.Expired(time.Now()) {
		return reject(method, "user expired"), nil
	}

	// 3. 方式ごとの検証
	var result *Result
	switch method {
	case MethodPAP:
		result = a.verifyPAP(req, user)
	case MethodCHAP:
		result = a.verifyCHAP(req, user)
	case MethodMSCHAP:
		result = a.verifyMSCHAP(req, user)
	case MethodMSCHAPv2:
		result = a.verifyMSCHAPv2(req, user)
	}

	if !result.Accept {
		return result, nil
	}

	// 4. プロファイル解決。参照先のないプロファイル名は許容し、
	// 追加属性なしのAcceptにフォールバックする。
	profile, err := a.profiles.FindByName(ctx, user.Profile)
	if err != nil {
		if err != store.ErrNotFound {
			slog.Warn("プロファイル取得失敗",
				"event_id", "DB_READ_ERR",
				"trace_id", req.TraceID,
				"profile", user.Profile,
				"error", err.Error(),
			)
		}
		profile = nil
	}
	result.Profile = profile

	return result, nil
}

// selectMethod は属性の有無から認証方式を決定する。
// 優先順: MS-CHAPv2 → MS-CHAP → CHAP → PAP。
func selectMethod(attrs *radiuspkg.AccessAttributes) Method {
	switch {
	case attrs.MSCHAPChallenge != nil && attrs.MSCHAP2Response != nil:
		return MethodMSCHAPv2
	case attrs.MSCHAPChallenge != nil && attrs.MSCHAPResponse != nil:
		return MethodMSCHAP
	case attrs.CHAPPassword != nil:
		return MethodCHAP
	case attrs.HasUserPassword:
		return MethodPAP
	default:
		return MethodNone
	}
}

func reject(method Method, reason string) *Result {
	return &Result{Accept: false, Method: method, Reason: reason}
}

func accept(method Method) *Result {
	return &Result{Accept: true, Method: method}
}
