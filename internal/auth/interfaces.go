// Package auth はAccess-Requestの認証処理（方式選択と検証）を提供する。
package auth

import (
	"context"

	"github.com/oyaguma3/ppp-radius-server/internal/model"
	radiuspkg "github.com/oyaguma3/ppp-radius-server/internal/radius"
	"layeh.com/radius"
)

// Method は認証方式を表す
type Method string

const (
	MethodPAP      Method = "pap"
	MethodCHAP     Method = "chap"
	MethodMSCHAP   Method = "mschap"
	MethodMSCHAPv2 Method = "mschapv2"
	MethodNone     Method = "none"
)

// Request は認証処理への入力を表す
type Request struct {
	TraceID string
	SrcIP   string
	Packet  *radius.Packet              // CHAPチャレンジフォールバック用にRequest Authenticatorを参照する
	Attrs   *radiuspkg.AccessAttributes // 抽出済み属性
}

// Result は認証処理の結果を表す
type Result struct {
	Accept  bool
	Method  Method
	Reason  string                     // Reject理由（ログ専用、応答には載せない）
	Profile *model.Profile             // Accept時の応答属性素材（nil可）
	Success *radiuspkg.MSCHAPv2Success // MS-CHAPv2成功時の応答素材
}

// Processor は認証処理のインターフェース
type Processor interface {
	// Process はAccess-Requestを検証しAccept/Rejectを判定する
	Process(ctx context.Context, req *Request) (*Result, error)
}
