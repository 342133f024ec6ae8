// Package acct はAccounting-Requestの処理（セッション更新とログ追記）を提供する。
package acct

import (
	"context"

	radiuspkg "github.com/oyaguma3/ppp-radius-server/internal/radius"
)

// AccountingProcessor はAccounting処理のインターフェース
type AccountingProcessor interface {
	// Process はAcct-Status-Typeに応じた処理を行う。
	// エラーを返した場合も呼び出し側はAccounting-Responseを返す。
	Process(ctx context.Context, attrs *radiuspkg.AccountingAttributes, srcIP, traceID string) error
}
