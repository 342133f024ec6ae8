package store

import (
	"context"
	"time"

	"github.com/oyaguma3/ppp-radius-server/internal/model"
)

// UserStore は加入者データへのアクセスを定義する
type UserStore interface {
	// FindByUsername はユーザー名で検索する（未登録時はErrNotFound）
	FindByUsername(ctx context.Context, username string) (*model.User, error)
	// GetByID はIDで取得する
	GetByID(ctx context.Context, id uint) (*model.User, error)
	// List はページングと部分一致検索付きの一覧を返す
	List(ctx context.Context, offset, limit int, search string) ([]model.User, int64, error)
	// Create は新規ユーザーを登録する（重複時はErrDuplicate）
	Create(ctx context.Context, user *model.User) error
	// Update は既存ユーザーを更新する
	Update(ctx context.Context, user *model.User) error
	// Delete はユーザーを削除する
	Delete(ctx context.Context, id uint) error
	// Count は総数とアクティブ数を返す
	Count(ctx context.Context) (total, active int64, err error)
}

// NasStore はRADIUSクライアント（NAS）データへのアクセスを定義する
type NasStore interface {
	// FindActiveByIP は有効なNASをIPで検索する（未登録・無効時はErrNotFound）
	FindActiveByIP(ctx context.Context, ip string) (*model.Nas, error)
	// GetByID はIDで取得する
	GetByID(ctx context.Context, id uint) (*model.Nas, error)
	// List は登録済みNASの一覧を返す
	List(ctx context.Context) ([]model.Nas, error)
	// Create は新規NASを登録する（IP重複時はErrDuplicate）
	Create(ctx context.Context, nas *model.Nas) error
	// Update は既存NASを更新する
	Update(ctx context.Context, nas *model.Nas) error
	// Delete はNASを削除する
	Delete(ctx context.Context, id uint) error
	// Count は登録数を返す
	Count(ctx context.Context) (int64, error)
}

// ProfileStore はプロファイルデータへのアクセスを定義する
type ProfileStore interface {
	// FindByName は名前で検索する（未登録時はErrNotFound）
	FindByName(ctx context.Context, name string) (*model.Profile, error)
	// List は全プロファイルを返す
	List(ctx context.Context) ([]model.Profile, error)
	// Create は新規プロファイルを登録する（重複時はErrDuplicate）
	Create(ctx context.Context, profile *model.Profile) error
}

// SessionStopData はStop受信時の最終更新値を表す
type SessionStopData struct {
	StopTime       time.Time
	SessionTime    int64
	InputOctets    int64
	OutputOctets   int64
	TerminateCause string
}

// SessionStore はAccounting用セッションデータへのアクセスを定義する
type SessionStore interface {
	// Start はStart受信時のセッションupsertを行う。
	// 既存session_idの場合はstop_timeをクリアしstart_timeをリセットする
	Start(ctx context.Context, sess *model.Session) error
	// UpdateInterim はカウンタとsession_timeを更新する。
	// 行が存在しない場合は作成する（Start欠落の許容）
	UpdateInterim(ctx context.Context, sess *model.Session) error
	// Stop はstop_time・最終カウンタ・切断理由を記録する（重複Stopは冪等）
	Stop(ctx context.Context, sessionID string, data *SessionStopData) error
	// FindBySessionID はAcct-Session-Idで検索する
	FindBySessionID(ctx context.Context, sessionID string) (*model.Session, error)
	// ListActive はstop_time未設定のセッション一覧を返す
	ListActive(ctx context.Context) ([]model.Session, error)
	// CountActive はアクティブセッション数を返す
	CountActive(ctx context.Context) (int64, error)
}

// AccountingStore は追記専用のアカウンティングログを定義する
type AccountingStore interface {
	// Append はログ行を追記する
	Append(ctx context.Context, rec *model.AccountingRecord) error
	// List はページング付きの一覧を新しい順で返す
	List(ctx context.Context, offset, limit int) ([]model.AccountingRecord, int64, error)
	// SumOctetsSince はsince以降のログ行の入出力オクテット合計を返す
	SumOctetsSince(ctx context.Context, since time.Time) (input, output int64, err error)
}

// AdminStore は管理者アカウントへのアクセスを定義する
type AdminStore interface {
	// FindByUsername はユーザー名で検索する（未登録時はErrNotFound）
	FindByUsername(ctx context.Context, username string) (*model.Admin, error)
	// GetByID はIDで取得する
	GetByID(ctx context.Context, id uint) (*model.Admin, error)
}
