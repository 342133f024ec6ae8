package radius

import "errors"

// 属性抽出エラー
var (
	// ErrMissingUserName はUser-Name属性がない場合のエラー
	ErrMissingUserName = errors.New("missing User-Name")
	// ErrMissingStatusType はAcct-Status-Type属性がない場合のエラー
	ErrMissingStatusType = errors.New("missing Acct-Status-Type")
	// ErrMissingSessionID はAcct-Session-Id属性がない場合のエラー
	ErrMissingSessionID = errors.New("missing Acct-Session-Id")
	// ErrShortVSA はVSAペイロードが短すぎる場合のエラー
	ErrShortVSA = errors.New("vendor-specific attribute too short")
	// ErrLongVSA はVSA値が属性長の上限を超える場合のエラー
	ErrLongVSA = errors.New("vendor-specific attribute value too long")
)
