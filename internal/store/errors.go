package store

import "errors"

var (
	// ErrNotFound は対象行が存在しない場合のエラー
	ErrNotFound = errors.New("record not found")

	// ErrDuplicate は一意制約違反のエラー
	ErrDuplicate = errors.New("duplicate record")
)
