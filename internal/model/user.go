// Package model はDBに永続化するドメインモデルを定義する。
package model

import "time"

// User はRADIUS認証対象の加入者アカウントを表す。
// PasswordはMS-CHAP系の検証でNT-Hash再計算が必要なため平文で保持する
// （管理者アカウントとは異なりbcrypt化できない）。
type User struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	Username  string     `gorm:"uniqueIndex;size:64;not null" json:"username"`
	Password  string     `gorm:"size:128;not null" json:"-"`
	IsActive  bool       `gorm:"not null;default:true" json:"is_active"`
	Profile   string     `gorm:"size:64;not null;default:'default'" json:"profile"`
	ExpiredAt *time.Time `json:"expired_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// Expired は現在時刻nowにおいてアカウントが期限切れかどうかを返す。
// ExpiredAt未設定の場合は常にfalse。
func (u *User) Expired(now time.Time) bool {
	return u.ExpiredAt != nil && u.ExpiredAt.Before(now)
}
