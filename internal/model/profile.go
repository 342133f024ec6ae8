package model

import "time"

// DefaultProfileName は初回起動時にシードされる既定プロファイル名。
const DefaultProfileName = "default"

// Profile はユーザーに紐づく帯域・タイムアウト設定を表す。
// RateLimitはベンダー書式の文字列（例: "10M/10M"）をそのまま保持する。
type Profile struct {
	ID             uint      `gorm:"primaryKey" json:"id"`
	Name           string    `gorm:"uniqueIndex;size:64;not null" json:"name"`
	RateLimit      string    `gorm:"size:64" json:"rate_limit,omitempty"`
	SessionTimeout int       `gorm:"not null;default:0" json:"session_timeout,omitempty"`
	IdleTimeout    int       `gorm:"not null;default:0" json:"idle_timeout,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}
