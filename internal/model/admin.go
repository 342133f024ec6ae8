package model

import "time"

// Admin は管理APIのログインアカウントを表す。
// RADIUS認証には関与しないためパスワードはbcryptハッシュで保持する。
type Admin struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	Username     string    `gorm:"uniqueIndex;size:64;not null" json:"username"`
	PasswordHash string    `gorm:"size:128;not null" json:"-"`
	Role         string    `gorm:"size:32;not null;default:'admin'" json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// DashboardStats はダッシュボード用の集計値を表す。
type DashboardStats struct {
	TotalUsers        int64 `json:"total_users"`
	ActiveUsers       int64 `json:"active_users"`
	TotalNas          int64 `json:"total_nas"`
	ActiveSessions    int64 `json:"active_sessions"`
	TodayInputOctets  int64 `json:"today_input_octets"`
	TodayOutputOctets int64 `json:"today_output_octets"`
}
