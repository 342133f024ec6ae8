package model

import "time"

// AccountingRecord はAccounting-Request 1件ごとの追記専用ログ行を表す。
// 更新されることはなく、統計の集計元として保持する。
type AccountingRecord struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	SessionID    string    `gorm:"index;size:64" json:"session_id"`
	Username     string    `gorm:"index;size:64" json:"username"`
	StatusType   uint32    `gorm:"not null" json:"status_type"`
	NasIP        string    `gorm:"size:45" json:"nas_ip"`
	FramedIP     string    `gorm:"size:45" json:"framed_ip"`
	SessionTime  int64     `gorm:"not null;default:0" json:"session_time"`
	InputOctets  int64     `gorm:"not null;default:0" json:"input_octets"`
	OutputOctets int64     `gorm:"not null;default:0" json:"output_octets"`
	CreatedAt    time.Time `gorm:"index" json:"created_at"`
}
