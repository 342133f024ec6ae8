package model

import "time"

// Session はNAS上のアクティブ／終了済みセッションを表す。
// SessionIDはAcct-Session-Idそのものであり一意。StopTimeがnilの間は
// アクティブとみなす。オクテット数はgigaword再構成済みの論理64bit値。
type Session struct {
	ID             uint       `gorm:"primaryKey" json:"id"`
	SessionID      string     `gorm:"uniqueIndex;size:64;not null" json:"session_id"`
	Username       string     `gorm:"index;size:64" json:"username"`
	NasIP          string     `gorm:"size:45" json:"nas_ip"`
	FramedIP       string     `gorm:"size:45" json:"framed_ip"`
	MacAddress     string     `gorm:"size:32" json:"mac_address"`
	StartTime      time.Time  `json:"start_time"`
	UpdateTime     time.Time  `json:"update_time"`
	StopTime       *time.Time `json:"stop_time,omitempty"`
	SessionTime    int64      `gorm:"not null;default:0" json:"session_time"`
	InputOctets    int64      `gorm:"not null;default:0" json:"input_octets"`
	OutputOctets   int64      `gorm:"not null;default:0" json:"output_octets"`
	TerminateCause string     `gorm:"size:32" json:"terminate_cause,omitempty"`
}

// Active はセッションが進行中かどうかを返す。
func (s *Session) Active() bool {
	return s.StopTime == nil
}
