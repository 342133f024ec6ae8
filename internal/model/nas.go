package model

import "time"

// Nas はRADIUSクライアント（NAS）の登録情報を表す。
// IPAddressで一意に識別し、無効化されたNASは未登録と同じ扱いになる。
type Nas struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	IPAddress  string    `gorm:"uniqueIndex;size:45;not null" json:"ip_address"`
	Secret     string    `gorm:"size:128;not null" json:"-"`
	Name       string    `gorm:"size:64" json:"name"`
	VendorType string    `gorm:"size:32;not null;default:'mikrotik'" json:"vendor_type"`
	IsActive   bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// TableName はGORMのデフォルト複数形化を避けてテーブル名を固定する。
func (Nas) TableName() string {
	return "nas"
}
