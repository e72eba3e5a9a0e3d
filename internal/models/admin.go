package models

import "time"

// BootstrapUsername is the reserved account created on first boot.
// It can never be deleted through the user management API.
const BootstrapUsername = "flyboy"

// AdminModel represents a panel administrator.
type AdminModel struct {
	Base
	Username      string     `json:"username"        gorm:"uniqueIndex;not null"`
	Name          string     `json:"name"`
	Password      string     `json:"-"               gorm:"not null"`
	IsSuperAdmin  bool       `json:"is_super_admin"  gorm:"default:false"`
	LastLoginTime *time.Time `json:"last_login_time"`
	LastLoginIP   string     `json:"last_login_ip"`
}

func (AdminModel) TableName() string { return "admins" }

// AdminSession tracks signed-in sessions so tokens can be revalidated
// and revoked server-side.
type AdminSession struct {
	Base
	AdminID   string     `json:"admin_id"   gorm:"index;not null"`
	IP        string     `json:"ip"`
	UA        string     `json:"ua"         gorm:"type:text"`
	ExpiresAt time.Time  `json:"expires_at" gorm:"index;not null"`
	RevokedAt *time.Time `json:"revoked_at" gorm:"index"`
}

func (AdminSession) TableName() string { return "admin_sessions" }
