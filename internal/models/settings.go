package models

// SiteSettingsModel is the singleton row that gates the public site.
// Version implements optimistic concurrency on the read-modify-write
// toggle path.
type SiteSettingsModel struct {
	Base
	MaintenanceMode    bool    `json:"maintenance_mode"    gorm:"default:false"`
	MaintenanceMessage string  `json:"maintenance_message" gorm:"type:text"`
	MaintenanceImage   *string `json:"maintenance_image"`
	Version            int64   `json:"version"             gorm:"default:0"`
}

func (SiteSettingsModel) TableName() string { return "site_settings" }
