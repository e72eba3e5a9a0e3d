package models

// PartnerModel is a sponsor/partner logo entry.
type PartnerModel struct {
	Base
	Name      string `json:"name"      gorm:"uniqueIndex;not null"`
	LogoURL   string `json:"logo_url"`
	SiteURL   string `json:"site_url"`
	SortOrder int    `json:"sort_order" gorm:"default:0;index"`
}

func (PartnerModel) TableName() string { return "partners" }
