package models

// SocialLinkModel is a footer/header social media link.
type SocialLinkModel struct {
	Base
	Platform  string `json:"platform"  gorm:"uniqueIndex;not null"` // instagram | x | tiktok | ...
	URL       string `json:"url"       gorm:"not null"`
	SortOrder int    `json:"sort_order" gorm:"default:0"`
	Visible   bool   `json:"visible"    gorm:"default:true"`
}

func (SocialLinkModel) TableName() string { return "social_links" }
