package models

// SiteTextModel is an editable copy block keyed by placement
// (e.g. "home.about", "footer.tagline").
type SiteTextModel struct {
	Base
	Key   string `json:"key"   gorm:"uniqueIndex;not null"`
	Value string `json:"value" gorm:"type:text"`
}

func (SiteTextModel) TableName() string { return "site_texts" }
