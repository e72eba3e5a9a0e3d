package models

// SlideModel is a homepage hero slide.
type SlideModel struct {
	Base
	Title     string `json:"title"`
	Subtitle  string `json:"subtitle"`
	ImageURL  string `json:"image_url" gorm:"not null"`
	LinkURL   string `json:"link_url"`
	SortOrder int    `json:"sort_order" gorm:"default:0;index"`
	Published bool   `json:"published"  gorm:"default:true"`
}

func (SlideModel) TableName() string { return "slides" }
