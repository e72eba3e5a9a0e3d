package models

// SubscriberModel is a mailing-list entry.
type SubscriberModel struct {
	Base
	Email       string `json:"email"     gorm:"uniqueIndex;not null"`
	CancelToken string `json:"-"         gorm:"uniqueIndex"`
	IsActive    bool   `json:"is_active" gorm:"default:true"`
}

func (SubscriberModel) TableName() string { return "subscribers" }
