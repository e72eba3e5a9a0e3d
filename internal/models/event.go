package models

import "time"

// EventModel is a gig/party listing.
type EventModel struct {
	Base
	Title       string     `json:"title"       gorm:"not null"`
	Description string     `json:"description" gorm:"type:text"`
	Venue       string     `json:"venue"`
	City        string     `json:"city"`
	StartsAt    *time.Time `json:"starts_at"   gorm:"index"`
	ImageURL    string     `json:"image_url"`
	TicketURL   string     `json:"ticket_url"`
	Published   bool       `json:"published"   gorm:"default:true;index"`
	NotifiedAt  *time.Time `json:"notified_at"`
}

func (EventModel) TableName() string { return "events" }
