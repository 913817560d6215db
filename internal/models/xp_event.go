package models

// XPEventModel is an append-only record of a single point-earning action.
// Rows are never updated or deleted; the sum of a user's events equals the
// user's stored XP total.
type XPEventModel struct {
	Base
	UserID string `json:"-"      gorm:"index;not null"`
	Action string `json:"action" gorm:"not null"`
	Points int    `json:"points" gorm:"not null"`
}

func (XPEventModel) TableName() string { return "xp_events" }
