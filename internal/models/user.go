package models

import "time"

// UserModel represents a registered student.
type UserModel struct {
	Base
	Username      string     `json:"username" gorm:"uniqueIndex;not null"`
	Password      string     `json:"-"        gorm:"not null"`
	Avatar        string     `json:"avatar"   gorm:"not null"`
	XP            int        `json:"xp"       gorm:"not null;default:0;index:idx_users_xp,sort:desc"`
	LastLoginTime *time.Time `json:"last_login_time"`
	LastLoginIP   string     `json:"last_login_ip"`
}

func (UserModel) TableName() string { return "users" }

// OwnerProfileModel stores the per-user "owner memory" the assistant uses
// when asked about the app's creator.
type OwnerProfileModel struct {
	Base
	UserID            string `json:"-"                  gorm:"uniqueIndex;not null"`
	OwnerName         string `json:"owner_name"         gorm:"not null"`
	LinkedinURL       string `json:"linkedin_url"`
	LinkedinSummary   string `json:"linkedin_summary"   gorm:"type:text"`
	OwnerStrengths    string `json:"owner_strengths"`
	OwnerAchievements string `json:"owner_achievements"`
}

func (OwnerProfileModel) TableName() string { return "owner_profiles" }
