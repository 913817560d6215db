// Package xp is the ledger for point-earning events. It is the only writer
// of the users.xp column after signup.
package xp

import (
	"context"
	"errors"

	"github.com/studybuddy/core/internal/models"
	"gorm.io/gorm"
)

// ErrUserNotFound is returned when awarding XP to an unknown user.
var ErrUserNotFound = errors.New("user not found")

type Service struct{ db *gorm.DB }

func NewService(db *gorm.DB) *Service { return &Service{db: db} }

// Award clamps points to ≥0, increments the user's stored XP and appends an
// immutable event row in one transaction, then returns the resulting total.
// The increment is a per-row UPDATE expression, so concurrent awards for the
// same user never lose updates.
func (s *Service) Award(ctx context.Context, userID string, points int, action string) (int, error) {
	if points < 0 {
		points = 0
	}

	var total int
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.UserModel{}).
			Where("id = ?", userID).
			UpdateColumn("xp", gorm.Expr("xp + ?", points))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrUserNotFound
		}

		event := models.XPEventModel{UserID: userID, Action: action, Points: points}
		if err := tx.Create(&event).Error; err != nil {
			return err
		}

		return tx.Model(&models.UserModel{}).
			Select("xp").
			Where("id = ?", userID).
			Scan(&total).Error
	})
	if err != nil {
		return 0, err
	}
	return total, nil
}

// TotalFor returns the user's current XP total.
func (s *Service) TotalFor(ctx context.Context, userID string) (int, error) {
	var total int
	err := s.db.WithContext(ctx).Model(&models.UserModel{}).
		Select("xp").
		Where("id = ?", userID).
		Scan(&total).Error
	return total, err
}

// RecentEvents lists a user's latest ledger entries, newest first.
func (s *Service) RecentEvents(ctx context.Context, userID string, limit int) ([]models.XPEventModel, error) {
	if limit <= 0 {
		limit = 20
	}
	var events []models.XPEventModel
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&events).Error
	return events, err
}
