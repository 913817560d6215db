package leaderboard

import (
	"context"

	"github.com/studybuddy/core/internal/models"
	"gorm.io/gorm"
)

type Service struct{ db *gorm.DB }

func NewService(db *gorm.DB) *Service { return &Service{db: db} }

// Top returns the ranked leaderboard, reading current XP totals on demand.
func (s *Service) Top(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 20
	}

	var users []models.UserModel
	err := s.db.WithContext(ctx).
		Select("username", "avatar", "xp").
		Order("xp DESC, created_at ASC, id ASC").
		Limit(limit).
		Find(&users).Error
	if err != nil {
		return nil, err
	}

	rows := make([]Row, len(users))
	for i, u := range users {
		rows[i] = Row{Username: u.Username, Avatar: u.Avatar, XP: u.XP}
	}
	return Rank(rows, limit), nil
}
