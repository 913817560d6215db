// Package score records quiz submissions and aggregates dashboard stats.
package score

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/studybuddy/core/internal/models"
	"github.com/studybuddy/core/internal/modules/ai"
	"github.com/studybuddy/core/internal/modules/xp"
	"gorm.io/gorm"
)

const maxTopicLabelLength = 300

var (
	ErrInvalidDifficulty = errors.New("invalid difficulty")
	ErrInvalidScoreRange = errors.New("invalid score range")
)

type Service struct {
	db     *gorm.DB
	ledger *xp.Service
}

func NewService(db *gorm.DB, ledger *xp.Service) *Service {
	return &Service{db: db, ledger: ledger}
}

// SaveResult is returned by Save for immediate display.
type SaveResult struct {
	XPGained int `json:"xp_gained"`
	TotalXP  int `json:"total_xp"`
}

// Save validates and stores a quiz result, then awards submission XP
// (base plus a bonus per correct answer).
func (s *Service) Save(ctx context.Context, userID, topic, difficulty, provider string, scored, total int) (*SaveResult, error) {
	if difficulty != ai.DifficultyEasy && difficulty != ai.DifficultyMedium && difficulty != ai.DifficultyHard {
		return nil, ErrInvalidDifficulty
	}
	if total <= 0 || scored < 0 || scored > total {
		return nil, ErrInvalidScoreRange
	}

	topic = strings.TrimSpace(topic)
	if len([]rune(topic)) > maxTopicLabelLength {
		topic = string([]rune(topic)[:maxTopicLabelLength])
	}
	if topic == "" {
		topic = "Untitled topic"
	}
	if provider = strings.TrimSpace(provider); provider == "" {
		provider = "unknown"
	}

	row := models.QuizScoreModel{
		UserID:     userID,
		Topic:      topic,
		Score:      scored,
		Total:      total,
		Difficulty: difficulty,
		Provider:   provider,
	}
	if err := s.db.WithContext(ctx).Create(&row).Error; err != nil {
		return nil, err
	}

	gained := xp.PointsQuizSubmit + scored*xp.PointsPerCorrect
	totalXP, err := s.ledger.Award(ctx, userID, gained, "quiz_submit")
	if err != nil {
		return nil, err
	}
	return &SaveResult{XPGained: gained, TotalXP: totalXP}, nil
}

// History lists a user's latest results, newest first, optionally filtered
// by a topic substring.
func (s *Service) History(ctx context.Context, userID, query string, limit int) ([]models.QuizScoreModel, error) {
	if limit < 1 {
		limit = 1
	}
	if limit > 100 {
		limit = 100
	}

	tx := s.db.WithContext(ctx).Where("user_id = ?", userID)
	if query = strings.TrimSpace(query); query != "" {
		tx = tx.Where("topic LIKE ?", fmt.Sprintf("%%%s%%", query))
	}

	var rows []models.QuizScoreModel
	err := tx.Order("created_at DESC").Limit(limit).Find(&rows).Error
	return rows, err
}

// Stats summarizes a user's quiz attempts for the dashboard.
type Stats struct {
	Attempts       int     `json:"attempts"`
	TotalScore     int     `json:"total_score"`
	TotalQuestions int     `json:"total_questions"`
	AveragePercent float64 `json:"average_percent"`
}

// StatsFor aggregates attempts, totals and the average percentage.
func (s *Service) StatsFor(ctx context.Context, userID string) (*Stats, error) {
	var out struct {
		Attempts       int
		TotalScore     int
		TotalQuestions int
		AvgPercent     float64
	}
	err := s.db.WithContext(ctx).Model(&models.QuizScoreModel{}).
		Select(`COUNT(*) AS attempts,
			COALESCE(SUM(score), 0) AS total_score,
			COALESCE(SUM(total), 0) AS total_questions,
			COALESCE(AVG(CASE WHEN total > 0 THEN score * 100.0 / total END), 0) AS avg_percent`).
		Where("user_id = ?", userID).
		Scan(&out).Error
	if err != nil {
		return nil, err
	}

	return &Stats{
		Attempts:       out.Attempts,
		TotalScore:     out.TotalScore,
		TotalQuestions: out.TotalQuestions,
		AveragePercent: roundTo2(out.AvgPercent),
	}, nil
}

func roundTo2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Export returns all of a user's results as plain report lines, newest first.
func (s *Service) Export(ctx context.Context, userID string) ([]models.QuizScoreModel, error) {
	var rows []models.QuizScoreModel
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&rows).Error
	return rows, err
}
