package score

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/studybuddy/core/internal/database"
	"github.com/studybuddy/core/internal/models"
	"github.com/studybuddy/core/internal/modules/ai"
	"github.com/studybuddy/core/internal/modules/xp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestService(t *testing.T) (*Service, *gorm.DB) {
	t.Helper()
	db, err := database.Open(filepath.Join(t.TempDir(), "test.db"), logger.Silent)
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return NewService(db, xp.NewService(db)), db
}

func createUser(t *testing.T, db *gorm.DB, username string) string {
	t.Helper()
	u := models.UserModel{Username: username, Password: "x", Avatar: "🦊"}
	require.NoError(t, db.Create(&u).Error)
	return u.ID
}

func TestSave_AwardsSubmissionXP(t *testing.T) {
	svc, db := newTestService(t)
	id := createUser(t, db, "alice")

	res, err := svc.Save(context.Background(), id, "Photosynthesis", ai.DifficultyMedium, "gemini", 4, 5)
	require.NoError(t, err)
	assert.Equal(t, xp.PointsQuizSubmit+4*xp.PointsPerCorrect, res.XPGained)
	assert.Equal(t, res.XPGained, res.TotalXP)

	var row models.QuizScoreModel
	require.NoError(t, db.First(&row, "user_id = ?", id).Error)
	assert.Equal(t, "Photosynthesis", row.Topic)
	assert.Equal(t, 4, row.Score)
	assert.Equal(t, 5, row.Total)
}

func TestSave_Validation(t *testing.T) {
	svc, db := newTestService(t)
	id := createUser(t, db, "bob")
	ctx := context.Background()

	_, err := svc.Save(ctx, id, "t", "extreme", "gemini", 1, 5)
	assert.ErrorIs(t, err, ErrInvalidDifficulty)

	_, err = svc.Save(ctx, id, "t", ai.DifficultyEasy, "gemini", 6, 5)
	assert.ErrorIs(t, err, ErrInvalidScoreRange)

	_, err = svc.Save(ctx, id, "t", ai.DifficultyEasy, "gemini", -1, 5)
	assert.ErrorIs(t, err, ErrInvalidScoreRange)

	_, err = svc.Save(ctx, id, "t", ai.DifficultyEasy, "gemini", 0, 0)
	assert.ErrorIs(t, err, ErrInvalidScoreRange)
}

func TestSave_UnknownUser(t *testing.T) {
	svc, _ := newTestService(t)
	_, err := svc.Save(context.Background(), "no-such-id", "t", ai.DifficultyEasy, "gemini", 1, 5)
	assert.ErrorIs(t, err, xp.ErrUserNotFound)
}

func TestHistory_FiltersByTopic(t *testing.T) {
	svc, db := newTestService(t)
	id := createUser(t, db, "carol")
	ctx := context.Background()

	for _, topic := range []string{"Cell Biology", "Linear Algebra", "Cell Membranes"} {
		_, err := svc.Save(ctx, id, topic, ai.DifficultyEasy, "gemini", 3, 5)
		require.NoError(t, err)
	}

	rows, err := svc.History(ctx, id, "Cell", 50)
	require.NoError(t, err)
	assert.Len(t, rows, 2)

	rows, err = svc.History(ctx, id, "", 2)
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}

func TestStatsFor(t *testing.T) {
	svc, db := newTestService(t)
	id := createUser(t, db, "dave")
	ctx := context.Background()

	_, err := svc.Save(ctx, id, "a", ai.DifficultyEasy, "gemini", 4, 5)
	require.NoError(t, err)
	_, err = svc.Save(ctx, id, "b", ai.DifficultyHard, "openrouter", 5, 10)
	require.NoError(t, err)

	stats, err := svc.StatsFor(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Attempts)
	assert.Equal(t, 9, stats.TotalScore)
	assert.Equal(t, 15, stats.TotalQuestions)
	assert.InDelta(t, 65.0, stats.AveragePercent, 0.01)
}

func TestStatsFor_Empty(t *testing.T) {
	svc, db := newTestService(t)
	id := createUser(t, db, "erin")

	stats, err := svc.StatsFor(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, 0, stats.Attempts)
	assert.Equal(t, 0.0, stats.AveragePercent)
}
