package xp

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	"github.com/studybuddy/core/internal/database"
	"github.com/studybuddy/core/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *Service {
	t.Helper()
	db, err := database.Open(filepath.Join(t.TempDir(), "test.db"), logger.Silent)
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	return NewService(db)
}

func createUser(t *testing.T, svc *Service, username string) string {
	t.Helper()
	u := models.UserModel{Username: username, Password: "x", Avatar: "🧠"}
	require.NoError(t, svc.db.Create(&u).Error)
	return u.ID
}

func TestAward_AccumulatesAndRecordsEvents(t *testing.T) {
	svc := newTestDB(t)
	id := createUser(t, svc, "alice")
	ctx := context.Background()

	total, err := svc.Award(ctx, id, 20, "quiz_submit")
	require.NoError(t, err)
	assert.Equal(t, 20, total)

	events, err := svc.RecentEvents(ctx, id, 10)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "quiz_submit", events[0].Action)
	assert.Equal(t, 20, events[0].Points)
}

func TestAward_NegativeClampedToZero(t *testing.T) {
	svc := newTestDB(t)
	id := createUser(t, svc, "bob")
	ctx := context.Background()

	total, err := svc.Award(ctx, id, 20, "quiz_submit")
	require.NoError(t, err)
	assert.Equal(t, 20, total)

	total, err = svc.Award(ctx, id, -5, "correction")
	require.NoError(t, err)
	assert.Equal(t, 20, total, "negative award must never decrease the total")

	events, err := svc.RecentEvents(ctx, id, 10)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, 0, events[0].Points)
}

func TestAward_UnknownUser(t *testing.T) {
	svc := newTestDB(t)
	_, err := svc.Award(context.Background(), "no-such-id", 10, "explain")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestAward_ConcurrentSameUser(t *testing.T) {
	svc := newTestDB(t)
	id := createUser(t, svc, "carol")
	ctx := context.Background()

	points := []int{10, 15, 5}
	var wg sync.WaitGroup
	for _, p := range points {
		wg.Add(1)
		go func(p int) {
			defer wg.Done()
			_, err := svc.Award(ctx, id, p, "chat_explain")
			assert.NoError(t, err)
		}(p)
	}
	wg.Wait()

	total, err := svc.TotalFor(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, 30, total)

	events, err := svc.RecentEvents(ctx, id, 10)
	require.NoError(t, err)
	assert.Len(t, events, 3)
}

func TestPointsForMode(t *testing.T) {
	assert.Equal(t, PointsQuiz, PointsForMode("quiz"))
	assert.Equal(t, PointsFlashcards, PointsForMode("flashcards"))
	assert.Equal(t, PointsSummarize, PointsForMode("summarize"))
	assert.Equal(t, PointsExplain, PointsForMode("explain"))
	assert.Equal(t, PointsExplain, PointsForMode("unknown"))
}
