package leaderboard

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/studybuddy/core/internal/database"
	"github.com/studybuddy/core/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/logger"
)

func TestRank_CompetitionTies(t *testing.T) {
	rows := []Row{
		{Username: "a", XP: 100},
		{Username: "b", XP: 100},
		{Username: "c", XP: 100},
		{Username: "d", XP: 50},
		{Username: "e", XP: 10},
	}
	entries := Rank(rows, 20)
	require.Len(t, entries, 5)

	assert.Equal(t, 1, entries[0].Rank)
	assert.Equal(t, 1, entries[1].Rank)
	assert.Equal(t, 1, entries[2].Rank)
	assert.Equal(t, 4, entries[3].Rank, "ties must not compress subsequent ranks")
	assert.Equal(t, 5, entries[4].Rank)
}

func TestRank_TwoWayTieSkipsRankTwo(t *testing.T) {
	entries := Rank([]Row{
		{Username: "a", XP: 200},
		{Username: "b", XP: 200},
		{Username: "c", XP: 150},
	}, 10)
	assert.Equal(t, []int{1, 1, 3}, []int{entries[0].Rank, entries[1].Rank, entries[2].Rank})
}

func TestRank_Deterministic(t *testing.T) {
	rows := []Row{
		{Username: "a", XP: 300},
		{Username: "b", XP: 300},
		{Username: "c", XP: 120},
	}
	first := Rank(rows, 10)
	second := Rank(rows, 10)
	assert.Equal(t, first, second)
}

func TestRank_Truncation(t *testing.T) {
	rows := make([]Row, 30)
	for i := range rows {
		rows[i] = Row{Username: "u", XP: 1000 - i}
	}
	entries := Rank(rows, 10)
	assert.Len(t, entries, 10)
}

func TestRank_CarriesLevelInfo(t *testing.T) {
	entries := Rank([]Row{{Username: "a", XP: 400}}, 5)
	require.Len(t, entries, 1)
	assert.Equal(t, "Gold", entries[0].Level.Name)
}

func TestTop_OrdersByXPThenCreation(t *testing.T) {
	db, err := database.Open(filepath.Join(t.TempDir(), "test.db"), logger.Silent)
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))
	svc := NewService(db)

	base := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	for i, u := range []models.UserModel{
		{Username: "first", Password: "x", Avatar: "🦊", XP: 100},
		{Username: "second", Password: "x", Avatar: "🐼", XP: 100},
		{Username: "third", Password: "x", Avatar: "🤖", XP: 250},
	} {
		u.CreatedAt = base.Add(time.Duration(i) * time.Second)
		require.NoError(t, db.Create(&u).Error)
	}

	entries, err := svc.Top(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, entries, 3)

	assert.Equal(t, "third", entries[0].Username)
	assert.Equal(t, 1, entries[0].Rank)
	assert.Equal(t, "first", entries[1].Username, "equal XP ties break by creation order")
	assert.Equal(t, 2, entries[1].Rank)
	assert.Equal(t, "second", entries[2].Username)
	assert.Equal(t, 2, entries[2].Rank)
}
