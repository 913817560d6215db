package leaderboard

import "github.com/studybuddy/core/internal/modules/leveling"

// Row is the input to the ranker: one user's public display data. Inputs
// must already be ordered by xp descending with a stable tiebreaker
// (creation order ascending) so ranking is deterministic across runs.
type Row struct {
	Username string
	Avatar   string
	XP       int
}

// Entry is one ranked leaderboard line.
type Entry struct {
	Rank     int           `json:"rank"`
	Username string        `json:"username"`
	Avatar   string        `json:"avatar"`
	XP       int           `json:"xp"`
	Level    leveling.Info `json:"level"`
}

// Rank assigns competition ("1224") ranking: equal XP shares a rank, and the
// next distinct XP takes its 1-based position, so ties do not compress the
// ranks after them. The result is truncated to limit entries.
func Rank(rows []Row, limit int) []Entry {
	entries := make([]Entry, 0, len(rows))

	rank := 0
	previousXP := -1
	for idx, row := range rows {
		if idx == 0 || row.XP != previousXP {
			rank = idx + 1
			previousXP = row.XP
		}
		entries = append(entries, Entry{
			Rank:     rank,
			Username: row.Username,
			Avatar:   row.Avatar,
			XP:       row.XP,
			Level:    leveling.ForXP(row.XP),
		})
	}

	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries
}
