// Package leveling maps accumulated XP to a named tier. It is pure and
// stateless; any component needing a user-facing level display calls ForXP.
package leveling

// Level is one row of the fixed threshold table.
type Level struct {
	Threshold int    `json:"threshold"`
	Name      string `json:"name"`
	Icon      string `json:"icon"`
}

// Info describes where a given XP total sits in the level table.
type Info struct {
	Name          string `json:"name"`
	Icon          string `json:"icon"`
	NextThreshold *int   `json:"next_threshold"`
	Progress      int    `json:"progress"` // percent toward the next level, 0..100
}

// levels is ordered by ascending threshold; the first threshold must be 0.
var levels = []Level{
	{0, "Bronze", "🥉"},
	{150, "Silver", "🥈"},
	{400, "Gold", "🥇"},
	{800, "Platinum", "💠"},
	{1500, "Legend", "👑"},
}

// Table returns a copy of the level definition table.
func Table() []Level {
	out := make([]Level, len(levels))
	copy(out, levels)
	return out
}

// ForXP returns the level info for an XP total. The current level is the
// highest threshold ≤ xp; progress is the floored percentage toward the next
// threshold, 100 once the top level is reached.
func ForXP(xp int) Info {
	if xp < 0 {
		xp = 0
	}

	current := levels[0]
	var next *Level
	for i := range levels {
		if xp >= levels[i].Threshold {
			current = levels[i]
		} else {
			next = &levels[i]
			break
		}
	}

	info := Info{Name: current.Name, Icon: current.Icon, Progress: 100}
	if next == nil {
		return info
	}

	threshold := next.Threshold
	info.NextThreshold = &threshold

	span := next.Threshold - current.Threshold
	if span < 1 {
		span = 1
	}
	progress := (xp - current.Threshold) * 100 / span
	if progress < 0 {
		progress = 0
	}
	if progress > 100 {
		progress = 100
	}
	info.Progress = progress
	return info
}
