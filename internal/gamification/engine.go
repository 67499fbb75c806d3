package gamification

import (
	"errors"
	"fmt"
	"math"
	"math/rand/v2"
	"sort"
	"time"

	"github.com/dialogamente/backend/internal/models"
)

// ErrInvalidRange is returned when negative counters or experience reach
// the engine boundary.
var ErrInvalidRange = errors.New("value out of range")

// LevelInfo describes the level reached for an experience total.
type LevelInfo struct {
	Level int
	Title string
	Icon  string
}

type RankInfo struct {
	Rank  int
	Title string
}

// ExperienceGain is the outcome of adding experience.
type ExperienceGain struct {
	NewExperience int
	LeveledUp     bool
	NewLevel      int
}

// Engine derives levels, ranks, achievements and streaks from activity.
// It holds no mutable state and is safe for concurrent use.
type Engine struct {
	catalog Catalog
	perm    func(n int) []int
}

func NewEngine(catalog Catalog) *Engine {
	return &Engine{catalog: catalog, perm: rand.Perm}
}

func (e *Engine) Catalog() Catalog {
	return e.catalog
}

// ── Levels ──────────────────────────────────────────────

// LevelForExperience returns the highest level whose threshold is <= xp.
func (e *Engine) LevelForExperience(xp int) LevelInfo {
	info := LevelInfo{Level: 1, Title: "Iniciante", Icon: "🌱"}
	if len(e.catalog.Levels) > 0 {
		first := e.catalog.Levels[0]
		info = LevelInfo{Level: first.Level, Title: first.Title, Icon: first.Icon}
	}
	for _, l := range e.catalog.Levels {
		if xp >= l.MinExperience {
			info = LevelInfo{Level: l.Level, Title: l.Title, Icon: l.Icon}
		}
	}
	return info
}

// ExperienceToNextLevel returns the threshold of the level after the given
// one. ok is false at the last defined level.
func (e *Engine) ExperienceToNextLevel(level int) (threshold int, ok bool) {
	for _, l := range e.catalog.Levels {
		if l.Level == level+1 {
			return l.MinExperience, true
		}
	}
	return 0, false
}

func (e *Engine) AddExperience(currentXP, delta int) ExperienceGain {
	before := e.LevelForExperience(currentXP).Level
	newXP := currentXP + delta
	after := e.LevelForExperience(newXP).Level
	return ExperienceGain{
		NewExperience: newXP,
		LeveledUp:     after > before,
		NewLevel:      after,
	}
}

// ── Ranks ───────────────────────────────────────────────

func (e *Engine) RankForPoints(points int) RankInfo {
	var info RankInfo
	if len(e.catalog.Ranks) > 0 {
		info = RankInfo{Rank: e.catalog.Ranks[0].Rank, Title: e.catalog.Ranks[0].Title}
	}
	for _, r := range e.catalog.Ranks {
		if points >= r.MinPoints {
			info = RankInfo{Rank: r.Rank, Title: r.Title}
		}
	}
	return info
}

// ── Achievements ────────────────────────────────────────

// EvaluateAchievement measures one definition against the current counter.
// previous carries the last known state so that an existing unlock date is
// kept; pass nil when the user never unlocked it.
func EvaluateAchievement(def AchievementDefinition, current int, previous *models.AchievementState, now time.Time) models.AchievementState {
	pct := 100.0
	if def.Requirement > 0 {
		pct = math.Min(100, float64(current)*100/float64(def.Requirement))
	}
	state := models.AchievementState{
		ID:                 def.ID,
		Title:              def.Title,
		Description:        def.Description,
		Category:           def.Category,
		Icon:               def.Icon,
		Rarity:             string(def.Rarity),
		Points:             def.Points,
		Requirement:        def.Requirement,
		Current:            current,
		Unlocked:           current >= def.Requirement,
		ProgressPercentage: pct,
	}
	if !state.Unlocked {
		return state
	}
	if previous != nil && previous.UnlockedAt != nil {
		at := *previous.UnlockedAt
		state.UnlockedAt = &at
		return state
	}
	at := now
	state.UnlockedAt = &at
	return state
}

// ── Daily Challenges ────────────────────────────────────

// GenerateDailyChallenges picks count challenges uniformly without
// replacement. They expire 24 hours after now.
func (e *Engine) GenerateDailyChallenges(count int, now time.Time) []models.DailyChallenge {
	defs := e.catalog.DailyChallenges
	if count > len(defs) {
		count = len(defs)
	}
	if count <= 0 {
		return []models.DailyChallenge{}
	}
	out := make([]models.DailyChallenge, 0, count)
	for _, i := range e.perm(len(defs))[:count] {
		d := defs[i]
		out = append(out, models.DailyChallenge{
			ID:          d.ID,
			Title:       d.Title,
			Description: d.Description,
			Objective:   d.Objective,
			Difficulty:  d.Difficulty,
			Reward:      d.Reward,
			Category:    d.Category,
			ExpiresAt:   now.Add(24 * time.Hour),
		})
	}
	return out
}

// ── Progress ────────────────────────────────────────────

// Activity holds the raw counters a user's progress is derived from.
type Activity struct {
	Tests            int
	Reviews          int
	Shares           int
	DistinctProfiles int
	PerfectScores    int
	AICoachUses      int
	MarketViews      int
	Improvements     int
	ActivityDates    []time.Time
}

// ValidateActivity rejects negative counters.
func ValidateActivity(a Activity) error {
	counters := map[string]int{
		"tests":             a.Tests,
		"reviews":           a.Reviews,
		"shares":            a.Shares,
		"distinct_profiles": a.DistinctProfiles,
		"perfect_scores":    a.PerfectScores,
		"ai_coach_uses":     a.AICoachUses,
		"market_views":      a.MarketViews,
		"improvements":      a.Improvements,
	}
	for name, v := range counters {
		if v < 0 {
			return fmt.Errorf("%s = %d: %w", name, v, ErrInvalidRange)
		}
	}
	return nil
}

func ValidateExperience(xp int) error {
	if xp < 0 {
		return fmt.Errorf("experience = %d: %w", xp, ErrInvalidRange)
	}
	return nil
}

// ActivityExperience converts activity counters into experience.
func (e *Engine) ActivityExperience(a Activity) int {
	r := e.catalog.Rewards
	return a.Tests*r.TestCompleted + a.Reviews*r.ReviewLeft + a.Shares*r.ResultShared + a.AICoachUses*r.AICoachUsed
}

// Progress evaluates the full progression view. previousUnlocks holds the
// persisted unlock date of every achievement the user already earned.
func (e *Engine) Progress(userID int64, a Activity, previousUnlocks map[string]time.Time, now time.Time) models.UserProgress {
	xp := e.ActivityExperience(a)
	level := e.LevelForExperience(xp)
	streak := ComputeStreak(a.ActivityDates, now)

	maxLevel := 0
	if level.Level >= e.catalog.MaxLevel() {
		maxLevel = 1
	}
	counters := map[Metric]int{
		MetricTests:            a.Tests,
		MetricReviews:          a.Reviews,
		MetricShares:           a.Shares,
		MetricDistinctProfiles: a.DistinctProfiles,
		MetricStreak:           streak.Longest,
		MetricPerfectScores:    a.PerfectScores,
		MetricAICoachUses:      a.AICoachUses,
		MetricMarketViews:      a.MarketViews,
		MetricImprovements:     a.Improvements,
		MetricMaxLevel:         maxLevel,
	}

	achievements := make([]models.AchievementState, 0, len(e.catalog.Achievements))
	newly := []string{}
	achievementPoints := 0
	for _, def := range e.catalog.Achievements {
		var prev *models.AchievementState
		if at, ok := previousUnlocks[def.ID]; ok {
			prev = &models.AchievementState{ID: def.ID, Unlocked: true, UnlockedAt: &at}
		}
		st := EvaluateAchievement(def, counters[def.Metric], prev, now)
		if st.Unlocked {
			achievementPoints += def.Points
			if prev == nil {
				newly = append(newly, def.ID)
			}
		}
		achievements = append(achievements, st)
	}

	total := xp + achievementPoints
	rank := e.RankForPoints(total)

	var toNext *int
	if next, ok := e.ExperienceToNextLevel(level.Level); ok {
		toNext = &next
	}

	return models.UserProgress{
		UserID:                userID,
		TotalPoints:           total,
		Experience:            xp,
		Level:                 level.Level,
		LevelTitle:            level.Title,
		LevelIcon:             level.Icon,
		ExperienceToNextLevel: toNext,
		CurrentStreak:         streak.Current,
		LongestStreak:         streak.Longest,
		Rank:                  rank.Rank,
		RankTitle:             rank.Title,
		Achievements:          achievements,
		NewlyUnlocked:         newly,
	}
}

// ── Leaderboard ─────────────────────────────────────────

type LeaderboardCandidate struct {
	UserID       int64
	DisplayName  string
	TotalPoints  int
	Level        int
	Achievements int
}

// Leaderboard orders candidates by points, highest first. Equal points keep
// their input order.
func Leaderboard(candidates []LeaderboardCandidate) []models.LeaderboardEntry {
	sorted := make([]LeaderboardCandidate, len(candidates))
	copy(sorted, candidates)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].TotalPoints > sorted[j].TotalPoints
	})
	entries := make([]models.LeaderboardEntry, len(sorted))
	for i, c := range sorted {
		entries[i] = models.LeaderboardEntry{
			Rank:         i + 1,
			UserID:       c.UserID,
			DisplayName:  c.DisplayName,
			TotalPoints:  c.TotalPoints,
			Level:        c.Level,
			Achievements: c.Achievements,
		}
	}
	return entries
}
