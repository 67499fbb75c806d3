package models

import "time"

// ── Core Gamification Structs ─────────────────────────────

// AchievementState is an achievement definition evaluated for one user.
type AchievementState struct {
	ID                 string     `json:"id"`
	Title              string     `json:"title"`
	Description        string     `json:"description"`
	Category           string     `json:"category"`
	Icon               string     `json:"icon"`
	Rarity             string     `json:"rarity"`
	Points             int        `json:"points"`
	Requirement        int        `json:"requirement"`
	Current            int        `json:"current"`
	Unlocked           bool       `json:"unlocked"`
	UnlockedAt         *time.Time `json:"unlocked_at,omitempty"`
	ProgressPercentage float64    `json:"progress_percentage"`
}

type DailyChallenge struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Objective   string    `json:"objective"`
	Difficulty  string    `json:"difficulty"`
	Reward      int       `json:"reward"`
	Category    string    `json:"category"`
	Completed   bool      `json:"completed"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// UserProgress is derived on every read from the user's raw activity.
type UserProgress struct {
	UserID                int64              `json:"user_id"`
	TotalPoints           int                `json:"total_points"`
	Experience            int                `json:"experience"`
	Level                 int                `json:"level"`
	LevelTitle            string             `json:"level_title"`
	LevelIcon             string             `json:"level_icon"`
	ExperienceToNextLevel *int               `json:"experience_to_next_level"`
	CurrentStreak         int                `json:"current_streak"`
	LongestStreak         int                `json:"longest_streak"`
	Rank                  int                `json:"rank"`
	RankTitle             string             `json:"rank_title"`
	Achievements          []AchievementState `json:"achievements"`
	NewlyUnlocked         []string           `json:"newly_unlocked"`
}

// ── Request Types ─────────────────────────────────────────

type CreateReviewRequest struct {
	Rating  int    `json:"rating" validate:"required,min=1,max=5"`
	Comment string `json:"comment" validate:"max=2000"`
}

type RecordActivityRequest struct {
	Kind     string `json:"kind" validate:"required,oneof=share market_view"`
	Platform string `json:"platform" validate:"omitempty,oneof=facebook twitter linkedin whatsapp native copy"`
}

// ── Response Types ────────────────────────────────────────

type ActivityResponse struct {
	ExperienceGained int      `json:"experience_gained"`
	Experience       int      `json:"experience"`
	LeveledUp        bool     `json:"leveled_up"`
	Level            int      `json:"level"`
	NewlyUnlocked    []string `json:"newly_unlocked"`
}

type ChallengesResponse struct {
	Challenges []DailyChallenge `json:"challenges"`
}

type LeaderboardResponse struct {
	Entries     []LeaderboardEntry `json:"entries"`
	CurrentUser *LeaderboardEntry  `json:"current_user,omitempty"`
}

type LeaderboardEntry struct {
	Rank          int    `json:"rank"`
	UserID        int64  `json:"user_id"`
	DisplayName   string `json:"display_name"`
	TotalPoints   int    `json:"total_points"`
	Level         int    `json:"level"`
	Achievements  int    `json:"achievements"`
	IsCurrentUser bool   `json:"is_current_user"`
}

// ── Activity Kinds ────────────────────────────────────────

const (
	ActivityShare      = "share"
	ActivityMarketView = "market_view"
	ActivityAICoach    = "ai_coach"
	ActivityReview     = "review"
	ActivityTest       = "test"
)
