package gamification

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/dialogamente/backend/internal/events"
	"github.com/dialogamente/backend/internal/models"
	"github.com/dialogamente/backend/internal/scoring"
)

const (
	// improvementThreshold is the rise in max score between consecutive
	// tests that counts as an improvement.
	improvementThreshold = 20
	challengesPerDay     = 3
	defaultLeaderboard   = 20
	maxLeaderboard       = 100
)

type Service struct {
	store  Repository
	engine *Engine
	now    func() time.Time
}

func NewService(store Repository, engine *Engine) *Service {
	return &Service{store: store, engine: engine, now: time.Now}
}

// BuildActivity derives engine counters from a stored record.
func BuildActivity(rec *ActivityRecord) Activity {
	a := Activity{
		Tests:       len(rec.Tests),
		Reviews:     rec.Reviews,
		Shares:      rec.Events[models.ActivityShare],
		AICoachUses: rec.Events[models.ActivityAICoach],
		MarketViews: rec.Events[models.ActivityMarketView],
	}
	profiles := map[models.Profile]bool{}
	history := make([]models.ScoreVector, 0, len(rec.Tests))
	for _, t := range rec.Tests {
		profiles[t.Dominant] = true
		if scoring.IsPerfect(t.Scores) {
			a.PerfectScores++
		}
		history = append(history, t.Scores)
		a.ActivityDates = append(a.ActivityDates, t.CreatedAt)
	}
	a.DistinctProfiles = len(profiles)
	a.Improvements = scoring.CountImprovements(history, improvementThreshold)
	return a
}

// ── Progress ────────────────────────────────────────────

// GetProgress evaluates the user's progress and persists first unlock
// dates of newly earned achievements.
func (s *Service) GetProgress(ctx context.Context, userID int64) (*models.UserProgress, error) {
	rec, err := s.store.LoadActivity(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load activity: %w", err)
	}
	activity := BuildActivity(rec)
	if err := ValidateActivity(activity); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	progress := s.engine.Progress(userID, activity, rec.Unlocks, now)
	if len(progress.NewlyUnlocked) > 0 {
		if err := s.store.SaveUnlocks(ctx, userID, progress.NewlyUnlocked, now); err != nil {
			log.Printf("[gamification] failed to persist unlocks for user %d: %v", userID, err)
		} else {
			log.Printf("[gamification] user %d unlocked %v", userID, progress.NewlyUnlocked)
		}
	}
	return &progress, nil
}

// ── Daily Challenges ────────────────────────────────────

func (s *Service) DailyChallenges() *models.ChallengesResponse {
	return &models.ChallengesResponse{
		Challenges: s.engine.GenerateDailyChallenges(challengesPerDay, s.now().UTC()),
	}
}

// ── Leaderboard ─────────────────────────────────────────

func (s *Service) Leaderboard(ctx context.Context, userID int64, limit int) (*models.LeaderboardResponse, error) {
	if limit <= 0 {
		limit = defaultLeaderboard
	}
	if limit > maxLeaderboard {
		limit = maxLeaderboard
	}

	records, err := s.store.LoadAllActivity(ctx)
	if err != nil {
		return nil, fmt.Errorf("load activity: %w", err)
	}

	now := s.now().UTC()
	candidates := make([]LeaderboardCandidate, 0, len(records))
	for i := range records {
		rec := &records[i]
		p := s.engine.Progress(rec.UserID, BuildActivity(rec), rec.Unlocks, now)
		unlocked := 0
		for _, a := range p.Achievements {
			if a.Unlocked {
				unlocked++
			}
		}
		candidates = append(candidates, LeaderboardCandidate{
			UserID:       rec.UserID,
			DisplayName:  models.User{Name: rec.Name}.DisplayName(),
			TotalPoints:  p.TotalPoints,
			Level:        p.Level,
			Achievements: unlocked,
		})
	}

	entries := Leaderboard(candidates)
	resp := &models.LeaderboardResponse{Entries: []models.LeaderboardEntry{}}
	for i := range entries {
		if entries[i].UserID == userID {
			entries[i].IsCurrentUser = true
			me := entries[i]
			resp.CurrentUser = &me
		}
		if i < limit {
			resp.Entries = append(resp.Entries, entries[i])
		}
	}
	return resp, nil
}

// ── Recorded Actions ────────────────────────────────────

func (s *Service) CreateReview(ctx context.Context, userID int64, req models.CreateReviewRequest) (*models.ActivityResponse, error) {
	return s.record(ctx, userID, s.engine.Catalog().Rewards.ReviewLeft, func() error {
		return s.store.CreateReview(ctx, userID, req.Rating, req.Comment)
	})
}

// RecordActivity stores a share, market view or AI coach use.
func (s *Service) RecordActivity(ctx context.Context, userID int64, kind, platform string) (*models.ActivityResponse, error) {
	return s.record(ctx, userID, s.rewardFor(kind), func() error {
		return s.store.RecordActivity(ctx, userID, kind, platform)
	})
}

func (s *Service) rewardFor(kind string) int {
	r := s.engine.Catalog().Rewards
	switch kind {
	case models.ActivityShare:
		return r.ResultShared
	case models.ActivityAICoach:
		return r.AICoachUsed
	default:
		return 0
	}
}

func (s *Service) record(ctx context.Context, userID int64, reward int, write func() error) (*models.ActivityResponse, error) {
	rec, err := s.store.LoadActivity(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("load activity: %w", err)
	}
	before := s.engine.ActivityExperience(BuildActivity(rec))
	if err := ValidateExperience(before); err != nil {
		return nil, err
	}

	if err := write(); err != nil {
		return nil, err
	}

	gain := s.engine.AddExperience(before, reward)
	if gain.LeveledUp {
		log.Printf("[gamification] user %d reached level %d", userID, gain.NewLevel)
	}

	progress, err := s.GetProgress(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &models.ActivityResponse{
		ExperienceGained: reward,
		Experience:       gain.NewExperience,
		LeveledUp:        gain.LeveledUp,
		Level:            gain.NewLevel,
		NewlyUnlocked:    progress.NewlyUnlocked,
	}, nil
}

// ── Events ──────────────────────────────────────────────

// HandleTestCompleted re-evaluates progress after a quiz so unlocks are
// persisted with the date they were earned.
func (s *Service) HandleTestCompleted(ctx context.Context, ev events.TestCompleted) error {
	progress, err := s.GetProgress(ctx, ev.UserID)
	if err != nil {
		return err
	}
	reward := s.engine.Catalog().Rewards.TestCompleted
	if gain := s.engine.AddExperience(progress.Experience-reward, reward); gain.LeveledUp {
		log.Printf("[gamification] user %d reached level %d after test %s", ev.UserID, gain.NewLevel, ev.ResultID)
	}
	return nil
}
