package profiles

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/dialogamente/backend/internal/cache"
	"github.com/dialogamente/backend/internal/events"
	"github.com/dialogamente/backend/internal/insights"
	"github.com/dialogamente/backend/internal/models"
	"github.com/dialogamente/backend/internal/scoring"
	"github.com/google/uuid"
)

// ErrNothingScored is returned when none of the submitted answers maps to
// a profile.
var ErrNothingScored = errors.New("no answer could be scored")

const cohortCacheKey = "cohort:v1"

func insightCacheKey(resultID string) string {
	return "insight:v1:" + resultID
}

// ActivityRecorder records progression activity for a user.
type ActivityRecorder interface {
	RecordActivity(ctx context.Context, userID int64, kind, platform string) (*models.ActivityResponse, error)
}

type Options struct {
	CohortTTL  time.Duration
	InsightTTL time.Duration
}

type Service struct {
	store     Repository
	scorer    *scoring.Scorer
	cache     cache.CacheService
	publisher events.Publisher
	coach     *insights.Coach
	activity  ActivityRecorder
	opts      Options
	now       func() time.Time
}

func NewService(store Repository, scorer *scoring.Scorer, c cache.CacheService, publisher events.Publisher,
	coach *insights.Coach, activity ActivityRecorder, opts Options) *Service {
	return &Service{
		store:     store,
		scorer:    scorer,
		cache:     c,
		publisher: publisher,
		coach:     coach,
		activity:  activity,
		opts:      opts,
		now:       time.Now,
	}
}

// ── Submission ──────────────────────────────────────────

func (s *Service) Submit(ctx context.Context, userID int64, req models.SubmitTestRequest) (*models.SubmitTestResponse, error) {
	answers := scoring.Answers(req.Answers)
	raw := s.scorer.ScoreAnswers(answers)
	unmapped := s.scorer.Unmapped(answers)
	if len(unmapped) > 0 {
		log.Printf("[profiles] user %d submitted unmapped answers for questions %v", userID, unmapped)
	}
	if raw.Sum() == 0 {
		return nil, ErrNothingScored
	}

	pct := scoring.NormalizeToPercentage(raw, len(answers))
	result := &models.TestResult{
		ID:            uuid.NewString(),
		UserID:        userID,
		Scores:        pct,
		RawScores:     raw,
		AnsweredCount: len(answers),
		Dominant:      scoring.DominantProfile(raw),
		TotalScore:    pct.Max(),
		CreatedAt:     s.now().UTC(),
	}
	if err := s.store.SaveResult(ctx, result); err != nil {
		return nil, err
	}

	if err := s.cache.Delete(ctx, cohortCacheKey); err != nil {
		log.Printf("[profiles] failed to invalidate cohort cache: %v", err)
	}
	if err := s.publisher.PublishTestCompleted(ctx, events.NewTestCompleted(result)); err != nil {
		log.Printf("[profiles] failed to publish result %s: %v", result.ID, err)
	}

	return &models.SubmitTestResponse{
		Result:          *result,
		UnmappedAnswers: unmapped,
		ProfileLabel:    result.Dominant.DisplayName(),
	}, nil
}

// ── History ─────────────────────────────────────────────

func (s *Service) History(ctx context.Context, userID int64) (*models.TestHistoryResponse, error) {
	tests, err := s.store.ListResults(ctx, userID)
	if err != nil {
		return nil, err
	}
	resp := &models.TestHistoryResponse{Tests: tests}
	if len(tests) >= 2 {
		delta := scoring.Evolution(tests[0].Scores, tests[1].Scores)
		resp.Evolution = &delta
	}
	return resp, nil
}

// ── Cohort ──────────────────────────────────────────────

func (s *Service) cohort(ctx context.Context) ([]scoring.CohortEntry, error) {
	var cohort []scoring.CohortEntry
	err := s.cache.Get(ctx, cohortCacheKey, &cohort)
	if err == nil {
		return cohort, nil
	}
	if !errors.Is(err, cache.ErrCacheMiss) {
		log.Printf("[profiles] cohort cache read failed: %v", err)
	}

	cohort, err = s.store.CohortEntries(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.cache.Set(ctx, cohortCacheKey, cohort, s.opts.CohortTTL); err != nil {
		log.Printf("[profiles] cohort cache write failed: %v", err)
	}
	return cohort, nil
}

// Compare positions the user's latest result within all stored results.
func (s *Service) Compare(ctx context.Context, userID int64) (*models.ComparisonResponse, error) {
	tests, err := s.store.ListResults(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(tests) == 0 {
		return nil, scoring.ErrInsufficientData
	}
	cohort, err := s.cohort(ctx)
	if err != nil {
		return nil, err
	}
	latest := tests[0]
	return scoring.Compare(scoring.CohortEntry{Scores: latest.Scores, Dominant: latest.Dominant}, cohort)
}

func (s *Service) Analytics(ctx context.Context) (*models.AnalyticsResponse, error) {
	cohort, err := s.cohort(ctx)
	if err != nil {
		return nil, err
	}
	users, err := s.store.CountUsers(ctx)
	if err != nil {
		return nil, err
	}

	resp := &models.AnalyticsResponse{TotalUsers: users, TotalTests: len(cohort)}
	dist, avg, err := scoring.Distribution(cohort)
	switch {
	case errors.Is(err, scoring.ErrInsufficientData):
		resp.Distribution = []models.ProfileDistributionEntry{}
	case err != nil:
		return nil, err
	default:
		resp.Distribution = dist
		resp.AverageScore = avg
	}
	return resp, nil
}

// ── Insights ────────────────────────────────────────────

// Insights returns coaching text for one of the user's results. AI answers
// are cached per result; fallbacks are not, so a later call can retry.
func (s *Service) Insights(ctx context.Context, userID int64, resultID string) (*insights.Result, error) {
	result, err := s.store.GetResult(ctx, userID, resultID)
	if err != nil {
		return nil, err
	}

	var cached insights.Result
	if err := s.cache.Get(ctx, insightCacheKey(resultID), &cached); err == nil {
		return &cached, nil
	}

	history, err := s.store.ListResults(ctx, userID)
	if err != nil {
		return nil, err
	}
	previous := 0
	for _, t := range history {
		if t.CreatedAt.Before(result.CreatedAt) {
			previous++
		}
	}

	res := s.coach.Generate(ctx, insights.ProfileSnapshot{
		Dominant:      result.Dominant,
		Scores:        result.Scores,
		PreviousTests: previous,
	})
	if !result.AIInsightsUsed {
		if err := s.store.MarkInsightsUsed(ctx, userID, resultID); err != nil {
			return nil, err
		}
		if _, err := s.activity.RecordActivity(ctx, userID, models.ActivityAICoach, ""); err != nil {
			log.Printf("[profiles] failed to record ai coach use for user %d: %v", userID, err)
		}
	}

	// Cached only once the use is recorded; a cache hit skips recording.
	if !res.IsFallback() {
		if err := s.cache.Set(ctx, insightCacheKey(resultID), res, s.opts.InsightTTL); err != nil {
			log.Printf("[profiles] insight cache write failed: %v", err)
		}
	}
	return &res, nil
}

// ── Export ──────────────────────────────────────────────

func (s *Service) Export(ctx context.Context, userID int64) ([]byte, error) {
	tests, err := s.store.ListResults(ctx, userID)
	if err != nil {
		return nil, err
	}
	data, err := BuildWorkbook(tests)
	if err != nil {
		return nil, fmt.Errorf("build workbook: %w", err)
	}
	return data, nil
}
