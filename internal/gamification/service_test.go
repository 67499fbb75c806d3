package gamification

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/dialogamente/backend/internal/events"
	"github.com/dialogamente/backend/internal/httputil"
	"github.com/dialogamente/backend/internal/models"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRepo struct {
	mu      sync.Mutex
	records map[int64]*ActivityRecord
	saved   map[int64][]string
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{records: map[int64]*ActivityRecord{}, saved: map[int64][]string{}}
}

func (f *fakeRepo) user(id int64, name string) *ActivityRecord {
	rec := &ActivityRecord{UserID: id, Name: name, Events: map[string]int{}, Unlocks: map[string]time.Time{}}
	f.records[id] = rec
	return rec
}

func (f *fakeRepo) LoadActivity(_ context.Context, userID int64) (*ActivityRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	rec, ok := f.records[userID]
	if !ok {
		rec = &ActivityRecord{UserID: userID, Events: map[string]int{}, Unlocks: map[string]time.Time{}}
		f.records[userID] = rec
	}
	cp := *rec
	cp.Unlocks = map[string]time.Time{}
	for k, v := range rec.Unlocks {
		cp.Unlocks[k] = v
	}
	return &cp, nil
}

func (f *fakeRepo) LoadAllActivity(ctx context.Context) ([]ActivityRecord, error) {
	var out []ActivityRecord
	for id := int64(1); id <= int64(len(f.records)); id++ {
		rec, _ := f.LoadActivity(ctx, id)
		out = append(out, *rec)
	}
	return out, nil
}

func (f *fakeRepo) SaveUnlocks(_ context.Context, userID int64, ids []string, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, id := range ids {
		if _, ok := f.records[userID].Unlocks[id]; !ok {
			f.records[userID].Unlocks[id] = at
		}
	}
	f.saved[userID] = append(f.saved[userID], ids...)
	return nil
}

func (f *fakeRepo) CreateReview(_ context.Context, userID int64, _ int, _ string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.records[userID].Reviews++
	return nil
}

func (f *fakeRepo) RecordActivity(_ context.Context, userID int64, kind, _ string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.records[userID].Events[kind]++
	return nil
}

func tests(n int, dominant models.Profile, start time.Time) []TestSummary {
	out := make([]TestSummary, n)
	for i := range out {
		out[i] = TestSummary{
			Scores:    models.ScoreVector{Visual: 60, Auditory: 20, Kinesthetic: 20},
			Dominant:  dominant,
			CreatedAt: start.AddDate(0, 0, i),
		}
	}
	return out
}

func newTestService(repo Repository, now time.Time) *Service {
	s := NewService(repo, NewEngine(DefaultCatalog()))
	s.now = func() time.Time { return now }
	return s
}

func TestBuildActivity(t *testing.T) {
	start := time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)
	rec := &ActivityRecord{
		Tests: []TestSummary{
			{Scores: models.ScoreVector{Visual: 40, Auditory: 30, Kinesthetic: 30}, Dominant: models.ProfileVisual, CreatedAt: start},
			{Scores: models.ScoreVector{Visual: 10, Auditory: 70, Kinesthetic: 20}, Dominant: models.ProfileAuditory, CreatedAt: start.AddDate(0, 0, 1)},
			{Scores: models.ScoreVector{Visual: 0, Auditory: 0, Kinesthetic: 100}, Dominant: models.ProfileKinesthetic, CreatedAt: start.AddDate(0, 0, 2)},
		},
		Reviews: 2,
		Events:  map[string]int{models.ActivityShare: 4, models.ActivityAICoach: 1, models.ActivityMarketView: 6},
	}

	a := BuildActivity(rec)
	assert.Equal(t, 3, a.Tests)
	assert.Equal(t, 2, a.Reviews)
	assert.Equal(t, 4, a.Shares)
	assert.Equal(t, 1, a.AICoachUses)
	assert.Equal(t, 6, a.MarketViews)
	assert.Equal(t, 3, a.DistinctProfiles)
	assert.Equal(t, 1, a.PerfectScores)
	assert.Equal(t, 2, a.Improvements)
	assert.Len(t, a.ActivityDates, 3)
}

func TestServiceGetProgressPersistsUnlocksOnce(t *testing.T) {
	repo := newFakeRepo()
	now := time.Date(2025, 1, 5, 12, 0, 0, 0, time.UTC)
	repo.user(1, "Ana Souza").Tests = tests(1, models.ProfileVisual, now)
	svc := newTestService(repo, now)

	p, err := svc.GetProgress(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"first-test"}, p.NewlyUnlocked)
	assert.Equal(t, []string{"first-test"}, repo.saved[1])

	svc.now = func() time.Time { return now.Add(72 * time.Hour) }
	p, err = svc.GetProgress(context.Background(), 1)
	require.NoError(t, err)
	assert.Empty(t, p.NewlyUnlocked)
	assert.Equal(t, []string{"first-test"}, repo.saved[1])
	for _, a := range p.Achievements {
		if a.ID == "first-test" {
			require.NotNil(t, a.UnlockedAt)
			assert.True(t, a.UnlockedAt.Equal(now))
		}
	}
}

func TestServiceCreateReviewReportsGain(t *testing.T) {
	repo := newFakeRepo()
	now := time.Date(2025, 1, 5, 12, 0, 0, 0, time.UTC)
	rec := repo.user(1, "Ana")
	rec.Tests = tests(1, models.ProfileVisual, now)
	rec.Reviews = 2
	svc := newTestService(repo, now)

	// 50 + 2*20 = 90 before, 110 after
	resp, err := svc.CreateReview(context.Background(), 1, models.CreateReviewRequest{Rating: 5})
	require.NoError(t, err)
	assert.Equal(t, 20, resp.ExperienceGained)
	assert.Equal(t, 110, resp.Experience)
	assert.True(t, resp.LeveledUp)
	assert.Equal(t, 2, resp.Level)
	assert.Contains(t, resp.NewlyUnlocked, "reviewer")
}

func TestServiceRecordActivityRewards(t *testing.T) {
	repo := newFakeRepo()
	repo.user(1, "Ana")
	svc := newTestService(repo, time.Now())

	resp, err := svc.RecordActivity(context.Background(), 1, models.ActivityShare, "whatsapp")
	require.NoError(t, err)
	assert.Equal(t, 10, resp.ExperienceGained)

	resp, err = svc.RecordActivity(context.Background(), 1, models.ActivityMarketView, "")
	require.NoError(t, err)
	assert.Equal(t, 0, resp.ExperienceGained)
	assert.Equal(t, 10, resp.Experience)
	assert.Equal(t, 1, repo.records[1].Events[models.ActivityMarketView])
}

func TestServiceLeaderboard(t *testing.T) {
	repo := newFakeRepo()
	now := time.Date(2025, 1, 5, 12, 0, 0, 0, time.UTC)
	repo.user(1, "Ana Souza").Tests = tests(1, models.ProfileVisual, now)
	repo.user(2, "Bruno Lima").Tests = tests(4, models.ProfileAuditory, now)
	repo.user(3, "Carla")
	svc := newTestService(repo, now)

	resp, err := svc.Leaderboard(context.Background(), 1, 2)
	require.NoError(t, err)
	require.Len(t, resp.Entries, 2)
	assert.Equal(t, int64(2), resp.Entries[0].UserID)
	assert.Equal(t, "Bruno L.", resp.Entries[0].DisplayName)
	assert.Equal(t, int64(1), resp.Entries[1].UserID)
	assert.True(t, resp.Entries[1].IsCurrentUser)
	require.NotNil(t, resp.CurrentUser)
	assert.Equal(t, 2, resp.CurrentUser.Rank)
}

func TestServiceHandleTestCompleted(t *testing.T) {
	repo := newFakeRepo()
	now := time.Date(2025, 1, 5, 12, 0, 0, 0, time.UTC)
	repo.user(1, "Ana").Tests = tests(5, models.ProfileVisual, now.AddDate(0, 0, -4))
	svc := newTestService(repo, now)

	err := svc.HandleTestCompleted(context.Background(), events.TestCompleted{UserID: 1, ResultID: "r"})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"first-test", "five-tests"}, repo.saved[1])
}

func TestHandlerRoutes(t *testing.T) {
	repo := newFakeRepo()
	repo.user(1, "Ana")
	h := NewHandler(newTestService(repo, time.Now()))
	r := mux.NewRouter()
	h.Register(r)

	do := func(method, path, body string, authed bool) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, path, strings.NewReader(body))
		if authed {
			req = req.WithContext(httputil.WithUserID(req.Context(), 1))
		}
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		return rec
	}

	assert.Equal(t, http.StatusUnauthorized, do("GET", "/gamification/progress", "", false).Code)
	assert.Equal(t, http.StatusOK, do("GET", "/gamification/progress", "", true).Code)
	assert.Equal(t, http.StatusOK, do("GET", "/gamification/challenges", "", true).Code)
	assert.Equal(t, http.StatusOK, do("GET", "/gamification/leaderboard?limit=5", "", true).Code)
	assert.Equal(t, http.StatusCreated, do("POST", "/reviews", `{"rating":4,"comment":"bom"}`, true).Code)
	assert.Equal(t, http.StatusBadRequest, do("POST", "/reviews", `{"rating":9}`, true).Code)
	assert.Equal(t, http.StatusCreated, do("POST", "/activity", `{"kind":"share","platform":"copy"}`, true).Code)
	assert.Equal(t, http.StatusBadRequest, do("POST", "/activity", `{"kind":"ai_coach"}`, true).Code)
}
