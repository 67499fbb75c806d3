package gamification

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dialogamente/backend/internal/models"
)

// TestSummary is the part of a stored test result progression depends on.
type TestSummary struct {
	Scores     models.ScoreVector
	Dominant   models.Profile
	TotalScore int
	CreatedAt  time.Time
}

// ActivityRecord is everything stored about one user's activity.
type ActivityRecord struct {
	UserID  int64
	Name    string
	Tests   []TestSummary // oldest first
	Reviews int
	Events  map[string]int
	Unlocks map[string]time.Time
}

type Repository interface {
	LoadActivity(ctx context.Context, userID int64) (*ActivityRecord, error)
	LoadAllActivity(ctx context.Context) ([]ActivityRecord, error)
	SaveUnlocks(ctx context.Context, userID int64, achievementIDs []string, at time.Time) error
	CreateReview(ctx context.Context, userID int64, rating int, comment string) error
	RecordActivity(ctx context.Context, userID int64, kind, platform string) error
}

type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// ── Activity ────────────────────────────────────────────

func (s *Store) LoadActivity(ctx context.Context, userID int64) (*ActivityRecord, error) {
	rec := &ActivityRecord{
		UserID:  userID,
		Events:  map[string]int{},
		Unlocks: map[string]time.Time{},
	}
	err := s.db.QueryRowContext(ctx, `SELECT name FROM users WHERE id = $1`, userID).Scan(&rec.Name)
	if err != nil && err != sql.ErrNoRows {
		return nil, fmt.Errorf("get user: %w", err)
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT visual, auditory, kinesthetic, dominant_profile, total_score, created_at
		 FROM test_results WHERE user_id = $1 ORDER BY created_at ASC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("query tests: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		t, err := scanTestSummary(rows)
		if err != nil {
			return nil, err
		}
		rec.Tests = append(rec.Tests, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tests: %w", err)
	}

	if err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM reviews WHERE user_id = $1`, userID,
	).Scan(&rec.Reviews); err != nil {
		return nil, fmt.Errorf("count reviews: %w", err)
	}

	evRows, err := s.db.QueryContext(ctx,
		`SELECT kind, COUNT(*) FROM activity_events WHERE user_id = $1 GROUP BY kind`, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("count events: %w", err)
	}
	defer evRows.Close()
	for evRows.Next() {
		var kind string
		var n int
		if err := evRows.Scan(&kind, &n); err != nil {
			return nil, fmt.Errorf("scan event count: %w", err)
		}
		rec.Events[kind] = n
	}
	if err := evRows.Err(); err != nil {
		return nil, fmt.Errorf("iterate events: %w", err)
	}

	unlocks, err := s.unlocks(ctx, `WHERE user_id = $1`, userID)
	if err != nil {
		return nil, err
	}
	for _, u := range unlocks {
		rec.Unlocks[u.achievementID] = u.at
	}
	return rec, nil
}

// LoadAllActivity loads every user's activity for ranking.
func (s *Store) LoadAllActivity(ctx context.Context) ([]ActivityRecord, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name FROM users ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("query users: %w", err)
	}
	defer rows.Close()

	var records []ActivityRecord
	index := map[int64]int{}
	for rows.Next() {
		rec := ActivityRecord{Events: map[string]int{}, Unlocks: map[string]time.Time{}}
		if err := rows.Scan(&rec.UserID, &rec.Name); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		index[rec.UserID] = len(records)
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate users: %w", err)
	}

	testRows, err := s.db.QueryContext(ctx,
		`SELECT user_id, visual, auditory, kinesthetic, dominant_profile, total_score, created_at
		 FROM test_results ORDER BY user_id, created_at ASC`,
	)
	if err != nil {
		return nil, fmt.Errorf("query tests: %w", err)
	}
	defer testRows.Close()
	for testRows.Next() {
		var uid int64
		var t TestSummary
		var dominant string
		if err := testRows.Scan(&uid, &t.Scores.Visual, &t.Scores.Auditory, &t.Scores.Kinesthetic,
			&dominant, &t.TotalScore, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan test: %w", err)
		}
		t.Dominant = models.Profile(dominant)
		t.CreatedAt = t.CreatedAt.UTC()
		if i, ok := index[uid]; ok {
			records[i].Tests = append(records[i].Tests, t)
		}
	}
	if err := testRows.Err(); err != nil {
		return nil, fmt.Errorf("iterate tests: %w", err)
	}

	counts, err := s.db.QueryContext(ctx,
		`SELECT user_id, 'review', COUNT(*) FROM reviews GROUP BY user_id
		 UNION ALL
		 SELECT user_id, kind, COUNT(*) FROM activity_events GROUP BY user_id, kind`,
	)
	if err != nil {
		return nil, fmt.Errorf("count activity: %w", err)
	}
	defer counts.Close()
	for counts.Next() {
		var uid int64
		var kind string
		var n int
		if err := counts.Scan(&uid, &kind, &n); err != nil {
			return nil, fmt.Errorf("scan activity count: %w", err)
		}
		i, ok := index[uid]
		if !ok {
			continue
		}
		if kind == models.ActivityReview {
			records[i].Reviews = n
		} else {
			records[i].Events[kind] = n
		}
	}
	if err := counts.Err(); err != nil {
		return nil, fmt.Errorf("iterate activity counts: %w", err)
	}

	unlocks, err := s.unlocks(ctx, "")
	if err != nil {
		return nil, err
	}
	for _, u := range unlocks {
		if i, ok := index[u.userID]; ok {
			records[i].Unlocks[u.achievementID] = u.at
		}
	}
	return records, nil
}

func scanTestSummary(rows *sql.Rows) (TestSummary, error) {
	var t TestSummary
	var dominant string
	if err := rows.Scan(&t.Scores.Visual, &t.Scores.Auditory, &t.Scores.Kinesthetic,
		&dominant, &t.TotalScore, &t.CreatedAt); err != nil {
		return t, fmt.Errorf("scan test: %w", err)
	}
	t.Dominant = models.Profile(dominant)
	t.CreatedAt = t.CreatedAt.UTC()
	return t, nil
}

// ── Achievements ────────────────────────────────────────

type unlockRow struct {
	userID        int64
	achievementID string
	at            time.Time
}

func (s *Store) unlocks(ctx context.Context, where string, args ...interface{}) ([]unlockRow, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT user_id, achievement_id, unlocked_at FROM user_achievements `+where, args...,
	)
	if err != nil {
		return nil, fmt.Errorf("query achievements: %w", err)
	}
	defer rows.Close()

	var out []unlockRow
	for rows.Next() {
		var u unlockRow
		if err := rows.Scan(&u.userID, &u.achievementID, &u.at); err != nil {
			return nil, fmt.Errorf("scan achievement: %w", err)
		}
		u.at = u.at.UTC()
		out = append(out, u)
	}
	return out, rows.Err()
}

// SaveUnlocks records first unlock dates. Existing rows keep their date.
func (s *Store) SaveUnlocks(ctx context.Context, userID int64, achievementIDs []string, at time.Time) error {
	for _, id := range achievementIDs {
		_, err := s.db.ExecContext(ctx,
			`INSERT INTO user_achievements (user_id, achievement_id, unlocked_at)
			 VALUES ($1, $2, $3)
			 ON CONFLICT (user_id, achievement_id) DO NOTHING`,
			userID, id, at,
		)
		if err != nil {
			return fmt.Errorf("save achievement %s: %w", id, err)
		}
	}
	return nil
}

// ── Recorded Actions ────────────────────────────────────

func (s *Store) CreateReview(ctx context.Context, userID int64, rating int, comment string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO reviews (user_id, rating, comment) VALUES ($1, $2, $3)`,
		userID, rating, comment,
	)
	if err != nil {
		return fmt.Errorf("insert review: %w", err)
	}
	return nil
}

func (s *Store) RecordActivity(ctx context.Context, userID int64, kind, platform string) error {
	var p *string
	if platform != "" {
		p = &platform
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO activity_events (user_id, kind, platform) VALUES ($1, $2, $3)`,
		userID, kind, p,
	)
	if err != nil {
		return fmt.Errorf("insert activity %s: %w", kind, err)
	}
	return nil
}
