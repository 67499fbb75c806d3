package profiles

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dialogamente/backend/internal/models"
	"github.com/dialogamente/backend/internal/scoring"
)

var ErrNotFound = errors.New("test result not found")

type Repository interface {
	SaveResult(ctx context.Context, r *models.TestResult) error
	ListResults(ctx context.Context, userID int64) ([]models.TestResult, error)
	GetResult(ctx context.Context, userID int64, id string) (*models.TestResult, error)
	CohortEntries(ctx context.Context) ([]scoring.CohortEntry, error)
	CountUsers(ctx context.Context) (int, error)
	MarkInsightsUsed(ctx context.Context, userID int64, id string) error
}

type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

const resultColumns = `id, user_id, visual, auditory, kinesthetic,
	raw_visual, raw_auditory, raw_kinesthetic, answered_count,
	dominant_profile, total_score, ai_insights_used, created_at`

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanResult(row rowScanner) (*models.TestResult, error) {
	var r models.TestResult
	var dominant string
	err := row.Scan(&r.ID, &r.UserID, &r.Scores.Visual, &r.Scores.Auditory, &r.Scores.Kinesthetic,
		&r.RawScores.Visual, &r.RawScores.Auditory, &r.RawScores.Kinesthetic, &r.AnsweredCount,
		&dominant, &r.TotalScore, &r.AIInsightsUsed, &r.CreatedAt)
	if err != nil {
		return nil, err
	}
	r.Dominant = models.Profile(dominant)
	r.CreatedAt = r.CreatedAt.UTC()
	return &r, nil
}

func (s *Store) SaveResult(ctx context.Context, r *models.TestResult) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO test_results (`+resultColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		r.ID, r.UserID, r.Scores.Visual, r.Scores.Auditory, r.Scores.Kinesthetic,
		r.RawScores.Visual, r.RawScores.Auditory, r.RawScores.Kinesthetic, r.AnsweredCount,
		string(r.Dominant), r.TotalScore, r.AIInsightsUsed, r.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert test result: %w", err)
	}
	return nil
}

// ListResults returns the user's results, newest first.
func (s *Store) ListResults(ctx context.Context, userID int64) ([]models.TestResult, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+resultColumns+` FROM test_results
		 WHERE user_id = $1 ORDER BY created_at DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("query test results: %w", err)
	}
	defer rows.Close()

	results := []models.TestResult{}
	for rows.Next() {
		r, err := scanResult(rows)
		if err != nil {
			return nil, fmt.Errorf("scan test result: %w", err)
		}
		results = append(results, *r)
	}
	return results, rows.Err()
}

func (s *Store) GetResult(ctx context.Context, userID int64, id string) (*models.TestResult, error) {
	r, err := scanResult(s.db.QueryRowContext(ctx,
		`SELECT `+resultColumns+` FROM test_results WHERE id = $1 AND user_id = $2`,
		id, userID,
	))
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get test result: %w", err)
	}
	return r, nil
}

// CohortEntries returns every stored result.
func (s *Store) CohortEntries(ctx context.Context) ([]scoring.CohortEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT visual, auditory, kinesthetic, dominant_profile FROM test_results`,
	)
	if err != nil {
		return nil, fmt.Errorf("query cohort: %w", err)
	}
	defer rows.Close()

	cohort := []scoring.CohortEntry{}
	for rows.Next() {
		var e scoring.CohortEntry
		var dominant string
		if err := rows.Scan(&e.Scores.Visual, &e.Scores.Auditory, &e.Scores.Kinesthetic, &dominant); err != nil {
			return nil, fmt.Errorf("scan cohort entry: %w", err)
		}
		e.Dominant = models.Profile(dominant)
		cohort = append(cohort, e)
	}
	return cohort, rows.Err()
}

func (s *Store) CountUsers(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(DISTINCT user_id) FROM test_results`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return n, nil
}

func (s *Store) MarkInsightsUsed(ctx context.Context, userID int64, id string) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE test_results SET ai_insights_used = TRUE WHERE id = $1 AND user_id = $2`,
		id, userID,
	)
	if err != nil {
		return fmt.Errorf("mark insights used: %w", err)
	}
	return nil
}
