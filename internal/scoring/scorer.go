// Package scoring turns quiz answers into VAK score vectors and compares
// results against a cohort of earlier results.
package scoring

import (
	"errors"
	"math"
	"sort"

	"github.com/dialogamente/backend/internal/models"
)

// ErrInsufficientData is returned by cohort statistics over an empty cohort.
var ErrInsufficientData = errors.New("insufficient data to compare")

// Answers maps a question index to the option code the user picked.
type Answers map[int]string

// AnswerKey maps option codes to axes. Questions overrides Default for
// individual question indexes.
type AnswerKey struct {
	Default   map[string]models.Profile
	Questions map[int]map[string]models.Profile
}

// DefaultAnswerKey is the key used by the communication quiz: every
// question offers one option per axis.
func DefaultAnswerKey() AnswerKey {
	return AnswerKey{
		Default: map[string]models.Profile{
			"a": models.ProfileVisual,
			"b": models.ProfileAuditory,
			"c": models.ProfileKinesthetic,
		},
	}
}

// Lookup returns the axis an option maps to for a given question.
func (k AnswerKey) Lookup(question int, option string) (models.Profile, bool) {
	if q, ok := k.Questions[question]; ok {
		if p, ok := q[option]; ok {
			return p, true
		}
	}
	p, ok := k.Default[option]
	return p, ok
}

type Scorer struct {
	key AnswerKey
}

func NewScorer(key AnswerKey) *Scorer {
	return &Scorer{key: key}
}

// ScoreAnswers counts answers per axis. Unknown option codes do not
// increment any axis.
func (s *Scorer) ScoreAnswers(answers Answers) models.ScoreVector {
	var v models.ScoreVector
	for q, option := range answers {
		if p, ok := s.key.Lookup(q, option); ok {
			v.Add(p, 1)
		}
	}
	return v
}

// Unmapped returns the sorted question indexes whose option did not map to an axis.
func (s *Scorer) Unmapped(answers Answers) []int {
	out := []int{}
	for q, option := range answers {
		if _, ok := s.key.Lookup(q, option); !ok {
			out = append(out, q)
		}
	}
	sort.Ints(out)
	return out
}

// NormalizeToPercentage scales each axis independently to its share of
// totalQuestions. The three percentages are not forced to sum to 100.
func NormalizeToPercentage(v models.ScoreVector, totalQuestions int) models.ScoreVector {
	if totalQuestions <= 0 {
		return models.ScoreVector{}
	}
	pct := func(n int) int {
		return int(math.Round(float64(n) * 100 / float64(totalQuestions)))
	}
	return models.ScoreVector{
		Visual:      pct(v.Visual),
		Auditory:    pct(v.Auditory),
		Kinesthetic: pct(v.Kinesthetic),
	}
}

// DominantProfile returns the highest axis. Ties go to the axis that comes
// first in models.Profiles.
func DominantProfile(v models.ScoreVector) models.Profile {
	best := models.Profiles[0]
	for _, p := range models.Profiles[1:] {
		if v.Get(p) > v.Get(best) {
			best = p
		}
	}
	return best
}

// IsPerfect reports whether a normalized vector has an axis at 100.
func IsPerfect(v models.ScoreVector) bool {
	return v.Max() == 100
}

// PercentileRank is the share of the cohort strictly below userMax, in whole percent.
func PercentileRank(userMax int, cohortMax []int) (int, error) {
	if len(cohortMax) == 0 {
		return 0, ErrInsufficientData
	}
	below := 0
	for _, m := range cohortMax {
		if m < userMax {
			below++
		}
	}
	return int(math.Round(float64(below) * 100 / float64(len(cohortMax)))), nil
}

// CohortAverage returns the rounded per-axis mean.
func CohortAverage(cohort []models.ScoreVector) (models.ScoreVector, error) {
	if len(cohort) == 0 {
		return models.ScoreVector{}, ErrInsufficientData
	}
	var sv, sa, sk int
	for _, v := range cohort {
		sv += v.Visual
		sa += v.Auditory
		sk += v.Kinesthetic
	}
	n := float64(len(cohort))
	return models.ScoreVector{
		Visual:      int(math.Round(float64(sv) / n)),
		Auditory:    int(math.Round(float64(sa) / n)),
		Kinesthetic: int(math.Round(float64(sk) / n)),
	}, nil
}
