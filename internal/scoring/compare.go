package scoring

import (
	"math"

	"github.com/dialogamente/backend/internal/models"
)

// highlightMargin is how far above the cohort average an axis must be to
// be reported as a strength.
const highlightMargin = 10

// CohortEntry is the slice of a stored result needed for comparisons.
type CohortEntry struct {
	Scores   models.ScoreVector `json:"scores"`
	Dominant models.Profile     `json:"dominant"`
}

// Compare positions one result within a cohort.
func Compare(user CohortEntry, cohort []CohortEntry) (*models.ComparisonResponse, error) {
	if len(cohort) == 0 {
		return nil, ErrInsufficientData
	}

	vectors := make([]models.ScoreVector, len(cohort))
	maxima := make([]int, len(cohort))
	same := 0
	for i, c := range cohort {
		vectors[i] = c.Scores
		maxima[i] = c.Scores.Max()
		if c.Dominant == user.Dominant {
			same++
		}
	}

	avg, err := CohortAverage(vectors)
	if err != nil {
		return nil, err
	}
	percentile, err := PercentileRank(user.Scores.Max(), maxima)
	if err != nil {
		return nil, err
	}

	above := []models.Profile{}
	for _, p := range models.Profiles {
		if user.Scores.Get(p) > avg.Get(p)+highlightMargin {
			above = append(above, p)
		}
	}

	share := math.Round(float64(same)*1000/float64(len(cohort))) / 10

	return &models.ComparisonResponse{
		UserProfile:      user.Dominant,
		UserScores:       user.Scores,
		AverageScores:    avg,
		Percentile:       percentile,
		TotalResults:     len(cohort),
		SameProfileCount: same,
		SameProfileShare: share,
		AboveAverage:     above,
	}, nil
}

// Distribution counts dominant profiles across the cohort and averages the
// max axis of every result.
func Distribution(cohort []CohortEntry) ([]models.ProfileDistributionEntry, int, error) {
	if len(cohort) == 0 {
		return nil, 0, ErrInsufficientData
	}
	counts := make(map[models.Profile]int, len(models.Profiles))
	total := 0
	for _, c := range cohort {
		counts[c.Dominant]++
		total += c.Scores.Max()
	}
	entries := make([]models.ProfileDistributionEntry, 0, len(models.Profiles))
	for _, p := range models.Profiles {
		entries = append(entries, models.ProfileDistributionEntry{
			Profile: p,
			Label:   p.DisplayName(),
			Count:   counts[p],
		})
	}
	return entries, int(math.Round(float64(total) / float64(len(cohort)))), nil
}

// Evolution returns latest minus previous for each axis.
func Evolution(latest, previous models.ScoreVector) models.ScoreDelta {
	return models.ScoreDelta{
		Visual:      latest.Visual - previous.Visual,
		Auditory:    latest.Auditory - previous.Auditory,
		Kinesthetic: latest.Kinesthetic - previous.Kinesthetic,
	}
}

// CountImprovements counts consecutive pairs in a chronological history
// where the max axis rose by at least threshold points.
func CountImprovements(history []models.ScoreVector, threshold int) int {
	n := 0
	for i := 1; i < len(history); i++ {
		if history[i].Max()-history[i-1].Max() >= threshold {
			n++
		}
	}
	return n
}
