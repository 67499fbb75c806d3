package scoring

import (
	"errors"
	"testing"

	"github.com/dialogamente/backend/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func entry(v, a, k int) CohortEntry {
	s := models.ScoreVector{Visual: v, Auditory: a, Kinesthetic: k}
	return CohortEntry{Scores: s, Dominant: DominantProfile(s)}
}

func TestCompare(t *testing.T) {
	user := entry(80, 10, 10)
	cohort := []CohortEntry{
		entry(60, 20, 20),
		entry(20, 70, 10),
		entry(10, 15, 75),
		entry(90, 5, 5),
	}

	got, err := Compare(user, cohort)
	require.NoError(t, err)

	assert.Equal(t, models.ProfileVisual, got.UserProfile)
	assert.Equal(t, 75, got.Percentile)
	assert.Equal(t, 4, got.TotalResults)
	assert.Equal(t, 2, got.SameProfileCount)
	assert.Equal(t, 50.0, got.SameProfileShare)
	assert.Equal(t, models.ScoreVector{Visual: 45, Auditory: 28, Kinesthetic: 28}, got.AverageScores)
	assert.Equal(t, []models.Profile{models.ProfileVisual}, got.AboveAverage)
}

func TestCompare_EmptyCohort(t *testing.T) {
	_, err := Compare(entry(50, 25, 25), nil)
	assert.True(t, errors.Is(err, ErrInsufficientData))
}

func TestDistribution(t *testing.T) {
	entries, avg, err := Distribution([]CohortEntry{
		entry(60, 20, 20),
		entry(70, 20, 10),
		entry(10, 15, 75),
	})
	require.NoError(t, err)
	require.Len(t, entries, 3)

	assert.Equal(t, 2, entries[0].Count)
	assert.Equal(t, 0, entries[1].Count)
	assert.Equal(t, 1, entries[2].Count)
	assert.Equal(t, "Cinestésico", entries[2].Label)
	assert.Equal(t, 68, avg)

	_, _, err = Distribution(nil)
	assert.ErrorIs(t, err, ErrInsufficientData)
}

func TestEvolution(t *testing.T) {
	got := Evolution(
		models.ScoreVector{Visual: 50, Auditory: 30, Kinesthetic: 20},
		models.ScoreVector{Visual: 40, Auditory: 40, Kinesthetic: 20},
	)
	assert.Equal(t, models.ScoreDelta{Visual: 10, Auditory: -10, Kinesthetic: 0}, got)
}

func TestCountImprovements(t *testing.T) {
	history := []models.ScoreVector{
		{Visual: 40},
		{Visual: 60},
		{Auditory: 65},
		{Kinesthetic: 90},
		{Kinesthetic: 50},
	}
	assert.Equal(t, 2, CountImprovements(history, 20))
	assert.Equal(t, 0, CountImprovements(history[:1], 20))
}
