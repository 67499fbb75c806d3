package gamification

import (
	"errors"
	"testing"
	"time"

	"github.com/dialogamente/backend/internal/models"
)

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestLevelForExperience(t *testing.T) {
	e := NewEngine(DefaultCatalog())
	tests := []struct {
		xp    int
		level int
		title string
	}{
		{0, 1, "Iniciante"},
		{99, 1, "Iniciante"},
		{100, 2, "Aprendiz"},
		{249, 2, "Aprendiz"},
		{250, 3, "Praticante"},
		{700, 5, "Especialista"},
		{1499, 6, "Mestre"},
		{1500, 7, "Lenda"},
		{99999, 7, "Lenda"},
	}
	for _, tt := range tests {
		got := e.LevelForExperience(tt.xp)
		if got.Level != tt.level || got.Title != tt.title {
			t.Errorf("LevelForExperience(%d) = %d %q, want %d %q", tt.xp, got.Level, got.Title, tt.level, tt.title)
		}
	}
}

func TestLevelForExperience_Monotonic(t *testing.T) {
	e := NewEngine(DefaultCatalog())
	prev := e.LevelForExperience(0).Level
	for xp := 1; xp <= 3000; xp++ {
		l := e.LevelForExperience(xp).Level
		if l < prev {
			t.Fatalf("LevelForExperience(%d) = %d, below previous %d", xp, l, prev)
		}
		prev = l
	}
}

func TestExperienceToNextLevel(t *testing.T) {
	e := NewEngine(DefaultCatalog())
	tests := []struct {
		level  int
		want   int
		wantOK bool
	}{
		{1, 100, true},
		{3, 450, true},
		{6, 1500, true},
		{7, 0, false},
	}
	for _, tt := range tests {
		got, ok := e.ExperienceToNextLevel(tt.level)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("ExperienceToNextLevel(%d) = %d, %v, want %d, %v", tt.level, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestAddExperience(t *testing.T) {
	e := NewEngine(DefaultCatalog())
	tests := []struct {
		current, delta int
		want           ExperienceGain
	}{
		{0, 50, ExperienceGain{NewExperience: 50, LeveledUp: false, NewLevel: 1}},
		{90, 10, ExperienceGain{NewExperience: 100, LeveledUp: true, NewLevel: 2}},
		{0, 1000, ExperienceGain{NewExperience: 1000, LeveledUp: true, NewLevel: 6}},
		{1500, 50, ExperienceGain{NewExperience: 1550, LeveledUp: false, NewLevel: 7}},
	}
	for _, tt := range tests {
		if got := e.AddExperience(tt.current, tt.delta); got != tt.want {
			t.Errorf("AddExperience(%d, %d) = %+v, want %+v", tt.current, tt.delta, got, tt.want)
		}
	}
}

func TestRankForPoints(t *testing.T) {
	e := NewEngine(DefaultCatalog())
	tests := []struct {
		points int
		rank   int
		title  string
	}{
		{0, 10, "Bronze"},
		{499, 10, "Bronze"},
		{500, 9, "Prata"},
		{3500, 6, "Diamante"},
		{24999, 2, "Esmeralda"},
		{25000, 1, "Lenda"},
	}
	for _, tt := range tests {
		got := e.RankForPoints(tt.points)
		if got.Rank != tt.rank || got.Title != tt.title {
			t.Errorf("RankForPoints(%d) = %d %q, want %d %q", tt.points, got.Rank, got.Title, tt.rank, tt.title)
		}
	}
}

func TestEvaluateAchievement(t *testing.T) {
	def := AchievementDefinition{ID: "five-tests", Requirement: 5, Points: 25, Rarity: RarityUncommon}
	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	locked := EvaluateAchievement(def, 2, nil, now)
	if locked.Unlocked || locked.UnlockedAt != nil {
		t.Errorf("current=2: unlocked=%v at=%v, want locked", locked.Unlocked, locked.UnlockedAt)
	}
	if locked.ProgressPercentage != 40 {
		t.Errorf("current=2: progress = %v, want 40", locked.ProgressPercentage)
	}

	first := EvaluateAchievement(def, 7, nil, now)
	if !first.Unlocked || first.UnlockedAt == nil || !first.UnlockedAt.Equal(now) {
		t.Fatalf("current=7: unlocked=%v at=%v, want unlocked at %v", first.Unlocked, first.UnlockedAt, now)
	}
	if first.ProgressPercentage != 100 {
		t.Errorf("current=7: progress = %v, want capped at 100", first.ProgressPercentage)
	}

	later := now.Add(48 * time.Hour)
	again := EvaluateAchievement(def, 9, &first, later)
	if again.UnlockedAt == nil || !again.UnlockedAt.Equal(now) {
		t.Errorf("re-evaluation moved unlock date to %v, want %v", again.UnlockedAt, now)
	}
}

func TestComputeStreak(t *testing.T) {
	tests := []struct {
		name      string
		dates     []string
		reference string
		want      Streak
	}{
		{"empty", nil, "2025-01-03", Streak{0, 0}},
		{"three consecutive", []string{"2025-01-01", "2025-01-02", "2025-01-03"}, "2025-01-03", Streak{3, 3}},
		{"gap", []string{"2025-01-01", "2025-01-05"}, "2025-01-05", Streak{1, 1}},
		{"ended yesterday", []string{"2025-01-01", "2025-01-02"}, "2025-01-03", Streak{2, 2}},
		{"broken", []string{"2025-01-01", "2025-01-02"}, "2025-01-04", Streak{0, 2}},
		{"duplicates", []string{"2025-01-02", "2025-01-02", "2025-01-03"}, "2025-01-03", Streak{2, 2}},
		{"longest in past", []string{"2025-01-01", "2025-01-02", "2025-01-03", "2025-01-04", "2025-01-10", "2025-01-11"}, "2025-01-11", Streak{2, 4}},
		{"unordered", []string{"2025-01-03", "2025-01-01", "2025-01-02"}, "2025-01-03", Streak{3, 3}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var dates []time.Time
			for _, d := range tt.dates {
				dates = append(dates, day(d))
			}
			if got := ComputeStreak(dates, day(tt.reference)); got != tt.want {
				t.Errorf("ComputeStreak = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestComputeStreak_IgnoresTimeOfDay(t *testing.T) {
	dates := []time.Time{
		time.Date(2025, 1, 1, 23, 59, 0, 0, time.UTC),
		time.Date(2025, 1, 2, 0, 1, 0, 0, time.UTC),
	}
	ref := time.Date(2025, 1, 2, 18, 0, 0, 0, time.UTC)
	if got := ComputeStreak(dates, ref); got != (Streak{2, 2}) {
		t.Errorf("ComputeStreak = %+v, want {2 2}", got)
	}
}

func TestGenerateDailyChallenges(t *testing.T) {
	e := NewEngine(DefaultCatalog())
	now := time.Date(2025, 5, 1, 8, 0, 0, 0, time.UTC)

	for i := 0; i < 20; i++ {
		got := e.GenerateDailyChallenges(3, now)
		if len(got) != 3 {
			t.Fatalf("len = %d, want 3", len(got))
		}
		seen := map[string]bool{}
		for _, c := range got {
			if seen[c.ID] {
				t.Fatalf("duplicate challenge %s", c.ID)
			}
			seen[c.ID] = true
			if !c.ExpiresAt.Equal(now.Add(24 * time.Hour)) {
				t.Errorf("ExpiresAt = %v, want %v", c.ExpiresAt, now.Add(24*time.Hour))
			}
		}
	}

	if got := e.GenerateDailyChallenges(10, now); len(got) != 5 {
		t.Errorf("count above catalog size: len = %d, want 5", len(got))
	}
	if got := e.GenerateDailyChallenges(0, now); len(got) != 0 {
		t.Errorf("count 0: len = %d, want 0", len(got))
	}
}

func TestGenerateDailyChallenges_UsesPermutation(t *testing.T) {
	e := NewEngine(DefaultCatalog())
	e.perm = func(n int) []int { return []int{4, 2, 0, 1, 3} }

	got := e.GenerateDailyChallenges(2, time.Now())
	if got[0].ID != "daily-5" || got[1].ID != "daily-3" {
		t.Errorf("picked %s, %s, want daily-5, daily-3", got[0].ID, got[1].ID)
	}
}

func TestProgress(t *testing.T) {
	e := NewEngine(DefaultCatalog())
	now := day("2025-01-03")

	activity := Activity{
		Tests:            5,
		Reviews:          1,
		DistinctProfiles: 2,
		ActivityDates:    []time.Time{day("2025-01-01"), day("2025-01-02"), day("2025-01-03")},
	}
	p := e.Progress(9, activity, nil, now)

	// 5*50 + 1*20
	if p.Experience != 270 {
		t.Errorf("Experience = %d, want 270", p.Experience)
	}
	if p.Level != 3 || p.LevelTitle != "Praticante" {
		t.Errorf("Level = %d %q, want 3 Praticante", p.Level, p.LevelTitle)
	}
	if p.ExperienceToNextLevel == nil || *p.ExperienceToNextLevel != 450 {
		t.Errorf("ExperienceToNextLevel = %v, want 450", p.ExperienceToNextLevel)
	}
	// first-test 10 + five-tests 25
	if p.TotalPoints != 270+35 {
		t.Errorf("TotalPoints = %d, want %d", p.TotalPoints, 305)
	}
	if p.CurrentStreak != 3 || p.LongestStreak != 3 {
		t.Errorf("streak = %d/%d, want 3/3", p.CurrentStreak, p.LongestStreak)
	}
	if p.Rank != 10 {
		t.Errorf("Rank = %d, want 10", p.Rank)
	}
	if len(p.Achievements) != len(DefaultCatalog().Achievements) {
		t.Errorf("len(Achievements) = %d, want %d", len(p.Achievements), len(DefaultCatalog().Achievements))
	}
	if len(p.NewlyUnlocked) != 2 || p.NewlyUnlocked[0] != "first-test" || p.NewlyUnlocked[1] != "five-tests" {
		t.Errorf("NewlyUnlocked = %v, want [first-test five-tests]", p.NewlyUnlocked)
	}
}

func TestProgress_KeepsPersistedUnlockDates(t *testing.T) {
	e := NewEngine(DefaultCatalog())
	earned := day("2024-12-01")
	p := e.Progress(9, Activity{Tests: 1}, map[string]time.Time{"first-test": earned}, day("2025-01-03"))

	if len(p.NewlyUnlocked) != 0 {
		t.Errorf("NewlyUnlocked = %v, want none", p.NewlyUnlocked)
	}
	for _, a := range p.Achievements {
		if a.ID == "first-test" && (a.UnlockedAt == nil || !a.UnlockedAt.Equal(earned)) {
			t.Errorf("first-test UnlockedAt = %v, want %v", a.UnlockedAt, earned)
		}
	}
}

func TestProgress_MaxLevel(t *testing.T) {
	e := NewEngine(DefaultCatalog())
	p := e.Progress(1, Activity{Tests: 30}, nil, day("2025-01-03"))

	if p.Level != 7 {
		t.Fatalf("Level = %d, want 7", p.Level)
	}
	if p.ExperienceToNextLevel != nil {
		t.Errorf("ExperienceToNextLevel = %d, want nil at max level", *p.ExperienceToNextLevel)
	}
	var legend *models.AchievementState
	for i := range p.Achievements {
		if p.Achievements[i].ID == "legend-status" {
			legend = &p.Achievements[i]
		}
	}
	if legend == nil || !legend.Unlocked {
		t.Errorf("legend-status not unlocked at max level")
	}
}

func TestValidate(t *testing.T) {
	if err := ValidateActivity(Activity{Tests: 3}); err != nil {
		t.Errorf("ValidateActivity(valid) = %v", err)
	}
	if err := ValidateActivity(Activity{Shares: -1}); !errors.Is(err, ErrInvalidRange) {
		t.Errorf("ValidateActivity(shares=-1) = %v, want ErrInvalidRange", err)
	}
	if err := ValidateExperience(-5); !errors.Is(err, ErrInvalidRange) {
		t.Errorf("ValidateExperience(-5) = %v, want ErrInvalidRange", err)
	}
}

func TestLeaderboard(t *testing.T) {
	got := Leaderboard([]LeaderboardCandidate{
		{UserID: 1, TotalPoints: 100},
		{UserID: 2, TotalPoints: 300},
		{UserID: 3, TotalPoints: 100},
	})
	wantIDs := []int64{2, 1, 3}
	for i, e := range got {
		if e.UserID != wantIDs[i] || e.Rank != i+1 {
			t.Errorf("entry %d = user %d rank %d, want user %d rank %d", i, e.UserID, e.Rank, wantIDs[i], i+1)
		}
	}
}

func TestDefaultCatalogSizes(t *testing.T) {
	c := DefaultCatalog()
	if got := len(c.Levels); got != 7 {
		t.Errorf("len(Levels) = %d, want 7", got)
	}
	if got := len(c.Ranks); got != 10 {
		t.Errorf("len(Ranks) = %d, want 10", got)
	}
	if got := len(c.Achievements); got != 13 {
		t.Errorf("len(Achievements) = %d, want 13", got)
	}
	if got := len(c.DailyChallenges); got != 5 {
		t.Errorf("len(DailyChallenges) = %d, want 5", got)
	}
}
