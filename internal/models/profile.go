package models

import "time"

// Profile is one axis of the Visual/Auditory/Kinesthetic taxonomy.
type Profile string

const (
	ProfileVisual      Profile = "visual"
	ProfileAuditory    Profile = "auditory"
	ProfileKinesthetic Profile = "kinesthetic"
)

// Profiles lists the axes in canonical order. Tie-breaks follow this order.
var Profiles = []Profile{ProfileVisual, ProfileAuditory, ProfileKinesthetic}

func (p Profile) Valid() bool {
	switch p {
	case ProfileVisual, ProfileAuditory, ProfileKinesthetic:
		return true
	}
	return false
}

// DisplayName returns the label shown to users.
func (p Profile) DisplayName() string {
	switch p {
	case ProfileVisual:
		return "Visual"
	case ProfileAuditory:
		return "Auditivo"
	case ProfileKinesthetic:
		return "Cinestésico"
	default:
		return string(p)
	}
}

// ScoreVector holds one counter per axis. Raw vectors count answers,
// normalized vectors hold percentages in [0,100].
type ScoreVector struct {
	Visual      int `json:"visual"`
	Auditory    int `json:"auditory"`
	Kinesthetic int `json:"kinesthetic"`
}

// Get returns the value of a single axis.
func (v ScoreVector) Get(p Profile) int {
	switch p {
	case ProfileVisual:
		return v.Visual
	case ProfileAuditory:
		return v.Auditory
	case ProfileKinesthetic:
		return v.Kinesthetic
	}
	return 0
}

// Add increments a single axis. Unknown axes are ignored.
func (v *ScoreVector) Add(p Profile, n int) {
	switch p {
	case ProfileVisual:
		v.Visual += n
	case ProfileAuditory:
		v.Auditory += n
	case ProfileKinesthetic:
		v.Kinesthetic += n
	}
}

func (v ScoreVector) Sum() int {
	return v.Visual + v.Auditory + v.Kinesthetic
}

func (v ScoreVector) Max() int {
	m := v.Visual
	if v.Auditory > m {
		m = v.Auditory
	}
	if v.Kinesthetic > m {
		m = v.Kinesthetic
	}
	return m
}

// ── Persistence ──────────────────────────────────────────

// TestResult is a completed quiz. Scores are normalized percentages.
type TestResult struct {
	ID             string      `json:"id"`
	UserID         int64       `json:"user_id"`
	Scores         ScoreVector `json:"scores"`
	RawScores      ScoreVector `json:"raw_scores"`
	AnsweredCount  int         `json:"answered_count"`
	Dominant       Profile     `json:"dominant_profile"`
	TotalScore     int         `json:"total_score"`
	AIInsightsUsed bool        `json:"ai_insights_used"`
	CreatedAt      time.Time   `json:"created_at"`
}

// ── Request Types ─────────────────────────────────────────

// SubmitTestRequest carries the answers of one quiz session keyed by
// question index ("1", "2", ...) as sent by the client.
type SubmitTestRequest struct {
	Answers map[int]string `json:"answers" validate:"required,min=1,max=200"`
}

// ── Response Types ────────────────────────────────────────

type SubmitTestResponse struct {
	Result          TestResult `json:"result"`
	UnmappedAnswers []int      `json:"unmapped_answers"`
	ProfileLabel    string     `json:"profile_label"`
}

type TestHistoryResponse struct {
	Tests     []TestResult `json:"tests"`
	Evolution *ScoreDelta  `json:"evolution,omitempty"`
}

// ScoreDelta is the per-axis change between two results.
type ScoreDelta struct {
	Visual      int `json:"visual"`
	Auditory    int `json:"auditory"`
	Kinesthetic int `json:"kinesthetic"`
}

type ComparisonResponse struct {
	UserProfile      Profile     `json:"user_profile"`
	UserScores       ScoreVector `json:"user_scores"`
	AverageScores    ScoreVector `json:"average_scores"`
	Percentile       int         `json:"percentile"`
	TotalResults     int         `json:"total_results"`
	SameProfileCount int         `json:"same_profile_count"`
	SameProfileShare float64     `json:"same_profile_share"`
	AboveAverage     []Profile   `json:"above_average"`
}

type ProfileDistributionEntry struct {
	Profile Profile `json:"profile"`
	Label   string  `json:"label"`
	Count   int     `json:"count"`
}

type AnalyticsResponse struct {
	TotalUsers   int                        `json:"total_users"`
	TotalTests   int                        `json:"total_tests"`
	Distribution []ProfileDistributionEntry `json:"distribution"`
	AverageScore int                        `json:"average_score"`
}
