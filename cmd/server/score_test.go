package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/dialogamente/backend/internal/models"
)

func TestScoreReader(t *testing.T) {
	report, err := scoreReader(strings.NewReader(`{"answers":{"1":"a","2":"a","3":"b","4":"x"}}`))
	if err != nil {
		t.Fatalf("scoreReader: %v", err)
	}
	want := models.ScoreVector{Visual: 50, Auditory: 25, Kinesthetic: 0}
	if report.Normalized != want {
		t.Errorf("Normalized = %+v, want %+v", report.Normalized, want)
	}
	if report.Dominant != models.ProfileVisual {
		t.Errorf("Dominant = %s, want visual", report.Dominant)
	}
	if report.TotalScore != 50 {
		t.Errorf("TotalScore = %d, want 50", report.TotalScore)
	}
	if len(report.Unmapped) != 1 || report.Unmapped[0] != 4 {
		t.Errorf("Unmapped = %v, want [4]", report.Unmapped)
	}
}

func TestScoreReaderRejects(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"malformed", `{"answers":`},
		{"empty", `{"answers":{}}`},
		{"nothing mapped", `{"answers":{"1":"z"}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := scoreReader(strings.NewReader(tt.input)); err == nil {
				t.Errorf("scoreReader(%s) returned no error", tt.input)
			}
		})
	}
}

func TestScoreCommandReadsStdin(t *testing.T) {
	var out bytes.Buffer
	scoreCmd.SetIn(strings.NewReader(`{"answers":{"1":"c"}}`))
	scoreCmd.SetOut(&out)
	if err := scoreCmd.RunE(scoreCmd, nil); err != nil {
		t.Fatalf("score: %v", err)
	}
	if !strings.Contains(out.String(), `"dominant_profile": "kinesthetic"`) {
		t.Errorf("output missing dominant profile:\n%s", out.String())
	}
}
