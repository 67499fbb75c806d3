package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/dialogamente/backend/internal/models"
	"github.com/dialogamente/backend/internal/scoring"
	"github.com/spf13/cobra"
)

var scoreCmd = &cobra.Command{
	Use:   "score [answers.json]",
	Short: "Score a quiz answers file without a database",
	Long: `Score reads {"answers": {"1": "a", ...}} from a file (or stdin when the
path is "-" or omitted) and prints the raw and normalized VAK scores.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		in := cmd.InOrStdin()
		if len(args) == 1 && args[0] != "-" {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("open answers: %w", err)
			}
			defer f.Close()
			in = f
		}
		report, err := scoreReader(in)
		if err != nil {
			return err
		}
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	},
}

type scoreReport struct {
	Raw        models.ScoreVector `json:"raw"`
	Normalized models.ScoreVector `json:"normalized"`
	Dominant   models.Profile     `json:"dominant_profile"`
	TotalScore int                `json:"total_score"`
	Unmapped   []int              `json:"unmapped,omitempty"`
}

func scoreReader(r io.Reader) (*scoreReport, error) {
	var req models.SubmitTestRequest
	if err := json.NewDecoder(r).Decode(&req); err != nil {
		return nil, fmt.Errorf("decode answers: %w", err)
	}
	if len(req.Answers) == 0 {
		return nil, fmt.Errorf("no answers in input")
	}

	scorer := scoring.NewScorer(scoring.DefaultAnswerKey())
	answers := scoring.Answers(req.Answers)
	raw := scorer.ScoreAnswers(answers)
	if raw.Sum() == 0 {
		return nil, fmt.Errorf("no answer maps to a profile")
	}
	normalized := scoring.NormalizeToPercentage(raw, len(answers))
	return &scoreReport{
		Raw:        raw,
		Normalized: normalized,
		Dominant:   scoring.DominantProfile(raw),
		TotalScore: normalized.Max(),
		Unmapped:   scorer.Unmapped(answers),
	}, nil
}
