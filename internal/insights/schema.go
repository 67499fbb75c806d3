package insights

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// Insight is the coaching text shown for a result. Confidence is only set
// when a model reported it.
type Insight struct {
	Insights            []string `json:"insights"`
	Recommendations     []string `json:"recommendations"`
	Strengths           []string `json:"strengths"`
	AreasForImprovement []string `json:"areas_for_improvement"`
	CareerSuggestions   []string `json:"career_suggestions"`
	CommunicationTips   []string `json:"communication_tips"`
	PersonalityTraits   []string `json:"personality_traits"`
	Confidence          *float64 `json:"confidence"`
}

// SchemaError reports a response that is not valid insight JSON.
type SchemaError struct {
	Content string
	Err     error
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("invalid insight response: %v", e.Err)
}

func (e *SchemaError) Unwrap() error { return e.Err }

func stringList(min, max int) map[string]any {
	return map[string]any{
		"type":     "array",
		"minItems": min,
		"maxItems": max,
		"items":    map[string]any{"type": "string", "minLength": 1},
	}
}

var insightSchema = map[string]any{
	"type": "object",
	"required": []any{
		"insights", "recommendations", "strengths", "areas_for_improvement",
		"career_suggestions", "communication_tips", "personality_traits", "confidence",
	},
	"properties": map[string]any{
		"insights":              stringList(1, 8),
		"recommendations":       stringList(1, 8),
		"strengths":             stringList(1, 6),
		"areas_for_improvement": stringList(1, 6),
		"career_suggestions":    stringList(1, 8),
		"communication_tips":    stringList(1, 10),
		"personality_traits":    stringList(1, 8),
		"confidence":            map[string]any{"type": "number", "minimum": 0, "maximum": 1},
	},
}

var (
	compileOnce sync.Once
	compiled    *jsonschema.Schema
	compileErr  error
)

func compiledSchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		// The compiler wants a decoded JSON value, not Go maps with typed numbers.
		raw, err := json.Marshal(insightSchema)
		if err != nil {
			compileErr = fmt.Errorf("marshal schema: %w", err)
			return
		}
		var doc any
		if err := json.Unmarshal(raw, &doc); err != nil {
			compileErr = fmt.Errorf("parse schema: %w", err)
			return
		}
		c := jsonschema.NewCompiler()
		const url = "schema://insight.json"
		if err := c.AddResource(url, doc); err != nil {
			compileErr = fmt.Errorf("add schema resource: %w", err)
			return
		}
		compiled, compileErr = c.Compile(url)
	})
	return compiled, compileErr
}

// ParseInsight strips code fences, validates the JSON against the insight
// schema and decodes it. Failures are *SchemaError.
func ParseInsight(content string) (*Insight, error) {
	cleaned := stripCodeFences(content)

	var doc any
	if err := json.Unmarshal([]byte(cleaned), &doc); err != nil {
		return nil, &SchemaError{Content: content, Err: fmt.Errorf("invalid JSON: %w", err)}
	}

	schema, err := compiledSchema()
	if err != nil {
		return nil, &SchemaError{Content: content, Err: err}
	}
	if err := schema.Validate(doc); err != nil {
		return nil, &SchemaError{Content: content, Err: err}
	}

	var insight Insight
	if err := json.Unmarshal([]byte(cleaned), &insight); err != nil {
		return nil, &SchemaError{Content: content, Err: err}
	}
	return &insight, nil
}

func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```json") {
		s = strings.TrimPrefix(s, "```json")
		s = strings.TrimSpace(s)
	} else if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```")
		s = strings.TrimSpace(s)
	}
	if strings.HasSuffix(s, "```") {
		s = strings.TrimSuffix(s, "```")
		s = strings.TrimSpace(s)
	}
	return s
}
