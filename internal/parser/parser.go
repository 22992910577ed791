// Package parser extracts a structured evaluation from raw provider
// output. Providers are told to return bare JSON but routinely wrap it in
// Markdown fences or prepend prose; the ladder here keeps the interview
// moving no matter what comes back.
package parser

import (
	"encoding/json"
	"math"
	"regexp"
	"strings"
)

// Evaluation is the structured verdict on one answer.
type Evaluation struct {
	Feedback     string   `json:"feedback"`
	NextQuestion string   `json:"nextQuestion"`
	Score        int      `json:"score"`
	Strengths    []string `json:"strengths"`
	Improvement  string   `json:"improvement"`
}

// Default is the fallback evaluation substituted when the provider output
// cannot be parsed. Liveness of the conversation beats scoring accuracy.
func Default() Evaluation {
	return Evaluation{
		Feedback:     "Could not parse feedback",
		NextQuestion: "Tell me more about your experience.",
		Score:        5,
		Strengths:    []string{},
		Improvement:  "Provide more details.",
	}
}

var fenceRe = regexp.MustCompile("(?i)```json")

// Parse never fails: it tries the trimmed raw text, then a sanitized copy
// with code fences and control characters stripped, and finally falls back
// to Default.
func Parse(raw string) Evaluation {
	if eval, ok := tryParse(strings.TrimSpace(raw)); ok {
		return eval
	}
	if eval, ok := tryParse(sanitize(raw)); ok {
		return eval
	}
	return Default()
}

// rawEvaluation tolerates fractional scores, which strict int decoding
// would reject along with the rest of an otherwise usable object.
type rawEvaluation struct {
	Feedback     string      `json:"feedback"`
	NextQuestion string      `json:"nextQuestion"`
	Score        json.Number `json:"score"`
	Strengths    []string    `json:"strengths"`
	Improvement  string      `json:"improvement"`
}

func tryParse(s string) (Evaluation, bool) {
	var re rawEvaluation
	if err := json.Unmarshal([]byte(s), &re); err != nil {
		return Evaluation{}, false
	}

	// An object without a next question cannot drive the interview forward;
	// treat it as unparseable rather than stalling the conversation.
	if re.NextQuestion == "" {
		return Evaluation{}, false
	}

	eval := Evaluation{
		Feedback:     re.Feedback,
		NextQuestion: re.NextQuestion,
		Score:        normalizeScore(re.Score),
		Strengths:    re.Strengths,
		Improvement:  re.Improvement,
	}
	if eval.Strengths == nil {
		eval.Strengths = []string{}
	}
	return eval, true
}

// normalizeScore clamps provider-reported scores into [1,10]; a missing
// score falls back to the neutral 5.
func normalizeScore(n json.Number) int {
	if n.String() == "" {
		return 5
	}
	f, err := n.Float64()
	if err != nil {
		return 5
	}

	score := int(math.Round(f))
	if score < 1 {
		return 1
	}
	if score > 10 {
		return 10
	}
	return score
}

func sanitize(raw string) string {
	cleaned := fenceRe.ReplaceAllString(raw, "")
	cleaned = strings.ReplaceAll(cleaned, "```", "")
	cleaned = strings.Map(func(r rune) rune {
		if r < 0x20 || (r >= 0x7F && r <= 0x9F) {
			return -1
		}
		return r
	}, cleaned)
	return strings.TrimSpace(cleaned)
}
