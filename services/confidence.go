package services

import (
	"math"
	"strconv"
	"strings"

	"github.com/guilbd/analise-apostas/pkg/common"
)

// FormatConfidence turns a confidence value of the form "N%" into its display
// text and the width of the proportional bar. The width is clamped to
// [0,100] even though upstream values are expected already in range.
//
// A value whose numeric portion does not parse returns ErrConfidenceParse
// with a 0 width; callers render the fallback instead of aborting the card.
func FormatConfidence(confidence string) (string, float64, error) {
	trimmed := strings.TrimSpace(confidence)
	number := strings.TrimSuffix(trimmed, "%")

	value, err := strconv.ParseFloat(strings.TrimSpace(number), 64)
	if err != nil {
		return "0%", 0, common.ErrConfidenceParse
	}
	// ParseFloat accepts "NaN" and "Inf"; neither survives the clamp nor
	// encodes as JSON, so both count as parse failures.
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return "0%", 0, common.ErrConfidenceParse
	}

	if value < 0 {
		value = 0
	}
	if value > 100 {
		value = 100
	}

	display := trimmed
	if !strings.HasSuffix(display, "%") {
		display += "%"
	}
	return display, value, nil
}
