package loadcheck

import (
	"fmt"
	"slices"

	"github.com/okian/bottleneck/internal/domain/types"
)

// Compare lists the fields where got differs from want. Messages are
// compared through their codes; the wording is free to change.
func Compare(want, got types.Report) []string {
	var diffs []string
	if want.Percentage != got.Percentage {
		diffs = append(diffs, fmt.Sprintf("percentage: want %.1f, got %.1f", want.Percentage, got.Percentage))
	}
	if want.Side != got.Side {
		diffs = append(diffs, fmt.Sprintf("side: want %s, got %s", want.Side, got.Side))
	}
	if want.Severity != got.Severity {
		diffs = append(diffs, fmt.Sprintf("severity: want %s, got %s", want.Severity, got.Severity))
	}
	if want.Compatible != got.Compatible {
		diffs = append(diffs, fmt.Sprintf("compatible: want %t, got %t", want.Compatible, got.Compatible))
	}
	if w, g := want.SuggestionCodes(), got.SuggestionCodes(); !slices.Equal(w, g) {
		diffs = append(diffs, fmt.Sprintf("suggestions: want %v, got %v", w, g))
	}
	if w, g := recommended(want), recommended(got); w != g {
		diffs = append(diffs, fmt.Sprintf("recommendation: want %q, got %q", w, g))
	}
	return diffs
}

func recommended(r types.Report) string {
	if r.Recommendation == nil {
		return ""
	}
	return r.Recommendation.Name
}
