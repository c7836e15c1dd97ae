// Package validate implements the prediction-accuracy engine: identifier
// normalization, record matching, per-field comparison, and aggregation.
package validate

import "strings"

// idSuffixMarkers are the known decorations that drawing filenames pick up
// between the CAD export and the ground-truth spreadsheet. The list is
// case-sensitive; matching is case-sensitive by policy once suffixes are
// stripped.
var idSuffixMarkers = []string{
	"_drw",
	".pdf",
	" (1)",
	" (2)",
	".PDF",
	".DRW",
}

// NormalizePartID canonicalizes a raw part identifier for matching. Known
// suffix markers are stripped from the end repeatedly until none remain
// ("shaft (1).PDF" loses ".PDF", then " (1)"), then surrounding whitespace
// is trimmed. Pure and idempotent. The result is NOT lowercased: identifier
// comparison stays case-sensitive after stripping.
func NormalizePartID(id string) string {
	for {
		trimmed := strings.TrimRight(id, " \t")
		stripped := trimmed
		for _, marker := range idSuffixMarkers {
			if strings.HasSuffix(stripped, marker) {
				stripped = stripped[:len(stripped)-len(marker)]
				break
			}
		}
		if stripped == id {
			break
		}
		id = stripped
	}
	return strings.TrimSpace(id)
}
