package cabal

import "fmt"

// Scores are fixed-point similarity values on a parts-per-million scale.
// A score of 0 means no measured similarity and 1000000 means identical
// content. One percentage point spans 10000 score units, which leaves
// four decimal digits of precision below the percent.
const (
	// MaxPPM is the score corresponding to 100% similarity.
	MaxPPM uint32 = 1000000

	// PPMPerPercent is the number of score units in one percentage point.
	PPMPerPercent uint32 = 10000
)

// FormatPercent renders a ppm score as a percentage with a single
// fractional digit, so 21900 ppm renders as "2.1".
//
// The fractional digit is truncated rather than rounded, keeping the
// rendering stable under sub-digit score differences.
func FormatPercent(ppm uint32) string {
	return fmt.Sprintf("%d.%d", ppm/PPMPerPercent, (ppm%PPMPerPercent)/1000)
}
