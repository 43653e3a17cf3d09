package scoring

// Severity is a coarse band over the bottleneck percentage, used by clients
// to colour gauges. It never feeds back into the percentage or side.
type Severity string

// Severity bands, lowest first.
const (
	SeverityMinimal  Severity = "minimal"
	SeverityMild     Severity = "mild"
	SeverityModerate Severity = "moderate"
	SeverityHigh     Severity = "high"
	SeveritySevere   Severity = "severe"
)

// Band upper bounds (exclusive), in percent.
const (
	minimalBelow  = 8.0
	mildBelow     = 20.0
	moderateBelow = 35.0
	highBelow     = 50.0
)

// SeverityOf returns the band for an unrounded percentage.
func SeverityOf(side Side, pct float64) Severity {
	switch {
	case side == SideBalanced || pct < minimalBelow:
		return SeverityMinimal
	case pct < mildBelow:
		return SeverityMild
	case pct < moderateBelow:
		return SeverityModerate
	case pct < highBelow:
		return SeverityHigh
	default:
		return SeveritySevere
	}
}
