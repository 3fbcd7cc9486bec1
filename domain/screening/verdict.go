package screening

// VerdictBand maps a final posterior onto an advisory outcome. Bands are a
// reporting convenience, not a clinical diagnosis.
type VerdictBand string

const (
	VerdictVeryUnlikely VerdictBand = "very_unlikely"
	VerdictUnlikely     VerdictBand = "unlikely"
	VerdictUncertain    VerdictBand = "uncertain"
	VerdictLikely       VerdictBand = "likely"
)

// VerdictFor bands a posterior probability of condition-positive.
func VerdictFor(posterior float64) VerdictBand {
	switch {
	case posterior < 0.01:
		return VerdictVeryUnlikely
	case posterior < 0.05:
		return VerdictUnlikely
	case posterior < 0.15:
		return VerdictUncertain
	default:
		return VerdictLikely
	}
}

// Advice returns the subject-facing wording for the band.
func (v VerdictBand) Advice() string {
	switch v {
	case VerdictVeryUnlikely:
		return "Based on your performance, you are very likely NOT affected."
	case VerdictUnlikely:
		return "Based on your performance, you are probably NOT affected, but there is some uncertainty."
	case VerdictUncertain:
		return "Results are uncertain. You may want to consult a specialist."
	default:
		return "Based on your performance, you may be affected. Consider consulting a specialist."
	}
}
