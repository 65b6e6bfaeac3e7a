package insight

import "strings"

// Two-tier keyword scheme: a broad gate decides whether plant context is
// shipped to the model at all, and a narrower second pass picks which data
// slice rides along with the answer. False positives cost an unneeded
// context block, false negatives a shorter answer; neither affects
// correctness.

var domainKeywords = []string{
	"sec",
	"energy",
	"alert",
	"refinery",
	"unit",
	"efficiency",
	"recommendation",
	"prediction",
	"optimize",
	"plant",
}

// IsDomainQuery reports whether the query is about plant operations and
// deserves a context snapshot.
func IsDomainQuery(query string) bool {
	lower := strings.ToLower(query)
	for _, kw := range domainKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// DataKind tags the structured slice attached alongside a prose answer.
type DataKind string

const (
	DataNone            DataKind = ""
	DataSEC             DataKind = "sec"
	DataAlerts          DataKind = "alerts"
	DataRecommendations DataKind = "recommendations"
	DataPredictions     DataKind = "predictions"
	DataUnits           DataKind = "units"
)

// ClassifyDataSlice re-scans the query for narrow keyword families. This is
// best-effort annotation, not routing: first family wins, in a fixed
// precedence order.
func ClassifyDataSlice(query string) DataKind {
	lower := strings.ToLower(query)
	switch {
	case strings.Contains(lower, "sec") || strings.Contains(lower, "energy consumption"):
		return DataSEC
	case strings.Contains(lower, "alert") || strings.Contains(lower, "alarm"):
		return DataAlerts
	case strings.Contains(lower, "recommendation") || strings.Contains(lower, "optimize"):
		return DataRecommendations
	case strings.Contains(lower, "prediction") || strings.Contains(lower, "forecast"):
		return DataPredictions
	case strings.Contains(lower, "unit"):
		return DataUnits
	default:
		return DataNone
	}
}
