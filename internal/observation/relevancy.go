package observation

import "strings"

// Two relevancy-shaping strategies coexist on purpose: sleep/exercise use a
// gate (any keyword match flips relevance to 1.0, no match costs an
// ambiguity penalty), nutrition/biometric scale by the number of matches.
// They are deliberately not unified; each topic's tuning depends on its own
// curve.

const (
	// keywordGateMatch is the query relevance when a topic keyword appears.
	keywordGateMatch = 1.0
	// keywordGateMiss allows incidental relevance without false confidence.
	keywordGateMiss = 0.3
	// ambiguityPenalty applies only when no keyword matched explicitly.
	ambiguityPenalty = 0.2

	// keywordCountStep and keywordCountCap shape the counted variant:
	// min(cap, step × matches) × confidence.
	keywordCountStep = 0.1
	keywordCountCap  = 0.8
)

// keywordGate returns (relevancy, ambiguity) for the gate strategy.
func keywordGate(query string, keywords []string, confidence float64) (float64, float64) {
	explicit := anyKeyword(query, keywords)

	queryRelevance := keywordGateMiss
	if explicit {
		queryRelevance = keywordGateMatch
	}

	relevancy := confidence * queryRelevance

	ambiguity := 0.0
	if !explicit {
		ambiguity = ambiguityPenalty
	}

	relevancy -= ambiguity
	if relevancy < 0 {
		relevancy = 0
	}
	return relevancy, ambiguity
}

// keywordCount returns (relevancy, ambiguity) for the counted strategy.
// It carries no ambiguity penalty; weak matches simply score low.
func keywordCount(query string, keywords []string, confidence float64) (float64, float64) {
	matches := countKeywords(query, keywords)

	base := float64(matches) * keywordCountStep
	if base > keywordCountCap {
		base = keywordCountCap
	}
	return base * confidence, 0
}

func anyKeyword(query string, keywords []string) bool {
	q := strings.ToLower(query)
	for _, kw := range keywords {
		if strings.Contains(q, kw) {
			return true
		}
	}
	return false
}

func countKeywords(query string, keywords []string) int {
	q := strings.ToLower(query)
	matches := 0
	for _, kw := range keywords {
		if strings.Contains(q, kw) {
			matches++
		}
	}
	return matches
}
