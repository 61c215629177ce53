package domain

// Rating is a closed ordinal scale used to classify a computed health
// aggregate. Order matters: comparisons rely on the numeric values.
type Rating int

const (
	RatingUnknown Rating = iota
	RatingInsufficientData
	RatingPoor
	RatingBelowAverage
	RatingAverage
	RatingAboveAverage
	RatingExcellent
)

func (r Rating) String() string {
	switch r {
	case RatingInsufficientData:
		return "insufficient_data"
	case RatingPoor:
		return "poor"
	case RatingBelowAverage:
		return "below_average"
	case RatingAverage:
		return "average"
	case RatingAboveAverage:
		return "above_average"
	case RatingExcellent:
		return "excellent"
	default:
		return "unknown"
	}
}

// Display returns the rating with underscores replaced by spaces, for use
// inside insight sentences.
func (r Rating) Display() string {
	switch r {
	case RatingInsufficientData:
		return "insufficient data"
	case RatingBelowAverage:
		return "below average"
	case RatingAboveAverage:
		return "above average"
	default:
		return r.String()
	}
}

func (r Rating) MarshalJSON() ([]byte, error) {
	return []byte(`"` + r.String() + `"`), nil
}

// AtMost reports whether r is no better than other on the ordinal scale.
func (r Rating) AtMost(other Rating) bool {
	return r <= other
}
