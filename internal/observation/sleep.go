package observation

import "github.com/aevumlab/aevum/internal/domain"

// Sleep duration thresholds in hours.
const (
	sleepPoorBelow         = 5.0
	sleepBelowAverageBelow = 6.0
	sleepAverageBelow      = 7.0
	sleepAboveAverageBelow = 8.0
)

// seriesSaturation is the sample count at which sleep and exercise
// confidence reaches 1.0.
const seriesSaturation = 30

// seriesConfidenceFloor applies once any series exists at all; a short but
// real series should still clear the relevancy threshold on an explicit
// query.
const seriesConfidenceFloor = 0.5

var sleepKeywords = []string{"sleep", "rest", "bed", "tired", "insomnia", "nap", "dream"}

// SleepContext interprets uploaded sleep series data.
type SleepContext struct {
	baseContext
	entries []map[string]any
}

func NewSleepContext(handlerName, userID string) *SleepContext {
	return &SleepContext{baseContext: newBaseContext(domain.TopicSleep, handlerName, userID)}
}

func (c *SleepContext) Absorb(data map[string]any) {
	c.mergeRaw(data)
	c.entries = append(c.entries, series(data, "sleep_data")...)

	if len(c.entries) == 0 {
		c.markInsufficient()
		return
	}

	// Producers are split between "duration" and "sleep_hours"; accept both.
	var durations []float64
	for _, entry := range c.entries {
		if v, ok := firstNum(entry, "duration", "sleep_hours"); ok {
			durations = append(durations, v)
		}
	}
	if len(durations) == 0 {
		c.markInsufficient()
		return
	}

	avg := mean(durations)
	c.processed["average_duration"] = avg

	var rating domain.Rating
	switch {
	case avg < sleepPoorBelow:
		rating = domain.RatingPoor
	case avg < sleepBelowAverageBelow:
		rating = domain.RatingBelowAverage
	case avg < sleepAverageBelow:
		rating = domain.RatingAverage
	case avg < sleepAboveAverageBelow:
		rating = domain.RatingAboveAverage
	default:
		rating = domain.RatingExcellent
	}
	c.currentState["duration"] = rating
	c.goalState["duration"] = domain.RatingExcellent
	delete(c.currentState, "overall")

	c.insights = []string{
		"Your average sleep duration is " + fmtTenth(avg) + " hours.",
		"Your sleep duration is " + rating.Display() + ".",
	}

	switch {
	case rating.AtMost(domain.RatingBelowAverage):
		c.recommendations = []string{
			"Try to go to bed 30 minutes earlier each night.",
			"Establish a consistent sleep schedule, even on weekends.",
			"Create a relaxing bedtime routine to help you fall asleep faster.",
		}
	case rating == domain.RatingAverage:
		c.recommendations = []string{
			"Aim for 7-8 hours of sleep consistently.",
			"Maintain your regular sleep schedule.",
			"Consider improving your sleep environment for better quality rest.",
		}
	default:
		c.recommendations = []string{
			"Continue maintaining your excellent sleep habits.",
			"Focus on sleep quality by ensuring your bedroom is dark and quiet.",
			"Monitor how you feel during the day to ensure your sleep is restorative.",
		}
	}

	c.questions = []string{
		"Do you feel rested when you wake up?",
		"Do you have trouble falling asleep or staying asleep?",
		"Would you like to improve your sleep quality or duration?",
	}

	c.confidence = seriesConfidence(len(c.entries))
	c.visualization = timeSeries(c.entries, "duration", "Sleep Duration Over Time", "Hours")
}

func (c *SleepContext) ScoreRelevancy(query string) float64 {
	if c.insufficient() {
		return c.record(0, 0)
	}
	return c.record(keywordGate(query, sleepKeywords, c.confidence))
}

func seriesConfidence(n int) float64 {
	confidence := float64(n) / seriesSaturation
	if confidence > 1 {
		confidence = 1
	}
	if confidence < seriesConfidenceFloor {
		confidence = seriesConfidenceFloor
	}
	return confidence
}
