package observation

import "github.com/aevumlab/aevum/internal/domain"

// Daily active-energy thresholds in kilocalories.
const (
	exercisePoorBelow         = 200.0
	exerciseBelowAverageBelow = 300.0
	exerciseAverageBelow      = 400.0
	exerciseAboveAverageBelow = 500.0
)

var exerciseKeywords = []string{"exercise", "workout", "activity", "calories", "active", "fitness", "training"}

// ExerciseContext interprets uploaded exercise series data.
type ExerciseContext struct {
	baseContext
	entries []map[string]any
}

func NewExerciseContext(handlerName, userID string) *ExerciseContext {
	return &ExerciseContext{baseContext: newBaseContext(domain.TopicExercise, handlerName, userID)}
}

func (c *ExerciseContext) Absorb(data map[string]any) {
	c.mergeRaw(data)
	c.entries = append(c.entries, series(data, "exercise_data")...)

	if len(c.entries) == 0 {
		c.markInsufficient()
		return
	}

	// Both "active_calories" and plain "calories" appear upstream.
	var burned []float64
	for _, entry := range c.entries {
		if v, ok := firstNum(entry, "active_calories", "calories"); ok {
			burned = append(burned, v)
		}
	}
	if len(burned) == 0 {
		c.markInsufficient()
		return
	}

	avg := mean(burned)
	c.processed["average_active_calories"] = avg

	var rating domain.Rating
	switch {
	case avg < exercisePoorBelow:
		rating = domain.RatingPoor
	case avg < exerciseBelowAverageBelow:
		rating = domain.RatingBelowAverage
	case avg < exerciseAverageBelow:
		rating = domain.RatingAverage
	case avg < exerciseAboveAverageBelow:
		rating = domain.RatingAboveAverage
	default:
		rating = domain.RatingExcellent
	}
	c.currentState["active_calories"] = rating
	c.goalState["active_calories"] = domain.RatingExcellent
	delete(c.currentState, "overall")

	c.insights = []string{
		"Your average active calories burned is " + fmtWhole(avg) + " calories per day.",
		"Your activity level is " + rating.Display() + ".",
	}

	switch {
	case rating.AtMost(domain.RatingBelowAverage):
		c.recommendations = []string{
			"Try to incorporate more movement throughout your day.",
			"Start with short walks and gradually increase duration.",
			"Consider activities you enjoy to make exercise more sustainable.",
		}
	case rating == domain.RatingAverage:
		c.recommendations = []string{
			"Aim to increase your activity by 10% each week.",
			"Add variety to your exercise routine to engage different muscle groups.",
			"Consider adding strength training 2-3 times per week.",
		}
	default:
		c.recommendations = []string{
			"Continue maintaining your excellent activity level.",
			"Focus on recovery and preventing overtraining.",
			"Consider periodization to continue making progress.",
		}
	}

	c.questions = []string{
		"What types of exercise do you enjoy most?",
		"Do you have any physical limitations or injuries?",
		"Would you like to focus on endurance, strength, or overall fitness?",
	}

	c.confidence = seriesConfidence(len(c.entries))
	c.visualization = timeSeries(c.entries, "active_calories", "Active Calories Over Time", "Calories")
}

func (c *ExerciseContext) ScoreRelevancy(query string) float64 {
	if c.insufficient() {
		return c.record(0, 0)
	}
	return c.record(keywordGate(query, exerciseKeywords, c.confidence))
}
