package observation

import "github.com/aevumlab/aevum/internal/domain"

var biometricKeywords = []string{
	"weight", "blood pressure", "heart rate", "pulse", "body fat", "bmi",
	"body mass index", "measurements", "biometrics", "systolic", "diastolic",
	"hypertension", "hypotension", "cardiovascular", "heart health", "obesity",
	"underweight", "overweight", "body composition", "lean mass", "fat mass",
	"waist", "circumference", "cholesterol", "glucose", "blood sugar",
}

// BiometricContext interprets uploaded biometric series data: weight trend,
// blood pressure, resting heart rate and body composition.
type BiometricContext struct {
	baseContext
	entries []map[string]any
}

func NewBiometricContext(handlerName, userID string) *BiometricContext {
	return &BiometricContext{baseContext: newBaseContext(domain.TopicBiometric, handlerName, userID)}
}

func (c *BiometricContext) Absorb(data map[string]any) {
	c.mergeRaw(data)
	c.entries = append(c.entries, series(data, "biometric_data")...)

	if len(c.entries) == 0 {
		c.markInsufficient()
		return
	}
	delete(c.currentState, "overall")

	c.absorbWeight()
	c.absorbBloodPressure()
	c.absorbHeartRate()
	c.absorbBodyFat()

	c.generateInsights()

	c.confidence = countedConfidence(len(c.entries))
}

func (c *BiometricContext) absorbWeight() {
	var weights []float64
	for _, entry := range c.entries {
		if v, ok := firstNum(entry, "weight"); ok {
			weights = append(weights, v)
		}
	}
	if len(weights) == 0 {
		return
	}

	c.processed["average_weight"] = mean(weights)
	if len(weights) > 1 && weights[0] != 0 {
		change := weights[len(weights)-1] - weights[0]
		c.processed["weight_change"] = change
		c.processed["weight_change_percentage"] = change / weights[0] * 100
	}
}

func (c *BiometricContext) absorbBloodPressure() {
	var systolic, diastolic []float64
	for _, entry := range c.entries {
		if v, ok := firstNum(entry, "systolic"); ok {
			systolic = append(systolic, v)
		}
		if v, ok := firstNum(entry, "diastolic"); ok {
			diastolic = append(diastolic, v)
		}
	}
	if len(systolic) == 0 || len(diastolic) == 0 {
		return
	}

	avgSys := mean(systolic)
	avgDia := mean(diastolic)
	c.processed["average_systolic"] = avgSys
	c.processed["average_diastolic"] = avgDia

	// Normal is mid-range: hypotension and hypertension both rate poor.
	var rating domain.Rating
	switch {
	case avgSys < 90 || avgDia < 60:
		rating = domain.RatingPoor
	case avgSys < 120 && avgDia < 80:
		rating = domain.RatingExcellent
	case avgSys < 130 && avgDia < 80:
		rating = domain.RatingAboveAverage
	case avgSys < 140 || avgDia < 90:
		rating = domain.RatingAverage
	default:
		rating = domain.RatingPoor
	}
	c.currentState["blood_pressure"] = rating
	c.goalState["blood_pressure"] = domain.RatingExcellent
}

func (c *BiometricContext) absorbHeartRate() {
	var rates []float64
	for _, entry := range c.entries {
		if v, ok := firstNum(entry, "heart_rate"); ok {
			rates = append(rates, v)
		}
	}
	if len(rates) == 0 {
		return
	}

	avg := mean(rates)
	c.processed["average_heart_rate"] = avg

	var rating domain.Rating
	switch {
	case avg < 60:
		rating = domain.RatingExcellent
	case avg < 70:
		rating = domain.RatingAboveAverage
	case avg < 80:
		rating = domain.RatingAverage
	case avg < 90:
		rating = domain.RatingBelowAverage
	default:
		rating = domain.RatingPoor
	}
	c.currentState["heart_rate"] = rating
	c.goalState["heart_rate"] = domain.RatingExcellent
}

func (c *BiometricContext) absorbBodyFat() {
	var percentages []float64
	for _, entry := range c.entries {
		if v, ok := firstNum(entry, "body_fat_percentage"); ok {
			percentages = append(percentages, v)
		}
	}
	if len(percentages) == 0 {
		return
	}

	avg := mean(percentages)
	c.processed["average_body_fat"] = avg

	// Very low body fat is also flagged, not just the high tail.
	var rating domain.Rating
	switch {
	case avg < 8:
		rating = domain.RatingBelowAverage
	case avg < 15:
		rating = domain.RatingExcellent
	case avg < 20:
		rating = domain.RatingAboveAverage
	case avg < 25:
		rating = domain.RatingAverage
	case avg < 30:
		rating = domain.RatingBelowAverage
	default:
		rating = domain.RatingPoor
	}
	c.currentState["body_fat"] = rating
	c.goalState["body_fat"] = domain.RatingExcellent
}

func (c *BiometricContext) generateInsights() {
	c.insights = nil
	c.recommendations = nil

	if avg, ok := c.processed["average_weight"]; ok {
		c.insights = append(c.insights, "Your average weight is "+fmtTenth(avg)+" kg.")

		if change, ok := c.processed["weight_change"]; ok {
			pct := c.processed["weight_change_percentage"]
			switch {
			case change > 0:
				c.insights = append(c.insights, "You've gained "+fmtTenth(change)+" kg ("+fmtTenth(pct)+"%) since your first measurement.")
				if pct > 5 {
					c.recommendations = append(c.recommendations, "Consider monitoring your caloric intake and increasing physical activity.")
				}
			case change < 0:
				c.insights = append(c.insights, "You've lost "+fmtTenth(-change)+" kg ("+fmtTenth(-pct)+"%) since your first measurement.")
				if pct < -10 {
					c.recommendations = append(c.recommendations, "Ensure your weight loss is intentional and healthy. Rapid weight loss can be concerning.")
				}
			default:
				c.insights = append(c.insights, "Your weight has remained stable since your first measurement.")
			}
		}
	}

	avgSys, hasSys := c.processed["average_systolic"]
	avgDia, hasDia := c.processed["average_diastolic"]
	if hasSys && hasDia {
		c.insights = append(c.insights, "Your average blood pressure is "+fmtWhole(avgSys)+"/"+fmtWhole(avgDia)+" mmHg.")

		switch {
		case avgSys < 90 || avgDia < 60:
			c.insights = append(c.insights, "Your blood pressure is lower than the normal range, which may indicate hypotension.")
			c.recommendations = append(c.recommendations, "Consider consulting with a healthcare provider about your low blood pressure.")
		case avgSys >= 140 || avgDia >= 90:
			c.insights = append(c.insights, "Your blood pressure is higher than the normal range, which may indicate hypertension.")
			c.recommendations = append(c.recommendations,
				"Consider lifestyle changes such as reducing sodium intake, increasing physical activity, and managing stress.",
				"Regular monitoring of your blood pressure is recommended.")
		case avgSys >= 130 || avgDia >= 80:
			c.insights = append(c.insights, "Your blood pressure is slightly elevated.")
			c.recommendations = append(c.recommendations, "Consider lifestyle modifications such as a heart-healthy diet and regular exercise.")
		default:
			c.insights = append(c.insights, "Your blood pressure is within the normal range.")
		}
	}

	if avg, ok := c.processed["average_heart_rate"]; ok {
		c.insights = append(c.insights, "Your average resting heart rate is "+fmtWhole(avg)+" bpm.")

		if avg < 60 {
			c.insights = append(c.insights, "Your resting heart rate is lower than average, which is often associated with good cardiovascular fitness.")
		} else if avg > 90 {
			c.insights = append(c.insights, "Your resting heart rate is higher than the normal range.")
			c.recommendations = append(c.recommendations, "Consider increasing cardiovascular exercise and reducing stress to lower your resting heart rate.")
		}
	}

	if avg, ok := c.processed["average_body_fat"]; ok {
		c.insights = append(c.insights, "Your average body fat percentage is "+fmtTenth(avg)+"%.")

		if avg < 8 {
			c.insights = append(c.insights, "Your body fat percentage is very low, which may not be sustainable long-term.")
			c.recommendations = append(c.recommendations, "Ensure you're maintaining adequate nutrition for overall health.")
		} else if avg > 25 {
			c.insights = append(c.insights, "Your body fat percentage is higher than the recommended range.")
			c.recommendations = append(c.recommendations,
				"Consider a combination of strength training and cardiovascular exercise to reduce body fat.",
				"Focus on a balanced diet with appropriate caloric intake for your goals.")
		}
	}
}

func (c *BiometricContext) ScoreRelevancy(query string) float64 {
	if c.insufficient() {
		return c.record(0, 0)
	}
	return c.record(keywordCount(query, biometricKeywords, c.confidence))
}
