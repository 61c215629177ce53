package observation

import "github.com/aevumlab/aevum/internal/domain"

// Nutrition confidence grows per absorbed entry and never reaches
// certainty: min(ceiling, base + increment × samples).
const (
	countedConfidenceBase      = 0.3
	countedConfidenceIncrement = 0.1
	countedConfidenceCeiling   = 0.9
)

var nutritionKeywords = []string{
	"nutrition", "diet", "food", "meal", "eating", "calories", "caloric",
	"protein", "carbohydrate", "carbs", "fat", "macronutrient", "macros",
	"vitamin", "mineral", "nutrient", "dietary", "eat", "ate",
	"breakfast", "lunch", "dinner", "snack", "meal plan", "diet plan",
	"vegetarian", "vegan", "keto", "paleo", "mediterranean", "low-carb",
}

// NutritionContext interprets uploaded nutrition series data. Caloric
// intake and macro percentages have mid-range ideals: both tails map to a
// worse rating than the middle.
type NutritionContext struct {
	baseContext
	entries []map[string]any
}

func NewNutritionContext(handlerName, userID string) *NutritionContext {
	return &NutritionContext{baseContext: newBaseContext(domain.TopicNutrition, handlerName, userID)}
}

func (c *NutritionContext) Absorb(data map[string]any) {
	c.mergeRaw(data)
	c.entries = append(c.entries, series(data, "nutrition_data")...)

	if len(c.entries) == 0 {
		c.markInsufficient()
		return
	}
	delete(c.currentState, "overall")

	var calories, proteins, carbs, fats []float64
	for _, entry := range c.entries {
		if v, ok := firstNum(entry, "calories"); ok {
			calories = append(calories, v)
		}
		if v, ok := firstNum(entry, "protein"); ok {
			proteins = append(proteins, v)
		}
		if v, ok := firstNum(entry, "carbs"); ok {
			carbs = append(carbs, v)
		}
		if v, ok := firstNum(entry, "fats"); ok {
			fats = append(fats, v)
		}
	}

	if len(calories) > 0 {
		avg := mean(calories)
		c.processed["average_calories"] = avg

		// Ideal is mid-range: excess maps back down to poor.
		var rating domain.Rating
		switch {
		case avg < 1200:
			rating = domain.RatingPoor
		case avg < 1600:
			rating = domain.RatingBelowAverage
		case avg < 2400:
			rating = domain.RatingAverage
		case avg < 3000:
			rating = domain.RatingAboveAverage
		default:
			rating = domain.RatingPoor
		}
		c.currentState["caloric_intake"] = rating
		c.goalState["caloric_intake"] = domain.RatingAverage
	}

	if len(proteins) > 0 && len(carbs) > 0 && len(fats) > 0 {
		avgProtein := mean(proteins)
		avgCarbs := mean(carbs)
		avgFats := mean(fats)
		c.processed["average_protein"] = avgProtein
		c.processed["average_carbs"] = avgCarbs
		c.processed["average_fats"] = avgFats

		total := avgProtein + avgCarbs + avgFats
		if total > 0 {
			proteinPct := avgProtein / total * 100
			carbsPct := avgCarbs / total * 100
			fatsPct := avgFats / total * 100
			c.processed["protein_percentage"] = proteinPct
			c.processed["carbs_percentage"] = carbsPct
			c.processed["fats_percentage"] = fatsPct

			// Protein: ideal 10-35% of total.
			switch {
			case proteinPct < 10:
				c.currentState["protein_intake"] = domain.RatingPoor
			case proteinPct < 15:
				c.currentState["protein_intake"] = domain.RatingBelowAverage
			case proteinPct < 25:
				c.currentState["protein_intake"] = domain.RatingAverage
			case proteinPct < 35:
				c.currentState["protein_intake"] = domain.RatingAboveAverage
			default:
				c.currentState["protein_intake"] = domain.RatingPoor
			}

			// Carbs: ideal 45-65% of total.
			switch {
			case carbsPct < 40:
				c.currentState["carb_intake"] = domain.RatingPoor
			case carbsPct < 45:
				c.currentState["carb_intake"] = domain.RatingBelowAverage
			case carbsPct < 65:
				c.currentState["carb_intake"] = domain.RatingAverage
			case carbsPct < 70:
				c.currentState["carb_intake"] = domain.RatingBelowAverage
			default:
				c.currentState["carb_intake"] = domain.RatingPoor
			}

			// Fat: ideal 20-35% of total.
			switch {
			case fatsPct < 15:
				c.currentState["fat_intake"] = domain.RatingPoor
			case fatsPct < 20:
				c.currentState["fat_intake"] = domain.RatingBelowAverage
			case fatsPct < 35:
				c.currentState["fat_intake"] = domain.RatingAverage
			case fatsPct < 40:
				c.currentState["fat_intake"] = domain.RatingBelowAverage
			default:
				c.currentState["fat_intake"] = domain.RatingPoor
			}

			c.goalState["protein_intake"] = domain.RatingAverage
			c.goalState["carb_intake"] = domain.RatingAverage
			c.goalState["fat_intake"] = domain.RatingAverage
		}
	}

	c.generateInsights()

	c.confidence = countedConfidence(len(c.entries))
}

func (c *NutritionContext) generateInsights() {
	c.insights = nil
	c.recommendations = nil

	if avg, ok := c.processed["average_calories"]; ok {
		switch {
		case avg < 1200:
			c.insights = append(c.insights, "Your average caloric intake of "+fmtWhole(avg)+" calories is below recommended levels.")
			c.recommendations = append(c.recommendations, "Consider increasing your caloric intake to at least 1200-1500 calories per day.")
		case avg > 2500:
			c.insights = append(c.insights, "Your average caloric intake of "+fmtWhole(avg)+" calories is above recommended levels.")
			c.recommendations = append(c.recommendations, "Consider reducing your caloric intake to 2000-2500 calories per day.")
		default:
			c.insights = append(c.insights, "Your average caloric intake of "+fmtWhole(avg)+" calories is within a healthy range.")
		}
	}

	proteinPct, hasProtein := c.processed["protein_percentage"]
	carbsPct, hasCarbs := c.processed["carbs_percentage"]
	fatsPct, hasFats := c.processed["fats_percentage"]
	if !hasProtein || !hasCarbs || !hasFats {
		return
	}

	if proteinPct < 10 {
		c.insights = append(c.insights, "Your protein intake ("+fmtTenth(proteinPct)+"% of total calories) is below recommended levels.")
		c.recommendations = append(c.recommendations, "Increase protein intake by adding more lean meats, fish, eggs, or plant-based proteins.")
	} else if proteinPct > 35 {
		c.insights = append(c.insights, "Your protein intake ("+fmtTenth(proteinPct)+"% of total calories) is above recommended levels.")
		c.recommendations = append(c.recommendations, "Consider reducing protein intake and increasing complex carbohydrates.")
	}

	if carbsPct < 40 {
		c.insights = append(c.insights, "Your carbohydrate intake ("+fmtTenth(carbsPct)+"% of total calories) is below recommended levels.")
		c.recommendations = append(c.recommendations, "Increase intake of complex carbohydrates like whole grains, fruits, and vegetables.")
	} else if carbsPct > 70 {
		c.insights = append(c.insights, "Your carbohydrate intake ("+fmtTenth(carbsPct)+"% of total calories) is above recommended levels.")
		c.recommendations = append(c.recommendations, "Consider reducing simple carbohydrates and increasing protein and healthy fats.")
	}

	if fatsPct < 15 {
		c.insights = append(c.insights, "Your fat intake ("+fmtTenth(fatsPct)+"% of total calories) is below recommended levels.")
		c.recommendations = append(c.recommendations, "Increase intake of healthy fats from sources like avocados, nuts, and olive oil.")
	} else if fatsPct > 40 {
		c.insights = append(c.insights, "Your fat intake ("+fmtTenth(fatsPct)+"% of total calories) is above recommended levels.")
		c.recommendations = append(c.recommendations, "Consider reducing fat intake, particularly from saturated and trans fats.")
	}
}

func (c *NutritionContext) ScoreRelevancy(query string) float64 {
	if c.insufficient() {
		return c.record(0, 0)
	}
	return c.record(keywordCount(query, nutritionKeywords, c.confidence))
}

func countedConfidence(n int) float64 {
	confidence := countedConfidenceBase + countedConfidenceIncrement*float64(n)
	if confidence > countedConfidenceCeiling {
		confidence = countedConfidenceCeiling
	}
	return confidence
}
