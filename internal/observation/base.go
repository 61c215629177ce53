package observation

import (
	"fmt"
	"strings"
	"time"

	"github.com/aevumlab/aevum/internal/domain"
)

// insufficientConfidence is assigned when a context has seen an upload but
// no usable series for its topic.
const insufficientConfidence = 0.1

// baseContext carries the state shared by every topic variant. Variants
// embed it and implement Absorb/ScoreRelevancy on top.
type baseContext struct {
	topic       string
	handlerName string
	userID      string
	createdAt   time.Time

	rawData         map[string]any
	processed       map[string]float64
	currentState    map[string]domain.Rating
	goalState       map[string]domain.Rating
	relevancy       float64
	confidence      float64
	ambiguity       float64
	insights        []string
	recommendations []string
	questions       []string
	visualization   *domain.Visualization
}

func newBaseContext(topic, handlerName, userID string) baseContext {
	return baseContext{
		topic:        topic,
		handlerName:  handlerName,
		userID:       userID,
		createdAt:    time.Now(),
		rawData:      map[string]any{},
		processed:    map[string]float64{},
		currentState: map[string]domain.Rating{},
		goalState:    map[string]domain.Rating{},
	}
}

func (c *baseContext) Topic() string            { return c.topic }
func (c *baseContext) HandlerName() string      { return c.handlerName }
func (c *baseContext) UserID() string           { return c.userID }
func (c *baseContext) ConfidenceScore() float64 { return c.confidence }
func (c *baseContext) RelevancyScore() float64  { return c.relevancy }
func (c *baseContext) AmbiguityScore() float64  { return c.ambiguity }

func (c *baseContext) mergeRaw(data map[string]any) {
	for k, v := range data {
		c.rawData[k] = v
	}
}

func (c *baseContext) markInsufficient() {
	c.currentState["overall"] = domain.RatingInsufficientData
	c.confidence = insufficientConfidence
}

// insufficient reports whether the context never interpreted a usable
// series. Such contexts are never relevant, regardless of the query.
func (c *baseContext) insufficient() bool {
	return c.confidence == 0 || c.currentState["overall"] == domain.RatingInsufficientData
}

// record stores the outcome of a relevancy scoring pass. Scoring is a read
// that also records, so the audit trail can show what the router saw.
func (c *baseContext) record(relevancy, ambiguity float64) float64 {
	c.relevancy = relevancy
	c.ambiguity = ambiguity
	return relevancy
}

func (c *baseContext) EmitResponse() *domain.Response {
	relevancy := c.relevancy
	confidence := c.confidence
	return &domain.Response{
		Text:            c.responseText(),
		Insights:        append([]string{}, c.insights...),
		Recommendations: append([]string{}, c.recommendations...),
		Questions:       append([]string{}, c.questions...),
		Visualization:   c.visualization,
		RelevancyScore:  &relevancy,
		ConfidenceScore: &confidence,
	}
}

func (c *baseContext) responseText() string {
	var parts []string

	if len(c.insights) > 0 {
		parts = append(parts, "Insights:\n"+bulleted(c.insights))
	}
	if len(c.recommendations) > 0 {
		parts = append(parts, "Recommendations:\n"+bulleted(c.recommendations))
	}
	if len(c.questions) > 0 {
		parts = append(parts, "Questions:\n"+bulleted(c.questions))
	}

	if len(parts) == 0 {
		return "No insights or recommendations available for the provided data."
	}
	return strings.Join(parts, "\n\n")
}

func bulleted(items []string) string {
	lines := make([]string, len(items))
	for i, item := range items {
		lines[i] = "- " + item
	}
	return strings.Join(lines, "\n")
}

func (c *baseContext) Snapshot() domain.ContextSnapshot {
	return domain.ContextSnapshot{
		Topic:           c.topic,
		HandlerName:     c.handlerName,
		UserID:          c.userID,
		CreatedAt:       c.createdAt,
		ProcessedData:   copyFloats(c.processed),
		CurrentState:    copyRatings(c.currentState),
		GoalState:       copyRatings(c.goalState),
		RelevancyScore:  c.relevancy,
		ConfidenceScore: c.confidence,
		AmbiguityScore:  c.ambiguity,
		Insights:        append([]string{}, c.insights...),
		Recommendations: append([]string{}, c.recommendations...),
		Questions:       append([]string{}, c.questions...),
	}
}

func copyFloats(m map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

func copyRatings(m map[string]domain.Rating) map[string]domain.Rating {
	out := make(map[string]domain.Rating, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// series extracts a list-of-entries field from an upload payload,
// tolerating both typed and JSON-decoded shapes.
func series(data map[string]any, key string) []map[string]any {
	switch list := data[key].(type) {
	case []map[string]any:
		return list
	case []any:
		out := make([]map[string]any, 0, len(list))
		for _, item := range list {
			if entry, ok := item.(map[string]any); ok {
				out = append(out, entry)
			}
		}
		return out
	default:
		return nil
	}
}

// num coerces a JSON-ish numeric value.
func num(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	default:
		return 0, false
	}
}

// firstNum returns the first of the named fields present on the entry.
// Upstream producers are inconsistent about field names, so several topics
// accept two spellings.
func firstNum(entry map[string]any, fields ...string) (float64, bool) {
	for _, f := range fields {
		if v, ok := entry[f]; ok {
			if n, ok := num(v); ok {
				return n, true
			}
		}
	}
	return 0, false
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// timeSeries builds a visualization from entries that carry both a date and
// the named value field; entries missing either are dropped.
func timeSeries(entries []map[string]any, valueField, title, yLabel string) *domain.Visualization {
	points := make([]domain.TimePoint, 0, len(entries))
	for _, entry := range entries {
		date, hasDate := entry["date"].(string)
		value, hasValue := firstNum(entry, valueField)
		if hasDate && hasValue {
			points = append(points, domain.TimePoint{Date: date, Value: value})
		}
	}
	return &domain.Visualization{
		Type:   "line",
		Title:  title,
		XLabel: "Date",
		YLabel: yLabel,
		Data:   points,
	}
}

func fmtTenth(v float64) string { return fmt.Sprintf("%.1f", v) }
func fmtWhole(v float64) string { return fmt.Sprintf("%.0f", v) }
