package domain

import "time"

const (
	TopicSleep     = "sleep"
	TopicExercise  = "exercise"
	TopicNutrition = "nutrition"
	TopicBiometric = "biometric"
	TopicGeneral   = "general"
)

// ObservationContext is a per-(user, topic) interpretation of uploaded
// data, independent of any single query. It is produced from raw uploads,
// not from conversation turns.
type ObservationContext interface {
	Topic() string
	HandlerName() string
	UserID() string

	// Absorb folds new raw data into the context, recomputing aggregates,
	// ratings, insights and the confidence score.
	Absorb(data map[string]any)

	// ScoreRelevancy scores how applicable this context is to the query.
	// It is a scored read: the relevancy and ambiguity scores are recorded
	// on the context as a side effect, for audit.
	ScoreRelevancy(query string) float64

	EmitResponse() *Response

	ConfidenceScore() float64
	RelevancyScore() float64
	AmbiguityScore() float64

	Snapshot() ContextSnapshot
}

// ContextSnapshot is the introspectable state of an observation context.
type ContextSnapshot struct {
	Topic           string             `json:"topic"`
	HandlerName     string             `json:"handler_name"`
	UserID          string             `json:"user_id,omitempty"`
	CreatedAt       time.Time          `json:"created_at"`
	ProcessedData   map[string]float64 `json:"processed_data,omitempty"`
	CurrentState    map[string]Rating  `json:"current_state"`
	GoalState       map[string]Rating  `json:"goal_state"`
	RelevancyScore  float64            `json:"relevancy_score"`
	ConfidenceScore float64            `json:"confidence_score"`
	AmbiguityScore  float64            `json:"ambiguity_score"`
	Insights        []string           `json:"insights,omitempty"`
	Recommendations []string           `json:"recommendations,omitempty"`
	Questions       []string           `json:"questions,omitempty"`
}

// QueryRecord is one turn in a user's bounded conversation history.
type QueryRecord struct {
	Text     string         `json:"text"`
	Metadata map[string]any `json:"metadata,omitempty"`
	At       time.Time      `json:"at"`
}

// ContextStore holds per-user conversational state: bounded query history,
// arbitrary metadata, the active topic, and the user's observation contexts
// keyed by owning handler name. It is the only mutable shared structure in
// the engine; implementations must serialize access per user.
type ContextStore interface {
	RecordQuery(userID, query string, metadata map[string]any)
	Queries(userID string) []QueryRecord
	Metadata(userID string) map[string]any
	UpdateMetadata(userID string, update map[string]any)
	ActiveTopic(userID string) string
	SetActiveTopic(userID, topic string)

	PutContext(userID, handlerName string, oc ObservationContext)
	Contexts(userID string) map[string]ObservationContext
	HasContexts(userID string) bool

	// Clear removes conversational metadata and observation contexts as a
	// single operation; afterwards the user looks brand new.
	Clear(userID string)
}
