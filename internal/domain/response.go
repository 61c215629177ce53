package domain

import (
	"encoding/json"
	"fmt"
)

// FallbackText is the canonical reply used whenever a producer returns
// nothing usable. Normalization guarantees no Response ever leaves the
// engine without text.
const FallbackText = "I processed your request but couldn't generate a specific response."

// TimePoint is a single dated value in a visualization series.
type TimePoint struct {
	Date  string  `json:"date"`
	Value float64 `json:"value"`
}

// Visualization is a renderable time series attached to a response.
type Visualization struct {
	Type   string      `json:"type"`
	Title  string      `json:"title"`
	XLabel string      `json:"x_label"`
	YLabel string      `json:"y_label"`
	Data   []TimePoint `json:"data"`
}

// Response is the canonical output contract. The first four fields are
// always present after normalization; the rest are producer extras that
// pass through unmodified.
type Response struct {
	Text            string         `json:"response"`
	Insights        []string       `json:"insights"`
	Visualization   *Visualization `json:"visualization"`
	Error           *string        `json:"error"`
	Recommendations []string       `json:"recommendations,omitempty"`
	Questions       []string       `json:"questions,omitempty"`
	AgentName       string         `json:"agent_name,omitempty"`
	RelevancyScore  *float64       `json:"relevancy_score,omitempty"`
	ConfidenceScore *float64       `json:"confidence_score,omitempty"`
	AgentResponses  []*Response    `json:"agent_responses,omitempty"`

	// Extra holds unrecognized keys from map-shaped producers. They are
	// merged into the JSON output verbatim and may shadow typed fields.
	Extra map[string]any `json:"-"`
}

type responseAlias Response

func (r *Response) MarshalJSON() ([]byte, error) {
	raw, err := json.Marshal((*responseAlias)(r))
	if err != nil {
		return nil, err
	}
	if len(r.Extra) == 0 {
		return raw, nil
	}

	var merged map[string]any
	if err := json.Unmarshal(raw, &merged); err != nil {
		return nil, err
	}
	for k, v := range r.Extra {
		merged[k] = v
	}
	return json.Marshal(merged)
}

// Normalize is a total function over every shape a producer can emit:
// nil, a bare string, a *Response, a partial map, or anything else. The
// result always has non-empty text, a non-nil insights slice, and the
// visualization/error keys present. Every producer path (handler, context,
// router fallback, fuser) passes through here before a Response leaves the
// engine.
func Normalize(candidate any) *Response {
	switch v := candidate.(type) {
	case nil:
		return fallbackResponse()

	case string:
		if v == "" {
			return fallbackResponse()
		}
		return &Response{Text: v, Insights: []string{}}

	case *Response:
		if v == nil {
			return fallbackResponse()
		}
		return normalized(*v)

	case Response:
		return normalized(v)

	case map[string]any:
		return fromMap(v)

	default:
		return &Response{Text: fmt.Sprintf("%v", v), Insights: []string{}}
	}
}

func fallbackResponse() *Response {
	return &Response{Text: FallbackText, Insights: []string{}}
}

func normalized(r Response) *Response {
	if r.Text == "" {
		r.Text = FallbackText
	}
	if r.Insights == nil {
		r.Insights = []string{}
	}
	return &r
}

func fromMap(m map[string]any) *Response {
	out := fallbackResponse()

	for k, v := range m {
		switch k {
		case "response":
			if s, ok := v.(string); ok && s != "" {
				out.Text = s
			}
		case "insights":
			out.Insights = toStrings(v)
		case "error":
			if s, ok := v.(string); ok {
				out.Error = &s
			}
		case "visualization":
			if viz, ok := v.(*Visualization); ok {
				out.Visualization = viz
			} else if v != nil {
				// Unknown shape: pass through untouched.
				if out.Extra == nil {
					out.Extra = map[string]any{}
				}
				out.Extra[k] = v
			}
		default:
			if out.Extra == nil {
				out.Extra = map[string]any{}
			}
			out.Extra[k] = v
		}
	}
	return out
}

func toStrings(v any) []string {
	switch list := v.(type) {
	case []string:
		if list == nil {
			return []string{}
		}
		return list
	case []any:
		out := make([]string, 0, len(list))
		for _, item := range list {
			out = append(out, fmt.Sprint(item))
		}
		return out
	default:
		return []string{}
	}
}
