package service

import "github.com/aevumlab/aevum/internal/domain"

// Fuse merges ordered candidate responses into one canonical response.
// The input must already be sorted by descending relevancy; the first
// element supplies the text and visualization, insights are the deduped
// first-seen union, and the full list is kept under agent_responses for
// observability.
func Fuse(responses []*domain.Response) *domain.Response {
	if len(responses) == 0 {
		return domain.Normalize(nil)
	}

	primary := responses[0]
	fused := &domain.Response{
		Text:          primary.Text,
		Insights:      []string{},
		Visualization: primary.Visualization,
	}

	seen := make(map[string]bool)
	for _, r := range responses {
		for _, insight := range r.Insights {
			if seen[insight] {
				continue
			}
			seen[insight] = true
			fused.Insights = append(fused.Insights, insight)
		}
	}

	fused.AgentResponses = append([]*domain.Response{}, responses...)
	return domain.Normalize(fused)
}
