package handler

import (
	"context"
	"fmt"

	"github.com/aevumlab/aevum/internal/domain"
)

var researchKeywords = []string{
	"research", "study", "studies", "evidence", "science", "scientific",
	"paper", "findings", "literature", "trial", "clinical", "meta-analysis",
	"proven", "journal", "publication", "researchers",
}

const researchPrompt = "You are a health research assistant. Answer the question below " +
	"using established scientific consensus. Cite the kind of evidence (observational, " +
	"randomized trial, meta-analysis) where relevant and note uncertainty honestly. " +
	"Keep the answer under 200 words.\n\nQuestion: %s"

// ResearchHandler answers evidence and literature questions through the
// completion service.
type ResearchHandler struct {
	base
	completion domain.CompletionClient
}

func NewResearchHandler(completion domain.CompletionClient) *ResearchHandler {
	return &ResearchHandler{
		base: newBase(
			NameResearch,
			"Answers questions about health and longevity research.",
			[]string{
				"Explain research findings",
				"Summarize scientific evidence",
				"Answer questions about health studies",
			},
			[]string{
				"What does research say about intermittent fasting?",
				"Are there studies on sleep and longevity?",
				"What's the scientific evidence for cold exposure?",
				"Is there research supporting zone 2 cardio?",
				"What do studies say about protein intake and aging?",
				"Has caloric restriction been proven to extend lifespan?",
				"What does the literature say about sauna use?",
				"Are supplements backed by clinical trials?",
			},
			[]string{AffinityCompletion},
			nil,
		),
		completion: completion,
	}
}

func (h *ResearchHandler) EstimateConfidence(ctx context.Context, query string, turn domain.TurnContext) (float64, error) {
	return tieredConfidence(matchCount(query, researchKeywords), 0.9, 0.7, 0.2), nil
}

func (h *ResearchHandler) Answer(ctx context.Context, query string, turn domain.TurnContext) (*domain.Response, error) {
	answer, err := h.completion.Complete(ctx, fmt.Sprintf(researchPrompt, query))
	if err != nil {
		return nil, fmt.Errorf("complete research answer: %w", err)
	}
	return &domain.Response{
		Text:     answer,
		Insights: []string{},
	}, nil
}
