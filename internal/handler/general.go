package handler

import (
	"context"
	"fmt"

	"github.com/aevumlab/aevum/internal/domain"
)

var generalKeywords = []string{
	"hello", "hi", "hey", "thanks", "thank you", "help", "what can you do",
	"who are you", "how does this work", "good morning", "good evening",
}

const generalPrompt = "You are a friendly health coach assistant. Respond warmly and " +
	"briefly to the message below. If the user seems unsure what to ask, suggest they " +
	"ask about their biological age, their health data, or health research.\n\nMessage: %s"

// GeneralHandler is the conversational fallback for greetings, small talk
// and questions no specialist covers.
type GeneralHandler struct {
	base
	completion domain.CompletionClient
}

func NewGeneralHandler(completion domain.CompletionClient) *GeneralHandler {
	return &GeneralHandler{
		base: newBase(
			NameGeneral,
			"Handles greetings, small talk and anything without a specialist.",
			[]string{
				"Greet users and explain capabilities",
				"Answer general questions",
				"Guide users toward the right specialist",
			},
			[]string{
				"Hello!",
				"Hi there",
				"What can you help me with?",
				"How does this work?",
				"Thanks for your help",
				"Who are you?",
				"Good morning",
				"I'm not sure what to ask",
			},
			[]string{AffinityCompletion},
			nil,
		),
		completion: completion,
	}
}

func (h *GeneralHandler) EstimateConfidence(ctx context.Context, query string, turn domain.TurnContext) (float64, error) {
	// The fallback floor is above zero so an arbitration round always has a
	// candidate, but low enough that any specialist signal beats it.
	return tieredConfidence(matchCount(query, generalKeywords), 0.85, 0.6, 0.25), nil
}

func (h *GeneralHandler) Answer(ctx context.Context, query string, turn domain.TurnContext) (*domain.Response, error) {
	answer, err := h.completion.Complete(ctx, fmt.Sprintf(generalPrompt, query))
	if err != nil {
		return nil, fmt.Errorf("complete general answer: %w", err)
	}
	return &domain.Response{
		Text:     answer,
		Insights: []string{},
	}, nil
}
