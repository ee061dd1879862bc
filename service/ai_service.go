package service

import (
	"context"

	"github.com/jeremiep/portfolio-be/types"
)

// AIService is the chat orchestrator behind the site's chat widget.
// Implementations merge retrieved portfolio context into the prompt before
// calling the hosted model.
type AIService interface {
	Chat(ctx context.Context, messages []types.Message) (*types.Message, error)
}

// lastUserMessage returns the content of the most recent user message, used
// as the retrieval query.
func lastUserMessage(messages []types.Message) string {
	for i := len(messages) - 1; i >= 0; i-- {
		if messages[i].Role == "user" {
			return messages[i].Content
		}
	}
	if len(messages) > 0 {
		return messages[len(messages)-1].Content
	}
	return ""
}
