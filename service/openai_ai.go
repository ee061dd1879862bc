package service

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/sashabaranov/go-openai"
	"github.com/sashabaranov/go-openai/jsonschema"
	"go.uber.org/zap"

	"github.com/jeremiep/portfolio-be/types"
)

const systemPromptBase = "You are the assistant on a personal academic portfolio website. " +
	"Answer questions about the site owner's research, publications, blog posts and news. " +
	"When retrieved portfolio content is provided, ground your answers in it and mention the sources. " +
	"If you do not know the answer, say so."

type OpenAIService struct {
	client        *openai.Client
	rag           *RAGService
	functionsCall map[string]types.FunctionHandler
	tools         []openai.Tool
	model         string
	logger        *zap.Logger
}

// NewOpenAIService builds the OpenAI-backed chat orchestrator. rag may be
// nil, in which case chat proceeds without retrieval enrichment.
func NewOpenAIService(baseURL, apiKey, model string, rag *RAGService, logger *zap.Logger) *OpenAIService {
	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}
	return &OpenAIService{
		client:        openai.NewClientWithConfig(config),
		rag:           rag,
		functionsCall: make(map[string]types.FunctionHandler),
		tools:         make([]openai.Tool, 0),
		model:         model,
		logger:        logger,
	}
}

func (s *OpenAIService) Chat(ctx context.Context, messages []types.Message) (*types.Message, error) {
	system := systemPromptBase
	if s.rag != nil {
		if query := lastUserMessage(messages); query != "" {
			// Empty context means no relevant content was found; proceed
			// without enrichment.
			if ragContext := s.rag.BuildRAGContext(ctx, query); ragContext != "" {
				system += "\n\nRetrieved portfolio content:\n\n" + ragContext
			}
		}
	}

	openaiMessages := make([]openai.ChatCompletionMessage, 0, len(messages)+1)
	openaiMessages = append(openaiMessages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleSystem,
		Content: system,
	})
	for _, msg := range messages {
		role := msg.Role
		if role == "" {
			role = openai.ChatMessageRoleUser
		}
		openaiMessages = append(openaiMessages, openai.ChatCompletionMessage{
			Role:    role,
			Content: msg.Content,
		})
	}

	resp, err := s.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Messages: openaiMessages,
			Tools:    s.tools,
			Model:    s.model,
		},
	)
	if err != nil {
		return nil, err
	}
	if len(resp.Choices) == 0 {
		return nil, errors.New("no response generated")
	}

	if resp.Choices[0].FinishReason == openai.FinishReasonToolCalls {
		resp, err = s.handleFunctionCall(ctx, openaiMessages, resp)
		if err != nil {
			return nil, err
		}
	}

	return &types.Message{
		Role:    "assistant",
		Content: resp.Choices[0].Message.Content,
	}, nil
}

// RegisterFunctionCall exposes a named tool to the model.
func (s *OpenAIService) RegisterFunctionCall(name, description string, params jsonschema.Definition, handler types.FunctionHandler) {
	f := openai.FunctionDefinition{
		Name:        name,
		Description: description,
		Parameters:  params,
	}
	s.functionsCall[name] = handler
	s.tools = append(s.tools, openai.Tool{
		Type:     openai.ToolTypeFunction,
		Function: &f,
	})
}

// RegisterRAGFunctionCall lets the model search the portfolio knowledge base
// on demand, beyond the context injected up front.
func (s *OpenAIService) RegisterRAGFunctionCall() error {
	if s.rag == nil {
		return errors.New("rag service is not available")
	}
	params := jsonschema.Definition{
		Type: jsonschema.Object,
		Properties: map[string]jsonschema.Definition{
			"query": {
				Type:        jsonschema.String,
				Description: "Free-text query against the portfolio knowledge base",
			},
		},
		Required: []string{"query"},
	}
	s.RegisterFunctionCall(
		"search_portfolio",
		"Search the portfolio owner's blog posts, news and documents for relevant passages",
		params,
		func(ctx context.Context, args []byte) (any, error) {
			var req struct {
				Query string `json:"query"`
			}
			if err := json.Unmarshal(args, &req); err != nil {
				return nil, err
			}
			results := s.rag.SearchWithScores(ctx, req.Query, 0)
			data, err := json.Marshal(results)
			if err != nil {
				return nil, err
			}
			return string(data), nil
		},
	)
	return nil
}

// RegisterWebSearchFunctionCall exposes Google custom search as a tool for
// questions the portfolio content cannot answer.
func (s *OpenAIService) RegisterWebSearchFunctionCall(search *SearchService) {
	params := jsonschema.Definition{
		Type: jsonschema.Object,
		Properties: map[string]jsonschema.Definition{
			"query": {
				Type:        jsonschema.String,
				Description: "Web search query",
			},
		},
		Required: []string{"query"},
	}
	s.RegisterFunctionCall(
		"web_search",
		"Search the web for information not covered by the portfolio content",
		params,
		func(ctx context.Context, args []byte) (any, error) {
			var req struct {
				Query string `json:"query"`
			}
			if err := json.Unmarshal(args, &req); err != nil {
				return nil, err
			}
			return search.SearchJSON(ctx, req.Query)
		},
	)
}

func (s *OpenAIService) handleFunctionCall(ctx context.Context, openaiMessages []openai.ChatCompletionMessage, resp openai.ChatCompletionResponse) (openai.ChatCompletionResponse, error) {
	openaiMessages = append(openaiMessages, resp.Choices[0].Message)
	for _, toolCall := range resp.Choices[0].Message.ToolCalls {
		if toolCall.Type != openai.ToolTypeFunction {
			continue
		}
		handler := s.functionsCall[toolCall.Function.Name]
		if handler == nil {
			return openai.ChatCompletionResponse{}, errors.New("no handler found for function call")
		}
		result, err := handler(ctx, []byte(toolCall.Function.Arguments))
		if err != nil {
			return openai.ChatCompletionResponse{}, err
		}
		content, ok := result.(string)
		if !ok {
			data, err := json.Marshal(result)
			if err != nil {
				return openai.ChatCompletionResponse{}, err
			}
			content = string(data)
		}
		openaiMessages = append(openaiMessages, openai.ChatCompletionMessage{
			Role:       openai.ChatMessageRoleTool,
			Content:    content,
			Name:       toolCall.Function.Name,
			ToolCallID: toolCall.ID,
		})
	}

	resp, err := s.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Messages: openaiMessages,
			Tools:    s.tools,
			Model:    s.model,
		},
	)
	if err != nil {
		return openai.ChatCompletionResponse{}, err
	}
	if len(resp.Choices) == 0 {
		return openai.ChatCompletionResponse{}, errors.New("no response generated")
	}
	if resp.Choices[0].FinishReason == openai.FinishReasonToolCalls {
		return s.handleFunctionCall(ctx, openaiMessages, resp)
	}
	return resp, nil
}
