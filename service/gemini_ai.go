package service

import (
	"context"
	"errors"
	"sync"

	"github.com/google/generative-ai-go/genai"
	"google.golang.org/api/option"

	"github.com/jeremiep/portfolio-be/types"
)

// GeminiService is the alternate chat provider. It rotates through the
// configured API keys on request failure.
type GeminiService struct {
	apiKeys    []string
	currentKey int
	client     *genai.Client
	model      *genai.GenerativeModel
	modelName  string
	rag        *RAGService
	mu         sync.Mutex
}

func NewGeminiService(apiKeys []string, modelName string, rag *RAGService) (*GeminiService, error) {
	if len(apiKeys) == 0 {
		return nil, errors.New("no API keys provided")
	}
	service := &GeminiService{
		apiKeys:   apiKeys,
		modelName: modelName,
		rag:       rag,
	}
	if err := service.initClient(); err != nil {
		return nil, err
	}
	return service, nil
}

func (s *GeminiService) initClient() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	client, err := genai.NewClient(context.Background(), option.WithAPIKey(s.apiKeys[s.currentKey]))
	if err != nil {
		return err
	}
	s.client = client
	s.model = client.GenerativeModel(s.modelName)
	s.model.SystemInstruction = &genai.Content{
		Parts: []genai.Part{genai.Text(systemPromptBase)},
	}
	return nil
}

func (s *GeminiService) rotateAPIKey() error {
	s.mu.Lock()
	s.currentKey = (s.currentKey + 1) % len(s.apiKeys)
	if err := s.client.Close(); err != nil {
		s.mu.Unlock()
		return err
	}
	s.mu.Unlock()
	return s.initClient()
}

func (s *GeminiService) Chat(ctx context.Context, messages []types.Message) (*types.Message, error) {
	if len(messages) == 0 {
		return nil, errors.New("no messages provided")
	}

	prompt := messages[len(messages)-1].Content
	if s.rag != nil {
		if ragContext := s.rag.BuildRAGContext(ctx, lastUserMessage(messages)); ragContext != "" {
			prompt = "Retrieved portfolio content:\n\n" + ragContext + "\n\nQuestion: " + prompt
		}
	}

	history := make([]*genai.Content, 0, len(messages)-1)
	for _, msg := range messages[:len(messages)-1] {
		role := "user"
		if msg.Role == "assistant" {
			role = "model"
		}
		history = append(history, &genai.Content{
			Parts: []genai.Part{genai.Text(msg.Content)},
			Role:  role,
		})
	}

	chat := s.model.StartChat()
	chat.History = history

	resp, err := chat.SendMessage(ctx, genai.Text(prompt))
	if err != nil {
		if err := s.rotateAPIKey(); err != nil {
			return nil, err
		}
		chat = s.model.StartChat()
		chat.History = history
		resp, err = chat.SendMessage(ctx, genai.Text(prompt))
		if err != nil {
			return nil, err
		}
	}
	if len(resp.Candidates) == 0 {
		return nil, errors.New("no response generated")
	}

	content := ""
	for _, cand := range resp.Candidates {
		if cand.Content == nil {
			continue
		}
		for _, part := range cand.Content.Parts {
			if text, ok := part.(genai.Text); ok {
				content += string(text)
			}
		}
	}
	return &types.Message{Role: "assistant", Content: content}, nil
}
