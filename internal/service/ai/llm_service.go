package ai

import (
	"context"
	"fmt"
	"log"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"

	"github.com/buynlarge/console/internal/config"
	"github.com/buynlarge/console/internal/model/catalog"
	"github.com/buynlarge/console/internal/model/chat"
)

const historyLimit = 10

// Service answers chatbot questions with an LLM grounded on the catalog.
type Service struct {
	products catalog.Store
	chain    compose.Runnable[map[string]any, *schema.Message]
}

// NewService builds the chat model from cfg and compiles the prompt chain.
func NewService(ctx context.Context, products catalog.Store, cfg config.AIConfig) (*Service, error) {
	chatModel, err := cfg.NewChatModel(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to create chat model: %w", err)
	}
	return NewServiceWithModel(ctx, products, chatModel)
}

// NewServiceWithModel compiles the prompt chain around an existing model.
func NewServiceWithModel(ctx context.Context, products catalog.Store, chatModel model.ChatModel) (*Service, error) {
	promptTemplate := prompt.FromMessages(
		schema.FString,
		schema.SystemMessage("{system}"),
		schema.MessagesPlaceholder("history", true),
		schema.UserMessage("{query}"),
	)

	chain := compose.NewChain[map[string]any, *schema.Message]()
	chain.AppendChatTemplate(promptTemplate)
	chain.AppendChatModel(chatModel)

	runnable, err := chain.Compile(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to compile chat chain: %w", err)
	}

	return &Service{products: products, chain: runnable}, nil
}

// Reply runs the chain for text.
func (s *Service) Reply(ctx context.Context, sessionID string, history []chat.APIMessage, text string) (string, error) {
	response, err := s.chain.Invoke(ctx, s.buildChainInput(history, text))
	if err != nil {
		return "", fmt.Errorf("failed to run AI chain: %w", err)
	}

	log.Printf("[ai] generated response for session=%s, length=%d", sessionID, len(response.Content))
	return response.Content, nil
}

// Stream runs the chain in streaming mode. The caller must close the reader.
func (s *Service) Stream(ctx context.Context, sessionID string, history []chat.APIMessage, text string) (*schema.StreamReader[*schema.Message], error) {
	stream, err := s.chain.Stream(ctx, s.buildChainInput(history, text))
	if err != nil {
		return nil, fmt.Errorf("failed to stream AI chain: %w", err)
	}

	log.Printf("[ai] streaming response for session=%s", sessionID)
	return stream, nil
}

func (s *Service) buildChainInput(history []chat.APIMessage, text string) map[string]any {
	return map[string]any{
		"system":  BuildSystemPrompt(s.products.List()),
		"history": buildHistoryMessages(history),
		"query":   text,
	}
}

func buildHistoryMessages(messages []chat.APIMessage) []*schema.Message {
	if len(messages) == 0 {
		return nil
	}

	startIdx := 0
	if len(messages) > historyLimit {
		startIdx = len(messages) - historyLimit
	}

	history := make([]*schema.Message, 0, len(messages)-startIdx)
	for _, msg := range messages[startIdx:] {
		switch msg.Sender {
		case chat.SenderUser:
			history = append(history, schema.UserMessage(msg.Content))
		case chat.SenderBot:
			history = append(history, schema.AssistantMessage(msg.Content, nil))
		}
	}

	return history
}
