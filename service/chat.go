package service

import (
	"fmt"
	"log"

	"github.com/go-resty/resty/v2"
)

const chatSystemPrompt = "You are the SPIROLINK assistant. Answer questions about " +
	"NodalWire connectivity products briefly and accurately. If you are unsure, " +
	"suggest contacting support."

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

type chatAPIError struct {
	Error struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error"`
}

// ChatService proxies a single-turn message to an OpenAI-compatible
// chat-completions endpoint.
type ChatService struct {
	client *resty.Client
	apiKey string
	model  string
}

func NewChatService(baseURL, apiKey, model string) *ChatService {
	return &ChatService{
		client: resty.New().SetBaseURL(baseURL),
		apiKey: apiKey,
		model:  model,
	}
}

func (s *ChatService) Complete(message string) (string, error) {
	body := chatCompletionRequest{
		Model: s.model,
		Messages: []chatMessage{
			{Role: "system", Content: chatSystemPrompt},
			{Role: "user", Content: message},
		},
	}

	var success chatCompletionResponse
	var apiErr chatAPIError

	resp, err := s.client.R().
		SetAuthToken(s.apiKey).
		SetHeader("Content-Type", "application/json").
		SetBody(body).
		SetResult(&success).
		SetError(&apiErr).
		Post("/chat/completions")
	if err != nil {
		return "", fmt.Errorf("could not reach chat provider: %w", err)
	}

	if resp.IsError() {
		log.Printf("ERROR: chat provider returned %s: %s", resp.Status(), apiErr.Error.Message)
		if apiErr.Error.Message != "" {
			return "", fmt.Errorf("chat provider error: %s", apiErr.Error.Message)
		}
		return "", fmt.Errorf("chat provider error: status %s", resp.Status())
	}

	if len(success.Choices) == 0 {
		return "", fmt.Errorf("chat provider returned no choices")
	}
	return success.Choices[0].Message.Content, nil
}
