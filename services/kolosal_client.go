package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/ordira-app/backend/utils"
)

const kolosalAPIURL = "https://api.kolosal.ai/v1/chat/completions"

type ChatOptions struct {
	Model       string
	Temperature float64
	MaxTokens   int
}

// ChatCompleter adalah kolaborator language model: teks masuk, teks keluar,
// tidak bisa diandalkan.
type ChatCompleter interface {
	ChatWithSystem(systemPrompt, userMessage string, opts ChatOptions) (string, error)
}

// KolosalClient memanggil API chat-completion Kolosal lewat HTTP dengan
// timeout terbatas.
type KolosalClient struct {
	apiURL     string
	apiKey     string
	httpClient *http.Client
}

func NewKolosalClient() *KolosalClient {
	return &KolosalClient{
		apiURL: kolosalAPIURL,
		apiKey: os.Getenv("KOLOSAL_API_KEY"),
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func (kc *KolosalClient) ChatWithSystem(systemPrompt, userMessage string, opts ChatOptions) (string, error) {
	if kc.apiKey == "" {
		return "", utils.NewExternal("KOLOSAL_API_KEY is not configured")
	}

	model := opts.Model
	if model == "" {
		model = "Claude Sonnet 4.5"
	}

	reqBody := chatCompletionRequest{
		Model: model,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: userMessage},
		},
		Temperature: opts.Temperature,
		MaxTokens:   opts.MaxTokens,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequest("POST", kc.apiURL, bytes.NewBuffer(jsonData))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+kc.apiKey)

	resp, err := kc.httpClient.Do(req)
	if err != nil {
		return "", utils.NewExternal("language model request failed: %s", err.Error())
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", utils.NewExternal("error reading language model response: %s", err.Error())
	}

	if resp.StatusCode != http.StatusOK {
		return "", utils.NewExternal("language model API error: %s", fmt.Sprintf("%d %s", resp.StatusCode, string(body)))
	}

	var completion chatCompletionResponse
	if err := json.Unmarshal(body, &completion); err != nil {
		return "", utils.NewExternal("malformed language model response")
	}
	if len(completion.Choices) == 0 {
		return "", utils.NewExternal("language model returned no choices")
	}

	return completion.Choices[0].Message.Content, nil
}
