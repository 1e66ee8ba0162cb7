package generator

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/certprep/dva-practice-backend/internal/model"
)

// DefaultEndpoint is the Gemini REST API base URL.
const DefaultEndpoint = "https://generativelanguage.googleapis.com"

const (
	questionSystemInstruction = "You are an expert AWS Certified Developer Associate exam creator. " +
		"Generate realistic, practical exam questions that match the official DVA-C02 format."
	explanationSystemInstruction = "You are an expert AWS instructor helping developers understand " +
		"certification exam concepts with practical, detailed explanations."
)

// GeminiClient implements Provider and Explainer against the Gemini
// generateContent REST API.
type GeminiClient struct {
	endpoint string
	model    string
	apiKey   string
	client   *http.Client
	log      zerolog.Logger
}

// Compile-time checks.
var (
	_ Provider  = (*GeminiClient)(nil)
	_ Explainer = (*GeminiClient)(nil)
)

// NewGeminiClient creates a Gemini-backed question generator.
func NewGeminiClient(endpoint, modelName, apiKey string, log zerolog.Logger) *GeminiClient {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	return &GeminiClient{
		endpoint: endpoint,
		model:    modelName,
		apiKey:   apiKey,
		client: &http.Client{
			Timeout: 120 * time.Second,
		},
		log: log.With().Str("component", "gemini_client").Logger(),
	}
}

// Model returns the configured Gemini model name.
func (g *GeminiClient) Model() string {
	return g.model
}

// GenerateQuestions asks Gemini for req.Count questions for one
// (domain, task) pair. Malformed model output yields an empty slice and
// an error; individual candidates failing validation are dropped.
func (g *GeminiClient) GenerateQuestions(ctx context.Context, req TaskRequest) ([]model.Question, error) {
	prompt := buildQuestionPrompt(req)

	raw, err := g.generateContent(ctx, questionSystemInstruction, prompt, generationConfig{
		Temperature:     0.7,
		TopP:            0.8,
		MaxOutputTokens: 8192,
	})
	if err != nil {
		return nil, fmt.Errorf("gemini generate: %w", err)
	}

	questions, err := parseQuestions(raw, req.Domain, req.TaskNumber)
	if err != nil {
		return nil, fmt.Errorf("parse gemini response: %w", err)
	}

	if len(questions) < req.Count {
		g.log.Warn().
			Str("domain", req.Domain).
			Int("task", req.TaskNumber).
			Int("requested", req.Count).
			Int("delivered", len(questions)).
			Msg("Provider under-delivered questions")
	}
	return questions, nil
}

// ExplainAnswer asks Gemini for a detailed explanation of a question and
// the user's answer to it.
func (g *GeminiClient) ExplainAnswer(ctx context.Context, q model.Question, userAnswers []string) (string, error) {
	prompt := buildExplanationPrompt(q, userAnswers)

	text, err := g.generateContent(ctx, explanationSystemInstruction, prompt, generationConfig{
		Temperature:     0.3,
		MaxOutputTokens: 2000,
	})
	if err != nil {
		return "", fmt.Errorf("gemini explain: %w", err)
	}
	return text, nil
}

// ----------------------------------------------------------------
// Gemini REST wire types
// ----------------------------------------------------------------

type generationConfig struct {
	Temperature     float64 `json:"temperature"`
	TopP            float64 `json:"topP,omitempty"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
	Role  string       `json:"role,omitempty"`
}

type geminiRequest struct {
	SystemInstruction *geminiContent   `json:"system_instruction,omitempty"`
	Contents          []geminiContent  `json:"contents"`
	GenerationConfig  generationConfig `json:"generationConfig"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
}

// generateContent performs one generateContent call and returns the text
// of the first candidate.
func (g *GeminiClient) generateContent(ctx context.Context, system, prompt string, cfg generationConfig) (string, error) {
	body := geminiRequest{
		SystemInstruction: &geminiContent{Parts: []geminiPart{{Text: system}}},
		Contents:          []geminiContent{{Parts: []geminiPart{{Text: prompt}}, Role: "user"}},
		GenerationConfig:  cfg,
	}

	payload, err := json.Marshal(body)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s", g.endpoint, g.model, g.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("gemini request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("gemini returned status %d", resp.StatusCode)
	}

	var out geminiResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode gemini response: %w", err)
	}
	if len(out.Candidates) == 0 || len(out.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("gemini returned no candidates")
	}

	text := out.Candidates[0].Content.Parts[0].Text
	if text == "" {
		return "", fmt.Errorf("gemini returned empty content")
	}
	return text, nil
}
