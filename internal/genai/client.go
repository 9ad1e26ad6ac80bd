// Package genai talks to the external generative-text collaborator. The
// engine's only contract with it: calls may fail or time out, and every
// caller gets a reasonable static fallback instead of an error. Nothing in
// here is allowed to block or crash a user-facing flow.
package genai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/clarkhq/clark-server/internal/config"
	"github.com/clarkhq/clark-server/internal/logger"
	"github.com/clarkhq/clark-server/internal/profile"
)

// Fallback values, returned whenever the collaborator is unavailable.
const (
	FallbackBio        = "Exploring life one step at a time."
	FallbackIcebreaker = "Hey! I really liked your profile. How are you doing today?"
)

// FallbackCompatibility is the static substitute for a failed analysis.
var FallbackCompatibility = Compatibility{
	Score:      75,
	Reason:     "You both seem like great people with overlapping interests!",
	CommonVibe: "Good Match",
}

// Compatibility is the collaborator's verdict on a pair.
type Compatibility struct {
	Score      int    `json:"score"`
	Reason     string `json:"reason"`
	CommonVibe string `json:"commonVibe"`
}

// Client is a thin REST client for a Gemini-style generateContent API.
type Client struct {
	endpoint string
	model    string
	apiKey   string
	http     *http.Client
}

// NewClient builds a client from config. An empty API key is valid: every
// call short-circuits to its fallback.
func NewClient(cfg *config.Config) *Client {
	return &Client{
		endpoint: strings.TrimRight(cfg.GenAI.Endpoint, "/"),
		model:    cfg.GenAI.Model,
		apiKey:   cfg.GenAI.APIKey,
		http:     &http.Client{Timeout: cfg.GenAI.Timeout},
	}
}

// GenerateBio writes a short dating-profile bio for the given interests.
func (c *Client) GenerateBio(ctx context.Context, interests []string) string {
	prompt := fmt.Sprintf(
		"Write a short, witty, and charming dating profile bio for someone with these interests: %s. "+
			"Keep it under 150 characters. Make it sound modern and approachable.",
		strings.Join(interests, ", "),
	)

	text, err := c.generate(ctx, prompt, false)
	if err != nil || strings.TrimSpace(text) == "" {
		logger.Warn("bio generation unavailable, using fallback", "err", err)
		return FallbackBio
	}
	return strings.TrimSpace(text)
}

// GenerateIcebreaker writes a first message from a to b based on their
// interests.
func (c *Client) GenerateIcebreaker(ctx context.Context, a, b profile.Profile) string {
	prompt := fmt.Sprintf(
		"Generate a unique, friendly, and catchy first message (icebreaker) from %s to %s.\n"+
			"%s's interests: %s\n%s's interests: %s\n"+
			"The message should be based on a common interest or something interesting in %s's profile. "+
			"Keep it short (max 2 sentences) and fun.",
		a.Name, b.Name,
		a.Name, strings.Join(a.Interests, ", "),
		b.Name, strings.Join(b.Interests, ", "),
		b.Name,
	)

	text, err := c.generate(ctx, prompt, false)
	if err != nil || strings.TrimSpace(text) == "" {
		logger.Warn("icebreaker generation unavailable, using fallback", "err", err)
		return FallbackIcebreaker
	}
	return strings.TrimSpace(text)
}

// AnalyzeCompatibility scores a pair 0-100 with a one-line reason and a
// two-word vibe.
func (c *Client) AnalyzeCompatibility(ctx context.Context, a, b profile.Profile) Compatibility {
	prompt := fmt.Sprintf(
		"Analyze the dating compatibility between two people:\n"+
			"User 1: %s, Age %d, Interests: %s, Bio: %s\n"+
			"User 2: %s, Age %d, Interests: %s, Bio: %s\n\n"+
			"Return a JSON object with:\n"+
			"- score: (number 0-100)\n"+
			"- reason: (string, one sentence explaining the compatibility)\n"+
			"- commonVibe: (string, a catchy two-word vibe like 'Adventurous Duo' or 'Creative Souls')",
		a.Name, a.Age, strings.Join(a.Interests, ", "), a.Bio,
		b.Name, b.Age, strings.Join(b.Interests, ", "), b.Bio,
	)

	text, err := c.generate(ctx, prompt, true)
	if err != nil {
		logger.Warn("compatibility analysis unavailable, using fallback", "err", err)
		return FallbackCompatibility
	}

	var result Compatibility
	if err := json.Unmarshal([]byte(strings.TrimSpace(text)), &result); err != nil {
		logger.Warn("compatibility analysis returned malformed JSON, using fallback", "err", err)
		return FallbackCompatibility
	}
	if result.Score < 0 {
		result.Score = 0
	}
	if result.Score > 100 {
		result.Score = 100
	}
	return result
}

// generateContent wire types (request and response subset we use).
type generateRequest struct {
	Contents         []content  `json:"contents"`
	GenerationConfig *genConfig `json:"generationConfig,omitempty"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type genConfig struct {
	ResponseMimeType string `json:"responseMimeType,omitempty"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

func (c *Client) generate(ctx context.Context, prompt string, jsonMode bool) (string, error) {
	if c.apiKey == "" {
		return "", fmt.Errorf("no API key configured")
	}

	reqBody := generateRequest{Contents: []content{{Parts: []part{{Text: prompt}}}}}
	if jsonMode {
		reqBody.GenerationConfig = &genConfig{ResponseMimeType: "application/json"}
	}
	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s", c.endpoint, c.model, c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", fmt.Errorf("call collaborator: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("collaborator returned %d: %s", resp.StatusCode, string(body))
	}

	var out generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if len(out.Candidates) == 0 || len(out.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("empty response")
	}
	return out.Candidates[0].Content.Parts[0].Text, nil
}
