package scorer

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/cruxlabs/cruxd/internal/models"
	"github.com/sashabaranov/go-openai"
	"github.com/sirupsen/logrus"
)

// Scorer assigns a credibility score to a claim by asking a language model
// to judge the claim text against its accumulated evidence. The Groq API is
// OpenAI-compatible, so the stock client is pointed at its base URL.
//
// Without a configured API key, or on any call, parse, or validation
// failure, scoring deterministically returns the all-zero UNVERIFIED
// fallback. No retry is performed: availability over accuracy.
type Scorer struct {
	client *openai.Client
	model  string
}

// NewScorer creates a new scorer. An empty apiKey leaves the client nil
// and selects the deterministic fallback for every call.
func NewScorer(apiKey, baseURL, model string) *Scorer {
	s := &Scorer{model: model}
	if apiKey == "" {
		return s
	}

	clientConfig := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		clientConfig.BaseURL = baseURL
	}
	s.client = openai.NewClientWithConfig(clientConfig)
	return s
}

// Score is a pure function of the claim's text and evidence; the claim is
// not mutated
func (s *Scorer) Score(ctx context.Context, claim models.Claim) models.ScoreResponse {
	if s.client == nil {
		logrus.Debug("Cannot score claim, no GROQ_API_KEY configured")
		return models.UnverifiedScore()
	}

	logrus.Infof("Scoring claim: %.50s...", claim.Text)

	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: s.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: "You are a fact-checking AI. Output ONLY JSON.",
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: buildScorePrompt(claim),
			},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		logrus.Errorf("Scoring model call failed: %v", err)
		return models.UnverifiedScore()
	}
	if len(resp.Choices) == 0 {
		logrus.Error("Scoring model returned no choices")
		return models.UnverifiedScore()
	}

	var score models.ScoreResponse
	if err := json.Unmarshal([]byte(resp.Choices[0].Message.Content), &score); err != nil {
		logrus.Errorf("Failed to parse scoring response: %v", err)
		return models.UnverifiedScore()
	}
	if err := score.Validate(); err != nil {
		logrus.Errorf("Scoring model violated response contract: %v", err)
		return models.UnverifiedScore()
	}

	logrus.Infof("Scoring complete: %s", score.Verdict)
	return score
}

// Explain generates a natural-language explanation for a verdict in the
// requested language. The fixed unavailable string is the fallback when no
// credential is configured; call failures report the error text instead.
func (s *Scorer) Explain(ctx context.Context, claimText, verdict, lang string) string {
	if s.client == nil {
		logrus.Debug("Cannot generate explanation, no GROQ_API_KEY configured")
		return "Explanation unavailable (No GROQ_API_KEY configured)."
	}
	if lang == "" {
		lang = "en"
	}

	prompt := fmt.Sprintf("Explain why the claim '%s' was judged as %s. Language: %s. Keep it concise.", claimText, verdict, lang)

	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: s.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: "You are a helpful assistant.",
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
	})
	if err != nil {
		logrus.Errorf("Failed to generate explanation: %v", err)
		return fmt.Sprintf("Error generating explanation: %v", err)
	}
	if len(resp.Choices) == 0 {
		return "Error generating explanation: empty model response"
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content)
}

// buildScorePrompt embeds the claim text and one line per evidence entry
func buildScorePrompt(claim models.Claim) string {
	var evidence strings.Builder
	for _, e := range claim.Evidence {
		fmt.Fprintf(&evidence, "- %s (%s)\n", e.Content, e.URL)
	}

	return fmt.Sprintf(`Analyze the following claim based on the evidence provided.
Claim: %s
Evidence:
%s
Return a JSON object with the following keys:
- final_score (0-100)
- source_reliability (0-100)
- evidence_strength (0-100)
- consistency (0-100)
- verdict (VERIFIED, FALSE, MIXED, UNVERIFIED)`, claim.Text, evidence.String())
}
