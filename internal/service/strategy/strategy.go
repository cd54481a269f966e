package strategy

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/cloudwego/eino-ext/components/model/claude"
	"github.com/cloudwego/eino-ext/components/model/gemini"
	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"google.golang.org/genai"

	"proposalgen/internal/config"
	"proposalgen/internal/models"
	"proposalgen/internal/reqid"
)

const fallbackPricing = "Standard Pricing: Sales Sniper ($2.5k setup, $500/mo), Content Engine ($3k setup, $750/mo)."

const promptTemplate = `
You are an expert AI Solutions Architect creating a high-converting business proposal.
Your goal is to analyze the provided Sales Call Transcript and Research Data to generate a JSON payload for a proposal PDF.

Resources:
- Pricing Structure: %s

Input Data:
- Transcript: %s
- LinkedIn/Web Data: %s

Instructions:
1. Analyze the transcript for identifying client pain points and their specific needs.
2. Determine which Systems (Sales Sniper, Content Engine, Custom Architecture) are relevant.
3. Check if specific pricing was negotiated in the call. If yes, use that. If no, use the Standard Pricing.
4. Output STRICT JSON matching the following schema structure. Do not include markdown code blocks.

JSON Schema:
{
  "company_name": "string",
  "prospect_name": "string",
  "date": "string",
  "executive_summary": "string (The hook)",
  "diagnosis_text": "string (Why current state is bad)",
  "pain_points": ["string", "string", ...],
  "systems": [
    {
      "title": "string",
      "description": "string",
      "impact": "string"
    }
  ],
  "roi_metrics": [
    { "value": "string", "label": "string" }
  ],
  "efficiency_charts": [
    { "label": "string", "percentage": number 0-100 }
  ],
  "pricing_items": [
    { "name": "string", "setup_price": "string", "monthly_price": "string" }
  ],
  "total_setup": "string",
  "total_monthly": "string",
  "cta_link": "string"
}
`

// LLMStrategist converts (transcript, research) into a proposal payload with
// a single chat-model call. Generation failures never propagate: a minimal
// fallback payload is substituted so rendering can still be attempted.
type LLMStrategist struct {
	chatModel model.BaseChatModel
	pricing   string
}

// NewLLMStrategist selects the chat model by the configured strategy
// provider: openai, claude, or gemini.
func NewLLMStrategist(cfg *config.Config) (*LLMStrategist, error) {
	provider := cfg.BasicConfig.StrategyProvider
	provCfg := cfg.Provider(provider)

	var chatModel model.BaseChatModel
	var err error
	switch provider {
	case "openai":
		chatModel, err = openai.NewChatModel(context.Background(), &openai.ChatModelConfig{
			BaseURL: provCfg.BaseURL,
			Model:   provCfg.Model,
			APIKey:  provCfg.APIKey,
		})
	case "gemini":
		var client *genai.Client
		client, err = genai.NewClient(context.Background(), &genai.ClientConfig{
			APIKey: provCfg.APIKey,
		})
		if err != nil {
			return nil, fmt.Errorf("init gemini client: %w", err)
		}
		chatModel, err = gemini.NewChatModel(context.Background(), &gemini.Config{
			Client: client,
			Model:  provCfg.Model,
		})
	case "claude":
		var baseURLPtr *string
		if provCfg.BaseURL != "" {
			baseURLPtr = &provCfg.BaseURL
		}
		chatModel, err = claude.NewChatModel(context.Background(), &claude.Config{
			APIKey:    provCfg.APIKey,
			Model:     provCfg.Model,
			BaseURL:   baseURLPtr,
			MaxTokens: 3000,
		})
	default:
		return nil, fmt.Errorf("invalid strategy provider: %s", provider)
	}
	if err != nil {
		return nil, fmt.Errorf("init %s chat model: %w", provider, err)
	}

	return &LLMStrategist{
		chatModel: chatModel,
		pricing:   loadPricing(cfg.BasicConfig.PricingPath),
	}, nil
}

// NewWithModel builds a strategist around an existing chat model.
func NewWithModel(chatModel model.BaseChatModel, pricing string) *LLMStrategist {
	if pricing == "" {
		pricing = fallbackPricing
	}
	return &LLMStrategist{chatModel: chatModel, pricing: pricing}
}

// Synthesize issues exactly one generation call and parses the response as a
// ProposalPayload. Any failure yields the fallback payload instead of an
// error, logged with the request id.
func (s *LLMStrategist) Synthesize(ctx context.Context, transcript string, research models.ResearchBundle) models.ProposalPayload {
	researchJSON, err := json.Marshal(research)
	if err != nil {
		log.Printf("[strategy %s] marshal research data: %v", reqid.From(ctx), err)
		return models.FallbackPayload()
	}
	prompt := fmt.Sprintf(promptTemplate, s.pricing, transcript, researchJSON)

	messages := []*schema.Message{
		{Role: schema.System, Content: "You are a helpful assistant that outputs JSON only."},
		{Role: schema.User, Content: prompt},
	}
	resp, err := s.chatModel.Generate(ctx, messages)
	if err != nil {
		log.Printf("[strategy %s] strategy generation failed: %v", reqid.From(ctx), err)
		return models.FallbackPayload()
	}

	payload, err := parsePayload(resp.Content)
	if err != nil {
		log.Printf("[strategy %s] parse strategy output: %v", reqid.From(ctx), err)
		return models.FallbackPayload()
	}
	return payload
}

func parsePayload(content string) (models.ProposalPayload, error) {
	var payload models.ProposalPayload
	if err := json.Unmarshal([]byte(stripFences(content)), &payload); err != nil {
		return payload, err
	}
	if payload.CompanyName == "" {
		return payload, errors.New("response missing company_name")
	}
	payload.Normalize()
	return payload, nil
}

// stripFences removes an optional markdown code fence around the JSON body.
// The prompt forbids fences but some models emit them anyway.
func stripFences(content string) string {
	content = strings.TrimSpace(content)
	if !strings.HasPrefix(content, "```") {
		return content
	}
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(strings.TrimSpace(content), "```")
	return strings.TrimSpace(content)
}

// loadPricing reads the pricing reference asset. A missing asset is never
// fatal; the hardcoded pricing string is substituted.
func loadPricing(path string) string {
	data, err := os.ReadFile(path)
	if err != nil {
		log.Printf("[strategy] pricing asset %s unavailable, using builtin pricing: %v", path, err)
		return fallbackPricing
	}
	return string(data)
}
