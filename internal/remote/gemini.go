/*
Package remote asks the Gemini API for a recommendation plan.

The request carries the usage payload plus a response schema describing the
plan shape; the response text is decoded with plan.Decode, which drops
elements that do not match the schema.
*/
package remote

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"google.golang.org/genai"

	"github.com/khanglvm/action-hub/internal/plan"
)

// DefaultModel is the Gemini model used when none is configured.
const DefaultModel = "gemini-2.5-pro"

// DefaultTimeout bounds a single plan request.
const DefaultTimeout = 30 * time.Second

const instruction = "You receive an action log payload from a quick action launcher. " +
	"For every time window, rank the action ids the user is most likely to need next. " +
	"Use only ids that appear in the payload or in newActions. " +
	"Suggest newActions only when a recurring need has no matching action."

// PlanClient fetches a plan for a usage payload.
//
// FetchPlan returns (nil, nil) when the service answered without a usable
// plan, and an error for transport failures and malformed responses.
type PlanClient interface {
	FetchPlan(ctx context.Context, payloadJSON []byte, credential string) (*plan.Plan, error)
}

// generator is the part of the genai client used here.
type generator interface {
	GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error)
}

// GeminiClient is a PlanClient backed by the Gemini API.
type GeminiClient struct {
	model     string
	timeout   time.Duration
	windowIDs []string

	// newGenerator is replaced in tests.
	newGenerator func(ctx context.Context, apiKey string) (generator, error)
}

// NewGeminiClient creates a client for model. windowIDs restricts the
// windowId values the response schema allows; empty means any string.
func NewGeminiClient(model string, timeout time.Duration, windowIDs []string) *GeminiClient {
	if model == "" {
		model = DefaultModel
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &GeminiClient{
		model:        model,
		timeout:      timeout,
		windowIDs:    windowIDs,
		newGenerator: newGenaiGenerator,
	}
}

func newGenaiGenerator(ctx context.Context, apiKey string) (generator, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return client.Models, nil
}

// FetchPlan sends payloadJSON to Gemini and decodes the returned plan.
func (c *GeminiClient) FetchPlan(ctx context.Context, payloadJSON []byte, credential string) (*plan.Plan, error) {
	if strings.TrimSpace(credential) == "" {
		return nil, nil
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	gen, err := c.newGenerator(ctx, credential)
	if err != nil {
		return nil, err
	}

	contents := []*genai.Content{{
		Role: "user",
		Parts: []*genai.Part{
			{Text: "action-hub action log payload"},
			{Text: string(payloadJSON)},
		},
	}}

	resp, err := gen.GenerateContent(ctx, c.model, contents, c.generationConfig())
	if err != nil {
		var apiErr genai.APIError
		if errors.As(err, &apiErr) {
			log.Printf("Warning: Gemini returned status %d: %s", apiErr.Code, apiErr.Message)
			return nil, nil
		}
		var apiErrPtr *genai.APIError
		if errors.As(err, &apiErrPtr) {
			log.Printf("Warning: Gemini returned status %d: %s", apiErrPtr.Code, apiErrPtr.Message)
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch plan: %w", err)
	}

	return ParseResponse(resp)
}

// ParseResponse extracts the plan from a Gemini response. A response
// without candidates or text yields (nil, nil).
func ParseResponse(resp *genai.GenerateContentResponse) (*plan.Plan, error) {
	if resp == nil || len(resp.Candidates) == 0 {
		return nil, nil
	}
	content := resp.Candidates[0].Content
	if content == nil || len(content.Parts) == 0 {
		return nil, nil
	}

	text := strings.TrimSpace(content.Parts[0].Text)
	if text == "" {
		return nil, nil
	}

	p, _, err := plan.Decode([]byte(text))
	if err != nil {
		return nil, fmt.Errorf("failed to parse plan response: %w", err)
	}
	return p, nil
}

func (c *GeminiClient) generationConfig() *genai.GenerateContentConfig {
	return &genai.GenerateContentConfig{
		Temperature:      genai.Ptr[float32](0.3),
		TopP:             genai.Ptr[float32](0.95),
		ResponseMIMEType: "application/json",
		ResponseSchema:   ResponseSchema(c.windowIDs),
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{Text: instruction}},
		},
	}
}

// ResponseSchema describes the plan document Gemini must return.
func ResponseSchema(windowIDs []string) *genai.Schema {
	idList := func(max int64) *genai.Schema {
		return &genai.Schema{
			Type:     genai.TypeArray,
			Items:    &genai.Schema{Type: genai.TypeString},
			MaxItems: genai.Ptr(max),
		}
	}

	windowID := &genai.Schema{Type: genai.TypeString}
	if len(windowIDs) > 0 {
		windowID.Enum = windowIDs
		windowID.Format = "enum"
	}

	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"timeWindows": {
				Type: genai.TypeArray,
				Items: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"windowId":          windowID,
						"primaryActionIds":  idList(plan.MaxWindowActions),
						"fallbackActionIds": idList(plan.MaxWindowActions),
					},
					Required: []string{"windowId", "primaryActionIds"},
				},
			},
			"globalPins":   idList(plan.MaxGlobalIDs),
			"suppressions": idList(plan.MaxGlobalIDs),
			"rationales": {
				Type: genai.TypeArray,
				Items: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"targetId": {Type: genai.TypeString},
						"summary":  {Type: genai.TypeString},
					},
					Required: []string{"targetId", "summary"},
				},
			},
			"newActions": {
				Type: genai.TypeArray,
				Items: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"id":          {Type: genai.TypeString},
						"label":       {Type: genai.TypeString},
						"actionType":  {Type: genai.TypeString},
						"data":        {Type: genai.TypeString},
						"packageName": {Type: genai.TypeString},
						"timeWindows": {Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}},
					},
					Required: []string{"id", "label", "actionType"},
				},
			},
		},
		Required: []string{"timeWindows"},
	}
}
