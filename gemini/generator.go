package gemini

import (
	"context"

	"github.com/fwojciec/chatdoc"
	"google.golang.org/genai"
)

// DefaultModel is the model used when none is configured.
const DefaultModel = "gemini-2.5-flash"

// DefaultTemperature is the sampling temperature used when none is configured.
const DefaultTemperature = 0.4

// Ensure Generator implements chatdoc.Generator at compile time.
var _ chatdoc.Generator = (*Generator)(nil)

// Generator implements chatdoc.Generator using Google Gemini.
type Generator struct {
	client *genai.Client
	model  string

	// Temperature controls sampling randomness.
	Temperature float32
}

// NewGenerator creates a new Generator for model. An empty model selects
// DefaultModel.
func NewGenerator(client *genai.Client, model string) *Generator {
	if model == "" {
		model = DefaultModel
	}
	return &Generator{client: client, model: model, Temperature: DefaultTemperature}
}

// NewClient creates a Gemini API client. The key is read from the caller's
// configuration and never logged.
func NewClient(ctx context.Context, apiKey string) (*genai.Client, error) {
	if apiKey == "" {
		return nil, chatdoc.Errorf(chatdoc.EUNAVAILABLE, "model API key required")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, chatdoc.Errorf(chatdoc.EUNAVAILABLE, "create model client: %v", err)
	}
	return client, nil
}

// Model returns the model name requests are sent to.
func (g *Generator) Model() string {
	return g.model
}

// Generate sends prompt as a single user turn and returns the response text.
func (g *Generator) Generate(ctx context.Context, prompt string) (string, error) {
	if prompt == "" {
		return "", chatdoc.Errorf(chatdoc.EINVALID, "prompt required")
	}
	if g.client == nil {
		return "", chatdoc.Errorf(chatdoc.EUNAVAILABLE, "model client not configured")
	}

	result, err := g.client.Models.GenerateContent(ctx, g.model,
		[]*genai.Content{genai.NewContentFromText(prompt, genai.RoleUser)},
		BuildConfig(g.Temperature),
	)
	if err != nil {
		return "", chatdoc.Errorf(chatdoc.EUNAVAILABLE, "%v", err)
	}
	if result == nil {
		return "", chatdoc.Errorf(chatdoc.EUNAVAILABLE, "gemini returned nil result")
	}

	text := result.Text()
	if text == "" {
		return "", chatdoc.Errorf(chatdoc.EUNAVAILABLE, "gemini returned an empty response")
	}
	return text, nil
}

// BuildConfig returns the GenerateContentConfig for Gemini API calls. The
// answering instructions travel inside the prompt so the same text is used
// by every model backend.
func BuildConfig(temperature float32) *genai.GenerateContentConfig {
	return &genai.GenerateContentConfig{
		Temperature: &temperature,
	}
}
