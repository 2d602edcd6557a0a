package provider

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/goccy/go-json"
	"github.com/sashabaranov/go-openai"

	"github.com/blenderbox/pbi18n"
)

// OpenAIProvider implements ValueTranslator using OpenAI's chat API.
type OpenAIProvider struct {
	client      *openai.Client
	model       string
	temperature float32
	appContext  string
}

// OpenAIConfig holds configuration for the OpenAI provider.
type OpenAIConfig struct {
	APIKey      string       // OpenAI API key
	Model       string       // Model to use (default: "gpt-4o-mini")
	Temperature float32      // Temperature for generation (default: 0.3)
	BaseURL     string       // Custom base URL (optional)
	HTTPClient  *http.Client // HTTP client (optional)
	AppContext  string       // What the application is, e.g. "invoicing web app"
}

// NewOpenAIProvider creates a new OpenAI provider.
func NewOpenAIProvider(cfg OpenAIConfig) *OpenAIProvider {
	config := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		config.BaseURL = cfg.BaseURL
	}
	if cfg.HTTPClient != nil {
		config.HTTPClient = cfg.HTTPClient
	}

	model := cfg.Model
	if model == "" {
		model = "gpt-4o-mini"
	}

	temperature := cfg.Temperature
	if temperature == 0 {
		temperature = 0.3
	}

	return &OpenAIProvider{
		client:      openai.NewClientWithConfig(config),
		model:       model,
		temperature: temperature,
		appContext:  cfg.AppContext,
	}
}

// Translate translates a batch of texts with one chat completion.
func (p *OpenAIProvider) Translate(ctx context.Context, req TranslateRequest) ([]string, error) {
	if len(req.Texts) == 0 {
		return []string{}, nil
	}

	resp, err := p.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: p.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: p.buildSystemPrompt(req)},
			{Role: openai.ChatMessageRoleUser, Content: p.buildUserMessage(req)},
		},
		Temperature: p.temperature,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		return nil, &pbi18n.ProviderError{
			Message:   "OpenAI API call failed",
			Cause:     err,
			Retryable: isRetryableError(err),
		}
	}

	if len(resp.Choices) == 0 {
		return nil, &pbi18n.ProviderError{
			Message:   "no response from OpenAI",
			Retryable: true,
		}
	}

	return parseResponse(resp.Choices[0].Message.Content, len(req.Texts))
}

func (p *OpenAIProvider) buildSystemPrompt(req TranslateRequest) string {
	sourceLang := req.SourceLang
	if sourceLang == "" {
		sourceLang = "en"
	}
	sourceName := pbi18n.GetLanguageName(sourceLang)
	targetName := pbi18n.GetLanguageName(req.TargetLang)

	var sb strings.Builder

	fmt.Fprintf(&sb, `# Role
You translate user interface strings from %s to %s as a native %s speaker would write them.

# Context
`, sourceName, targetName, targetName)

	switch {
	case p.appContext != "":
		fmt.Fprintf(&sb, "The strings belong to: %s.", p.appContext)
	default:
		sb.WriteString("The strings belong to a software application's user interface.")
	}
	if req.Namespace != "" || req.Key != "" {
		fmt.Fprintf(&sb, "\nNamespace: %q. Resource key: %q. Use the key as a hint for where the string is shown.", req.Namespace, req.Key)
	}
	if req.Context != "" {
		fmt.Fprintf(&sb, "\n%s", req.Context)
	}

	sb.WriteString(`

# Rules
- Keep it short. UI labels, buttons and messages must fit where the source fits.
- Keep interpolation placeholders exactly as written: {{name}}, {{count}}, $t(key), %s, {0}.
- Keep nesting and formatting markers such as $t(...) and ICU plural syntax intact.
- Do not translate URLs, email addresses or product names.
- Keep leading and trailing whitespace and punctuation style consistent with the target language.
- If an item has a context such as "in <button>", use it to pick the right wording, but do not include it in the output.`)

	if hint := pbi18n.GetLocaleClarification(req.TargetLang); hint != "" {
		fmt.Fprintf(&sb, "\n- Locale: %s", hint)
	}

	sb.WriteString(`

# Format
Return a JSON object with a single key "translations" holding an array of strings in the same order as the input.
Example: {"translations": ["first", "second"]}`)

	return sb.String()
}

func (p *OpenAIProvider) buildUserMessage(req TranslateRequest) string {
	hasContexts := false
	for _, c := range req.TextContexts {
		if c != "" {
			hasContexts = true
			break
		}
	}

	if !hasContexts {
		data, _ := json.Marshal(req.Texts)
		return string(data)
	}

	type item struct {
		Text    string `json:"text"`
		Context string `json:"context,omitempty"`
	}

	items := make([]item, len(req.Texts))
	for i, text := range req.Texts {
		items[i].Text = text
		if i < len(req.TextContexts) {
			items[i].Context = req.TextContexts[i]
		}
	}

	data, _ := json.Marshal(map[string][]item{"items": items})
	return string(data)
}

func parseResponse(content string, expectedCount int) ([]string, error) {
	var obj map[string]any
	if err := json.Unmarshal([]byte(content), &obj); err == nil {
		if arr, ok := obj["translations"].([]any); ok {
			return toStringSlice(arr, expectedCount)
		}
		// Some models pick their own key; take the first array.
		for _, v := range obj {
			if arr, ok := v.([]any); ok {
				return toStringSlice(arr, expectedCount)
			}
		}
	}

	var arr []any
	if err := json.Unmarshal([]byte(content), &arr); err == nil {
		return toStringSlice(arr, expectedCount)
	}

	return nil, &pbi18n.ProviderError{
		Message: "invalid response format from OpenAI",
	}
}

func toStringSlice(arr []any, expectedCount int) ([]string, error) {
	if len(arr) != expectedCount {
		return nil, &pbi18n.CountMismatchError{
			Expected: expectedCount,
			Got:      len(arr),
		}
	}

	result := make([]string, len(arr))
	for i, v := range arr {
		if s, ok := v.(string); ok {
			result[i] = s
		} else {
			result[i] = fmt.Sprint(v)
		}
	}
	return result, nil
}

func isRetryableError(err error) bool {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return retryableStatus(apiErr.HTTPStatusCode)
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return retryableStatus(reqErr.HTTPStatusCode)
	}

	msg := strings.ToLower(err.Error())
	for _, pattern := range []string{"timeout", "connection refused", "connection reset", "temporary"} {
		if strings.Contains(msg, pattern) {
			return true
		}
	}
	return false
}

func retryableStatus(status int) bool {
	return status == http.StatusTooManyRequests || status >= http.StatusInternalServerError
}

// Verify OpenAIProvider implements ValueTranslator
var _ ValueTranslator = (*OpenAIProvider)(nil)
