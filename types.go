package pbi18n

import "context"

// Services is whatever the host passes to Init. The backend keeps it but
// never inspects it.
type Services any

// InitOptions are the host framework's own options, kept for strategies
// and callers that want them.
type InitOptions map[string]any

// Module is the contract a host i18n framework programs against.
type Module interface {
	Type() string
	Init(ctx context.Context, services Services, options Options, i18nOptions InitOptions) error
	Read(ctx context.Context, language, namespace string) (map[string]string, error)
	Create(ctx context.Context, languages []string, namespace, key string, value ...string) error
}

// TranslateRequest contains the parameters for a value translation request.
type TranslateRequest struct {
	Texts        []string // Texts to translate
	TargetLang   string   // Target language code
	SourceLang   string   // Source language code
	Namespace    string   // Namespace the key belongs to
	Key          string   // Resource key the texts were taken from
	TextContexts []string // Per-text disambiguation (e.g. enclosing HTML tag)
	Context      string   // Free-form context for the whole request
}

// ValueTranslator fills in the value of a missing key for a target language
// before it is written.
type ValueTranslator interface {
	// Translate translates a batch of texts. It returns one translation per
	// input text, in order.
	Translate(ctx context.Context, req TranslateRequest) ([]string, error)
}

// ValueTranslatorFunc adapts a function to ValueTranslator.
type ValueTranslatorFunc func(ctx context.Context, req TranslateRequest) ([]string, error)

func (f ValueTranslatorFunc) Translate(ctx context.Context, req TranslateRequest) ([]string, error) {
	return f(ctx, req)
}
