package pbi18n

import (
	"context"

	"github.com/blenderbox/pbi18n/markup"
)

// prefill returns the value to write for language. With a translator
// configured, values for languages other than the source language are
// machine-translated; on any failure the source value is written instead.
func (b *Backend) prefill(ctx context.Context, language, namespace, key, value string) string {
	if b.translator == nil || value == "" {
		return value
	}
	if BaseLanguage(language) == BaseLanguage(b.sourceLang) {
		return value
	}

	translated, err := b.translateValue(ctx, language, namespace, key, value)
	if err != nil {
		b.log.Warn(ctx, "prefill failed, writing source value",
			"language", language,
			"key", key,
			"error", err)
		return value
	}
	return translated
}

func (b *Backend) translateValue(ctx context.Context, language, namespace, key, value string) (string, error) {
	req := TranslateRequest{
		TargetLang: NormalizeLocale(language),
		SourceLang: b.sourceLang,
		Namespace:  namespace,
		Key:        key,
	}

	if !markup.ContainsMarkup(value) {
		req.Texts = []string{value}
		out, err := b.translator.Translate(ctx, req)
		if err != nil {
			return "", err
		}
		if len(out) != 1 {
			return "", &CountMismatchError{Expected: 1, Got: len(out)}
		}
		return out[0], nil
	}

	doc, nodes, err := markup.Extract(value)
	if err != nil {
		return "", err
	}
	if len(nodes) == 0 {
		return value, nil
	}

	req.Texts = make([]string, len(nodes))
	req.TextContexts = make([]string, len(nodes))
	for i, node := range nodes {
		req.Texts[i] = node.Text
		req.TextContexts[i] = node.Context
	}

	out, err := b.translator.Translate(ctx, req)
	if err != nil {
		return "", err
	}
	if len(out) != len(nodes) {
		return "", &CountMismatchError{Expected: len(nodes), Got: len(out)}
	}

	translations := make(map[string]string, len(nodes))
	for i, node := range nodes {
		translations[node.Text] = out[i]
	}
	return doc.Apply(translations)
}
