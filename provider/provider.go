// Package provider implements value translators used to prefill missing
// keys before they are written to PocketBase.
package provider

import "github.com/blenderbox/pbi18n"

// ValueTranslator is an alias to the root package interface for convenience.
type ValueTranslator = pbi18n.ValueTranslator

// TranslateRequest is an alias to the root package type.
type TranslateRequest = pbi18n.TranslateRequest
