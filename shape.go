package pbi18n

import "github.com/blenderbox/pbi18n/pocketbase"

// SchemaCreator builds the schema of a collection provisioned on first write.
type SchemaCreator interface {
	CreateSchema(languages []string, namespace, key, value string) []pocketbase.Field
}

// RecordCreator builds the record written for a missing key.
type RecordCreator interface {
	CreateRecord(language, namespace, key, value string) map[string]any
}

// SchemaCreatorFunc adapts a function to SchemaCreator.
type SchemaCreatorFunc func(languages []string, namespace, key, value string) []pocketbase.Field

func (f SchemaCreatorFunc) CreateSchema(languages []string, namespace, key, value string) []pocketbase.Field {
	return f(languages, namespace, key, value)
}

// RecordCreatorFunc adapts a function to RecordCreator.
type RecordCreatorFunc func(language, namespace, key, value string) map[string]any

func (f RecordCreatorFunc) CreateRecord(language, namespace, key, value string) map[string]any {
	return f(language, namespace, key, value)
}

// Field names used by the default shapes and by the read path.
const (
	KeyField         = "key"
	TranslationField = "translation"
)

// DefaultSchemaCreator provisions a unique text "key" and a text "translation".
var DefaultSchemaCreator SchemaCreator = SchemaCreatorFunc(func([]string, string, string, string) []pocketbase.Field {
	return []pocketbase.Field{
		{Name: KeyField, Required: true, Type: "text", Unique: true},
		{Name: TranslationField, Required: true, Type: "text", Unique: false},
	}
})

// DefaultRecordCreator writes {"key": key, "translation": value}.
var DefaultRecordCreator RecordCreator = RecordCreatorFunc(func(_, _, key, value string) map[string]any {
	return map[string]any{
		KeyField:         key,
		TranslationField: value,
	}
})
