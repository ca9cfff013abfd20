package acl

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/jsamuelsen/readme-quote/internal/domain"
)

// FieldMapping lists the response keys tried, in order, for each quote field.
// Quote APIs disagree on naming (quotable uses "content", some mirrors "en",
// zenquotes "q" and "a"); one table covers them all.
type FieldMapping struct {
	Text   []string
	Author []string
}

// DefaultFieldMapping returns the mapping used when none is configured.
func DefaultFieldMapping() FieldMapping {
	return FieldMapping{
		Text:   []string{"content", "en", "quote", "text", "q"},
		Author: []string{"author", "a"},
	}
}

// withDefaults fills empty candidate lists from DefaultFieldMapping.
func (m FieldMapping) withDefaults() FieldMapping {
	def := DefaultFieldMapping()
	if len(m.Text) == 0 {
		m.Text = def.Text
	}

	if len(m.Author) == 0 {
		m.Author = def.Author
	}

	return m
}

// externalQuote is the loosely typed response object.
// Values stay raw until a candidate key is chosen.
type externalQuote map[string]json.RawMessage

// Translate decodes a quote API response body into a domain Quote.
// The body may be a JSON object or a non-empty array of objects, in which case
// the first element is used.
func Translate(service string, body []byte, mapping FieldMapping) (*domain.Quote, error) {
	mapping = mapping.withDefaults()

	ext, err := decodeExternal(service, body)
	if err != nil {
		return nil, err
	}

	text, err := ext.lookupString(service, "text", mapping.Text)
	if err != nil {
		return nil, err
	}

	author, err := ext.lookupString(service, "author", mapping.Author)
	if err != nil {
		return nil, err
	}

	quote := &domain.Quote{
		ID:     ext.id(),
		Text:   text,
		Author: author,
		Tags:   ext.tags(),
	}

	if err := quote.Validate(); err != nil {
		return nil, err
	}

	return quote, nil
}

func decodeExternal(service string, body []byte) (externalQuote, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return nil, domain.NewParseError(service, "empty body", nil)
	}

	switch trimmed[0] {
	case '{':
		var ext externalQuote
		if err := json.Unmarshal(trimmed, &ext); err != nil {
			return nil, domain.NewParseError(service, "invalid JSON", err)
		}

		return ext, nil

	case '[':
		var list []json.RawMessage
		if err := json.Unmarshal(trimmed, &list); err != nil {
			return nil, domain.NewParseError(service, "invalid JSON", err)
		}

		if len(list) == 0 {
			return nil, domain.NewParseError(service, "empty array", nil)
		}

		var ext externalQuote
		if err := json.Unmarshal(list[0], &ext); err != nil || ext == nil {
			return nil, domain.NewParseError(service, "first array element is not an object", err)
		}

		return ext, nil

	default:
		if !json.Valid(trimmed) {
			return nil, domain.NewParseError(service, "invalid JSON", nil)
		}

		return nil, domain.NewParseError(service, "expected a JSON object or array", nil)
	}
}

// lookupString returns the first candidate holding a non-empty string.
// null and blank values count as absent; any other type is a parse error.
func (e externalQuote) lookupString(service, field string, candidates []string) (string, error) {
	for _, key := range candidates {
		raw, ok := e[key]
		if !ok || isNull(raw) {
			continue
		}

		var value string
		if err := json.Unmarshal(raw, &value); err != nil {
			return "", domain.NewParseError(service, fmt.Sprintf("field %q is not a string", key), nil)
		}

		if value = strings.TrimSpace(value); value != "" {
			return value, nil
		}
	}

	return "", domain.NewMissingFieldError(field, candidates)
}

// id returns "_id" or "id" when present as a string or number.
func (e externalQuote) id() string {
	for _, key := range []string{"_id", "id"} {
		raw, ok := e[key]
		if !ok || isNull(raw) {
			continue
		}

		var s string
		if err := json.Unmarshal(raw, &s); err == nil {
			return s
		}

		var n json.Number
		if err := json.Unmarshal(raw, &n); err == nil {
			return n.String()
		}
	}

	return ""
}

// tags returns "tags" when it is an array of strings, or a comma-separated string.
func (e externalQuote) tags() []string {
	raw, ok := e["tags"]
	if !ok || isNull(raw) {
		return nil
	}

	var list []string
	if err := json.Unmarshal(raw, &list); err == nil {
		return list
	}

	var joined string
	if err := json.Unmarshal(raw, &joined); err == nil && joined != "" {
		parts := strings.Split(joined, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}

		return parts
	}

	return nil
}

func isNull(raw json.RawMessage) bool {
	return string(bytes.TrimSpace(raw)) == "null"
}

// excerpt shortens a response body for error messages.
func excerpt(body []byte, limit int) string {
	s := strings.TrimSpace(string(body))
	if len(s) <= limit {
		return s
	}

	cut := limit
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}

	return fmt.Sprintf("%s... (%d more bytes)", s[:cut], len(s)-cut)
}
