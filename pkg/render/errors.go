package render

import (
	"slices"
	"strings"

	"github.com/Kagzat/kagzat-india-sub000/pkg/builder"
)

// ErrorMapping splits an error payload into element-level messages keyed
// by element id and form-level messages.
type ErrorMapping struct {
	Fields map[string][]string
	Form   []string
}

// envelopeSegments are leading path segments servers wrap payloads in.
var envelopeSegments = []string{"body", "request", "payload", "data", "attributes"}

var formKeys = []string{"", "form", "__all__", "non_field_errors", "non-field-errors"}

// MapErrors resolves payload keys to element ids. A key may be an element
// id, a library field name, an entries key ("Identity.full_name") or a JSON
// pointer / dotted path wrapping one of those ("/body/full_name"). Keys that
// match nothing become form-level errors. Messages are trimmed and
// de-duplicated.
func MapErrors(doc builder.Document, payload map[string][]string) ErrorMapping {
	var mapping ErrorMapping
	if len(payload) == 0 {
		return mapping
	}

	targets := errorTargets(doc)
	for key, messages := range payload {
		messages = cleanMessages(messages)
		if len(messages) == 0 {
			continue
		}
		id, ok := resolveErrorKey(key, targets)
		if !ok {
			mapping.Form = append(mapping.Form, messages...)
			continue
		}
		if mapping.Fields == nil {
			mapping.Fields = map[string][]string{}
		}
		mapping.Fields[id] = cleanMessages(append(mapping.Fields[id], messages...))
	}
	mapping.Form = cleanMessages(mapping.Form)
	return mapping
}

// errorTargets maps every name an element answers to onto its id. Ids win
// over field names when they collide.
func errorTargets(doc builder.Document) map[string]string {
	targets := map[string]string{}
	for _, el := range doc.Elements {
		if el.FieldName == "" {
			continue
		}
		if _, taken := targets[el.FieldName]; !taken {
			targets[el.FieldName] = el.ID
		}
		if el.Category != "" {
			targets[string(el.Category)+"."+el.FieldName] = el.ID
		}
	}
	for _, el := range doc.Elements {
		if el.ID != "" {
			targets[el.ID] = el.ID
		}
	}
	return targets
}

func resolveErrorKey(key string, targets map[string]string) (string, bool) {
	key = strings.TrimSpace(key)
	if slices.Contains(formKeys, strings.ToLower(key)) {
		return "", false
	}
	if id, ok := targets[key]; ok {
		return id, true
	}

	segments := keySegments(key)
	for len(segments) > 0 {
		if id, ok := prefixTarget(segments, targets); ok {
			return id, true
		}
		if !slices.Contains(envelopeSegments, strings.ToLower(segments[0])) {
			break
		}
		segments = segments[1:]
	}
	return "", false
}

// keySegments splits a JSON pointer, dotted or bracketed path.
func keySegments(key string) []string {
	key = strings.NewReplacer("[", ".", "]", "").Replace(key)
	parts := strings.FieldsFunc(key, func(r rune) bool {
		return r == '.' || r == '/' || r == '#' || r == '$'
	})
	out := parts[:0]
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		out = append(out, strings.ReplaceAll(strings.ReplaceAll(part, "~1", "/"), "~0", "~"))
	}
	return out
}

// prefixTarget tries the longest dotted prefix of segments first, so
// "Identity.full_name.0" still lands on the full_name element.
func prefixTarget(segments []string, targets map[string]string) (string, bool) {
	for n := len(segments); n > 0; n-- {
		if id, ok := targets[strings.Join(segments[:n], ".")]; ok {
			return id, true
		}
	}
	return "", false
}

func cleanMessages(messages []string) []string {
	var out []string
	for _, m := range messages {
		m = strings.TrimSpace(m)
		if m != "" && !slices.Contains(out, m) {
			out = append(out, m)
		}
	}
	return out
}
