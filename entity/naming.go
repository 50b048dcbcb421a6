package entity

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// titleCaser handles proper title casing (strings.Title is deprecated).
var titleCaser = cases.Title(language.English)

// httpMethods is the set of HTTP verbs recognized as operation keys.
var httpMethods = map[string]bool{
	"get":     true,
	"put":     true,
	"post":    true,
	"delete":  true,
	"options": true,
	"head":    true,
	"patch":   true,
	"trace":   true,
}

// MethodOrder is the canonical order operations are visited in when a
// document is decomposed, matching the order the OAS defines them.
var MethodOrder = []string{"get", "put", "post", "delete", "options", "head", "patch", "trace"}

// IsHTTPMethod reports whether m (case-insensitive) is a recognized verb.
func IsHTTPMethod(m string) bool {
	return httpMethods[strings.ToLower(m)]
}

// RequestName derives a display name for a request from its body: the
// summary when present, otherwise a title-cased rendering of the
// operationId ("listPets" -> "List Pets"), otherwise "METHOD path".
func RequestName(body map[string]any, method, path string) string {
	if s, ok := body["summary"].(string); ok && strings.TrimSpace(s) != "" {
		return strings.TrimSpace(s)
	}
	if id, ok := body["operationId"].(string); ok && id != "" {
		return titleCaser.String(splitCamel(id))
	}
	return strings.ToUpper(method) + " " + path
}

// splitCamel turns camelCase or snake_case identifiers into spaced words.
func splitCamel(s string) string {
	var b strings.Builder
	b.Grow(len(s) + 4)
	prevLower := false
	for _, r := range s {
		switch {
		case r == '_' || r == '-':
			b.WriteRune(' ')
			prevLower = false
			continue
		case unicode.IsUpper(r) && prevLower:
			b.WriteRune(' ')
		}
		prevLower = unicode.IsLower(r) || unicode.IsDigit(r)
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}
