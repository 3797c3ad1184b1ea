package memory

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// foldText normaliza para búsqueda: sin tildes y sin distinción de mayúsculas ("Recepción" ~ "recepcion").
func foldText(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC, cases.Fold())
	out, _, err := transform.String(t, s)
	if err != nil {
		return strings.ToLower(s)
	}
	return out
}

func containsFolded(needle string, fields ...string) bool {
	for _, f := range fields {
		if f != "" && strings.Contains(foldText(f), needle) {
			return true
		}
	}
	return false
}
