// Package textutil normaliza texto de búsqueda para comparaciones sin tildes ni mayúsculas.
package textutil

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// NormalizeSearch quita tildes y diacríticos, pasa a minúsculas y colapsa espacios.
// "  Camisa  AZÚL " → "camisa azul". La BD compara contra unaccent(lower(col)).
func NormalizeSearch(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, s)
	if err != nil {
		out = s
	}
	return strings.Join(strings.Fields(strings.ToLower(out)), " ")
}

// LikePattern envuelve un término normalizado para ILIKE, escapando los comodines.
// Devuelve "" si el término está vacío.
func LikePattern(term string) string {
	term = NormalizeSearch(term)
	if term == "" {
		return ""
	}
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(term) + "%"
}
