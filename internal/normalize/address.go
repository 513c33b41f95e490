// Package normalize extracts structured listing fields out of the free-text
// address, vehicle and loading-method strings the source feed delivers. All
// parsers here are best-effort: on malformed input they report "not found"
// instead of failing.
package normalize

import (
	"regexp"
	"strings"
)

// streetKeywords are the tokens that mark a comma-separated address field as
// the street field.
var streetKeywords = map[string]struct{}{
	"ул":         {},
	"улица":      {},
	"пр-кт":      {},
	"просп":      {},
	"проспект":   {},
	"ш":          {},
	"шоссе":      {},
	"пер":        {},
	"переулок":   {},
	"б-р":        {},
	"бульвар":    {},
	"наб":        {},
	"набережная": {},
	"тракт":      {},
	"пр-д":       {},
	"проезд":     {},
	"линия":      {},
	"тупик":      {},
}

// settlementKeywords mark a field as a settlement; the field after it is
// taken as the street when no street keyword was found anywhere.
var settlementKeywords = map[string]struct{}{
	"г":        {},
	"город":    {},
	"п":        {},
	"пос":      {},
	"поселок":  {},
	"посёлок":  {},
	"пгт":      {},
	"рп":       {},
	"с":        {},
	"село":     {},
	"д":        {},
	"дер":      {},
	"деревня":  {},
	"ст":       {},
	"станция":  {},
	"мкр":      {},
	"квартал":  {},
}

var (
	parenthetical = regexp.MustCompile(`\([^)]*\)`)
	landmarkWord  = regexp.MustCompile(`(?i)ориентир`)
	digitRe       = regexp.MustCompile(`\d`)
)

// Street extracts the street name from a free-text address. Used for the
// loading side, where the marketplace wants the street without a house
// number. The second return is false when nothing parseable was found.
func Street(raw string) (string, bool) {
	street, _, _ := findStreet(raw)
	if street == "" {
		return "", false
	}
	return street, true
}

// StreetWithHouse extracts the street name plus the first house number found
// after it, space-separated. Used for the unloading side.
func StreetWithHouse(raw string) (string, bool) {
	street, idx, fields := findStreet(raw)
	if street == "" {
		return "", false
	}
	for _, field := range fields[idx+1:] {
		if digitRe.MatchString(field) {
			return street + " " + strings.TrimSpace(field), true
		}
	}
	return street, true
}

// findStreet runs the two-pass scan over the comma-separated fields and
// returns the street, the index of the field it came from, and the fields.
func findStreet(raw string) (string, int, []string) {
	cleaned := strings.TrimSpace(landmarkWord.ReplaceAllString(parenthetical.ReplaceAllString(raw, ""), ""))
	if cleaned == "" {
		return "", -1, nil
	}

	parts := strings.Split(cleaned, ",")
	fields := make([]string, 0, len(parts))
	for _, p := range parts {
		fields = append(fields, strings.TrimSpace(p))
	}

	// First pass: a field carrying a street keyword wins; the keyword token
	// itself is dropped from the result.
	for i, field := range fields {
		if rest, ok := stripKeyword(field, streetKeywords); ok {
			return rest, i, fields
		}
	}

	// Second pass: the field after a settlement keyword, taken unverified.
	for i, field := range fields {
		if _, ok := stripKeyword(field, settlementKeywords); ok && i+1 < len(fields) {
			if next := fields[i+1]; next != "" {
				return next, i + 1, fields
			}
		}
	}

	return "", -1, fields
}

// stripKeyword reports whether any token of the field matches the keyword
// set and returns the field with that token removed. Tokens glued to the
// keyword with a dot ("ул.Тверская") are recognized as well.
func stripKeyword(field string, keywords map[string]struct{}) (string, bool) {
	tokens := strings.Fields(field)
	for i, token := range tokens {
		lowered := strings.ToLower(strings.Trim(token, "."))
		if _, ok := keywords[lowered]; ok {
			rest := append(append([]string{}, tokens[:i]...), tokens[i+1:]...)
			return strings.TrimSpace(strings.Join(rest, " ")), true
		}
		if dot := strings.IndexByte(lowered, '.'); dot > 0 {
			if _, ok := keywords[lowered[:dot]]; ok {
				glued := strings.TrimSpace(token[strings.IndexByte(token, '.')+1:])
				rest := append(append([]string{}, tokens[:i]...), tokens[i+1:]...)
				if glued != "" {
					rest = append([]string{glued}, rest...)
				}
				return strings.TrimSpace(strings.Join(rest, " ")), true
			}
		}
	}
	return "", false
}
