package domain

import "strings"

// Search normalization and expansion.
//
// Gallery titles are free-text Japanese with inconsistent script usage
// (かわいい vs カワイイ) and colloquial abbreviations. A query is expanded
// into a set of script variants plus table-driven synonyms, and matching
// is script-insensitive on both sides.

// SynonymTable holds equivalence classes of colloquial synonyms.
// Every member of a class is considered interchangeable for search.
type SynonymTable [][]string

// ToHiragana converts katakana runes to their hiragana equivalents.
// Everything else passes through unchanged.
func ToHiragana(s string) string {
	return strings.Map(func(r rune) rune {
		if r >= 'ァ' && r <= 'ヶ' {
			return r - 0x60
		}
		return r
	}, s)
}

// ToKatakana converts hiragana runes to their katakana equivalents.
func ToKatakana(s string) string {
	return strings.Map(func(r rune) rune {
		if r >= 'ぁ' && r <= 'ゖ' {
			return r + 0x60
		}
		return r
	}, s)
}

// NormalizeScript lowercases a string and folds katakana into hiragana,
// giving the canonical form used for matching.
func NormalizeScript(s string) string {
	return ToHiragana(strings.ToLower(s))
}

// Expand turns a raw query into its variant set: the literal form, the
// hiragana and katakana renditions, and every script variant of every
// synonym in any equivalence class the query overlaps with. Overlap is
// substring containment in either direction, checked script-insensitively.
// Expansion is purely table-driven; there is no semantic matching.
func (t SynonymTable) Expand(query string) []string {
	query = strings.TrimSpace(strings.ToLower(query))
	if query == "" {
		return nil
	}

	seen := map[string]bool{}
	var variants []string
	add := func(v string) {
		if v != "" && !seen[v] {
			seen[v] = true
			variants = append(variants, v)
		}
	}

	add(query)
	add(ToHiragana(query))
	add(ToKatakana(query))

	norm := NormalizeScript(query)
	for _, class := range t {
		if !classMatches(class, norm) {
			continue
		}
		for _, syn := range class {
			syn = strings.ToLower(syn)
			add(syn)
			add(ToHiragana(syn))
			add(ToKatakana(syn))
		}
	}
	return variants
}

func classMatches(class []string, normQuery string) bool {
	for _, syn := range class {
		normSyn := NormalizeScript(syn)
		if normSyn == "" {
			continue
		}
		if strings.Contains(normSyn, normQuery) || strings.Contains(normQuery, normSyn) {
			return true
		}
	}
	return false
}

// MatchesQuery reports whether a video's title or description contains
// any of the expanded query variants, script-insensitively.
func MatchesQuery(v *Video, variants []string) bool {
	if len(variants) == 0 {
		return true
	}
	title := NormalizeScript(v.Title)
	desc := NormalizeScript(v.Description)
	for _, variant := range variants {
		nv := NormalizeScript(variant)
		if nv == "" {
			continue
		}
		if strings.Contains(title, nv) || strings.Contains(desc, nv) {
			return true
		}
	}
	return false
}
