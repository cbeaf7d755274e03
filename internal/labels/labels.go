package labels

import (
	"context"
	"fmt"
	"strings"
	"unicode"
)

// Normalize maps a raw column label to its identifier form: lowercase,
// with any run of literal dots or spaces collapsed into a single underscore.
// Pure and total; "HQ State" -> "hq_state", "Fire Dept. Name" -> "fire_dept_name".
func Normalize(name string) string {
	var sb strings.Builder
	sb.Grow(len(name))
	inRun := false
	for _, r := range name {
		if r == '.' || r == ' ' {
			if !inRun {
				sb.WriteByte('_')
				inRun = true
			}
			continue
		}
		inRun = false
		sb.WriteRune(unicode.ToLower(r))
	}
	return sb.String()
}

// Titleize renders an identifier as a display title: underscores and dots
// become spaces and every word gets simple title case.
// "hq_state" -> "Hq State".
func Titleize(name string) string {
	words := splitWords(name)
	for i, w := range words {
		words[i] = titleWord(w)
	}
	return strings.Join(words, " ")
}

// Dictionary is the capability consulted by a Titler to decide how a word
// is cased: found words get title case, unknown words get upper case.
// Implementations are network-backed and fallible; callers must survive
// every error.
type Dictionary interface {
	Lookup(ctx context.Context, word string) (bool, error)
}

// Titler renders display titles, optionally consulting a Dictionary so that
// words it does not know (acronyms such as FDID) come out upper-cased.
// Lookup results are memoized per Titler; lookup failures degrade to the
// upper-case fallback and are recorded in Warnings rather than surfaced.
type Titler struct {
	dict     Dictionary
	known    map[string]bool
	warned   map[string]bool
	degraded bool

	Warnings []string
}

// NewTitler returns a Titler using the given dictionary. A nil dictionary
// means plain title-casing with no lookups.
func NewTitler(dict Dictionary) *Titler {
	return &Titler{
		dict:   dict,
		known:  make(map[string]bool),
		warned: make(map[string]bool),
	}
}

// Titleize renders name as a display title. Without a dictionary every word
// is title-cased; with one, words found in the dictionary are title-cased
// and the rest are upper-cased.
func (t *Titler) Titleize(ctx context.Context, name string) string {
	words := splitWords(name)
	for i, w := range words {
		if t.dict == nil {
			words[i] = titleWord(w)
			continue
		}
		if t.found(ctx, w) {
			words[i] = titleWord(w)
		} else {
			words[i] = strings.ToUpper(w)
		}
	}
	return strings.Join(words, " ")
}

func (t *Titler) found(ctx context.Context, word string) bool {
	key := strings.ToLower(word)
	if v, ok := t.known[key]; ok {
		return v
	}
	// After a failed lookup the dictionary is considered unavailable for the
	// rest of the run; remaining words take the not-found path immediately.
	if t.degraded {
		return false
	}
	v, err := t.dict.Lookup(ctx, key)
	if err != nil {
		t.degraded = true
		t.warn(fmt.Sprintf("dictionary lookup failed for %q, upper-casing unknown words: %v", key, err))
		return false
	}
	t.known[key] = v
	return v
}

func (t *Titler) warn(msg string) {
	if t.warned[msg] {
		return
	}
	t.warned[msg] = true
	t.Warnings = append(t.Warnings, msg)
}

// splitWords breaks an identifier or raw label into words on underscores,
// dots, and spaces, dropping empty segments.
func splitWords(name string) []string {
	return strings.FieldsFunc(name, func(r rune) bool {
		return r == '_' || r == '.' || r == ' '
	})
}

func titleWord(w string) string {
	if w == "" {
		return w
	}
	r := []rune(strings.ToLower(w))
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}
