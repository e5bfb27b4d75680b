package req

import (
	"regexp"
	"strings"

	"github.com/samber/lo"
)

var (
	whitespacePattern = regexp.MustCompile(`\s+`)
	// Some catalog exports corrupt "C++" into "++C" during tokenization.
	corruptedCppPattern = regexp.MustCompile(`\+\+\s*C\b`)
)

func normalizeText(text string) string {
	text = strings.TrimSpace(text)
	text = strings.ReplaceAll(text, "–", "-")
	text = corruptedCppPattern.ReplaceAllString(text, "C++")
	text = whitespacePattern.ReplaceAllString(text, " ")
	return text
}

// Parse turns raw prerequisite text into a requirement tree, resolving leaf
// tokens through the resolver. Empty or whitespace-only text yields nil.
//
// The grammar is flat: "/" separates OR alternatives and "+" separates AND
// conjuncts, with "/" binding first at every level; source data has no
// grouping syntax. A separator split is only accepted when every resulting
// subtree is valid (contains no unresolved leaf) — otherwise one bad token
// would corrupt an otherwise well-formed compound requirement, so the text
// falls back to the next separator and finally to a single opaque leaf.
func Parse(text string, resolver *Resolver) Req {
	if strings.TrimSpace(text) == "" {
		return nil
	}
	return parseNormalized(normalizeText(text), resolver)
}

func parseNormalized(text string, resolver *Resolver) Req {
	if items, ok := parseSplit(text, "/", resolver); ok {
		return Or{Items: items}
	}
	if items, ok := parseSplit(text, "+", resolver); ok {
		return And{Items: items}
	}
	return resolver.Resolve(text)
}

func parseSplit(text, separator string, resolver *Resolver) ([]Req, bool) {
	if !strings.Contains(text, separator) {
		return nil, false
	}

	parts := splitTop(text, separator)
	if len(parts) == 0 {
		return nil, false
	}

	items := lo.Map(parts, func(part string, _ int) Req {
		return parseNormalized(part, resolver)
	})
	if !allValid(items) {
		return nil, false
	}

	return Dedupe(items), true
}

func splitTop(text, separator string) []string {
	return lo.FilterMap(strings.Split(text, separator), func(part string, _ int) (string, bool) {
		part = strings.TrimSpace(part)
		return part, part != ""
	})
}
