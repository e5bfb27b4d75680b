package req

import (
	"strings"

	"courseplan/internal/catalog"
)

// minNumericCodeLength is the minimum length for an all-digit token to be
// treated as a (possibly missing) course code rather than prose.
const minNumericCodeLength = 5

// Resolver classifies prerequisite tokens against a catalog snapshot and the
// alias/external rule tables. All tables are read-only after construction;
// the caller owns their lifecycle.
type Resolver struct {
	catalog  *catalog.Catalog
	aliases  AliasRules
	external ExternalRules
}

func NewResolver(cat *catalog.Catalog, aliases AliasRules, external ExternalRules) *Resolver {
	return &Resolver{
		catalog:  cat,
		aliases:  aliases,
		external: external,
	}
}

// Resolve classifies a single token. The order is load-bearing:
//
//  1. alias lookup, so operators can redirect bad catalog data without code
//     changes; an alias pointing at nothing resolvable yields an unresolved
//     leaf rather than being dropped
//  2. direct course-code match
//  3. all-digit tokens long enough to look like a course code but absent from
//     the catalog stay unresolved: a missing code is a data gap, not prose,
//     and must not be reinterpreted by name or external matching
//  4. exact normalized-name match
//  5. external classification
//  6. unresolved
func (r *Resolver) Resolve(token string) Leaf {
	normalized := catalog.NormalizeKey(token)

	if canonical, ok := r.aliases.Canonical(normalized); ok {
		return r.resolveAlias(token, canonical)
	}

	if r.catalog.HasCode(normalized) {
		return Leaf{Code: normalized, Raw: token, Kind: KindInternal}
	}

	if isNumericCode(normalized) {
		return Leaf{Raw: token, Kind: KindUnresolved}
	}

	if code, ok := r.catalog.CodeByName(normalized); ok {
		return Leaf{Code: code, Raw: token, Kind: KindInternal}
	}

	if r.external.Matches(normalized) {
		return Leaf{Raw: token, Kind: KindExternal}
	}

	return Leaf{Raw: token, Kind: KindUnresolved}
}

func (r *Resolver) resolveAlias(token, canonical string) Leaf {
	canonicalKey := catalog.NormalizeKey(canonical)

	// A canonical target that is all digits is a course code, anything else is
	// a course name.
	if isAllDigits(canonicalKey) {
		if r.catalog.HasCode(canonicalKey) {
			return Leaf{Code: canonicalKey, Raw: token, Kind: KindInternal}
		}
		return Leaf{Raw: token, Kind: KindUnresolved}
	}

	if code, ok := r.catalog.CodeByName(canonicalKey); ok {
		return Leaf{Code: code, Raw: token, Kind: KindInternal}
	}
	return Leaf{Raw: token, Kind: KindUnresolved}
}

func isNumericCode(token string) bool {
	return len(token) >= minNumericCodeLength && isAllDigits(token)
}

func isAllDigits(token string) bool {
	if token == "" {
		return false
	}
	return strings.IndexFunc(token, func(r rune) bool { return r < '0' || r > '9' }) < 0
}
