package req

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"

	"courseplan/internal/catalog"
)

func compilePatterns(t *testing.T, expressions ...string) []*regexp.Regexp {
	t.Helper()

	patterns := make([]*regexp.Regexp, 0, len(expressions))
	for _, expression := range expressions {
		pattern, err := regexp.Compile(expression)
		if err != nil {
			t.Fatalf("invalid test pattern %q: %v", expression, err)
		}
		patterns = append(patterns, pattern)
	}
	return patterns
}

func TestResolve(t *testing.T) {
	resolver := testResolver(t)

	cases := []struct {
		name  string
		token string
		want  Leaf
	}{
		{
			name:  "direct code match",
			token: "85001",
			want:  Leaf{Code: "85001", Raw: "85001", Kind: KindInternal},
		},
		{
			name:  "exact name match maps to code",
			token: "Data Structures",
			want:  Leaf{Code: "85002", Raw: "Data Structures", Kind: KindInternal},
		},
		{
			name:  "name match normalizes quotes and whitespace",
			token: `  "Data   Structures" `,
			want:  Leaf{Code: "85002", Raw: `  "Data   Structures" `, Kind: KindInternal},
		},
		{
			name:  "alias to name resolves internal",
			token: "מבוא למדמח",
			want:  Leaf{Code: "85001", Raw: "מבוא למדמח", Kind: KindInternal},
		},
		{
			name:  "alias to code resolves internal",
			token: "אלגברה",
			want:  Leaf{Code: "85003", Raw: "אלגברה", Kind: KindInternal},
		},
		{
			name:  "alias pointing at nothing stays unresolved",
			token: "dead alias",
			want:  Leaf{Raw: "dead alias", Kind: KindUnresolved},
		},
		{
			name:  "numeric code absent from catalog is a data gap",
			token: "99999",
			want:  Leaf{Raw: "99999", Kind: KindUnresolved},
		},
		{
			name:  "short numeric token falls through ordinary resolution",
			token: "123",
			want:  Leaf{Raw: "123", Kind: KindUnresolved},
		},
		{
			name:  "external exact rule",
			token: "פטור מאנגלית",
			want:  Leaf{Raw: "פטור מאנגלית", Kind: KindExternal},
		},
		{
			name:  "external pattern rule",
			token: "אנגלית מתקדמים ב",
			want:  Leaf{Raw: "אנגלית מתקדמים ב", Kind: KindExternal},
		},
		{
			name:  "unknown prose stays unresolved",
			token: "permission of instructor",
			want:  Leaf{Raw: "permission of instructor", Kind: KindUnresolved},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, resolver.Resolve(tc.token))
		})
	}
}

func TestResolveIsIdempotent(t *testing.T) {
	resolver := testResolver(t)

	for _, token := range []string{"85001", "99999", "אנגלית מתקדמים", "Data Structures"} {
		first := resolver.Resolve(token)
		second := resolver.Resolve(token)
		assert.Equal(t, first, second)
	}
}

func TestResolveInternalInvariant(t *testing.T) {
	resolver := testResolver(t)

	// kind == internal iff code is present
	for _, token := range []string{"85001", "no such thing", "פטור מאנגלית", "99999", "dead alias"} {
		leaf := resolver.Resolve(token)
		assert.Equal(t, leaf.Kind == KindInternal, leaf.Code != "", "token %q", token)
	}
}

func TestNumericTokensNeverMatchExternalRules(t *testing.T) {
	// An external pattern that would match any digits must not reclassify a
	// catalog-absent numeric code: that is a data gap to surface, not prose.
	records := []catalog.CourseRecord{{Code: "85001", Name: "Intro to CS"}}
	external := NewExternalRules(nil, compilePatterns(t, `^\d+$`))
	resolver := NewResolver(catalog.New(records), NewAliasRules(nil), external)

	leaf := resolver.Resolve("99999")
	assert.Equal(t, KindUnresolved, leaf.Kind)
}
