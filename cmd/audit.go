package cmd

import (
	"fmt"
	"sort"

	"github.com/samber/lo"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"courseplan/internal/req"
)

const auditExampleLimit = 5

type tokenTally struct {
	raw      string
	kind     req.LeafKind
	count    int
	examples []string
}

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Parse the whole catalog and report external and unresolved tokens",
	Long: `Parses every course's prerequisite text in the configured catalog and
tallies the tokens that did not resolve to catalog courses: external
requirements and unresolved tokens. Each token is reported with its occurrence
count and a few example courses, most frequent first. Use this to grow the
alias and external rule files.`,
	Run: func(cmd *cobra.Command, args []string) {
		cat, resolver, err := loadResolver()
		if err != nil {
			log.Fatal(err)
		}

		tallies := map[string]*tokenTally{}
		parsed := 0
		for _, record := range cat.Records() {
			tree := req.Parse(record.PrereqText, resolver)
			if tree == nil {
				continue
			}
			parsed++

			course := record.Code
			req.Walk(tree, func(node req.Req) {
				leaf, ok := node.(req.Leaf)
				if !ok || leaf.Kind == req.KindInternal || leaf.Raw == "" {
					return
				}

				key := string(leaf.Kind) + "|" + leaf.Raw
				tally, ok := tallies[key]
				if !ok {
					tally = &tokenTally{raw: leaf.Raw, kind: leaf.Kind}
					tallies[key] = tally
				}
				tally.count++
				if len(tally.examples) < auditExampleLimit && !lo.Contains(tally.examples, course) {
					tally.examples = append(tally.examples, course)
				}
			})
		}

		fmt.Printf("Parsed %v prerequisite texts from %v courses\n", parsed, len(cat.Records()))
		printTallies("External requirements", tallies, req.KindExternal)
		printTallies("Unresolved tokens", tallies, req.KindUnresolved)
	},
}

func printTallies(title string, tallies map[string]*tokenTally, kind req.LeafKind) {
	selected := lo.Filter(lo.Values(tallies), func(tally *tokenTally, _ int) bool {
		return tally.kind == kind
	})
	sort.Slice(selected, func(i, j int) bool {
		if selected[i].count != selected[j].count {
			return selected[i].count > selected[j].count
		}
		return selected[i].raw < selected[j].raw
	})

	fmt.Printf("\n%v: %v distinct\n", title, len(selected))
	for _, tally := range selected {
		fmt.Printf("  %4d  %q  e.g. %v\n", tally.count, tally.raw, tally.examples)
	}
}

func init() {
	rootCmd.AddCommand(auditCmd)
}
