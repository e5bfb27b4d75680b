package cmd

import (
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"courseplan/internal/req"
)

var parseCmd = &cobra.Command{
	Use:   "parse <prerequisite text>",
	Short: "Parse one prerequisite text and print the requirement tree",
	Long: `Parses a single prerequisite text against the configured catalog and rules
and prints the resolved requirement tree, one node per line. Useful for
checking how a given catalog phrase is interpreted before running a solve.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		_, resolver, err := loadResolver()
		if err != nil {
			log.Fatal(err)
		}

		tree := req.Parse(args[0], resolver)
		if tree == nil {
			fmt.Println("(no requirement)")
			return
		}
		printTree(tree, 0)
	},
}

func printTree(node req.Req, depth int) {
	indent := strings.Repeat("  ", depth)
	switch typed := node.(type) {
	case req.Leaf:
		switch typed.Kind {
		case req.KindInternal:
			fmt.Printf("%vcourse %v (%v)\n", indent, typed.Code, typed.Raw)
		default:
			fmt.Printf("%v%v %q\n", indent, typed.Kind, typed.Raw)
		}
	case req.And:
		fmt.Printf("%vall of:\n", indent)
		for _, child := range typed.Items {
			printTree(child, depth+1)
		}
	case req.Or:
		fmt.Printf("%vany of:\n", indent)
		for _, child := range typed.Items {
			printTree(child, depth+1)
		}
	}
}

func init() {
	rootCmd.AddCommand(parseCmd)
}
