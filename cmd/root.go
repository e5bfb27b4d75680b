package cmd

import (
	"fmt"
	"os"

	homedir "github.com/mitchellh/go-homedir"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"courseplan/internal/catalog"
	"courseplan/internal/milp"
	"courseplan/internal/req"
)

var cfgFile string

var solvers = map[string]func() milp.Solver{
	"cbc":    milp.NewCbcSolver,
	"highs":  milp.NewHighsSolver,
	"glpsol": milp.NewGlpsolSolver,
	"enum":   milp.NewEnumSolver,
}

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "courseplan",
	Short: "Schedule degree-plan courses into semesters.",
	Long: `courseplan compiles catalog prerequisite text into requirement trees and
schedules a plan's courses into semesters with a MILP solver, honoring
offerings, per-semester credit caps and prerequisite ordering.`,
	CompletionOptions: cobra.CompletionOptions{
		DisableDefaultCmd: true,
	},
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.courseplan.yaml)")
	rootCmd.PersistentFlags().StringP("loglevel", "l", "info", "Set log level. Available: debug, info, warn, error, fatal")
	rootCmd.PersistentFlags().String("catalog-dir", "data_catalog", "Directory containing catalog CSV files")
	rootCmd.PersistentFlags().String("alias-rules", "data_catalog/aliases.csv", "CSV file with alias,canonical prerequisite overrides")
	rootCmd.PersistentFlags().String("external-rules", "data_catalog/external_rules.txt", "Line-oriented external-requirement classification rules")

	for _, flag := range []string{"loglevel", "catalog-dir", "alias-rules", "external-rules"} {
		viper.BindPFlag(flag, rootCmd.PersistentFlags().Lookup(flag))
	}
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := homedir.Dir()
		if err != nil {
			fmt.Println(err)
			os.Exit(1)
		}
		viper.AddConfigPath(home)
		viper.SetConfigName(".courseplan")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("courseplan")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			log.Warnf("cannot read config file: %v", err)
		}
	}

	level, err := log.ParseLevel(viper.GetString("loglevel"))
	if err != nil {
		log.Warnf("invalid log level %q, using info", viper.GetString("loglevel"))
		level = log.InfoLevel
	}
	log.SetLevel(level)
}

// loadResolver builds the immutable catalog + rule tables shared by the
// subcommands. Loaded fresh per invocation; the engine never mutates them.
func loadResolver() (*catalog.Catalog, *req.Resolver, error) {
	records, err := catalog.LoadDir(viper.GetString("catalog-dir"))
	if err != nil {
		return nil, nil, fmt.Errorf("cannot load catalog: %w", err)
	}
	if len(records) == 0 {
		log.Warnf("catalog directory %v contains no courses", viper.GetString("catalog-dir"))
	}

	aliases, err := req.LoadAliasRules(viper.GetString("alias-rules"))
	if err != nil {
		return nil, nil, err
	}
	external, err := req.LoadExternalRules(viper.GetString("external-rules"))
	if err != nil {
		return nil, nil, err
	}

	cat := catalog.New(records)
	return cat, req.NewResolver(cat, aliases, external), nil
}

func newSolver(name string) (milp.Solver, error) {
	factory, ok := solvers[name]
	if !ok {
		return nil, fmt.Errorf("%v is not a valid solver", name)
	}
	return factory(), nil
}
