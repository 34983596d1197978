package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	cfgFile string
	verbose bool
)

// rootCmd represents the base command. Running it with input performs a
// single rewrite; subcommands cover batch, config, and styles.
var rootCmd = &cobra.Command{
	Use:   "shred [text...]",
	Short: "Shred - turn buzzword soup into human words",
	Long: `Shred rewrites buzzword-laden text into plain language while
preserving factual content (numbers, dates, names, protocols, claims,
constraints).

It runs a deterministic buzzword substitution pass first, then asks a
local language model to rewrite the text in a chosen style. When the
model is unreachable, the rule-based output is printed instead; shred
always produces something.

Examples:
  shred "Our platform leverages federated embeddings at scale."
  shred -f pitch.txt --style grandma
  shred --url https://example.com/about --mode summary
  cat deck-notes.txt | shred --rules-only`,
	Args:          cobra.ArbitraryArgs,
	RunE:          runShred,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}

// versionCmd represents the version command
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("shred v0.1.0")
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: $HOME/.shred/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")

	// Bind flags to viper
	_ = viper.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))

	// Add subcommands
	rootCmd.AddCommand(versionCmd)
}

// initConfig reads in config file and ENV variables
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error finding home directory: %v\n", err)
			return
		}

		viper.AddConfigPath(home + "/.shred")
		viper.SetConfigType("yaml")
		viper.SetConfigName("config")
	}

	// Read in environment variables that match SHRED_*
	viper.SetEnvPrefix("SHRED")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil && verbose {
		fmt.Fprintf(os.Stderr, "Using config file: %s\n", viper.ConfigFileUsed())
	}
}
