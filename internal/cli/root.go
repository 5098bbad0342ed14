// Package cli wires the dexd commands.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var configFile string

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "dexd",
	Short: "dexd - multi-pair AMM accounting node",
	Long: `dexd runs an automated-market-maker accounting engine over many
independent trading pairs: constant-product swaps, dual-asset liquidity
provision, two-phase pending deposits, and lazily settled LP fees. State
is applied one operation at a time and persisted per operation.`,
	Version: Version,
}

// Execute runs the CLI. Called once from main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "conf", "", "configuration file path")
}
