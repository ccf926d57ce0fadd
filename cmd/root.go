package cmd

import (
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const version = "0.2.0"

var (
	cfgFile string
	jsonOut bool
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "activate-stylus-program",
	Short: "Activate a Stylus program on an Arbitrum chain",
	Long: `Activate a deployed Stylus program by estimating its activation data fee
from the ArbWasm precompile and submitting a single signed transaction.

The flow is:
  1. Estimate the activation data fee via a spoofed eth_call (--endpoint)
  2. Apply the optional safety margin (--bump-fee-percent)
  3. Build, sign, and broadcast the activation transaction

Examples:
  # Activate a program on Arbitrum Sepolia
  activate-stylus-program \
    --private-key $STYLUS_PRIVATE_KEY \
    --endpoint https://sepolia-rollup.arbitrum.io/rpc \
    --address 0xYourProgram

  # With a 20% safety margin on the estimated data fee
  activate-stylus-program \
    --private-key $STYLUS_PRIVATE_KEY \
    --endpoint https://sepolia-rollup.arbitrum.io/rpc \
    --address 0xYourProgram \
    --bump-fee-percent 20`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runActivate,
}

// Execute runs the root command. Errors are printed once here so main
// only has to pick the exit code.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		printError(err)
	}
	return err
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default $HOME/.activate-stylus-program.yaml)")
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "output result as JSON")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "enable debug logging")
	rootCmd.Flags().BoolP("version", "V", false, "print the version and exit")

	rootCmd.Flags().String("private-key", "", "signing key for the sending account (or use STYLUS_PRIVATE_KEY)")
	rootCmd.Flags().String("endpoint", "", "remote node RPC endpoint")
	rootCmd.Flags().String("address", "", "target program address to activate")
	rootCmd.Flags().Uint64("bump-fee-percent", 0, "safety margin applied to the estimated data fee")

	// private-key is required too, but may come from the environment;
	// Config.Validate reports it with a specific error.
	_ = rootCmd.MarkFlagRequired("endpoint")
	_ = rootCmd.MarkFlagRequired("address")

	_ = viper.BindPFlag("private-key", rootCmd.Flags().Lookup("private-key"))
	_ = viper.BindPFlag("endpoint", rootCmd.Flags().Lookup("endpoint"))
	_ = viper.BindPFlag("address", rootCmd.Flags().Lookup("address"))
	_ = viper.BindPFlag("bump-fee-percent", rootCmd.Flags().Lookup("bump-fee-percent"))
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else if home, err := os.UserHomeDir(); err == nil {
		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".activate-stylus-program")
	}

	viper.SetEnvPrefix("STYLUS")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()

	// A config file is optional; flags and env are enough.
	_ = viper.ReadInConfig()
}
