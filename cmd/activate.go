package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/rauljordan/activate-stylus-program/internal/activator"
)

func runActivate(cmd *cobra.Command, args []string) error {
	cfg := activator.Config{
		PrivateKey:     viper.GetString("private-key"),
		Endpoint:       viper.GetString("endpoint"),
		Address:        viper.GetString("address"),
		BumpFeePercent: viper.GetUint64("bump-fee-percent"),
		Logger:         newLogger(),
	}

	res, err := activator.Run(cmd.Context(), cfg)
	if err != nil {
		return err
	}

	if jsonOut {
		return printJSON(map[string]interface{}{
			"program":          res.Program.Hex(),
			"estimated_fee":    res.BaseFee.String(),
			"data_fee":         res.DataFee.String(),
			"bump_fee_percent": cfg.BumpFeePercent,
			"tx_hash":          res.TxHash.Hex(),
		})
	}

	fmt.Printf("Obtained estimated activation data fee %s wei\n", res.BaseFee)
	if cfg.BumpFeePercent > 0 {
		fmt.Printf("%s Bumping estimated activation data fee by %d%% to %s wei\n",
			colorYellow("ℹ"), cfg.BumpFeePercent, res.DataFee)
	}
	fmt.Printf("%s Successfully activated program %s with tx %s\n",
		colorGreen("✓"), res.Program.Hex(), colorBold(res.TxHash.Hex()))

	return nil
}

func newLogger() *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
