package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var processCmd = &cobra.Command{
	Use:   "process",
	Short: "Process stored profiles and update the taxonomy and assignments",
	Run: func(_ *cobra.Command, _ []string) {
		runProcess()
	},
}

func init() {
	rootCmd.AddCommand(processCmd)
}

func runProcess() {
	ctx := context.Background()

	a := newApplication(ctx)

	a.logger.Info("starting the "+app, zap.String("version", version))
	a.logger.Info("processing stored profiles", zap.Int("count", a.profiles.Len()))

	if a.profiles.Len() == 0 {
		a.logger.Info("exiting", zap.String("reason", "no profiles stored"))
		return
	}

	report := a.processor.Process(ctx, a.profiles.Items())

	fmt.Println("Processing log:")
	for _, line := range report {
		fmt.Println(line)
	}

	a.printState()
}
