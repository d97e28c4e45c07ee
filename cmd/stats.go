package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/skillmatch/internal/analytics"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Summarize the candidate pool: employability, work preferences and top skills",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return stats(cmd)
	},
}

func init() {
	rootCmd.AddCommand(statsCmd)

	statsCmd.Flags().StringP("profiles", "p", "", "yaml or json file with the job and candidates. The demo pool is used when unset.")
}

func stats(cmd *cobra.Command) error {
	rt, err := setup(context.Background())
	if err != nil {
		return err
	}
	defer rt.close()

	pool, err := loadPool(cmd.Flag("profiles").Value.String(), rt.logger)
	if err != nil {
		return fmt.Errorf("loading profiles: %w", err)
	}

	summary := analytics.Summarize(pool.Candidates)

	rt.logger.Info("pool summarized",
		zap.Int("candidates", summary.TotalCandidates),
		zap.Int("at_risk", summary.AtRisk),
	)

	return printJSON(cmd.OutOrStdout(), summary)
}
