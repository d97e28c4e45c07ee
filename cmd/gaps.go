package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/skillmatch/internal/skills"
)

var gapsCmd = &cobra.Command{
	Use:   "gaps",
	Short: "Show the skill gaps of a candidate against the job",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return gaps(cmd)
	},
}

func init() {
	rootCmd.AddCommand(gapsCmd)

	gapsCmd.Flags().StringP("profiles", "p", "", "yaml or json file with the job and candidates. The demo pool is used when unset.")
	gapsCmd.Flags().StringP("candidate", "c", "", "candidate id. Default is the first candidate in the pool.")
}

func gaps(cmd *cobra.Command) error {
	rt, err := setup(context.Background())
	if err != nil {
		return err
	}
	defer rt.close()

	pool, err := loadPool(cmd.Flag("profiles").Value.String(), rt.logger)
	if err != nil {
		return fmt.Errorf("loading profiles: %w", err)
	}

	candidate, err := pool.Candidate(cmd.Flag("candidate").Value.String())
	if err != nil {
		return fmt.Errorf("selecting a candidate: %w", err)
	}

	analysis := skills.Analyze(candidate.Skills, pool.Job.RequiredSkills)

	rt.logger.Info("skill gap analysis",
		zap.String("candidate", candidate.Name),
		zap.String("job", pool.Job.Title),
		zap.Int("skills", len(analysis.PerSkill)),
		zap.Int("critical_gaps", len(analysis.CriticalGaps)),
		zap.Bool("high_severity", analysis.HasHighSeverity()),
	)

	return printJSON(cmd.OutOrStdout(), analysis)
}
