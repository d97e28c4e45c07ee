package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/skillmatch/internal/filtering"
	"github.com/spigell/skillmatch/internal/matching"
)

var matchCmd = &cobra.Command{
	Use:   "match",
	Short: "Compute the match analysis of a candidate for the job",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return match(cmd)
	},
}

func init() {
	rootCmd.AddCommand(matchCmd)

	matchCmd.Flags().StringP("profiles", "p", "", "yaml or json file with the job and candidates. The demo pool is used when unset.")
	matchCmd.Flags().StringP("candidate", "c", "", "candidate id. Default is the first candidate in the pool.")
	matchCmd.Flags().Bool("ai", false, "attach an AI written summary of the match")
}

func match(cmd *cobra.Command) error {
	ctx := context.Background()

	rt, err := setup(ctx)
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

	result := &matching.Result{
		Candidate: candidate,
		Analysis:  matching.Match(candidate, pool.Job),
	}

	rt.logger.Info("match computed",
		zap.String("candidate", candidate.Name),
		zap.String("job", pool.Job.Title),
		zap.Int("overall_score", result.Analysis.OverallScore),
	)

	if withAI, _ := cmd.Flags().GetBool("ai"); withAI {
		text, origin := rt.aiService(ctx).AnalyzeMatch(ctx, filtering.MatchRequest(result, pool.Job))
		result.AI = &matching.Narrative{Text: text, Origin: string(origin)}
	}

	return printJSON(cmd.OutOrStdout(), result)
}
