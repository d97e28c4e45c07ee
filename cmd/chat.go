package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/skillmatch/internal/ai"
)

var chatCmd = &cobra.Command{
	Use:   "chat MESSAGE",
	Short: "Ask the career assistant a question about a candidate",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return chat(cmd, strings.Join(args, " "))
	},
}

func init() {
	rootCmd.AddCommand(chatCmd)

	chatCmd.Flags().StringP("profiles", "p", "", "yaml or json file with the job and candidates. The demo pool is used when unset.")
	chatCmd.Flags().StringP("candidate", "c", "", "candidate id. Default is the first candidate in the pool.")
}

func chat(cmd *cobra.Command, message string) error {
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

	answer, origin := rt.aiService(ctx).Chat(ctx, message, ai.ChatContext{
		CandidateName:      candidate.Name,
		Role:               candidate.Role,
		EmployabilityScore: candidate.EmployabilityScore,
		WorkPreference:     candidate.WorkPreference,
	})

	rt.logger.Debug("chat answered", zap.String("candidate", candidate.Name), zap.String("origin", string(origin)))

	_, err = fmt.Fprintln(cmd.OutOrStdout(), answer)
	return err
}
