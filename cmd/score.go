package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/skillmatch/internal/employability"
	"github.com/spigell/skillmatch/internal/export"
)

var scoreCmd = &cobra.Command{
	Use:   "score",
	Short: "Compute the weighted employability score of a candidate",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return score(cmd)
	},
}

func init() {
	rootCmd.AddCommand(scoreCmd)

	scoreCmd.Flags().StringP("profiles", "p", "", "yaml or json file with the job and candidates. The demo pool is used when unset.")
	scoreCmd.Flags().StringP("candidate", "c", "", "candidate id. Default is the first candidate in the pool.")
	scoreCmd.Flags().StringP("report", "r", "", "write the employability report to this file or directory")
}

type scoreOutput struct {
	CandidateID   string                 `json:"candidateId"`
	CandidateName string                 `json:"candidateName"`
	FinalScore    int                    `json:"finalScore"`
	Grade         employability.Grade    `json:"grade"`
	Factors       []employability.Factor `json:"factors"`
}

func score(cmd *cobra.Command) error {
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

	weights := employability.NewWeights(rt.store, rt.logger)
	factors := employability.WithScores(weights.Load(ctx), candidate.Performance)
	final := employability.Score(factors)
	grade := employability.GradeFor(final)

	rt.logger.Info("employability scored",
		zap.String("candidate", candidate.Name),
		zap.Int("final_score", final),
		zap.String("grade", grade.Letter),
	)

	if err := printJSON(cmd.OutOrStdout(), scoreOutput{
		CandidateID:   candidate.ID,
		CandidateName: candidate.Name,
		FinalScore:    final,
		Grade:         grade,
		Factors:       factors,
	}); err != nil {
		return err
	}

	target := cmd.Flag("report").Value.String()
	if target == "" {
		return nil
	}

	// a directory gets the conventional report file name
	if info, err := os.Stat(target); err == nil && info.IsDir() {
		target = filepath.Join(target, employability.ReportFileName(candidate.Name))
	}

	report := employability.GenerateReport(
		employability.Candidate{ID: candidate.ID, Name: candidate.Name},
		factors, final, time.Now(),
	)

	if err := export.WriteJSON(target, report); err != nil {
		return fmt.Errorf("writing the report: %w", err)
	}

	rt.logger.Info("report written", zap.String("filename", target))
	return nil
}
