package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/skillmatch/internal/ai/gemini"
	"github.com/spigell/skillmatch/internal/export"
	"github.com/spigell/skillmatch/internal/filtering"
	"github.com/spigell/skillmatch/internal/logger"
	"github.com/spigell/skillmatch/internal/matching"
	"github.com/spigell/skillmatch/internal/skills"
)

const (
	PromptShowRanking         = "Show ranking"
	PromptShowGaps            = "Show skill gaps of a candidate"
	PromptExportExcel         = "Export ranking to xlsx"
	PromptAppendToExcludeFile = "Append all candidates to exclude file"
	PromptExit                = "Exit"
	PromptBack                = "back"
	defaultExcelFile          = "skillmatch_ranking.xlsx"
)

var errExit = errors.New("exit requested")

var prompt = promptui.Select{
	Label: "Next action?",
	Items: []string{PromptShowRanking, PromptShowGaps, PromptExportExcel, PromptAppendToExcludeFile, PromptExit},
}

var rankCmd = &cobra.Command{
	Use:   "rank",
	Short: "Rank every candidate of the pool for the job",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return rank(cmd)
	},
}

func init() {
	rootCmd.AddCommand(rankCmd)

	rankCmd.Flags().StringP("profiles", "p", "", "yaml or json file with the job and candidates. The demo pool is used when unset.")
	rankCmd.Flags().BoolP("auto-approve", "y", false, "do not ask for actions, print the ranking and exit")
	rankCmd.Flags().String("xlsx", "", "export the ranking to this xlsx file")
	rankCmd.Flags().StringP("exclude-file", "e", "", "json file with candidates to exclude. Default is unset.")

	viper.BindPFlag("ranking.exclude-file", rankCmd.Flags().Lookup("exclude-file"))
}

func rank(cmd *cobra.Command) error {
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

	if len(pool.Candidates) == 0 {
		rt.logger.Info("exiting", zap.String("reason", "no candidates in the pool"))
		return nil
	}

	ranking := matching.Rank(pool.Candidates, pool.Job)
	rt.logger.Info("candidates ranked", zap.String("job", pool.Job.Title), zap.Int("count", ranking.Len()))

	steps := prepareFilters(ctx, rt)
	for _, status := range filtering.Describe(steps) {
		rt.logger.Debug("filter status",
			zap.String("name", status.Name),
			zap.Bool("enabled", status.Enabled),
			zap.String("reason", status.Reason),
			zap.Any("details", status.Details),
		)
	}

	ranking, err = filtering.Run(ctx, rt.logger, steps, ranking)
	if err != nil {
		return fmt.Errorf("filtering failed: %w", err)
	}

	if ranking.Len() == 0 {
		rt.logger.Info("exiting", zap.String("reason", "no candidates left after filters"))
		return nil
	}

	xlsx := cmd.Flag("xlsx").Value.String()

	if cmd.Flag("auto-approve").Value.String() == "true" {
		if err := printRanking(cmd, ranking); err != nil {
			return err
		}
		if xlsx != "" {
			return exportExcel(rt.logger, ranking, xlsx)
		}
		return nil
	}

	for {
		_, action, err := prompt.Run()
		if err != nil {
			return err
		}

		if err := handleAction(cmd, rt, action, ranking, xlsx); err != nil {
			if errors.Is(err, errExit) {
				return nil
			}
			return err
		}
	}
}

func handleAction(cmd *cobra.Command, rt *runtime, action string, ranking *matching.Ranking, xlsx string) error {
	switch action {
	case PromptShowRanking:
		return printRanking(cmd, ranking)
	case PromptShowGaps:
		return showGaps(cmd, ranking)
	case PromptExportExcel:
		if xlsx == "" {
			xlsx = defaultExcelFile
		}
		return exportExcel(rt.logger, ranking, xlsx)
	case PromptAppendToExcludeFile:
		return appendToExcludeFile(rt, ranking)
	case PromptExit:
		rt.logger.Info("exiting", zap.String("reason", "got exit from prompt"))
		return errExit
	default:
		return fmt.Errorf("invalid action: %s", action)
	}
}

// rankingRow is the compact printed form of a ranked candidate.
type rankingRow struct {
	Rank         int                 `json:"rank"`
	ID           string              `json:"id"`
	Name         string              `json:"name"`
	OverallScore int                 `json:"overallScore"`
	Details      matching.Details    `json:"details"`
	Suggestions  []string            `json:"suggestions"`
	AI           *matching.Narrative `json:"ai,omitempty"`
}

func printRanking(cmd *cobra.Command, ranking *matching.Ranking) error {
	rows := make([]rankingRow, 0, ranking.Len())
	for i, item := range ranking.Items {
		rows = append(rows, rankingRow{
			Rank:         i + 1,
			ID:           item.Candidate.ID,
			Name:         item.Candidate.Name,
			OverallScore: item.Analysis.OverallScore,
			Details:      item.Analysis.Details,
			Suggestions:  item.Analysis.Suggestions,
			AI:           item.AI,
		})
	}
	return printJSON(cmd.OutOrStdout(), rows)
}

func showGaps(cmd *cobra.Command, ranking *matching.Ranking) error {
	for {
		items := append([]string{PromptBack}, ranking.IDs()...)
		selector := promptui.Select{
			Label: "Select candidate id",
			Items: items,
		}

		_, id, err := selector.Run()
		if err != nil {
			return err
		}

		if id == PromptBack {
			return nil
		}

		result := ranking.FindByID(id)
		if result == nil {
			return fmt.Errorf("there is no such candidate id %s", id)
		}

		analysis := skills.Analyze(result.Candidate.Skills, ranking.Job.RequiredSkills)
		if err := printJSON(cmd.OutOrStdout(), analysis); err != nil {
			return err
		}
	}
}

func exportExcel(logger *zap.Logger, ranking *matching.Ranking, path string) error {
	written, err := export.RankingToExcel(ranking, path, time.Now())
	if err != nil {
		return fmt.Errorf("export to xlsx: %w", err)
	}
	logger.Info("ranking exported", zap.String("filename", written))
	return nil
}

func appendToExcludeFile(rt *runtime, ranking *matching.Ranking) error {
	path := strings.TrimSpace(rt.config.Ranking.ExcludeFile)
	if path == "" {
		return errors.New("exclude file is not set (use --exclude-file or ranking.exclude-file)")
	}

	excluded, err := filtering.LoadExcluded(path)
	if err != nil {
		return fmt.Errorf("load excluded candidates: %w", err)
	}

	added := excluded.Append(filtering.ToExcluded(ranking, "shortlisted", time.Now()))
	if err := excluded.ToFile(path); err != nil {
		return fmt.Errorf("write excluded candidates: %w", err)
	}

	rt.logger.Info("candidates appended to exclude file",
		zap.String("exclude_file", path),
		zap.Int("added", added),
		zap.Int("total", len(excluded.Items)),
	)
	return nil
}

func prepareFilters(ctx context.Context, rt *runtime) []filtering.Filter {
	cfg := rt.config

	aiConfig := &filtering.AIAnalysisConfig{
		Enabled:     cfg.AI.Enabled,
		Provider:    cfg.AI.Provider,
		Model:       cfg.AI.Gemini.Model,
		TopN:        cfg.AI.TopN,
		Concurrency: cfg.AI.Concurrency,
	}

	var deps *filtering.AIAnalysisDeps
	if cfg.AI.Enabled {
		deps = &filtering.AIAnalysisDeps{
			Analyzer: rt.aiService(ctx),
			Logger:   logger.WithCommonFields(rt.logger, gemini.Provider, cfg.AI.Gemini.Model),
		}
	}

	return []filtering.Filter{
		filtering.NewMinScore(cfg.Ranking.MinimumScore, rt.logger),
		filtering.NewExcludeFile(cfg.Ranking.ExcludeFile, rt.logger),
		filtering.NewAIAnalysis(aiConfig, deps),
	}
}
