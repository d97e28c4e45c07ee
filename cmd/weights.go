package cmd

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/skillmatch/internal/employability"
)

const PromptDone = "done"

var weightsCmd = &cobra.Command{
	Use:   "weights",
	Short: "Show or change the persisted employability weights",
}

var weightsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective weights",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withWeights(cmd, func(ctx context.Context, w *employability.Weights, _ *zap.Logger) error {
			return printWeights(cmd, w.Load(ctx))
		})
	},
}

var weightsSetCmd = &cobra.Command{
	Use:   "set FACTOR_ID WEIGHT",
	Short: "Set the weight of one factor",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withWeights(cmd, func(ctx context.Context, w *employability.Weights, logger *zap.Logger) error {
			weight, err := parseWeight(args[1])
			if err != nil {
				return err
			}

			factors, err := setWeight(w.Load(ctx), args[0], weight)
			if err != nil {
				return err
			}

			if err := w.Save(ctx, factors); err != nil {
				return err
			}

			logger.Info("weight saved", zap.String("factor", args[0]), zap.Int("weight", weight))
			return printWeights(cmd, factors)
		})
	},
}

var weightsResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Restore the default weights",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withWeights(cmd, func(ctx context.Context, w *employability.Weights, logger *zap.Logger) error {
			factors, err := w.Reset(ctx)
			if err != nil {
				return err
			}

			logger.Info("weights reset to defaults")
			return printWeights(cmd, factors)
		})
	},
}

var weightsEditCmd = &cobra.Command{
	Use:   "edit",
	Short: "Edit the weights interactively",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withWeights(cmd, func(ctx context.Context, w *employability.Weights, logger *zap.Logger) error {
			factors, err := editWeights(w.Load(ctx))
			if err != nil {
				return err
			}

			if err := w.Save(ctx, factors); err != nil {
				return err
			}

			logger.Info("weights saved", zap.Int("final_score", employability.Score(factors)))
			return printWeights(cmd, factors)
		})
	},
}

func init() {
	weightsCmd.AddCommand(weightsShowCmd, weightsSetCmd, weightsResetCmd, weightsEditCmd)
	rootCmd.AddCommand(weightsCmd)
}

func withWeights(cmd *cobra.Command, fn func(ctx context.Context, w *employability.Weights, logger *zap.Logger) error) error {
	ctx := context.Background()

	rt, err := setup(ctx)
	if err != nil {
		return err
	}
	defer rt.close()

	if err := fn(ctx, employability.NewWeights(rt.store, rt.logger), rt.logger); err != nil {
		return fmt.Errorf("%s: %w", cmd.CommandPath(), err)
	}
	return nil
}

func printWeights(cmd *cobra.Command, factors []employability.Factor) error {
	final := employability.Score(factors)
	return printJSON(cmd.OutOrStdout(), scoreOutput{
		FinalScore: final,
		Grade:      employability.GradeFor(final),
		Factors:    factors,
	})
}

func parseWeight(raw string) (int, error) {
	weight, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("weight must be an integer: %w", err)
	}
	if weight < employability.MinValue || weight > employability.MaxValue {
		return 0, fmt.Errorf("weight must be between %d and %d", employability.MinValue, employability.MaxValue)
	}
	return weight, nil
}

func setWeight(factors []employability.Factor, id string, weight int) ([]employability.Factor, error) {
	if _, ok := employability.Find(factors, id); !ok {
		return nil, fmt.Errorf("unknown factor %q", id)
	}
	return employability.WithWeight(factors, id, weight), nil
}

func editWeights(factors []employability.Factor) ([]employability.Factor, error) {
	for {
		items := []string{PromptDone}
		for _, f := range factors {
			items = append(items, f.ID)
		}

		selector := promptui.Select{
			Label: fmt.Sprintf("Select factor (current score %d)", employability.Score(factors)),
			Items: items,
		}

		_, id, err := selector.Run()
		if err != nil {
			return nil, err
		}

		if id == PromptDone {
			return factors, nil
		}

		current, _ := employability.Find(factors, id)
		input := promptui.Prompt{
			Label:   fmt.Sprintf("Weight for %s", current.Name),
			Default: strconv.Itoa(current.Weight),
			Validate: func(raw string) error {
				_, err := parseWeight(raw)
				return err
			},
		}

		raw, err := input.Run()
		if err != nil {
			if errors.Is(err, promptui.ErrInterrupt) {
				return nil, err
			}
			return nil, fmt.Errorf("reading weight: %w", err)
		}

		weight, err := parseWeight(raw)
		if err != nil {
			return nil, err
		}

		factors, err = setWeight(factors, id, weight)
		if err != nil {
			return nil, err
		}
	}
}
