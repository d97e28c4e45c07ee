package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/spigell/skillmatch/internal/ai"
	"github.com/spigell/skillmatch/internal/ingestion"
)

var cvCmd = &cobra.Command{
	Use:   "cv",
	Short: "Build a structured CV from an interview transcript or a document",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return cv(cmd)
	},
}

func init() {
	rootCmd.AddCommand(cvCmd)

	cvCmd.Flags().StringP("file", "f", "", "transcript or CV document (txt, md, pdf or docx)")
	cvCmd.MarkFlagRequired("file")
}

type cvOutput struct {
	Origin ai.Origin  `json:"origin"`
	CV     *ai.CVData `json:"cv"`
}

func cv(cmd *cobra.Command) error {
	ctx := context.Background()

	rt, err := setup(ctx)
	if err != nil {
		return err
	}
	defer rt.close()

	path := cmd.Flag("file").Value.String()

	transcript, err := ingestion.ExtractText(path)
	if err != nil {
		return fmt.Errorf("reading the transcript %s: %w", path, err)
	}

	data, origin := rt.aiService(ctx).GenerateCV(ctx, transcript)

	rt.logger.Info("cv generated",
		zap.String("filename", path),
		zap.String("origin", string(origin)),
		zap.Int("skills", len(data.Skills)),
	)

	return printJSON(cmd.OutOrStdout(), cvOutput{Origin: origin, CV: data})
}
