package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"unicode/utf8"

	_ "embed"

	"github.com/xeipuuv/gojsonschema"
	"go.uber.org/zap"
	"google.golang.org/genai"

	"github.com/spigell/skillmatch/internal/ai"
	"github.com/spigell/skillmatch/internal/utils"
)

type contentGenerator interface {
	GenerateContent(ctx context.Context, prompt string, config *genai.GenerateContentConfig) (string, error)
}

//go:embed cv_prompt.md
var cvPromptTemplate string

//go:embed cv_schema.json
var cvSchemaJSON string

const defaultMaxLogLength = 200

var cvSchema = sync.OnceValues(func() (*gojsonschema.Schema, error) {
	return gojsonschema.NewSchema(gojsonschema.NewStringLoader(cvSchemaJSON))
})

// cvResponseSchema mirrors cv_schema.json for the structured output request.
var cvResponseSchema = &genai.Schema{
	Type: genai.TypeObject,
	Properties: map[string]*genai.Schema{
		"fullName": {Type: genai.TypeString},
		"summary":  {Type: genai.TypeString},
		"skills": {
			Type:  genai.TypeArray,
			Items: &genai.Schema{Type: genai.TypeString},
		},
		"experience": {
			Type: genai.TypeArray,
			Items: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"role":     {Type: genai.TypeString},
					"company":  {Type: genai.TypeString},
					"duration": {Type: genai.TypeString},
				},
			},
		},
		"education": {Type: genai.TypeString},
	},
	Required: []string{"fullName", "summary", "skills"},
}

type CVExtractor struct {
	generator contentGenerator
	logger    *zap.Logger
	maxLogLen int
}

func NewCVExtractor(generator contentGenerator, logger *zap.Logger, maxLogLength int) *CVExtractor {
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &CVExtractor{
		generator: generator,
		logger:    logger,
		maxLogLen: maxLogLength,
	}
}

// ExtractCV asks Gemini for a structured CV and validates the answer against
// the CV schema.
func (e *CVExtractor) ExtractCV(ctx context.Context, transcript string) (*ai.CVData, error) {
	if strings.TrimSpace(transcript) == "" {
		return nil, errors.New("transcript is required")
	}

	prompt := strings.ReplaceAll(cvPromptTemplate, "{{TRANSCRIPT}}", strings.TrimSpace(transcript))

	e.logger.Debug("gemini cv extraction request",
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", utils.TruncateForLog(prompt, e.maxLogLen)),
	)

	raw, err := e.generator.GenerateContent(ctx, prompt, &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
		ResponseSchema:   cvResponseSchema,
	})
	if err != nil {
		return nil, err
	}

	e.logger.Debug("gemini cv extraction response",
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", utils.TruncateForLog(raw, e.maxLogLen)),
	)

	return parseCV(raw)
}

func parseCV(raw string) (*ai.CVData, error) {
	cleaned := extractJSON(raw)

	schema, err := cvSchema()
	if err != nil {
		return nil, fmt.Errorf("load cv schema: %w", err)
	}

	result, err := schema.Validate(gojsonschema.NewStringLoader(cleaned))
	if err != nil {
		return nil, fmt.Errorf("parse gemini response: %w", err)
	}
	if !result.Valid() {
		problems := make([]string, 0, len(result.Errors()))
		for _, desc := range result.Errors() {
			problems = append(problems, desc.String())
		}
		return nil, fmt.Errorf("gemini response does not match cv schema: %s", strings.Join(problems, "; "))
	}

	var cv ai.CVData
	if err := json.Unmarshal([]byte(cleaned), &cv); err != nil {
		return nil, fmt.Errorf("decode cv: %w", err)
	}

	return &cv, nil
}

func extractJSON(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		raw = strings.TrimSpace(raw)
		if idx := strings.LastIndex(raw, "```"); idx != -1 {
			raw = raw[:idx]
		}
	}
	raw = strings.Trim(raw, "`")
	return strings.TrimSpace(raw)
}
