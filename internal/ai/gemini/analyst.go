package gemini

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"unicode/utf8"

	_ "embed"

	"go.uber.org/zap"

	"github.com/spigell/skillmatch/internal/ai"
	"github.com/spigell/skillmatch/internal/utils"
)

//go:embed match_prompt.md
var matchPromptTemplate string

//go:embed chat_prompt.md
var chatPromptTemplate string

// Analyst writes free-text match summaries and chat answers.
type Analyst struct {
	generator contentGenerator
	logger    *zap.Logger
	maxLogLen int
}

func NewAnalyst(generator contentGenerator, logger *zap.Logger, maxLogLength int) *Analyst {
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Analyst{
		generator: generator,
		logger:    logger,
		maxLogLen: maxLogLength,
	}
}

func (a *Analyst) AnalyzeMatch(ctx context.Context, req ai.MatchRequest) (string, error) {
	prompt := fillTemplate(matchPromptTemplate, map[string]string{
		"CANDIDATE_NAME":   req.CandidateName,
		"JOB_TITLE":        req.JobTitle,
		"CANDIDATE_SKILLS": listOrNone(req.CandidateSkills),
		"JOB_SKILLS":       listOrNone(req.JobSkills),
	})

	return a.generate(ctx, prompt, zap.String("candidate", req.CandidateName), zap.String("job", req.JobTitle))
}

func (a *Analyst) Chat(ctx context.Context, message string, chat ai.ChatContext) (string, error) {
	if strings.TrimSpace(message) == "" {
		return "", errors.New("message must not be empty")
	}

	prompt := fillTemplate(chatPromptTemplate, map[string]string{
		"CANDIDATE_NAME":      chat.CandidateName,
		"ROLE":                chat.Role,
		"EMPLOYABILITY_SCORE": strconv.Itoa(chat.EmployabilityScore),
		"WORK_PREFERENCE":     chat.WorkPreference,
		"MESSAGE":             strings.TrimSpace(message),
	})

	return a.generate(ctx, prompt, zap.String("candidate", chat.CandidateName))
}

func (a *Analyst) generate(ctx context.Context, prompt string, fields ...zap.Field) (string, error) {
	a.logger.Debug("gemini generate content request", append(fields,
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", utils.TruncateForLog(prompt, a.maxLogLen)),
	)...)

	text, err := a.generator.GenerateContent(ctx, prompt, nil)
	if err != nil {
		return "", err
	}

	a.logger.Debug("gemini generate content response", append(fields,
		zap.Int("response_length", utf8.RuneCountInString(text)),
		zap.String("response_preview", utils.TruncateForLog(text, a.maxLogLen)),
	)...)

	return text, nil
}

// fillTemplate substitutes {{KEY}} placeholders in a single pass, so values
// are never expanded again.
func fillTemplate(template string, values map[string]string) string {
	pairs := make([]string, 0, len(values)*2)
	for key, value := range values {
		pairs = append(pairs, "{{"+key+"}}", value)
	}
	return strings.NewReplacer(pairs...).Replace(template)
}

func listOrNone(items []string) string {
	if len(items) == 0 {
		return "none"
	}
	return strings.Join(items, ", ")
}
