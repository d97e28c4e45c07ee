// Package ai is the boundary to the generative AI provider. Service adds PII
// redaction, response caching and demo fallbacks on top of the provider.
package ai

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"go.uber.org/zap"

	"github.com/spigell/skillmatch/internal/cache"
	"github.com/spigell/skillmatch/internal/privacy"
)

// Origin tells where a Service answer came from.
type Origin string

const (
	OriginAI       Origin = "ai"
	OriginCache    Origin = "cache"
	OriginFallback Origin = "fallback"
)

const (
	cvKeyPrefix    = "cv_"
	matchKeyPrefix = "match_"
	// only the beginning of a transcript identifies it
	cvKeyRunes = 100
)

const (
	MatchDemoMessage        = "AI Analysis unavailable (Demo Mode). Please configure API Key to enable live analysis."
	MatchUnavailableMessage = "Analysis unavailable due to service interruption."
	MatchEmptyMessage       = "Analysis complete but no text returned."
	ChatDemoMessage         = "I'm currently in demo mode. Connect your API key to chat with me!"
	ChatUnavailableMessage  = "Service temporary unavailable."
	ChatEmptyMessage        = "I didn't catch that."
)

type ServiceDeps struct {
	Extractor CVExtractor
	Analyst   MatchAnalyst
	Chat      ChatResponder
	Cache     *cache.Cache
	TTL       time.Duration
	Logger    *zap.Logger
}

type Service struct {
	extractor CVExtractor
	analyst   MatchAnalyst
	chat      ChatResponder
	cache     *cache.Cache
	ttl       time.Duration
	logger    *zap.Logger
}

// NewService builds a Service. Any provider may be nil, in which case the
// matching call answers with demo data.
func NewService(deps ServiceDeps) *Service {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	ttl := deps.TTL
	if ttl <= 0 {
		ttl = cache.DefaultTTL
	}

	return &Service{
		extractor: deps.Extractor,
		analyst:   deps.Analyst,
		chat:      deps.Chat,
		cache:     deps.Cache,
		ttl:       ttl,
		logger:    logger,
	}
}

// GenerateCV extracts a CV from a transcript. It always returns data: on a
// missing provider or a failed call the demo CV is returned.
func (s *Service) GenerateCV(ctx context.Context, transcript string) (*CVData, Origin) {
	safe := privacy.RedactPII(transcript)
	key := CVCacheKey(safe)

	if cached, ok := s.cache.Get(ctx, key); ok {
		var cv CVData
		err := decode(cached, &cv)
		if err == nil {
			s.logger.Debug("cv served from cache", zap.String("key", key))
			return &cv, OriginCache
		}
		s.logger.Debug("cached cv is not decodable", zap.String("key", key), zap.Error(err))
	}

	if s.extractor == nil {
		s.logger.Info("using demo cv data", zap.String("reason", "ai provider is not configured"))
		return MockCV(), OriginFallback
	}

	cv, err := s.extractor.ExtractCV(ctx, safe)
	if err != nil {
		s.logger.Error("cv extraction failed, using demo cv data", zap.Error(err))
		return MockCV(), OriginFallback
	}

	s.store(ctx, key, cv)
	return cv, OriginAI
}

// AnalyzeMatch returns a short narrative of the candidate/job fit.
func (s *Service) AnalyzeMatch(ctx context.Context, req MatchRequest) (string, Origin) {
	key := MatchCacheKey(req)

	if cached, ok := s.cache.Get(ctx, key); ok {
		if text, ok := cached.(string); ok {
			s.logger.Debug("match analysis served from cache", zap.String("key", key))
			return text, OriginCache
		}
	}

	if s.analyst == nil {
		return MatchDemoMessage, OriginFallback
	}

	text, err := s.analyst.AnalyzeMatch(ctx, req)
	if err != nil {
		s.logger.Error("match analysis failed", zap.String("candidate", req.CandidateName), zap.Error(err))
		return MatchUnavailableMessage, OriginFallback
	}

	if strings.TrimSpace(text) == "" {
		text = MatchEmptyMessage
	}

	s.store(ctx, key, text)
	return text, OriginAI
}

// Chat answers a single assistant message. Answers are not cached.
func (s *Service) Chat(ctx context.Context, message string, chat ChatContext) (string, Origin) {
	if s.chat == nil {
		return ChatDemoMessage, OriginFallback
	}

	text, err := s.chat.Chat(ctx, message, chat)
	if err != nil {
		s.logger.Error("chat failed", zap.Error(err))
		return ChatUnavailableMessage, OriginFallback
	}

	if strings.TrimSpace(text) == "" {
		return ChatEmptyMessage, OriginAI
	}

	return text, OriginAI
}

func (s *Service) store(ctx context.Context, key string, value any) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, key, value, s.ttl); err != nil {
		s.logger.Warn("failed to set ai cache", zap.String("key", key), zap.Error(err))
	}
}

// CVCacheKey identifies a redacted transcript by its first runes.
func CVCacheKey(transcript string) string {
	runes := []rune(transcript)
	if len(runes) > cvKeyRunes {
		runes = runes[:cvKeyRunes]
	}
	return cvKeyPrefix + cache.Hash(string(runes))
}

// MatchCacheKey identifies a match analysis request.
func MatchCacheKey(req MatchRequest) string {
	input := fmt.Sprintf("%s-%s-%s-%s",
		req.CandidateName,
		req.JobTitle,
		strings.Join(req.CandidateSkills, ","),
		strings.Join(req.JobSkills, ","),
	)
	return matchKeyPrefix + cache.Hash(input)
}

// decode converts a generic cached value into a typed one using the json
// field names.
func decode(input any, output any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		Result:           output,
		WeaklyTypedInput: true,
	})
	if err != nil {
		return err
	}
	return decoder.Decode(input)
}

// MockCV is returned when the AI provider is unavailable.
func MockCV() *CVData {
	return &CVData{
		FullName: "Giulia Bianchi (Demo)",
		Summary: "Experienced Project Manager with a background in logistics and team leadership. " +
			"(Note: This is generated mock data because the AI service was unavailable or the API key is missing).",
		Skills: []string{"Project Management", "Agile", "Logistics", "Team Leadership", "Communication"},
		Experience: []Experience{
			{Role: "Senior Manager", Company: "LogiTech Solutions", Duration: "3 years"},
			{Role: "Team Lead", Company: "Transport Co.", Duration: "2 years"},
		},
		Education: "MSc in Management Engineering",
	}
}
