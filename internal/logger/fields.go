package logger

import (
	"strings"

	"go.uber.org/zap"
)

// Structured field keys shared by the AI and ranking components.
const (
	FieldProvider  = "ai_provider"
	FieldModel     = "ai_model"
	FieldCandidate = "candidate_id"
	FieldJob       = "job_id"
)

type StringField struct {
	Key   string
	Value string
}

// StringFields converts pairs into zap fields. Pairs with a blank key or
// value are skipped so entries stay compact when data is missing.
func StringFields(pairs ...StringField) []zap.Field {
	fields := make([]zap.Field, 0, len(pairs))
	for _, p := range pairs {
		key, value := strings.TrimSpace(p.Key), strings.TrimSpace(p.Value)
		if key == "" || value == "" {
			continue
		}
		fields = append(fields, zap.String(key, value))
	}
	return fields
}

// With attaches fields to log. A nil log becomes a no-op logger.
func With(log *zap.Logger, fields ...zap.Field) *zap.Logger {
	if log == nil {
		log = zap.NewNop()
	}
	if len(fields) == 0 {
		return log
	}
	return log.With(fields...)
}

// WithCommonFields tags log with the AI provider and model.
func WithCommonFields(log *zap.Logger, provider, model string) *zap.Logger {
	return With(log, StringFields(
		StringField{Key: FieldProvider, Value: provider},
		StringField{Key: FieldModel, Value: model},
	)...)
}

// WithMatchFields tags log with the candidate and job of one match.
func WithMatchFields(log *zap.Logger, candidateID, jobID string) *zap.Logger {
	return With(log, StringFields(
		StringField{Key: FieldCandidate, Value: candidateID},
		StringField{Key: FieldJob, Value: jobID},
	)...)
}
