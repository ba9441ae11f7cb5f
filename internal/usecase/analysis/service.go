// Пакет analysis управляет конвейером анализа писем: классификация,
// резюме, самопроверка и при необходимости одна попытка доработки.
package analysis

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"email-ai-agent/internal/domain"
	"email-ai-agent/internal/infra/metrics"
)

// confidenceThreshold зарезервирован под будущий критерий запуска
// доработки. Сейчас решение принимает только вердикт improvementNeeded.
const confidenceThreshold = 0.8

// Service реализует конвейер анализа поверх LLM-этапов и хранилища.
type Service struct {
	stages domain.AnalysisStages
	store  domain.ResultStore
	logger zerolog.Logger
}

// NewService создаёт конвейер анализа писем.
func NewService(stages domain.AnalysisStages, store domain.ResultStore, logger zerolog.Logger) *Service {
	return &Service{stages: stages, store: store, logger: logger}
}

// ProcessEmail прогоняет одно письмо через все этапы. Любой необработанный
// сбой этапа превращается в запись об ошибке с нулевой уверенностью:
// результат возвращается всегда.
func (s *Service) ProcessEmail(ctx context.Context, email domain.EmailMessage) domain.ProcessedEmail {
	timeOfDay := domain.TimeOfDayFor(receivedAt(email))

	classification, err := s.stages.Classify(ctx, email)
	if err != nil {
		return s.errorResult(email, timeOfDay, err)
	}

	summary, err := s.stages.Summarize(ctx, email)
	if err != nil {
		return s.errorResult(email, timeOfDay, err)
	}

	initial := buildResult(email, classification, summary, timeOfDay)

	evaluation, err := s.stages.Evaluate(ctx, email, classification, summary)
	if err != nil {
		return s.errorResult(email, timeOfDay, err)
	}

	if !evaluation.ImprovementNeeded {
		metrics.IncEmailProcessed(false)
		return initial
	}

	s.logger.Info().Str("email_id", email.ID).
		Str("reason", evaluation.ReasonForImprovement).
		Msg("analysis: запускается доработка анализа")

	improved, err := s.stages.Improve(ctx, email, initial, evaluation.SuggestedImprovements)
	if err != nil {
		return s.errorResult(email, timeOfDay, err)
	}

	// Часть суток вычисляется один раз и переживает доработку.
	final := buildResult(email, improved.Classification, improved.Summary, timeOfDay)
	metrics.IncEmailProcessed(false)
	return final
}

// Run обрабатывает пачку писем по одному, сохраняя каждый результат сразу
// после получения. Ошибка сохранения не прерывает обработку остальных.
func (s *Service) Run(ctx context.Context, emails []domain.EmailMessage, onResult func(domain.ProcessedEmail)) []domain.ProcessedEmail {
	results := make([]domain.ProcessedEmail, 0, len(emails))
	for _, email := range emails {
		result := s.ProcessEmail(ctx, email)
		result.ProcessedAt = time.Now().UTC().Format(time.RFC3339)

		if err := s.store.AppendResult(result); err != nil {
			s.logger.Error().Err(err).Str("email_id", email.ID).
				Msg("analysis: не удалось сохранить результат")
		}

		results = append(results, result)
		if onResult != nil {
			onResult(result)
		}
	}
	return results
}

func buildResult(email domain.EmailMessage, classification domain.ClassificationResult, summary domain.SummaryResult, timeOfDay domain.TimeOfDay) domain.ProcessedEmail {
	return domain.ProcessedEmail{
		ID:        email.ID,
		ThreadID:  email.ThreadID,
		Subject:   email.Subject,
		From:      email.From,
		Date:      email.Date,
		IsRead:    email.IsRead,
		EmailLink: email.EmailLink,
		Timestamp: email.Timestamp,
		Classification: domain.StoredClassification{
			ClassificationResult: classification,
			TimeOfDay:            timeOfDay,
		},
		Summary: summary,
	}
}

// errorResult синтезирует запись о сбое всего конвейера. В отличие от
// заглушек отдельных этапов уверенность здесь нулевая.
func (s *Service) errorResult(email domain.EmailMessage, timeOfDay domain.TimeOfDay, err error) domain.ProcessedEmail {
	s.logger.Error().Err(err).Str("email_id", email.ID).
		Msg("analysis: конвейер завершился ошибкой")
	metrics.IncEmailProcessed(true)

	return buildResult(email,
		domain.ClassificationResult{
			Priority:   domain.PriorityNormal,
			Reasoning:  "Error in processing",
			Confidence: 0,
		},
		domain.SummaryResult{
			KeyPoints:         []string{"Error in processing"},
			ActionItems:       []string{},
			SuggestedResponse: "Unable to process email",
			Confidence:        0,
		},
		timeOfDay)
}

func receivedAt(email domain.EmailMessage) time.Time {
	if email.Timestamp > 0 {
		return time.UnixMilli(email.Timestamp)
	}
	return time.Now()
}
