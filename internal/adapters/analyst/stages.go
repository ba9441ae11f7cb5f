// Пакет analyst реализует LLM-этапы анализа письма: классификацию,
// резюмирование, оценку и доработку. Каждый этап переживает сбой модели
// или разбора, подставляя ответ по умолчанию с пониженной уверенностью.
package analyst

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/rs/zerolog"

	"email-ai-agent/internal/adapters/llmparse"
	"email-ai-agent/internal/domain"
	"email-ai-agent/internal/infra/llm"
	"email-ai-agent/internal/infra/metrics"
)

type completer interface {
	Complete(ctx context.Context, req llm.Request) (llm.Response, error)
}

// Stages реализует domain.AnalysisStages.
type Stages struct {
	llm         completer
	model       string
	temperature float64
	logger      zerolog.Logger
}

var _ domain.AnalysisStages = (*Stages)(nil)

// NewStages создаёт набор этапов анализа поверх заданной модели.
func NewStages(client completer, model string, temperature float64, logger zerolog.Logger) *Stages {
	return &Stages{llm: client, model: model, temperature: temperature, logger: logger}
}

// Classify определяет приоритет письма.
func (s *Stages) Classify(ctx context.Context, email domain.EmailMessage) (domain.ClassificationResult, error) {
	var out domain.ClassificationResult
	if err := s.completeJSON(ctx, stageClassify, classifyPrompt(email), &out); err != nil {
		if ctx.Err() != nil {
			return domain.ClassificationResult{}, err
		}
		s.reportFailure(stageClassify, email.ID, err)
		return fallbackClassification(), nil
	}
	return out, nil
}

// Summarize извлекает ключевые пункты и требуемые действия.
func (s *Stages) Summarize(ctx context.Context, email domain.EmailMessage) (domain.SummaryResult, error) {
	var out domain.SummaryResult
	if err := s.completeJSON(ctx, stageSummarize, summarizePrompt(email), &out); err != nil {
		if ctx.Err() != nil {
			return domain.SummaryResult{}, err
		}
		s.reportFailure(stageSummarize, email.ID, err)
		return fallbackSummary(), nil
	}
	return out, nil
}

// Evaluate проверяет качество уже полученного анализа. При сбое считает
// анализ точным и не требующим доработки.
func (s *Stages) Evaluate(ctx context.Context, email domain.EmailMessage, classification domain.ClassificationResult, summary domain.SummaryResult) (domain.EvaluationResult, error) {
	classJSON, err := json.Marshal(classification)
	if err != nil {
		return domain.EvaluationResult{}, fmt.Errorf("сериализация классификации: %w", err)
	}
	sumJSON, err := json.Marshal(summary)
	if err != nil {
		return domain.EvaluationResult{}, fmt.Errorf("сериализация резюме: %w", err)
	}

	var out domain.EvaluationResult
	if err := s.completeJSON(ctx, stageEvaluate, evaluatePrompt(email, string(classJSON), string(sumJSON)), &out); err != nil {
		if ctx.Err() != nil {
			return domain.EvaluationResult{}, err
		}
		s.reportFailure(stageEvaluate, email.ID, err)
		return fallbackEvaluation(), nil
	}
	return out, nil
}

// Improve пересобирает анализ с учётом предложенных улучшений.
func (s *Stages) Improve(ctx context.Context, email domain.EmailMessage, previous domain.ProcessedEmail, improvements []string) (domain.ImprovedAnalysis, error) {
	prevJSON, err := json.Marshal(previous)
	if err != nil {
		return domain.ImprovedAnalysis{}, fmt.Errorf("сериализация предыдущего анализа: %w", err)
	}
	improvJSON, err := json.Marshal(improvements)
	if err != nil {
		return domain.ImprovedAnalysis{}, fmt.Errorf("сериализация списка улучшений: %w", err)
	}

	var out domain.ImprovedAnalysis
	if err := s.completeJSON(ctx, stageImprove, improvePrompt(email, string(prevJSON), string(improvJSON)), &out); err != nil {
		if ctx.Err() != nil {
			return domain.ImprovedAnalysis{}, err
		}
		s.reportFailure(stageImprove, email.ID, err)
		return fallbackImprovement(), nil
	}
	return out, nil
}

// completeJSON выполняет запрос к модели и разбирает JSON-ответ в target.
func (s *Stages) completeJSON(ctx context.Context, stage, prompt string, target any) error {
	resp, err := s.llm.Complete(ctx, llm.Request{
		Model:       s.model,
		Prompt:      prompt,
		Temperature: s.temperature,
	})
	if err != nil {
		return fmt.Errorf("этап %s: %w", stage, err)
	}
	if err := llmparse.JSON(llmparse.Text(resp), target); err != nil {
		return fmt.Errorf("этап %s: %w", stage, err)
	}
	return nil
}

func (s *Stages) reportFailure(stage, emailID string, err error) {
	metrics.IncStageFailure(stage)
	s.logger.Warn().Err(err).
		Str("stage", stage).
		Str("email_id", emailID).
		Msg("analyst: этап завершился ошибкой, подставлен ответ по умолчанию")
}

func fallbackClassification() domain.ClassificationResult {
	return domain.ClassificationResult{
		Priority:   domain.PriorityNormal,
		Reasoning:  "Error in processing",
		Confidence: 0.5,
	}
}

func fallbackSummary() domain.SummaryResult {
	return domain.SummaryResult{
		KeyPoints:         []string{"Error in processing"},
		ActionItems:       []string{},
		SuggestedResponse: "Unable to process email",
		Confidence:        0.5,
	}
}

func fallbackEvaluation() domain.EvaluationResult {
	return domain.EvaluationResult{IsAccurate: true, ImprovementNeeded: false}
}

func fallbackImprovement() domain.ImprovedAnalysis {
	return domain.ImprovedAnalysis{
		Classification: fallbackClassification(),
		Summary:        fallbackSummary(),
	}
}
