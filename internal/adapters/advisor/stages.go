// Пакет advisor реализует агрегатные LLM-шаги по пачке писем Upwork:
// анализ спроса на навыки и генерацию идей портфолио.
package advisor

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

// Имена файлов с сырыми ответами модели.
const (
	rawSkillDemandFile     = "skill-demand-analysis.txt"
	rawPortfolioIdeasFile  = "portfolio-project-ideas.txt"
	rawExtractionErrorFile = "json-extraction-error.txt"
)

type completer interface {
	Complete(ctx context.Context, req llm.Request) (llm.Response, error)
}

// Stages реализует domain.AdvisorStages. Анализ идёт с низкой температурой,
// генерация идей с повышенной ради разнообразия.
type Stages struct {
	llm            completer
	model          string
	analysisTemp   float64
	generationTemp float64
	dumper         domain.RawDumper
	logger         zerolog.Logger
}

var _ domain.AdvisorStages = (*Stages)(nil)

// NewStages создаёт советника поверх заданной модели.
func NewStages(client completer, model string, analysisTemp, generationTemp float64, dumper domain.RawDumper, logger zerolog.Logger) *Stages {
	return &Stages{
		llm:            client,
		model:          model,
		analysisTemp:   analysisTemp,
		generationTemp: generationTemp,
		dumper:         dumper,
		logger:         logger,
	}
}

// AnalyzeSkillDemand строит сводку спроса на навыки по письмам Upwork.
// При сбое модели или разбора возвращает пустую сводку без ошибки.
func (s *Stages) AnalyzeSkillDemand(ctx context.Context, emails []domain.UpworkEmail) (domain.SkillDemandAnalysis, error) {
	emailsJSON, err := json.Marshal(emails)
	if err != nil {
		return domain.SkillDemandAnalysis{}, fmt.Errorf("сериализация писем: %w", err)
	}

	resp, err := s.llm.Complete(ctx, llm.Request{
		Model:       s.model,
		Prompt:      analyzePrompt(len(emails), string(emailsJSON)),
		Temperature: s.analysisTemp,
	})
	if err != nil {
		if ctx.Err() != nil {
			return domain.SkillDemandAnalysis{}, err
		}
		s.reportFailure("skill_demand", err)
		return emptyAnalysis(), nil
	}

	text := llmparse.Text(resp)
	s.dumper.SaveRaw(rawSkillDemandFile, text)

	var out domain.SkillDemandAnalysis
	if err := llmparse.JSON(text, &out); err != nil {
		s.dumper.SaveRaw(rawExtractionErrorFile, text)
		s.reportFailure("skill_demand", err)
		return emptyAnalysis(), nil
	}
	return out, nil
}

// GeneratePortfolioProjects генерирует идеи проектов по готовой сводке
// спроса. Неразборчивый ответ сначала пытаемся спасти пофайловой вытяжкой
// полей, и лишь затем сдаёмся, возвращая пустой список.
func (s *Stages) GeneratePortfolioProjects(ctx context.Context, analysis domain.SkillDemandAnalysis) ([]domain.PortfolioProjectSuggestion, error) {
	analysisJSON, err := json.Marshal(analysis)
	if err != nil {
		return nil, fmt.Errorf("сериализация сводки спроса: %w", err)
	}

	resp, err := s.llm.Complete(ctx, llm.Request{
		Model:       s.model,
		Prompt:      generatePrompt(string(analysisJSON)),
		Temperature: s.generationTemp,
	})
	if err != nil {
		if ctx.Err() != nil {
			return nil, err
		}
		s.reportFailure("portfolio_projects", err)
		return []domain.PortfolioProjectSuggestion{}, nil
	}

	text := llmparse.Text(resp)
	s.dumper.SaveRaw(rawPortfolioIdeasFile, text)

	var out []domain.PortfolioProjectSuggestion
	if err := llmparse.JSONArray(text, &out); err != nil {
		s.dumper.SaveRaw(rawExtractionErrorFile, text)
		salvaged, salvageErr := llmparse.SalvagePortfolio(text, err)
		if salvageErr != nil {
			s.reportFailure("portfolio_projects", salvageErr)
			return []domain.PortfolioProjectSuggestion{}, nil
		}
		s.logger.Warn().Int("count", len(salvaged)).
			Msg("advisor: идеи восстановлены из неразборчивого ответа")
		return salvaged, nil
	}
	return out, nil
}

func (s *Stages) reportFailure(stage string, err error) {
	metrics.IncStageFailure(stage)
	s.logger.Warn().Err(err).Str("stage", stage).
		Msg("advisor: этап завершился ошибкой, подставлен результат по умолчанию")
}

func emptyAnalysis() domain.SkillDemandAnalysis {
	return domain.SkillDemandAnalysis{
		TopTechnologies: []domain.TechnologyDemand{},
		TopCategories:   []domain.CategoryDemand{},
		TopSkills:       []domain.SkillDemand{},
		EmergingTrends:  []string{},
		Insights:        []string{},
	}
}
