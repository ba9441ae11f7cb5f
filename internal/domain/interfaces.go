package domain

import "context"

// Mailbox предоставляет доступ к почтовому ящику.
type Mailbox interface {
	Initialize(ctx context.Context) error
	FetchRecent(ctx context.Context, max int) ([]EmailMessage, error)
}

// AnalysisStages — типизированные LLM-шаги анализа одного письма.
// Каждый шаг сам переживает сбой модели и возвращает задокументированную
// заглушку; ошибка из шага означает сбой всего конвейера для письма.
type AnalysisStages interface {
	Classify(ctx context.Context, email EmailMessage) (ClassificationResult, error)
	Summarize(ctx context.Context, email EmailMessage) (SummaryResult, error)
	Evaluate(ctx context.Context, email EmailMessage, classification ClassificationResult, summary SummaryResult) (EvaluationResult, error)
	Improve(ctx context.Context, email EmailMessage, previous ProcessedEmail, improvements []string) (ImprovedAnalysis, error)
}

// AdvisorStages — агрегатные LLM-шаги по пачке писем Upwork.
type AdvisorStages interface {
	AnalyzeSkillDemand(ctx context.Context, emails []UpworkEmail) (SkillDemandAnalysis, error)
	GeneratePortfolioProjects(ctx context.Context, analysis SkillDemandAnalysis) ([]PortfolioProjectSuggestion, error)
}

// ResultStore накапливает результаты анализа писем.
type ResultStore interface {
	AppendResult(result ProcessedEmail) error
}

// ReportStore сохраняет агрегатные отчёты Upwork.
type ReportStore interface {
	SaveSkillDemand(analysis SkillDemandAnalysis) error
	SavePortfolioSuggestions(suggestions []PortfolioProjectSuggestion) error
}

// RawDumper сохраняет сырые ответы модели для разбора сбоев.
// Реализации никогда не возвращают ошибку наружу.
type RawDumper interface {
	SaveRaw(name, text string)
}
