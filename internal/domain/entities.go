package domain

// Priority описывает приоритет письма.
type Priority string

const (
	PriorityUrgent    Priority = "Urgent"
	PriorityImportant Priority = "Important"
	PriorityNormal    Priority = "Normal"
)

// Difficulty описывает уровень сложности портфолио-проекта.
type Difficulty string

const (
	DifficultyBeginner     Difficulty = "Beginner"
	DifficultyIntermediate Difficulty = "Intermediate"
	DifficultyAdvanced     Difficulty = "Advanced"
)

// EmailMessage представляет нормализованное письмо из ящика.
// После адаптера ID и ThreadID всегда заполнены: при отсутствии
// значений от провайдера подставляются синтетические.
type EmailMessage struct {
	ID        string `json:"id"`
	ThreadID  string `json:"threadId"`
	Subject   string `json:"subject"`
	From      string `json:"from"`
	Date      string `json:"date"`
	Snippet   string `json:"snippet"`
	IsRead    bool   `json:"isRead"`
	EmailLink string `json:"emailLink"`
	Timestamp int64  `json:"timestamp"`
}

// ClassificationResult содержит результат шага классификации.
type ClassificationResult struct {
	Priority   Priority `json:"priority"`
	Reasoning  string   `json:"reasoning"`
	Confidence float64  `json:"confidence"`
}

// SummaryResult содержит результат шага суммаризации.
type SummaryResult struct {
	KeyPoints         []string `json:"keyPoints"`
	ActionItems       []string `json:"actionItems"`
	SuggestedResponse string   `json:"suggestedResponse,omitempty"`
	Confidence        float64  `json:"confidence"`
}

// EvaluationResult содержит вердикт самопроверки анализа.
// Нигде не сохраняется: используется только для решения о шаге улучшения.
type EvaluationResult struct {
	IsAccurate            bool     `json:"isAccurate"`
	ImprovementNeeded     bool     `json:"improvementNeeded"`
	ReasonForImprovement  string   `json:"reasonForImprovement,omitempty"`
	SuggestedImprovements []string `json:"suggestedImprovements,omitempty"`
}

// ImprovedAnalysis содержит пару результатов после шага улучшения.
type ImprovedAnalysis struct {
	Classification ClassificationResult `json:"classification"`
	Summary        SummaryResult        `json:"summary"`
}

// StoredClassification — классификация в составе сохранённого результата,
// дополненная вычисленной частью суток.
type StoredClassification struct {
	ClassificationResult
	TimeOfDay TimeOfDay `json:"timeOfDay"`
}

// ProcessedEmail — единица сохранения: письмо без сниппета плюс итоговый
// анализ. После построения не изменяется, шаг улучшения создаёт новую запись.
type ProcessedEmail struct {
	ID             string               `json:"id"`
	ThreadID       string               `json:"threadId"`
	Subject        string               `json:"subject"`
	From           string               `json:"from"`
	Date           string               `json:"date"`
	IsRead         bool                 `json:"isRead"`
	EmailLink      string               `json:"emailLink"`
	Timestamp      int64                `json:"timestamp"`
	Classification StoredClassification `json:"classification"`
	Summary        SummaryResult        `json:"summary"`
	ProcessedAt    string               `json:"processedAt,omitempty"`
}

// UpworkEmail — сокращённое представление письма для агрегатного анализа.
type UpworkEmail struct {
	Subject string `json:"subject"`
	From    string `json:"from"`
	Content string `json:"content"`
	Date    string `json:"date"`
}

// TechnologyDemand — технология с оценкой спроса 1-10.
type TechnologyDemand struct {
	Name        string  `json:"name"`
	DemandScore float64 `json:"demandScore"`
}

// CategoryDemand — категория работ с оценкой спроса 1-10.
type CategoryDemand struct {
	Category    string  `json:"category"`
	DemandScore float64 `json:"demandScore"`
}

// SkillDemand — навык с оценкой спроса 1-10.
type SkillDemand struct {
	Skill       string  `json:"skill"`
	DemandScore float64 `json:"demandScore"`
}

// SkillDemandAnalysis — агрегатный анализ спроса по пачке писем Upwork.
type SkillDemandAnalysis struct {
	TopTechnologies []TechnologyDemand `json:"topTechnologies"`
	TopCategories   []CategoryDemand   `json:"topCategories"`
	TopSkills       []SkillDemand      `json:"topSkills"`
	EmergingTrends  []string           `json:"emergingTrends"`
	Insights        []string           `json:"insights"`
}

// IsEmpty сообщает, что анализ не содержит ни одной позиции.
func (a SkillDemandAnalysis) IsEmpty() bool {
	return len(a.TopTechnologies) == 0 && len(a.TopCategories) == 0 &&
		len(a.TopSkills) == 0 && len(a.EmergingTrends) == 0 && len(a.Insights) == 0
}

// PortfolioProjectSuggestion — идея проекта для портфолио.
type PortfolioProjectSuggestion struct {
	ProjectTitle            string     `json:"projectTitle"`
	ProjectDescription      string     `json:"projectDescription"`
	RelevantSkills          []string   `json:"relevantSkills"`
	DifficultyLevel         Difficulty `json:"difficultyLevel"`
	EstimatedTimeToComplete string     `json:"estimatedTimeToComplete"`
	WhyRelevant             string     `json:"whyRelevant"`
	Confidence              float64    `json:"confidence"`
}
