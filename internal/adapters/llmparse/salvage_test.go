package llmparse

import (
	"errors"
	"testing"

	"email-ai-agent/internal/domain"
)

func TestSalvagePortfolioZipsFields(t *testing.T) {
	text := `
"projectTitle": "AI Recipe Lab", "projectDescription": "Готовит рецепты по фото холодильника",
"relevantSkills": ["Go", "Computer Vision", "REST API"], "difficultyLevel": "Advanced",
"estimatedTimeToComplete": "3-4 weeks", "whyRelevant": "Редкое сочетание навыков",
"projectTitle": "Voice Budget Tracker"
`
	cause := errors.New("исходная ошибка")
	got, err := SalvagePortfolio(text, cause)
	if err != nil {
		t.Fatalf("не ожидали ошибку: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("ожидали 2 идеи, получили %d", len(got))
	}
	first := got[0]
	if first.ProjectTitle != "AI Recipe Lab" || first.DifficultyLevel != domain.DifficultyAdvanced {
		t.Fatalf("неверно восстановленная первая идея: %+v", first)
	}
	if len(first.RelevantSkills) != 3 || first.RelevantSkills[1] != "Computer Vision" {
		t.Fatalf("неверно восстановленные навыки: %v", first.RelevantSkills)
	}
	if first.Confidence != defaultConfidence {
		t.Fatalf("ожидали уверенность по умолчанию, получили %v", first.Confidence)
	}

	second := got[1]
	if second.ProjectTitle != "Voice Budget Tracker" {
		t.Fatalf("неверный заголовок второй идеи: %q", second.ProjectTitle)
	}
	if second.DifficultyLevel != defaultDifficulty || second.EstimatedTimeToComplete != defaultTime {
		t.Fatalf("ожидали значения по умолчанию, получили %+v", second)
	}
	if len(second.RelevantSkills) != len(defaultSkills) {
		t.Fatalf("ожидали канонический список навыков, получили %v", second.RelevantSkills)
	}
}

func TestSalvagePortfolioRequiresTitle(t *testing.T) {
	cause := errors.New("исходная ошибка")
	_, err := SalvagePortfolio(`"projectDescription": "без заголовка"`, cause)
	if !errors.Is(err, cause) {
		t.Fatalf("ожидали исходную ошибку разбора, получили %v", err)
	}
}
