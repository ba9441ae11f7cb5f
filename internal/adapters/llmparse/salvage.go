package llmparse

import (
	"fmt"
	"regexp"
	"strings"

	"email-ai-agent/internal/domain"
)

// Регекспы полевого восстановления: каждое поле идеи ищется независимо
// как строка в кавычках или список в скобках.
var (
	titleRe      = regexp.MustCompile(`"projectTitle"\s*:\s*"([^"]+)"`)
	descRe       = regexp.MustCompile(`"projectDescription"\s*:\s*"([^"]+)"`)
	skillsListRe = regexp.MustCompile(`"relevantSkills"\s*:\s*\[([^\]]+)\]`)
	difficultyRe = regexp.MustCompile(`"difficultyLevel"\s*:\s*"([^"]+)"`)
	timeRe       = regexp.MustCompile(`"estimatedTimeToComplete"\s*:\s*"([^"]+)"`)
	whyRe        = regexp.MustCompile(`"whyRelevant"\s*:\s*"([^"]+)"`)
)

// Значения по умолчанию для полей, которые не удалось восстановить.
var defaultSkills = []string{"AI Integration", "React.js", "Next.js", "Node.js", "Responsive Design"}

const (
	defaultDifficulty  = domain.DifficultyIntermediate
	defaultTime        = "2-3 weeks"
	defaultWhyRelevant = "This project showcases in-demand skills and modern technologies"
	defaultConfidence  = 0.85
)

// SalvagePortfolio восстанавливает идеи проектов из текста по отдельным
// полям, когда обычные стратегии разбора исчерпаны. Поля с одинаковым
// индексом склеиваются в один объект, недостающие заменяются значениями по
// умолчанию. Без единого восстановленного заголовка возвращается исходная
// ошибка разбора.
func SalvagePortfolio(text string, cause error) ([]domain.PortfolioProjectSuggestion, error) {
	titles := captures(titleRe, text)
	if len(titles) == 0 {
		return nil, cause
	}

	descriptions := captures(descRe, text)
	skillLists := captures(skillsListRe, text)
	difficulties := captures(difficultyRe, text)
	times := captures(timeRe, text)
	whys := captures(whyRe, text)

	suggestions := make([]domain.PortfolioProjectSuggestion, 0, len(titles))
	for i, title := range titles {
		suggestions = append(suggestions, domain.PortfolioProjectSuggestion{
			ProjectTitle:            title,
			ProjectDescription:      indexOrDefault(descriptions, i, fmt.Sprintf("Description for project %d", i+1)),
			RelevantSkills:          skillsAt(skillLists, i),
			DifficultyLevel:         domain.Difficulty(indexOrDefault(difficulties, i, string(defaultDifficulty))),
			EstimatedTimeToComplete: indexOrDefault(times, i, defaultTime),
			WhyRelevant:             indexOrDefault(whys, i, defaultWhyRelevant),
			Confidence:              defaultConfidence,
		})
	}
	return suggestions, nil
}

func captures(re *regexp.Regexp, text string) []string {
	matches := re.FindAllStringSubmatch(text, -1)
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		out = append(out, m[1])
	}
	return out
}

func indexOrDefault(values []string, i int, fallback string) string {
	if i < len(values) && strings.TrimSpace(values[i]) != "" {
		return values[i]
	}
	return fallback
}

func skillsAt(lists []string, i int) []string {
	if i >= len(lists) {
		return append([]string(nil), defaultSkills...)
	}
	parts := strings.Split(lists[i], ",")
	skills := make([]string, 0, len(parts))
	for _, part := range parts {
		skill := strings.TrimSpace(strings.ReplaceAll(part, `"`, ""))
		if skill == "" {
			continue
		}
		skills = append(skills, skill)
	}
	if len(skills) == 0 {
		return append([]string(nil), defaultSkills...)
	}
	return skills
}
