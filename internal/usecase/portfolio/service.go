// Пакет portfolio управляет агрегатным конвейером по письмам Upwork:
// отбор писем вендора, анализ спроса на навыки и генерация идей портфолио.
package portfolio

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"email-ai-agent/internal/domain"
)

// vendorMarkers — подстроки отправителя, по которым письмо считается
// уведомлением Upwork. Сравнение без учёта регистра.
var vendorMarkers = []string{
	"upwork.com",
	"notifications.upwork.com",
	"upwork notification",
}

// Окно выборки: 4-6 марта 2025 в поясе +05:30. Если в окно не попало ни
// одного письма, анализируется весь набор писем вендора.
var (
	windowZone  = time.FixedZone("+0530", 5*3600+30*60)
	windowStart = time.Date(2025, time.March, 4, 0, 0, 0, 0, windowZone).UnixMilli()
	windowEnd   = time.Date(2025, time.March, 6, 23, 59, 59, 0, windowZone).UnixMilli()
)

// Service реализует конвейер подбора портфолио-проектов.
type Service struct {
	advisor domain.AdvisorStages
	reports domain.ReportStore
	logger  zerolog.Logger
}

// NewService создаёт конвейер подбора портфолио-проектов.
func NewService(advisor domain.AdvisorStages, reports domain.ReportStore, logger zerolog.Logger) *Service {
	return &Service{advisor: advisor, reports: reports, logger: logger}
}

// Run отбирает письма Upwork и строит по ним сводку спроса и идеи проектов.
// Без писем вендора конвейер завершается сразу, не обращаясь к модели.
// Оба отчёта сохраняются независимо от содержательности результата.
func (s *Service) Run(ctx context.Context, emails []domain.EmailMessage) ([]domain.PortfolioProjectSuggestion, error) {
	vendor := filterVendor(emails)
	s.logger.Info().Int("count", len(vendor)).Msg("portfolio: отобраны письма Upwork")
	if len(vendor) == 0 {
		s.logger.Warn().Msg("portfolio: писем Upwork нет, анализ пропущен")
		return nil, nil
	}

	windowed := filterWindow(vendor)
	s.logger.Info().Int("count", len(windowed)).Msg("portfolio: писем в целевом окне дат")
	target := windowed
	if len(target) == 0 {
		target = vendor
	}

	analysis, err := s.advisor.AnalyzeSkillDemand(ctx, toUpworkEmails(target))
	if err != nil {
		return nil, err
	}
	if err := s.reports.SaveSkillDemand(analysis); err != nil {
		s.logger.Error().Err(err).Msg("portfolio: не удалось сохранить сводку спроса")
	}
	if analysis.IsEmpty() {
		s.logger.Warn().Msg("portfolio: сводка спроса пуста, идеи строятся без опоры на данные")
	}

	suggestions, err := s.advisor.GeneratePortfolioProjects(ctx, analysis)
	if err != nil {
		return nil, err
	}
	if err := s.reports.SavePortfolioSuggestions(suggestions); err != nil {
		s.logger.Error().Err(err).Msg("portfolio: не удалось сохранить идеи проектов")
	}

	if len(suggestions) == 0 {
		s.logger.Warn().Msg("portfolio: идеи не сгенерированы, попробуйте позже на большем наборе писем")
	}
	return suggestions, nil
}

func filterVendor(emails []domain.EmailMessage) []domain.EmailMessage {
	var out []domain.EmailMessage
	for _, email := range emails {
		from := strings.ToLower(email.From)
		for _, marker := range vendorMarkers {
			if strings.Contains(from, marker) {
				out = append(out, email)
				break
			}
		}
	}
	return out
}

func filterWindow(emails []domain.EmailMessage) []domain.EmailMessage {
	var out []domain.EmailMessage
	for _, email := range emails {
		if email.Timestamp >= windowStart && email.Timestamp <= windowEnd {
			out = append(out, email)
		}
	}
	return out
}

// toUpworkEmails сокращает письма до полей, нужных агрегатному анализу.
func toUpworkEmails(emails []domain.EmailMessage) []domain.UpworkEmail {
	out := make([]domain.UpworkEmail, len(emails))
	for i, email := range emails {
		out[i] = domain.UpworkEmail{
			Subject: email.Subject,
			From:    email.From,
			Content: email.Snippet,
			Date:    email.Date,
		}
	}
	return out
}
