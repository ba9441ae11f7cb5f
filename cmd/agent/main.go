package main

import (
	"context"
	"fmt"
	"os/signal"
	"strings"
	"syscall"

	"github.com/charmbracelet/lipgloss"
	"github.com/prometheus/client_golang/prometheus"

	"email-ai-agent/internal/adapters/advisor"
	"email-ai-agent/internal/adapters/analyst"
	"email-ai-agent/internal/adapters/gmail"
	"email-ai-agent/internal/domain"
	"email-ai-agent/internal/infra/anthropic"
	"email-ai-agent/internal/infra/config"
	"email-ai-agent/internal/infra/llm"
	applog "email-ai-agent/internal/infra/log"
	"email-ai-agent/internal/infra/metrics"
	"email-ai-agent/internal/infra/openai"
	"email-ai-agent/internal/infra/store"
	"email-ai-agent/internal/usecase/analysis"
	"email-ai-agent/internal/usecase/portfolio"
)

var (
	bannerStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
	fetchStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))
	headingStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	separatorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))
	urgentStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	importantStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	normalStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	plainStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))
)

func main() {
	cfg := config.Load()
	logger := applog.NewLogger(cfg.AppEnv)

	metrics.MustRegister(prometheus.DefaultRegisterer)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	fmt.Println(bannerStyle.Render("\n📧 Email AI Agent Initializing...\n"))

	mailbox := gmail.NewService(
		logger.With().Str("component", "gmail").Logger(),
		cfg.Gmail.CredentialsFile, cfg.Gmail.TokenFile)
	if err := mailbox.Initialize(ctx); err != nil {
		logger.Fatal().Err(err).Msg("agent: не удалось инициализировать почтовый ящик")
	}

	files := store.NewFiles(cfg.OutputDir, logger.With().Str("component", "store").Logger())

	stages := analyst.NewStages(
		newCompleter(cfg, cfg.Email.Provider),
		cfg.Email.Model, cfg.Email.Temperature,
		logger.With().Str("component", "analyst").Logger())
	advisorStages := advisor.NewStages(
		newCompleter(cfg, cfg.Upwork.Provider),
		cfg.Upwork.Model, cfg.Upwork.AnalysisTemperature, cfg.Upwork.GenerationTemperature,
		files,
		logger.With().Str("component", "advisor").Logger())

	analysisSvc := analysis.NewService(stages, files,
		logger.With().Str("component", "analysis").Logger())
	portfolioSvc := portfolio.NewService(advisorStages, files,
		logger.With().Str("component", "portfolio").Logger())

	fmt.Println(fetchStyle.Render("🔍 Fetching and analyzing recent emails...\n"))
	emails, err := mailbox.FetchRecent(ctx, cfg.MaxEmails)
	if err != nil {
		logger.Fatal().Err(err).Msg("agent: не удалось получить письма")
	}

	analysisSvc.Run(ctx, emails, printResult)

	suggestions, err := portfolioSvc.Run(ctx, emails)
	if err != nil {
		logger.Error().Err(err).Msg("agent: конвейер портфолио завершился ошибкой")
	} else {
		printSuggestions(suggestions)
	}

	metrics.DumpToLog(prometheus.DefaultGatherer, logger)
}

// newCompleter выбирает клиента модели для профиля конвейера.
func newCompleter(cfg config.AppConfig, provider string) llm.Completer {
	if provider == config.ProviderOpenAI {
		return openai.NewClient(cfg.OpenAI.APIKey, cfg.OpenAI.BaseURL, cfg.OpenAI.Timeout)
	}
	return anthropic.NewClient(cfg.Anthropic.APIKey, "", cfg.Anthropic.Timeout)
}

func priorityStyle(priority domain.Priority) lipgloss.Style {
	switch priority {
	case domain.PriorityUrgent:
		return urgentStyle
	case domain.PriorityImportant:
		return importantStyle
	case domain.PriorityNormal:
		return normalStyle
	default:
		return plainStyle
	}
}

func printResult(result domain.ProcessedEmail) {
	fmt.Println(separatorStyle.Render("\n" + strings.Repeat("━", 80)))
	fmt.Println(headingStyle.Render("📧 Processed: " + result.Subject))
	style := priorityStyle(result.Classification.Priority)
	fmt.Println(headingStyle.Render("Priority: ") + style.Render(string(result.Classification.Priority)))
}

func printSuggestions(suggestions []domain.PortfolioProjectSuggestion) {
	for i, project := range suggestions {
		fmt.Println(headingStyle.Render(fmt.Sprintf("\nProject %d: %s", i+1, project.ProjectTitle)))
		fmt.Println(plainStyle.Render("Description: " + project.ProjectDescription))
		fmt.Println(plainStyle.Render("Skills: " + strings.Join(project.RelevantSkills, ", ")))
		fmt.Println(plainStyle.Render("Difficulty: " + string(project.DifficultyLevel)))
		fmt.Println(plainStyle.Render("Estimated Time: " + project.EstimatedTimeToComplete))
		fmt.Println(plainStyle.Render("Why Relevant: " + project.WhyRelevant))
		if i < len(suggestions)-1 {
			fmt.Println(separatorStyle.Render("\n" + strings.Repeat("━", 80)))
		}
	}
}
