package config

import (
	"log"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// ProviderAnthropic и ProviderOpenAI — поддерживаемые семейства моделей.
const (
	ProviderAnthropic = "anthropic"
	ProviderOpenAI    = "openai"
)

// AppConfig описывает конфигурацию агента. Заполняется один раз на старте
// и передаётся по значению в конструкторы компонентов.
type AppConfig struct {
	AppEnv    string `envconfig:"APP_ENV" default:"dev"`
	OutputDir string `envconfig:"OUTPUT_DIR" default:"public"`
	MaxEmails int    `envconfig:"MAX_EMAILS" default:"10"`

	Anthropic struct {
		APIKey  string        `envconfig:"CLAUDE_API_KEY" required:"true"`
		Timeout time.Duration `envconfig:"CLAUDE_TIMEOUT" default:"120s"`
	} `envconfig:""`

	OpenAI struct {
		APIKey  string        `envconfig:"OPENAI_API_KEY"`
		BaseURL string        `envconfig:"OPENAI_BASE_URL"`
		Timeout time.Duration `envconfig:"OPENAI_TIMEOUT" default:"120s"`
	} `envconfig:""`

	// Email — профиль модели для поэтапного анализа писем.
	Email struct {
		Provider    string  `envconfig:"EMAIL_LLM_PROVIDER" default:"anthropic"`
		Model       string  `envconfig:"EMAIL_LLM_MODEL" default:"claude-3-7-sonnet-20250219"`
		Temperature float64 `envconfig:"EMAIL_LLM_TEMPERATURE" default:"0.2"`
	} `envconfig:""`

	// Upwork — профиль модели для агрегатного анализа и генерации идей.
	Upwork struct {
		Provider              string  `envconfig:"UPWORK_LLM_PROVIDER" default:"anthropic"`
		Model                 string  `envconfig:"UPWORK_LLM_MODEL" default:"claude-3-7-sonnet-20250219"`
		AnalysisTemperature   float64 `envconfig:"UPWORK_ANALYSIS_TEMPERATURE" default:"0.2"`
		GenerationTemperature float64 `envconfig:"UPWORK_GENERATION_TEMPERATURE" default:"0.7"`
	} `envconfig:""`

	Gmail struct {
		CredentialsFile string `envconfig:"GMAIL_CREDENTIALS_FILE" default:"credentials.json"`
		TokenFile       string `envconfig:"GMAIL_TOKEN_FILE" default:"token.json"`
	} `envconfig:""`
}

// Load загружает конфиг из окружения. Отсутствие обязательного ключа —
// фатальная ошибка старта.
func Load() AppConfig {
	var cfg AppConfig
	if err := envconfig.Process("", &cfg); err != nil {
		log.Fatalf("не удалось загрузить конфиг: %v", err)
	}
	if err := cfg.validate(); err != nil {
		log.Fatalf("некорректная конфигурация: %v", err)
	}
	return cfg
}

func (c AppConfig) validate() error {
	for _, provider := range []string{c.Email.Provider, c.Upwork.Provider} {
		switch provider {
		case ProviderAnthropic:
		case ProviderOpenAI:
			if c.OpenAI.APIKey == "" {
				return errOpenAIKeyMissing
			}
		default:
			return &unknownProviderError{provider: provider}
		}
	}
	return nil
}
