package config

import (
	"errors"
	"fmt"
)

var errOpenAIKeyMissing = errors.New("выбран провайдер openai, но OPENAI_API_KEY не задан")

type unknownProviderError struct {
	provider string
}

func (e *unknownProviderError) Error() string {
	return fmt.Sprintf("неизвестный LLM-провайдер %q (ожидали %q или %q)", e.provider, ProviderAnthropic, ProviderOpenAI)
}
