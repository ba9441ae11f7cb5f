// Пакет llmparse превращает свободный текст ответа модели обратно в
// структурированные данные: извлечение текста из ответа провайдера и
// каскад стратегий восстановления JSON.
package llmparse

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"email-ai-agent/internal/infra/llm"
)

// ParseError сигнализирует, что ни одна стратегия восстановления не сработала.
type ParseError struct {
	Cause error
}

func (e *ParseError) Error() string {
	if e == nil || e.Cause == nil {
		return "не удалось извлечь JSON из ответа модели"
	}
	return "не удалось извлечь JSON из ответа модели: " + e.Cause.Error()
}

func (e *ParseError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// Text извлекает текстовое содержимое из ответа модели.
// Порядок: строка целиком, затем конкатенация текстовых блоков (нетекстовые
// пропускаются), затем одиночное поле text, в крайнем случае структурный
// дамп всего ответа. Никогда не падает.
func Text(resp llm.Response) string {
	if resp.Content != "" {
		return resp.Content
	}
	if len(resp.Blocks) > 0 {
		var b strings.Builder
		for _, block := range resp.Blocks {
			if block.Type == "text" {
				b.WriteString(block.Text)
			}
		}
		return b.String()
	}
	if resp.Text != "" {
		return resp.Text
	}
	dump, err := json.Marshal(resp)
	if err != nil {
		return ""
	}
	return string(dump)
}

var (
	fenceRe = regexp.MustCompile("```(?:json)?\\s*([\\s\\S]*?)\\s*```")
	arrayRe = regexp.MustCompile(`\[\s*\{[\s\S]*\}\s*\]`)
)

// JSON извлекает JSON-значение из текста и декодирует его в target.
// Стратегии по порядку, побеждает первая подошедшая: огороженный блок кода,
// затем весь текст как есть.
func JSON(text string, target any) error {
	return extract(text, target, false)
}

// JSONArray работает как JSON, но между блоком кода и целым текстом
// дополнительно ищет первый массив объектов в сыром тексте.
func JSONArray(text string, target any) error {
	return extract(text, target, true)
}

func extract(text string, target any, tryArray bool) error {
	if m := fenceRe.FindStringSubmatch(text); m != nil && strings.TrimSpace(m[1]) != "" {
		if err := json.Unmarshal([]byte(strings.TrimSpace(m[1])), target); err != nil {
			return &ParseError{Cause: fmt.Errorf("разбор блока кода: %w", err)}
		}
		return nil
	}
	if tryArray {
		if m := arrayRe.FindString(text); m != "" {
			if err := json.Unmarshal([]byte(m), target); err != nil {
				return &ParseError{Cause: fmt.Errorf("разбор массива объектов: %w", err)}
			}
			return nil
		}
	}
	if err := json.Unmarshal([]byte(strings.TrimSpace(text)), target); err != nil {
		return &ParseError{Cause: fmt.Errorf("разбор всего текста: %w", err)}
	}
	return nil
}
