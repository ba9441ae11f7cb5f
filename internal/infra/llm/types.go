package llm

import "context"

// Request описывает один запрос на генерацию текста.
type Request struct {
	Model       string
	System      string
	Prompt      string
	Temperature float64
	MaxTokens   int
}

// ContentBlock — типизированный фрагмент ответа модели.
// Провайдеры наподобие Anthropic возвращают содержимое списком блоков,
// из которых текстовыми являются не все.
type ContentBlock struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
}

// Usage — статистика использования токенов.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Response — ответ модели в нейтральной форме. Заполняется ровно одно из
// представлений содержимого: строка Content, список блоков Blocks или
// одиночное поле Text. Извлечением текста занимается пакет llmparse.
type Response struct {
	Content string         `json:"content,omitempty"`
	Blocks  []ContentBlock `json:"blocks,omitempty"`
	Text    string         `json:"text,omitempty"`
	Model   string         `json:"model,omitempty"`
	Usage   Usage          `json:"usage"`
}

// Completer выполняет один вызов модели.
type Completer interface {
	Complete(ctx context.Context, req Request) (Response, error)
}
