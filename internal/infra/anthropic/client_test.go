package anthropic

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"email-ai-agent/internal/infra/llm"
)

func TestCompleteRequestAndResponse(t *testing.T) {
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/messages" {
			t.Errorf("неверный путь: %s", r.URL.Path)
		}
		if r.Header.Get("X-Api-Key") != "secret" {
			t.Error("нет заголовка X-Api-Key")
		}
		if r.Header.Get("Anthropic-Version") != apiVersion {
			t.Error("нет заголовка Anthropic-Version")
		}
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Fatalf("разбор тела запроса: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"model": "claude-3-7-sonnet-20250219",
			"content": [
				{"type": "thinking", "text": "скрытый блок"},
				{"type": "text", "text": "{\"ok\":true}"}
			],
			"usage": {"input_tokens": 12, "output_tokens": 5}
		}`))
	}))
	defer srv.Close()

	client := NewClient("secret", srv.URL, 5*time.Second)
	resp, err := client.Complete(context.Background(), llm.Request{
		Model:       "claude-3-7-sonnet-20250219",
		Prompt:      "hello",
		Temperature: 0.2,
	})
	if err != nil {
		t.Fatalf("неожиданная ошибка: %v", err)
	}

	if gotBody["model"] != "claude-3-7-sonnet-20250219" {
		t.Errorf("model = %v", gotBody["model"])
	}
	if gotBody["temperature"] != 0.2 {
		t.Errorf("temperature = %v", gotBody["temperature"])
	}
	if gotBody["max_tokens"] != float64(defaultMaxTokens) {
		t.Errorf("max_tokens = %v, ожидался дефолт", gotBody["max_tokens"])
	}
	messages := gotBody["messages"].([]any)
	first := messages[0].(map[string]any)
	if first["role"] != "user" || first["content"] != "hello" {
		t.Errorf("неверное сообщение: %v", first)
	}

	if len(resp.Blocks) != 2 || resp.Blocks[1].Text != `{"ok":true}` {
		t.Fatalf("блоки ответа разобраны неверно: %+v", resp.Blocks)
	}
	if resp.Usage.PromptTokens != 12 || resp.Usage.TotalTokens != 17 {
		t.Fatalf("токены разобраны неверно: %+v", resp.Usage)
	}
}

func TestCompleteAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error":{"type":"rate_limit_error","message":"slow down"}}`))
	}))
	defer srv.Close()

	client := NewClient("secret", srv.URL, 5*time.Second)
	_, err := client.Complete(context.Background(), llm.Request{Model: "m", Prompt: "p"})
	if err == nil {
		t.Fatal("ожидалась ошибка API")
	}
	want := "anthropic: rate_limit_error: slow down"
	if err.Error() != want {
		t.Fatalf("err = %q, ожидалось %q", err.Error(), want)
	}
}

func TestCompleteRequiresAPIKey(t *testing.T) {
	client := NewClient("", "", time.Second)
	if _, err := client.Complete(context.Background(), llm.Request{Model: "m"}); err == nil {
		t.Fatal("пустой ключ должен приводить к ошибке до запроса")
	}
}
