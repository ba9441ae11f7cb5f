package analyst

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"

	"email-ai-agent/internal/domain"
	"email-ai-agent/internal/infra/llm"
)

type stubCompleter struct {
	resp  llm.Response
	err   error
	calls []llm.Request
}

func (s *stubCompleter) Complete(_ context.Context, req llm.Request) (llm.Response, error) {
	s.calls = append(s.calls, req)
	return s.resp, s.err
}

func testEmail() domain.EmailMessage {
	return domain.EmailMessage{
		ID:        "m1",
		ThreadID:  "t1",
		Subject:   "Quarterly report",
		From:      "boss@example.com",
		Snippet:   "Please review the attached numbers",
		Timestamp: 1741062600000,
	}
}

func TestClassifyParsesFencedJSON(t *testing.T) {
	stub := &stubCompleter{resp: llm.Response{
		Content: "```json\n{\"priority\":\"Urgent\",\"reasoning\":\"deadline today\",\"confidence\":0.9}\n```",
	}}
	stages := NewStages(stub, "claude-3-7-sonnet-20250219", 0.2, zerolog.Nop())

	got, err := stages.Classify(context.Background(), testEmail())
	if err != nil {
		t.Fatalf("неожиданная ошибка: %v", err)
	}
	if got.Priority != domain.PriorityUrgent || got.Confidence != 0.9 {
		t.Fatalf("неверный результат классификации: %+v", got)
	}

	if len(stub.calls) != 1 {
		t.Fatalf("ожидался один вызов модели, было %d", len(stub.calls))
	}
	req := stub.calls[0]
	if req.Model != "claude-3-7-sonnet-20250219" || req.Temperature != 0.2 {
		t.Fatalf("неверные параметры запроса: %+v", req)
	}
	for _, want := range []string{"boss@example.com", "Quarterly report", "Unread"} {
		if !strings.Contains(req.Prompt, want) {
			t.Errorf("в промпте нет %q", want)
		}
	}
}

func TestClassifyFallbackOnModelError(t *testing.T) {
	stub := &stubCompleter{err: errors.New("api down")}
	stages := NewStages(stub, "m", 0.2, zerolog.Nop())

	got, err := stages.Classify(context.Background(), testEmail())
	if err != nil {
		t.Fatalf("сбой модели должен гаситься внутри этапа: %v", err)
	}
	if got.Priority != domain.PriorityNormal || got.Reasoning != "Error in processing" || got.Confidence != 0.5 {
		t.Fatalf("неверная заглушка классификации: %+v", got)
	}
}

func TestClassifyPropagatesContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	stub := &stubCompleter{err: context.Canceled}
	stages := NewStages(stub, "m", 0.2, zerolog.Nop())

	if _, err := stages.Classify(ctx, testEmail()); err == nil {
		t.Fatal("отмена контекста должна пробрасываться наружу")
	}
}

func TestSummarizeFallbackOnBadJSON(t *testing.T) {
	stub := &stubCompleter{resp: llm.Response{Content: "это не JSON"}}
	stages := NewStages(stub, "m", 0.2, zerolog.Nop())

	got, err := stages.Summarize(context.Background(), testEmail())
	if err != nil {
		t.Fatalf("ошибка разбора должна гаситься внутри этапа: %v", err)
	}
	if len(got.KeyPoints) != 1 || got.KeyPoints[0] != "Error in processing" {
		t.Fatalf("неверная заглушка резюме: %+v", got)
	}
	if got.ActionItems == nil || len(got.ActionItems) != 0 {
		t.Fatalf("actionItems должен быть пустым списком: %+v", got.ActionItems)
	}
	if got.SuggestedResponse != "Unable to process email" || got.Confidence != 0.5 {
		t.Fatalf("неверная заглушка резюме: %+v", got)
	}
}

func TestEvaluateEmbedsPriorAnalysis(t *testing.T) {
	stub := &stubCompleter{resp: llm.Response{
		Content: `{"isAccurate":false,"improvementNeeded":true,"suggestedImprovements":["refine priority"]}`,
	}}
	stages := NewStages(stub, "m", 0.2, zerolog.Nop())

	classification := domain.ClassificationResult{Priority: domain.PriorityImportant, Reasoning: "sender", Confidence: 0.7}
	summary := domain.SummaryResult{KeyPoints: []string{"numbers attached"}, Confidence: 0.6}

	got, err := stages.Evaluate(context.Background(), testEmail(), classification, summary)
	if err != nil {
		t.Fatalf("неожиданная ошибка: %v", err)
	}
	if !got.ImprovementNeeded || len(got.SuggestedImprovements) != 1 {
		t.Fatalf("неверный результат оценки: %+v", got)
	}

	prompt := stub.calls[0].Prompt
	if !strings.Contains(prompt, `"priority":"Important"`) {
		t.Error("в промпт не попала классификация")
	}
	if !strings.Contains(prompt, "numbers attached") {
		t.Error("в промпт не попало резюме")
	}
}

func TestEvaluateFallbackStopsImprovement(t *testing.T) {
	stub := &stubCompleter{err: errors.New("api down")}
	stages := NewStages(stub, "m", 0.2, zerolog.Nop())

	got, err := stages.Evaluate(context.Background(), testEmail(), domain.ClassificationResult{}, domain.SummaryResult{})
	if err != nil {
		t.Fatalf("сбой модели должен гаситься внутри этапа: %v", err)
	}
	if !got.IsAccurate || got.ImprovementNeeded {
		t.Fatalf("заглушка оценки не должна запускать доработку: %+v", got)
	}
}

func TestImproveEmbedsPreviousAndImprovements(t *testing.T) {
	stub := &stubCompleter{resp: llm.Response{
		Content: `{"classification":{"priority":"Urgent","reasoning":"ok","confidence":0.95},"summary":{"keyPoints":["a"],"actionItems":["b"],"confidence":0.9}}`,
	}}
	stages := NewStages(stub, "m", 0.2, zerolog.Nop())

	previous := domain.ProcessedEmail{
		ID:      "m1",
		Subject: "Quarterly report",
		Classification: domain.StoredClassification{
			ClassificationResult: domain.ClassificationResult{Priority: domain.PriorityImportant},
			TimeOfDay:            domain.TimeOfDayAfternoon,
		},
	}

	got, err := stages.Improve(context.Background(), testEmail(), previous, []string{"refine priority"})
	if err != nil {
		t.Fatalf("неожиданная ошибка: %v", err)
	}
	if got.Classification.Priority != domain.PriorityUrgent || got.Summary.Confidence != 0.9 {
		t.Fatalf("неверный результат доработки: %+v", got)
	}

	prompt := stub.calls[0].Prompt
	if !strings.Contains(prompt, `"timeOfDay":"Afternoon"`) {
		t.Error("в промпт не попал предыдущий анализ")
	}
	if !strings.Contains(prompt, "refine priority") {
		t.Error("в промпт не попал список улучшений")
	}
}

func TestImproveFallback(t *testing.T) {
	stub := &stubCompleter{resp: llm.Response{Content: "мусор"}}
	stages := NewStages(stub, "m", 0.2, zerolog.Nop())

	got, err := stages.Improve(context.Background(), testEmail(), domain.ProcessedEmail{}, nil)
	if err != nil {
		t.Fatalf("ошибка разбора должна гаситься внутри этапа: %v", err)
	}
	if got.Classification.Confidence != 0.5 || got.Summary.Confidence != 0.5 {
		t.Fatalf("неверная заглушка доработки: %+v", got)
	}
}

func TestPromptRegistryCoversAllStages(t *testing.T) {
	for _, stage := range []string{stageClassify, stageSummarize, stageEvaluate, stageImprove} {
		if _, ok := promptTemplates[stage]; !ok {
			t.Errorf("в реестре нет шаблона для этапа %s", stage)
		}
	}
}
