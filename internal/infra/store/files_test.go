package store

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"

	"email-ai-agent/internal/domain"
)

func sampleResult(id string) domain.ProcessedEmail {
	return domain.ProcessedEmail{
		ID:       id,
		ThreadID: "t-" + id,
		Subject:  "Subject " + id,
		Classification: domain.StoredClassification{
			ClassificationResult: domain.ClassificationResult{
				Priority:   domain.PriorityNormal,
				Reasoning:  "ok",
				Confidence: 0.9,
			},
			TimeOfDay: domain.TimeOfDayMorning,
		},
		Summary: domain.SummaryResult{KeyPoints: []string{"p"}, ActionItems: []string{}, Confidence: 0.8},
	}
}

func readResults(t *testing.T, dir string) []domain.ProcessedEmail {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(dir, resultsFile))
	if err != nil {
		t.Fatalf("чтение файла результатов: %v", err)
	}
	var out []domain.ProcessedEmail
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("разбор файла результатов: %v", err)
	}
	return out
}

func TestAppendResultAccumulates(t *testing.T) {
	dir := t.TempDir()
	f := NewFiles(dir, zerolog.Nop())

	if err := f.AppendResult(sampleResult("a")); err != nil {
		t.Fatalf("первая запись: %v", err)
	}
	if err := f.AppendResult(sampleResult("b")); err != nil {
		t.Fatalf("вторая запись: %v", err)
	}

	got := readResults(t, dir)
	if len(got) != 2 || got[0].ID != "a" || got[1].ID != "b" {
		t.Fatalf("результаты не накоплены: %+v", got)
	}
}

func TestAppendResultWrapsLegacyObject(t *testing.T) {
	dir := t.TempDir()
	legacy := `{"id":"legacy","subject":"old format"}`
	if err := os.WriteFile(filepath.Join(dir, resultsFile), []byte(legacy), 0644); err != nil {
		t.Fatal(err)
	}

	f := NewFiles(dir, zerolog.Nop())
	if err := f.AppendResult(sampleResult("new")); err != nil {
		t.Fatalf("запись поверх старого формата: %v", err)
	}

	got := readResults(t, dir)
	if len(got) != 2 || got[0].ID != "legacy" || got[1].ID != "new" {
		t.Fatalf("старая запись должна быть обёрнута в массив: %+v", got)
	}
}

func TestAppendResultRestartsOnCorruptFile(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, resultsFile), []byte("{мусор"), 0644); err != nil {
		t.Fatal(err)
	}

	f := NewFiles(dir, zerolog.Nop())
	if err := f.AppendResult(sampleResult("a")); err != nil {
		t.Fatalf("запись поверх битого файла: %v", err)
	}

	got := readResults(t, dir)
	if len(got) != 1 || got[0].ID != "a" {
		t.Fatalf("накопление должно начаться заново: %+v", got)
	}
}

func TestSaveSkillDemandOverwrites(t *testing.T) {
	dir := t.TempDir()
	f := NewFiles(dir, zerolog.Nop())

	first := domain.SkillDemandAnalysis{Insights: []string{"старое"}}
	second := domain.SkillDemandAnalysis{Insights: []string{"новое"}}
	if err := f.SaveSkillDemand(first); err != nil {
		t.Fatal(err)
	}
	if err := f.SaveSkillDemand(second); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(filepath.Join(dir, skillDemandFile))
	if err != nil {
		t.Fatal(err)
	}
	var got struct {
		GeneratedAt string                     `json:"generatedAt"`
		Analysis    domain.SkillDemandAnalysis `json:"analysis"`
	}
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("разбор отчёта: %v", err)
	}
	if got.GeneratedAt == "" {
		t.Error("в отчёте нет generatedAt")
	}
	if len(got.Analysis.Insights) != 1 || got.Analysis.Insights[0] != "новое" {
		t.Fatalf("отчёт должен перезаписываться: %+v", got.Analysis)
	}
}

func TestSavePortfolioSuggestionsNilBecomesEmptyList(t *testing.T) {
	dir := t.TempDir()
	f := NewFiles(dir, zerolog.Nop())

	if err := f.SavePortfolioSuggestions(nil); err != nil {
		t.Fatal(err)
	}

	data, err := os.ReadFile(filepath.Join(dir, portfolioFile))
	if err != nil {
		t.Fatal(err)
	}
	var got struct {
		Suggestions []domain.PortfolioProjectSuggestion `json:"suggestions"`
	}
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatal(err)
	}
	if got.Suggestions == nil {
		t.Fatal("suggestions должен сериализоваться пустым списком, не null")
	}
}

func TestSaveRawBestEffort(t *testing.T) {
	dir := t.TempDir()
	f := NewFiles(dir, zerolog.Nop())

	f.SaveRaw("debug.txt", "сырой ответ")
	data, err := os.ReadFile(filepath.Join(dir, "debug.txt"))
	if err != nil {
		t.Fatalf("сырой ответ не сохранён: %v", err)
	}
	if string(data) != "сырой ответ" {
		t.Fatalf("содержимое искажено: %q", data)
	}

	// Непригодный каталог не должен приводить к панике или ошибке.
	broken := NewFiles(filepath.Join(dir, "debug.txt"), zerolog.Nop())
	broken.SaveRaw("x.txt", "y")
}
