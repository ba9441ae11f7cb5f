// Пакет store сохраняет результаты работы агента в JSON-файлы каталога
// выдачи. Файл результатов анализа накапливается между запусками,
// агрегатные отчёты перезаписываются целиком.
package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"email-ai-agent/internal/domain"
)

const (
	resultsFile     = "analysis-results.json"
	skillDemandFile = "skill-demand-analysis.json"
	portfolioFile   = "portfolio-suggestions.json"
)

// Files реализует domain.ResultStore, domain.ReportStore и domain.RawDumper
// поверх каталога на диске.
type Files struct {
	dir    string
	logger zerolog.Logger
	mu     sync.Mutex
}

var (
	_ domain.ResultStore = (*Files)(nil)
	_ domain.ReportStore = (*Files)(nil)
	_ domain.RawDumper   = (*Files)(nil)
)

// NewFiles создаёт хранилище в заданном каталоге. Каталог создаётся при
// первой записи.
func NewFiles(dir string, logger zerolog.Logger) *Files {
	return &Files{dir: dir, logger: logger}
}

// AppendResult дописывает результат анализа письма в общий файл.
// Существующее содержимое сохраняется: одиночный объект старого формата
// оборачивается в массив, нечитаемый файл начинается заново.
func (f *Files) AppendResult(result domain.ProcessedEmail) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.ensureDir(); err != nil {
		return err
	}

	path := filepath.Join(f.dir, resultsFile)
	existing := f.readExisting(path)

	entry, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("сериализация результата: %w", err)
	}
	existing = append(existing, entry)

	data, err := json.MarshalIndent(existing, "", "  ")
	if err != nil {
		return fmt.Errorf("сериализация файла результатов: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("запись файла результатов: %w", err)
	}
	return nil
}

// readExisting читает накопленные результаты, не теряя записи старых
// запусков даже при смене их схемы.
func (f *Files) readExisting(path string) []json.RawMessage {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}

	var list []json.RawMessage
	if err := json.Unmarshal(data, &list); err == nil {
		return list
	}

	var single map[string]json.RawMessage
	if err := json.Unmarshal(data, &single); err == nil {
		return []json.RawMessage{json.RawMessage(data)}
	}

	f.logger.Warn().Str("path", path).
		Msg("store: файл результатов нечитаем, накопление начато заново")
	return nil
}

// SaveSkillDemand перезаписывает отчёт по спросу на навыки.
func (f *Files) SaveSkillDemand(analysis domain.SkillDemandAnalysis) error {
	return f.writeReport(skillDemandFile, struct {
		GeneratedAt string                     `json:"generatedAt"`
		Analysis    domain.SkillDemandAnalysis `json:"analysis"`
	}{
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
		Analysis:    analysis,
	})
}

// SavePortfolioSuggestions перезаписывает отчёт с идеями портфолио.
func (f *Files) SavePortfolioSuggestions(suggestions []domain.PortfolioProjectSuggestion) error {
	if suggestions == nil {
		suggestions = []domain.PortfolioProjectSuggestion{}
	}
	return f.writeReport(portfolioFile, struct {
		GeneratedAt string                              `json:"generatedAt"`
		Suggestions []domain.PortfolioProjectSuggestion `json:"suggestions"`
	}{
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
		Suggestions: suggestions,
	})
}

func (f *Files) writeReport(name string, report any) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.ensureDir(); err != nil {
		return err
	}
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("сериализация отчёта %s: %w", name, err)
	}
	if err := os.WriteFile(filepath.Join(f.dir, name), data, 0644); err != nil {
		return fmt.Errorf("запись отчёта %s: %w", name, err)
	}
	return nil
}

// SaveRaw сохраняет сырой текст ответа модели. Ошибки записи только
// логируются: отладочный дамп не должен ронять конвейер.
func (f *Files) SaveRaw(name, text string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.ensureDir(); err != nil {
		f.logger.Warn().Err(err).Str("name", name).Msg("store: не удалось сохранить сырой ответ")
		return
	}
	if err := os.WriteFile(filepath.Join(f.dir, name), []byte(text), 0644); err != nil {
		f.logger.Warn().Err(err).Str("name", name).Msg("store: не удалось сохранить сырой ответ")
	}
}

func (f *Files) ensureDir() error {
	if err := os.MkdirAll(f.dir, 0755); err != nil {
		return fmt.Errorf("создание каталога %s: %w", f.dir, err)
	}
	return nil
}
