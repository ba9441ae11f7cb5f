package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/rs/zerolog"
)

var (
	NetworkRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "network_request_duration_seconds",
		Help:    "Длительность сетевых запросов",
		Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 15, 30, 60, 90, 120, 180},
	}, []string{"component", "operation", "target", "status"})

	NetworkRequestTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "network_request_total",
		Help: "Количество сетевых запросов",
	}, []string{"component", "operation", "target", "status"})

	LLMGenerationDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "llm_generation_duration_seconds",
		Help:    "Длительность генерации ответа LLM",
		Buckets: prometheus.DefBuckets,
	}, []string{"model"})

	LLMTokensTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "llm_tokens_total",
		Help: "Количество токенов, использованных LLM",
	}, []string{"model", "type"})

	EmailsProcessedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "emails_processed_total",
		Help: "Количество обработанных писем по итоговому статусу",
	}, []string{"status"})

	StageFailuresTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "stage_failures_total",
		Help: "Количество сбоев LLM-шагов, закрытых заглушками",
	}, []string{"stage"})
)

// MustRegister регистрирует метрики.
func MustRegister(registerer prometheus.Registerer) {
	registerer.MustRegister(
		NetworkRequestDuration,
		NetworkRequestTotal,
		LLMGenerationDuration,
		LLMTokensTotal,
		EmailsProcessedTotal,
		StageFailuresTotal,
	)
}

// ObserveNetworkRequest записывает длительность и статус сетевого запроса.
func ObserveNetworkRequest(component, operation, target string, start time.Time, err error) {
	if component == "" {
		component = "unknown"
	}
	if operation == "" {
		operation = "unknown"
	}
	if target == "" {
		target = "unknown"
	}
	status := "success"
	if err != nil {
		status = "error"
	}
	duration := time.Since(start).Seconds()
	NetworkRequestDuration.WithLabelValues(component, operation, target, status).Observe(duration)
	NetworkRequestTotal.WithLabelValues(component, operation, target, status).Inc()
}

// ObserveLLMGeneration записывает длительность и токены генерации LLM.
func ObserveLLMGeneration(model string, duration time.Duration, promptTokens, completionTokens, totalTokens int) {
	if model == "" {
		model = "unknown"
	}
	LLMGenerationDuration.WithLabelValues(model).Observe(duration.Seconds())
	if promptTokens > 0 {
		LLMTokensTotal.WithLabelValues(model, "prompt").Add(float64(promptTokens))
	}
	if completionTokens > 0 {
		LLMTokensTotal.WithLabelValues(model, "completion").Add(float64(completionTokens))
	}
	if totalTokens <= 0 {
		totalTokens = promptTokens + completionTokens
	}
	if totalTokens > 0 {
		LLMTokensTotal.WithLabelValues(model, "total").Add(float64(totalTokens))
	}
}

// IncEmailProcessed увеличивает счётчик обработанных писем.
func IncEmailProcessed(failed bool) {
	status := "ok"
	if failed {
		status = "error"
	}
	EmailsProcessedTotal.WithLabelValues(status).Inc()
}

// IncStageFailure увеличивает счётчик сбоев шага.
func IncStageFailure(stage string) {
	StageFailuresTotal.WithLabelValues(stage).Inc()
}

// DumpToLog выводит накопленные счётчики в лог в конце прогона.
// Процесс живёт один запуск, поэтому вместо /metrics итог пишется в журнал.
func DumpToLog(gatherer prometheus.Gatherer, logger zerolog.Logger) {
	families, err := gatherer.Gather()
	if err != nil {
		logger.Warn().Err(err).Msg("metrics: не удалось собрать метрики")
		return
	}
	for _, family := range families {
		if family.GetType() != dto.MetricType_COUNTER {
			continue
		}
		for _, metric := range family.GetMetric() {
			event := logger.Info().Str("metric", family.GetName())
			for _, label := range metric.GetLabel() {
				event = event.Str(label.GetName(), label.GetValue())
			}
			event.Float64("value", metric.GetCounter().GetValue()).Msg("metrics: итог прогона")
		}
	}
}
