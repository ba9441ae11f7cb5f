package analyst

import (
	"fmt"
	"time"

	"email-ai-agent/internal/domain"
)

// Имена этапов конвейера. Используются как ключи реестра промптов и как
// метки метрик отказов.
const (
	stageClassify  = "classify"
	stageSummarize = "summarize"
	stageEvaluate  = "evaluate"
	stageImprove   = "improve"
)

// promptTemplates — реестр шаблонов по имени этапа. Подстановки собираются
// соответствующим builder-ом ниже.
var promptTemplates = map[string]string{
	stageClassify: `Analyze this email and classify its priority. Be thorough and consider all aspects:
From: %s
Subject: %s
Content: %s
Read Status: %s
Time Received: %s

Consider:
- Sender importance and relationship
- Time sensitivity of the content
- Action requirements
- Business impact
- Personal impact
- Whether the email has been read
- How long ago the email was received

Respond with a JSON object containing:
- priority: Must be exactly "Urgent", "Important", or "Normal"
- reasoning: Explanation for the priority classification
- confidence: Number between 0 and 1 indicating confidence in classification`,

	stageSummarize: `Provide a detailed analysis of this email:
Subject: %s
Content: %s
Read Status: %s
Time Received: %s

Consider the email's read status and time received when suggesting actions.
If the email is unread and recent, consider suggesting immediate review.

Respond with a JSON object containing:
- keyPoints: Array of main points from the email
- actionItems: Array of required actions
- suggestedResponse: Optional response suggestion
- confidence: Number between 0 and 1 indicating confidence in analysis`,

	stageEvaluate: `Evaluate the quality and accuracy of this email analysis:

Original Email:
Subject: %s
Content: %s

Current Analysis:
Classification: %s
Summary: %s

Evaluate:
1. Does the priority level match the content?
2. Are the key points accurate and complete?
3. Are action items correctly identified?
4. Is the confidence appropriate?

Respond with a JSON object containing:
- isAccurate: Boolean indicating if analysis is accurate
- improvementNeeded: Boolean indicating if improvements are needed
- reasonForImprovement: Optional string explaining why improvement is needed
- suggestedImprovements: Optional array of suggested improvements`,

	stageImprove: `Improve the email analysis based on the suggested improvements:

Original Email:
Subject: %s
Content: %s

Previous Analysis: %s
Suggested Improvements: %s

Respond with a JSON object containing:
- classification: Object with priority, reasoning, and confidence
- summary: Object with keyPoints, actionItems, suggestedResponse, and confidence`,
}

func classifyPrompt(email domain.EmailMessage) string {
	return fmt.Sprintf(promptTemplates[stageClassify],
		email.From, email.Subject, email.Snippet,
		readStatus(email.IsRead), formatReceived(email.Timestamp))
}

func summarizePrompt(email domain.EmailMessage) string {
	return fmt.Sprintf(promptTemplates[stageSummarize],
		email.Subject, email.Snippet,
		readStatus(email.IsRead), formatReceived(email.Timestamp))
}

func evaluatePrompt(email domain.EmailMessage, classification, summary string) string {
	return fmt.Sprintf(promptTemplates[stageEvaluate],
		email.Subject, email.Snippet, classification, summary)
}

func improvePrompt(email domain.EmailMessage, previous, improvements string) string {
	return fmt.Sprintf(promptTemplates[stageImprove],
		email.Subject, email.Snippet, previous, improvements)
}

func readStatus(isRead bool) string {
	if isRead {
		return "Read"
	}
	return "Unread"
}

// formatReceived приводит epoch millis к человекочитаемому виду для промпта.
// Нулевой timestamp заменяется текущим временем.
func formatReceived(ts int64) string {
	t := time.Now()
	if ts > 0 {
		t = time.UnixMilli(ts)
	}
	return t.Format("1/2/2006, 3:04:05 PM")
}
