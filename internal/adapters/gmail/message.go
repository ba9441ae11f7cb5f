package gmail

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	gmailapi "google.golang.org/api/gmail/v1"

	"email-ai-agent/internal/domain"
)

const (
	defaultSubject = "No Subject"
	defaultSender  = "Unknown Sender"
)

// dateLayouts покрывает варианты заголовка Date, встречающиеся на практике.
var dateLayouts = []string{
	time.RFC1123Z,
	time.RFC1123,
	"Mon, 2 Jan 2006 15:04:05 -0700",
	"2 Jan 2006 15:04:05 -0700",
}

// normalizeMessage приводит ответ Gmail к доменной модели письма.
// Отсутствующие идентификаторы синтезируются, чтобы запись в результатах
// всегда была адресуемой.
func normalizeMessage(msg *gmailapi.Message) domain.EmailMessage {
	id := msg.Id
	if id == "" {
		id = "unknown-" + uuid.NewString()
	}
	threadID := msg.ThreadId
	if threadID == "" {
		threadID = "thread-" + uuid.NewString()
	}

	var headers []*gmailapi.MessagePartHeader
	if msg.Payload != nil {
		headers = msg.Payload.Headers
	}
	subject := headerValue(headers, "Subject", defaultSubject)
	from := headerValue(headers, "From", defaultSender)
	date := headerValue(headers, "Date", "")

	ts, ok := parseDate(date)
	if !ok {
		if msg.InternalDate > 0 {
			ts = time.UnixMilli(msg.InternalDate)
		} else {
			ts = time.Now()
		}
	}
	if date == "" {
		date = ts.Format(time.RFC1123Z)
	}

	return domain.EmailMessage{
		ID:        id,
		ThreadID:  threadID,
		Subject:   subject,
		From:      from,
		Date:      date,
		Snippet:   msg.Snippet,
		IsRead:    !hasLabel(msg.LabelIds, "UNREAD"),
		EmailLink: fmt.Sprintf("https://mail.google.com/mail/u/0/#inbox/%s", id),
		Timestamp: ts.UnixMilli(),
	}
}

// headerValue ищет заголовок без учёта регистра имени.
func headerValue(headers []*gmailapi.MessagePartHeader, name, fallback string) string {
	for _, h := range headers {
		if strings.EqualFold(h.Name, name) && h.Value != "" {
			return h.Value
		}
	}
	return fallback
}

// parseDate разбирает заголовок Date, игнорируя комментарий вида " (UTC)"
// в хвосте.
func parseDate(raw string) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	if i := strings.LastIndex(raw, " ("); i > 0 && strings.HasSuffix(raw, ")") {
		raw = raw[:i]
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func hasLabel(labels []string, want string) bool {
	for _, l := range labels {
		if l == want {
			return true
		}
	}
	return false
}
