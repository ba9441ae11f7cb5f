package gmail

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
)

func TestFetchRecentBeforeInitialize(t *testing.T) {
	svc := NewService(zerolog.Nop(), "credentials.json", "token.json")
	_, err := svc.FetchRecent(context.Background(), 10)
	if !errors.Is(err, ErrNotInitialized) {
		t.Fatalf("ожидалась ErrNotInitialized, получено %v", err)
	}
}

func TestInitializeMissingCredentials(t *testing.T) {
	svc := NewService(zerolog.Nop(), t.TempDir()+"/nope.json", "token.json")
	if err := svc.Initialize(context.Background()); err == nil {
		t.Fatal("ожидалась ошибка при отсутствии файла учётных данных")
	}
}
