// Пакет gmail — адаптер почтового ящика поверх Gmail API.
package gmail

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	gmailapi "google.golang.org/api/gmail/v1"
	"google.golang.org/api/option"

	"email-ai-agent/internal/domain"
	"email-ai-agent/internal/infra/metrics"
)

const user = "me"

// ErrNotInitialized возвращается при обращении к ящику до Initialize.
var ErrNotInitialized = errors.New("gmail: сервис не инициализирован, сначала вызовите Initialize")

// Service реализует domain.Mailbox поверх Gmail API.
type Service struct {
	logger          zerolog.Logger
	credentialsFile string
	tokenFile       string

	mu  sync.Mutex
	srv *gmailapi.Service
}

var _ domain.Mailbox = (*Service)(nil)

// NewService создаёт адаптер ящика. Сессия поднимается в Initialize.
func NewService(logger zerolog.Logger, credentialsFile, tokenFile string) *Service {
	return &Service{logger: logger, credentialsFile: credentialsFile, tokenFile: tokenFile}
}

// Initialize читает credentials, проводит OAuth-обмен (токен кешируется в
// файле) и поднимает клиента Gmail. Повторные вызовы переиспользуют сессию.
func (s *Service) Initialize(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.srv != nil {
		return nil
	}

	b, err := os.ReadFile(s.credentialsFile)
	if err != nil {
		return fmt.Errorf("чтение файла учётных данных: %w", err)
	}
	oauthConfig, err := google.ConfigFromJSON(b, gmailapi.GmailReadonlyScope, gmailapi.GmailLabelsScope, gmailapi.GmailModifyScope)
	if err != nil {
		return fmt.Errorf("разбор файла учётных данных: %w", err)
	}
	httpClient, err := s.oauthClient(ctx, oauthConfig)
	if err != nil {
		return err
	}
	srv, err := gmailapi.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return fmt.Errorf("создание клиента Gmail: %w", err)
	}
	s.srv = srv
	s.logger.Info().Msg("gmail: сессия инициализирована")
	return nil
}

func (s *Service) oauthClient(ctx context.Context, cfg *oauth2.Config) (*http.Client, error) {
	tok, err := tokenFromFile(s.tokenFile)
	if err != nil {
		tok, err = s.tokenFromWeb(ctx, cfg)
		if err != nil {
			return nil, err
		}
		s.saveToken(tok)
	}
	return cfg.Client(ctx, tok), nil
}

func (s *Service) tokenFromWeb(ctx context.Context, cfg *oauth2.Config) (*oauth2.Token, error) {
	authURL := cfg.AuthCodeURL("state-token", oauth2.AccessTypeOffline)
	fmt.Printf("Откройте ссылку в браузере и введите код авторизации:\n%v\n", authURL)
	var authCode string
	if _, err := fmt.Scan(&authCode); err != nil {
		return nil, fmt.Errorf("чтение кода авторизации: %w", err)
	}
	tok, err := cfg.Exchange(ctx, authCode)
	if err != nil {
		return nil, fmt.Errorf("обмен кода на токен: %w", err)
	}
	return tok, nil
}

func tokenFromFile(path string) (*oauth2.Token, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	tok := &oauth2.Token{}
	if err := json.NewDecoder(f).Decode(tok); err != nil {
		return nil, err
	}
	return tok, nil
}

func (s *Service) saveToken(token *oauth2.Token) {
	f, err := os.OpenFile(s.tokenFile, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		s.logger.Warn().Err(err).Msg("gmail: не удалось сохранить токен")
		return
	}
	defer f.Close()
	if err := json.NewEncoder(f).Encode(token); err != nil {
		s.logger.Warn().Err(err).Msg("gmail: не удалось записать токен")
	}
}

// FetchRecent возвращает до max последних писем. Список запрашивается одним
// вызовом, детали писем выкачиваются параллельно с сохранением порядка
// списка. Ошибка любой детали фатальна для всей выборки.
func (s *Service) FetchRecent(ctx context.Context, max int) ([]domain.EmailMessage, error) {
	s.mu.Lock()
	srv := s.srv
	s.mu.Unlock()
	if srv == nil {
		return nil, ErrNotInitialized
	}

	start := time.Now()
	list, err := srv.Users.Messages.List(user).MaxResults(int64(max)).Context(ctx).Do()
	metrics.ObserveNetworkRequest("gmail", "messages_list", user, start, err)
	if err != nil {
		return nil, fmt.Errorf("получение списка писем: %w", err)
	}
	if len(list.Messages) == 0 {
		return nil, nil
	}

	out := make([]domain.EmailMessage, len(list.Messages))
	var wg sync.WaitGroup
	var errMu sync.Mutex
	var firstErr error

	for i, ref := range list.Messages {
		wg.Add(1)
		go func(i int, id string) {
			defer wg.Done()
			start := time.Now()
			msg, err := srv.Users.Messages.Get(user, id).Format("full").Context(ctx).Do()
			metrics.ObserveNetworkRequest("gmail", "messages_get", user, start, err)
			if err != nil {
				errMu.Lock()
				if firstErr == nil {
					firstErr = fmt.Errorf("получение письма %s: %w", id, err)
				}
				errMu.Unlock()
				return
			}
			out[i] = normalizeMessage(msg)
		}(i, ref.Id)
	}
	wg.Wait()
	if firstErr != nil {
		return nil, firstErr
	}

	s.logger.Info().Int("count", len(out)).Msg("gmail: письма получены")
	return out, nil
}
