package monitor

import (
	"context"
	"fmt"
	"net/http"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"golang.org/x/time/rate"
)

// UpdatesFetcher is the narrow polling surface of the messaging platform.
// Implementations must return updates ordered by ascending update id and
// honor the offset lower bound.
type UpdatesFetcher interface {
	FetchUpdates(ctx context.Context, offset int) ([]tgbotapi.Update, error)
}

// FetcherFactory builds a fetcher for one bot token. The registry uses it
// so tests can substitute a fake remote.
type FetcherFactory func(token string) (UpdatesFetcher, error)

// botAPIFetcher polls the Bot API over HTTP with a bounded request
// timeout and a client-side rate limit.
type botAPIFetcher struct {
	bot     *tgbotapi.BotAPI
	limiter *rate.Limiter
}

// NewBotAPIFetcher returns a factory producing Bot API backed fetchers.
// requestTimeout must be shorter than the monitor tick interval so a hung
// request cannot occupy the bot's scheduler slot.
func NewBotAPIFetcher(apiEndpoint string, requestTimeout time.Duration) FetcherFactory {
	return func(token string) (UpdatesFetcher, error) {
		client := &http.Client{Timeout: requestTimeout}
		bot, err := tgbotapi.NewBotAPIWithClient(token, apiEndpoint, client)
		if err != nil {
			return nil, fmt.Errorf("create bot client: %w", err)
		}
		return &botAPIFetcher{
			bot:     bot,
			limiter: rate.NewLimiter(rate.Every(500*time.Millisecond), 1),
		}, nil
	}
}

func (f *botAPIFetcher) FetchUpdates(ctx context.Context, offset int) ([]tgbotapi.Update, error) {
	if err := f.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	cfg := tgbotapi.NewUpdate(offset)
	cfg.Limit = 100
	// Short long-poll hold; the HTTP client timeout bounds the request.
	cfg.Timeout = 1

	updates, err := f.bot.GetUpdates(cfg)
	if err != nil {
		return nil, fmt.Errorf("get updates: %w", err)
	}
	return updates, nil
}
