// Package telegram implements the transport contract on top of telebot.
// Each tenant session is one bot token registered under a session id.
package telegram

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	tele "gopkg.in/telebot.v4"

	"wasel/internal/transport"
)

type Config struct {
	// Token is the default bot token, registered as session "default"
	// at startup when non-empty.
	Token       string
	PollTimeout time.Duration // 0 means 10s
	RetryMax    int           // dispatch retries, default 2
}

type session struct {
	bot *tele.Bot

	mu       sync.Mutex
	healthy  bool
	failures int
}

type Adapter struct {
	cfg Config
	log zerolog.Logger

	mu       sync.RWMutex
	sessions map[string]*session
}

func New(cfg Config, log zerolog.Logger) (*Adapter, error) {
	if cfg.PollTimeout <= 0 {
		cfg.PollTimeout = 10 * time.Second
	}
	if cfg.RetryMax <= 0 {
		cfg.RetryMax = 2
	}
	a := &Adapter{cfg: cfg, log: log, sessions: map[string]*session{}}
	if strings.TrimSpace(cfg.Token) != "" {
		if err := a.RegisterSession("default", cfg.Token); err != nil {
			return nil, err
		}
	}
	return a, nil
}

// RegisterSession creates (or replaces) a bot session under the id.
func (a *Adapter) RegisterSession(sessionID, token string) error {
	if strings.TrimSpace(token) == "" {
		return errors.New("telegram token is empty")
	}
	b, err := tele.NewBot(tele.Settings{
		Token:  token,
		Poller: &tele.LongPoller{Timeout: a.cfg.PollTimeout},
	})
	if err != nil {
		return fmt.Errorf("session %s: %w", sessionID, err)
	}
	a.mu.Lock()
	a.sessions[sessionID] = &session{bot: b, healthy: true}
	a.mu.Unlock()
	a.log.Info().Str("session", sessionID).Msg("telegram session registered")
	return nil
}

func (a *Adapter) get(sessionID string) *session {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.sessions[sessionID]
}

// IsReady reports whether the session exists and has not been sidelined
// by repeated auth failures.
func (a *Adapter) IsReady(sessionID string) bool {
	s := a.get(sessionID)
	if s == nil {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.healthy
}

// Dispatch delivers one payload, retrying transient failures a bounded
// number of times. An auth failure marks the session unhealthy; this is
// the session-recovery class, not a per-message concern.
func (a *Adapter) Dispatch(ctx context.Context, sessionID, address, body string, kind transport.Kind, opt transport.Options) error {
	s := a.get(sessionID)
	if s == nil {
		return fmt.Errorf("telegram: unknown session %q", sessionID)
	}

	to, err := recipientFor(address)
	if err != nil {
		return err
	}
	what, opts := payloadFor(body, kind, opt)

	var last error
	for attempt := 0; attempt <= a.cfg.RetryMax; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		_, last = s.bot.Send(to, what, opts...)
		if last == nil {
			s.markOK()
			return nil
		}
		if isAuthError(last) {
			s.markCorrupt()
			a.log.Error().Err(last).Str("session", sessionID).Msg("session auth failure, sidelining")
			return last
		}
		time.Sleep(time.Duration(200+100*attempt) * time.Millisecond)
	}
	s.markFailure()
	return last
}

func (s *session) markOK() {
	s.mu.Lock()
	s.failures = 0
	s.healthy = true
	s.mu.Unlock()
}

func (s *session) markFailure() {
	s.mu.Lock()
	s.failures++
	// Persistent delivery failure usually means the token or network is
	// bad; stop claiming readiness until a send succeeds again.
	if s.failures >= 10 {
		s.healthy = false
	}
	s.mu.Unlock()
}

func (s *session) markCorrupt() {
	s.mu.Lock()
	s.healthy = false
	s.mu.Unlock()
}

func isAuthError(err error) bool {
	var teleErr *tele.Error
	if errors.As(err, &teleErr) {
		return teleErr.Code == 401 || teleErr.Code == 403
	}
	return false
}

// username addresses a public chat by its "@name". The Bot API accepts
// the name directly where a chat id would go.
type username string

func (u username) Recipient() string { return string(u) }

// recipientFor parses a channel address. Telegram chat ids are numeric;
// "@channel" names pass through as-is.
func recipientFor(address string) (tele.Recipient, error) {
	addr := strings.TrimSpace(address)
	if addr == "" {
		return nil, errors.New("telegram: empty address")
	}
	if strings.HasPrefix(addr, "@") {
		return username(addr), nil
	}
	id, err := strconv.ParseInt(addr, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("telegram: bad address %q: %w", address, err)
	}
	return tele.ChatID(id), nil
}

func payloadFor(body string, kind transport.Kind, opt transport.Options) (any, []any) {
	switch kind {
	case transport.KindMedia:
		file := tele.FromURL(opt.MediaURL)
		switch opt.MediaType {
		case "video":
			return &tele.Video{File: file, Caption: body}, nil
		case "audio":
			return &tele.Audio{File: file, Caption: body}, nil
		default:
			return &tele.Photo{File: file, Caption: body}, nil
		}
	case transport.KindButtons:
		markup := &tele.ReplyMarkup{}
		rows := make([]tele.Row, 0, len(opt.Buttons))
		for _, b := range opt.Buttons {
			rows = append(rows, markup.Row(markup.Data(b.Text, b.ID)))
		}
		markup.Inline(rows...)
		return body, []any{markup}
	default:
		return body, nil
	}
}
