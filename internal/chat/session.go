package chat

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/iburimskiy/edna-dashboard/internal/fixture"
)

var (
	ErrNoAnalysis    = errors.New("chat: no analysis loaded")
	ErrEmptyResponse = errors.New("chat: empty response from model")
	ErrBusy          = errors.New("chat: a reply is still pending")
)

// Bot replies used when the model gives nothing usable.
const (
	EmptyReply      = "Sorry, I received an empty response from the service. Please try a different query."
	ConnectionReply = "Sorry, I am unable to connect to the service. Please check the API key, network, and logs for details."
	InitFailedReply = "Initialization failed: Cannot load local analysis data."
)

type Role string

const (
	RoleUser Role = "user"
	RoleBot  Role = "bot"
)

type Message struct {
	ID      string
	Role    Role
	Content string
	At      time.Time
}

// Session is one conversation about the current analysis. Send may be
// called from a goroutine while the UI polls Messages and Busy.
type Session struct {
	mu         sync.Mutex
	gen        Generator
	log        *zap.Logger
	maxHistory int
	analysis   *fixture.Analysis
	prompt     string
	messages   []Message
	busy       bool
	now        func() time.Time
}

// NewSession starts a conversation with a welcome message. gen may be nil,
// in which case every question gets the connection apology.
func NewSession(gen Generator, a *fixture.Analysis, maxHistory int, log *zap.Logger) *Session {
	s := &Session{gen: gen, log: log, maxHistory: maxHistory, now: time.Now}
	s.SetAnalysis(a)
	return s
}

// SetAnalysis swaps the analysis the bot talks about and greets again.
func (s *Session) SetAnalysis(a *fixture.Analysis) {
	prompt, err := BuildSystemPrompt(a)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.log.Warn("chat prompt unavailable", zap.Error(err))
		s.analysis, s.prompt = nil, ""
		s.appendLocked(RoleBot, InitFailedReply)
		return
	}
	s.analysis, s.prompt = a, prompt
	title := a.Title
	if title == "" {
		title = "analysis " + a.ID
	}
	s.appendLocked(RoleBot, "Hello! I'm the E-DNA Bot. I've loaded your **"+title+
		"** data. How can I help you analyze the microbial communities?")
}

// Send asks a question and appends both the question and the reply. Blank
// input is ignored and returns a zero Message.
func (s *Session) Send(ctx context.Context, text string) (Message, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return Message{}, nil
	}

	s.mu.Lock()
	switch {
	case s.busy:
		s.mu.Unlock()
		return Message{}, ErrBusy
	case s.analysis == nil:
		s.mu.Unlock()
		return Message{}, ErrNoAnalysis
	}
	history := append([]Message(nil), s.messages...)
	s.appendLocked(RoleUser, text)
	s.busy = true
	prompt, gen := s.prompt, s.gen
	s.mu.Unlock()

	reply, err := s.generate(ctx, gen, prompt, history, text)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.busy = false
	return s.appendLocked(RoleBot, reply), err
}

func (s *Session) generate(ctx context.Context, gen Generator, prompt string, history []Message, text string) (string, error) {
	if gen == nil {
		s.log.Warn("chat model not configured")
		return ConnectionReply, ErrNoAPIKey
	}
	start := time.Now()
	reply, err := gen.Generate(ctx, prompt, history, text)
	if err != nil {
		s.log.Error("chat request failed", zap.Error(err), zap.Duration("took", time.Since(start)))
		return ConnectionReply, err
	}
	if strings.TrimSpace(reply) == "" {
		s.log.Warn("chat reply empty", zap.Error(ErrEmptyResponse))
		return EmptyReply, ErrEmptyResponse
	}
	s.log.Debug("chat reply", zap.Int("chars", len(reply)), zap.Duration("took", time.Since(start)))
	return reply, nil
}

func (s *Session) appendLocked(role Role, content string) Message {
	m := Message{ID: uuid.NewString(), Role: role, Content: content, At: s.now()}
	s.messages = append(s.messages, m)
	if s.maxHistory > 0 && len(s.messages) > s.maxHistory {
		s.messages = append([]Message(nil), s.messages[len(s.messages)-s.maxHistory:]...)
	}
	return m
}

// Messages returns a copy of the conversation, oldest first.
func (s *Session) Messages() []Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Message(nil), s.messages...)
}

func (s *Session) Busy() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.busy
}
