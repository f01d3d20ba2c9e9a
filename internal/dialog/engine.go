package dialog

import (
	"context"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/anonpost/internal/board"
	"github.com/anonpost/internal/metrics"
	"github.com/anonpost/internal/session"
	"github.com/anonpost/internal/store"
)

// Topic is one of the fixed discussion topics a post can be routed to.
// ThreadID is the forum topic thread inside the channel group.
type Topic struct {
	Label    string
	ThreadID int
}

// Config is the engine's wiring to the outside world.
type Config struct {
	GroupID     int64
	ChannelID   int64
	BotUsername string
	PinPosts    bool
	Topics      []Topic
}

// Engine is the dialogue state machine. It is the only component that
// mutates both the session manager and the post store: an inbound event
// comes in, the session decides the branch, the engine advances the
// session and/or the post tree and asks the messenger to render.
type Engine struct {
	cfg       Config
	sessions  *session.Manager
	store     *store.Store
	messenger Messenger
	effort    *BestEffort
	metrics   *metrics.Metrics

	// Handlers for the same chat must not interleave: sessions and
	// drafts are read-modify-write state, and two quick messages from
	// one user would otherwise race across transport suspend points.
	// Different chats proceed concurrently.
	chatMu    sync.Mutex
	chatLocks map[int64]*sync.Mutex
}

// NewEngine wires the state machine.
func NewEngine(cfg Config, sessions *session.Manager, posts *store.Store, m Messenger, mx *metrics.Metrics) *Engine {
	return &Engine{
		cfg:       cfg,
		sessions:  sessions,
		store:     posts,
		messenger: m,
		effort:    NewBestEffort(m),
		metrics:   mx,
		chatLocks: make(map[int64]*sync.Mutex),
	}
}

func (e *Engine) lockChat(chatID int64) func() {
	e.chatMu.Lock()
	mu, ok := e.chatLocks[chatID]
	if !ok {
		mu = &sync.Mutex{}
		e.chatLocks[chatID] = mu
	}
	e.chatMu.Unlock()
	mu.Lock()
	return mu.Unlock
}

// Incoming is one inbound private-chat event, already reduced to what
// the state machine cares about.
type Incoming struct {
	ChatID int64
	UserID int64
	Text   string
	Media  *board.MediaRef
}

// parseCommand splits "/cmd@bot payload" into its command name and
// payload. ok is false for non-command text.
func parseCommand(text string) (cmd, payload string, ok bool) {
	if !strings.HasPrefix(text, "/") {
		return "", "", false
	}
	fields := strings.Fields(text[1:])
	if len(fields) == 0 {
		return "", "", false
	}
	cmd = fields[0]
	if at := strings.Index(cmd, "@"); at >= 0 {
		cmd = cmd[:at]
	}
	return strings.ToLower(cmd), strings.Join(fields[1:], " "), true
}

// HandleMessage routes one inbound message through the state machine.
func (e *Engine) HandleMessage(ctx context.Context, in Incoming) error {
	defer e.lockChat(in.ChatID)()

	if cmd, payload, ok := parseCommand(in.Text); ok {
		switch cmd {
		case "start":
			return e.handleStart(ctx, in, payload)
		case "post":
			return e.beginPost(ctx, in)
		case "cancel":
			return e.handleCancel(ctx, in)
		default:
			return e.sendPlain(ctx, in.ChatID, msgIdleHint)
		}
	}

	s := e.sessions.Get(in.ChatID)
	if s == nil {
		return e.sendPlain(ctx, in.ChatID, msgIdleHint)
	}

	switch s.Step {
	case session.StepTyping:
		return e.stepTyping(ctx, s, in)
	case session.StepAwaitingCaption:
		return e.stepAwaitingCaption(ctx, s, in)
	case session.StepChooseTopic:
		return e.stepChooseTopic(ctx, s, in)
	case session.StepConfirming:
		return e.stepConfirming(ctx, s, in)
	case session.StepFormatting:
		return e.stepFormatting(ctx, s, in)
	case session.StepCommenting:
		return e.stepCommenting(ctx, s, in)
	case session.StepConfirmComment:
		return e.stepConfirmComment(ctx, s, in)
	case session.StepReplying:
		return e.stepReplying(ctx, s, in)
	}

	log.Warn().Str("step", string(s.Step)).Int64("chat_id", in.ChatID).Msg("unknown session step, clearing")
	e.sessions.Clear(in.ChatID)
	return e.sendPlain(ctx, in.ChatID, msgIdleHint)
}

func (e *Engine) handleStart(ctx context.Context, in Incoming, payload string) error {
	if postID, ok := ParseStartPayload(payload); ok {
		return e.openComments(ctx, in, postID)
	}
	return e.sendPlain(ctx, in.ChatID, msgIdleHint)
}

func (e *Engine) beginPost(ctx context.Context, in Incoming) error {
	e.sessions.Set(&session.Session{
		ChatID: in.ChatID,
		UserID: in.UserID,
		Step:   session.StepTyping,
	})
	return e.sendPlain(ctx, in.ChatID, msgAskBody)
}

// handleCancel clears any in-flight dialogue and acknowledges. Observed
// in any non-idle state.
func (e *Engine) handleCancel(ctx context.Context, in Incoming) error {
	if e.sessions.Get(in.ChatID) == nil {
		return e.sendPlain(ctx, in.ChatID, msgIdleHint)
	}
	e.sessions.Clear(in.ChatID)
	return e.sendPlain(ctx, in.ChatID, msgCancelled)
}

// sendPlain sends text and drops any lingering reply keyboard.
func (e *Engine) sendPlain(ctx context.Context, chatID int64, text string) error {
	_, err := e.messenger.SendText(ctx, chatID, text, SendOptions{RemoveReplyKeyboard: true})
	if err != nil {
		e.metrics.TransportError()
	}
	return err
}

// sendWithKeyboard sends text with a one-time reply keyboard.
func (e *Engine) sendWithKeyboard(ctx context.Context, chatID int64, text string, keyboard [][]string) error {
	_, err := e.messenger.SendText(ctx, chatID, text, SendOptions{ReplyKeyboard: keyboard})
	if err != nil {
		e.metrics.TransportError()
	}
	return err
}

func labelIs(text, label string) bool {
	return strings.EqualFold(strings.TrimSpace(text), label)
}
