package dialog

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/anonpost/internal/board"
	"github.com/anonpost/internal/session"
	"github.com/anonpost/internal/store"
)

type sentMessage struct {
	ChatID  int64
	Text    string
	Caption string
	Media   *board.MediaRef
	Opts    SendOptions
	ID      int64
}

type editCall struct {
	ChatID    int64
	MessageID int64
	Rows      [][]Button
}

// fakeMessenger records every transport call and hands out sequential
// message ids, standing in for Telegram in engine tests.
type fakeMessenger struct {
	mu sync.Mutex

	sent    []sentMessage
	edits   []editCall
	pins    []int64
	answers []string

	nextID       int64
	memberStatus MemberStatus
	memberErr    error
	sendErr      error
	editErr      error
}

func newFakeMessenger() *fakeMessenger {
	return &fakeMessenger{memberStatus: MemberStatusMember}
}

func (f *fakeMessenger) SendText(_ context.Context, chatID int64, text string, opts SendOptions) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.sendErr != nil {
		return 0, f.sendErr
	}
	f.nextID++
	f.sent = append(f.sent, sentMessage{ChatID: chatID, Text: text, Opts: opts, ID: f.nextID})
	return f.nextID, nil
}

func (f *fakeMessenger) SendMedia(_ context.Context, chatID int64, media board.MediaRef, caption string, opts SendOptions) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.sendErr != nil {
		return 0, f.sendErr
	}
	f.nextID++
	f.sent = append(f.sent, sentMessage{ChatID: chatID, Caption: caption, Media: &media, Opts: opts, ID: f.nextID})
	return f.nextID, nil
}

func (f *fakeMessenger) EditActionRow(_ context.Context, chatID, messageID int64, rows [][]Button) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.editErr != nil {
		return f.editErr
	}
	f.edits = append(f.edits, editCall{ChatID: chatID, MessageID: messageID, Rows: rows})
	return nil
}

func (f *fakeMessenger) CheckMembership(_ context.Context, _, _ int64) (MemberStatus, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.memberStatus, f.memberErr
}

func (f *fakeMessenger) PinMessage(_ context.Context, _, messageID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pins = append(f.pins, messageID)
	return nil
}

func (f *fakeMessenger) AnswerCallback(_ context.Context, _ string, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.answers = append(f.answers, text)
	return nil
}

func (f *fakeMessenger) lastText() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.sent) == 0 {
		return ""
	}
	return f.sent[len(f.sent)-1].Text
}

func (f *fakeMessenger) sentTo(chatID int64) []sentMessage {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []sentMessage
	for _, m := range f.sent {
		if m.ChatID == chatID {
			out = append(out, m)
		}
	}
	return out
}

func (f *fakeMessenger) lastEdit() (editCall, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.edits) == 0 {
		return editCall{}, false
	}
	return f.edits[len(f.edits)-1], true
}

const (
	testGroupID   = int64(-100100)
	testChannelID = int64(-100200)
	testChat      = int64(777)
	testUser      = int64(42)
)

func newTestEngine(t *testing.T) (*Engine, *fakeMessenger, *store.Store, *session.Manager) {
	t.Helper()
	posts, err := store.Open(filepath.Join(t.TempDir(), "posts.json"))
	require.NoError(t, err)

	fake := newFakeMessenger()
	sessions := session.NewManager()
	engine := NewEngine(Config{
		GroupID:     testGroupID,
		ChannelID:   testChannelID,
		BotUsername: "anonbot",
		Topics: []Topic{
			{Label: "Family", ThreadID: 17},
			{Label: "Work", ThreadID: 18},
		},
	}, sessions, posts, fake, nil)
	return engine, fake, posts, sessions
}

func say(t *testing.T, e *Engine, text string) {
	t.Helper()
	err := e.HandleMessage(context.Background(), Incoming{ChatID: testChat, UserID: testUser, Text: text})
	require.NoError(t, err)
}

func sendMedia(t *testing.T, e *Engine, media board.MediaRef) {
	t.Helper()
	err := e.HandleMessage(context.Background(), Incoming{ChatID: testChat, UserID: testUser, Media: &media})
	require.NoError(t, err)
}
