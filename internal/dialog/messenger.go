package dialog

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/anonpost/internal/board"
)

// MemberStatus is the membership standing of a user in the gate group.
type MemberStatus string

const (
	MemberStatusCreator       MemberStatus = "creator"
	MemberStatusAdministrator MemberStatus = "administrator"
	MemberStatusMember        MemberStatus = "member"
	MemberStatusRestricted    MemberStatus = "restricted"
	MemberStatusLeft          MemberStatus = "left"
	MemberStatusBanned        MemberStatus = "kicked"
)

// CanPost reports whether the status is good enough to publish.
func (s MemberStatus) CanPost() bool {
	switch s {
	case MemberStatusCreator, MemberStatusAdministrator, MemberStatusMember:
		return true
	}
	return false
}

// Button is one interactive affordance. Data buttons route back through
// the action codec; URL buttons open a deep link.
type Button struct {
	Text string
	Data string
	URL  string
}

// SendOptions carries everything optional about an outbound send.
type SendOptions struct {
	TopicID   int
	ParseMode string

	// Keyboard attaches inline buttons under the sent message.
	Keyboard [][]Button

	// ReplyKeyboard shows a one-time custom keyboard in the private
	// chat; RemoveReplyKeyboard hides any previous one.
	ReplyKeyboard       [][]string
	RemoveReplyKeyboard bool
}

// Messenger is the chat transport the engine talks to. The Telegram
// implementation lives in internal/telegram; tests substitute a fake.
type Messenger interface {
	SendText(ctx context.Context, chatID int64, text string, opts SendOptions) (int64, error)
	SendMedia(ctx context.Context, chatID int64, media board.MediaRef, caption string, opts SendOptions) (int64, error)
	EditActionRow(ctx context.Context, chatID, messageID int64, rows [][]Button) error
	CheckMembership(ctx context.Context, groupID, userID int64) (MemberStatus, error)
	PinMessage(ctx context.Context, chatID, messageID int64) error
	AnswerCallback(ctx context.Context, callbackID, text string) error
}

// BestEffort wraps the side-effect calls whose failure must never block
// the primary operation: the comment-count refresh on the published
// message and pinning. Errors are logged and swallowed.
type BestEffort struct {
	m Messenger
}

// NewBestEffort wraps a messenger.
func NewBestEffort(m Messenger) *BestEffort {
	return &BestEffort{m: m}
}

// EditActionRow rewrites the action row, logging any failure.
func (b *BestEffort) EditActionRow(ctx context.Context, chatID, messageID int64, rows [][]Button) {
	if err := b.m.EditActionRow(ctx, chatID, messageID, rows); err != nil {
		log.Warn().Err(err).
			Int64("chat_id", chatID).
			Int64("message_id", messageID).
			Msg("action row refresh failed, continuing")
	}
}

// PinMessage pins, logging any failure.
func (b *BestEffort) PinMessage(ctx context.Context, chatID, messageID int64) {
	if err := b.m.PinMessage(ctx, chatID, messageID); err != nil {
		log.Warn().Err(err).
			Int64("chat_id", chatID).
			Int64("message_id", messageID).
			Msg("pin failed, continuing")
	}
}

// AnswerCallback acknowledges a button press, logging any failure.
func (b *BestEffort) AnswerCallback(ctx context.Context, callbackID, text string) {
	if err := b.m.AnswerCallback(ctx, callbackID, text); err != nil {
		log.Warn().Err(err).Msg("callback answer failed, continuing")
	}
}
