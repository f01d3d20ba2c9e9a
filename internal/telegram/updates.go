package telegram

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/rs/zerolog/log"

	"github.com/anonpost/internal/board"
	"github.com/anonpost/internal/dialog"
)

// dispatch reduces a raw update to the engine's event types. Only
// private chats drive dialogues; channel and group traffic is ignored
// apart from callback presses, which carry their own chat id.
func (c *Client) dispatch(ctx context.Context, _ *bot.Bot, update *models.Update) {
	if c.handler == nil {
		return
	}

	switch {
	case update.CallbackQuery != nil:
		cb := update.CallbackQuery
		var chatID, messageID int64
		if cb.Message.Message != nil {
			chatID = cb.Message.Message.Chat.ID
			messageID = int64(cb.Message.Message.ID)
		}
		c.handler.HandleCallback(ctx, dialog.Callback{
			ChatID:     chatID,
			UserID:     cb.From.ID,
			MessageID:  messageID,
			CallbackID: cb.ID,
			Data:       cb.Data,
		})

	case update.Message != nil:
		msg := update.Message
		if msg.Chat.Type != "private" || msg.From == nil {
			return
		}
		in := dialog.Incoming{
			ChatID: msg.Chat.ID,
			UserID: msg.From.ID,
			Text:   msg.Text,
			Media:  mediaFrom(msg),
		}
		if in.Text == "" {
			in.Text = msg.Caption
		}
		if err := c.handler.HandleMessage(ctx, in); err != nil {
			log.Error().Err(err).Int64("chat_id", in.ChatID).Msg("update handling failed")
		}
	}
}

// mediaFrom extracts the supported media reference from a message, if
// any. For photos Telegram sends every resolution; the last entry is the
// largest.
func mediaFrom(msg *models.Message) *board.MediaRef {
	switch {
	case len(msg.Photo) > 0:
		return &board.MediaRef{Kind: board.MediaPhoto, FileID: msg.Photo[len(msg.Photo)-1].FileID}
	case msg.Video != nil:
		return &board.MediaRef{Kind: board.MediaVideo, FileID: msg.Video.FileID}
	case msg.Document != nil:
		return &board.MediaRef{Kind: board.MediaDocument, FileID: msg.Document.FileID}
	case msg.Audio != nil:
		return &board.MediaRef{Kind: board.MediaAudio, FileID: msg.Audio.FileID}
	case msg.Voice != nil:
		return &board.MediaRef{Kind: board.MediaVoice, FileID: msg.Voice.FileID}
	}
	return nil
}
