package telegram

import (
	"context"
	"fmt"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"golang.org/x/time/rate"

	"github.com/anonpost/internal/board"
	"github.com/anonpost/internal/dialog"
)

// Handler receives decoded updates. The dialog engine implements it.
type Handler interface {
	HandleMessage(ctx context.Context, in dialog.Incoming) error
	HandleCallback(ctx context.Context, cb dialog.Callback)
}

// Client implements dialog.Messenger over the Telegram Bot API. All
// outbound sends pass through a shared limiter: Telegram throttles bots
// at roughly thirty messages per second across all chats.
type Client struct {
	bot     *bot.Bot
	limiter *rate.Limiter
	handler Handler
}

// NewClient connects to the Bot API. Bind a handler before Start.
func NewClient(token string) (*Client, error) {
	c := &Client{
		limiter: rate.NewLimiter(rate.Limit(25), 5),
	}
	b, err := bot.New(token, bot.WithDefaultHandler(c.dispatch))
	if err != nil {
		return nil, fmt.Errorf("telegram: connect: %w", err)
	}
	c.bot = b
	return c, nil
}

// Bind sets the update handler.
func (c *Client) Bind(h Handler) {
	c.handler = h
}

// Username returns the bot's own username, needed for deep links.
func (c *Client) Username(ctx context.Context) (string, error) {
	me, err := c.bot.GetMe(ctx)
	if err != nil {
		return "", fmt.Errorf("telegram: get me: %w", err)
	}
	return me.Username, nil
}

// Start long-polls for updates until the context is cancelled.
func (c *Client) Start(ctx context.Context) {
	c.bot.Start(ctx)
}

// SendText sends a text message and returns the new message id.
func (c *Client) SendText(ctx context.Context, chatID int64, text string, opts dialog.SendOptions) (int64, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return 0, err
	}
	params := &bot.SendMessageParams{
		ChatID:          chatID,
		Text:            text,
		MessageThreadID: opts.TopicID,
		ParseMode:       models.ParseMode(opts.ParseMode),
		ReplyMarkup:     replyMarkup(opts),
	}
	msg, err := c.bot.SendMessage(ctx, params)
	if err != nil {
		return 0, fmt.Errorf("telegram: send message: %w", err)
	}
	return int64(msg.ID), nil
}

// SendMedia sends one of the five supported media kinds by file id.
func (c *Client) SendMedia(ctx context.Context, chatID int64, media board.MediaRef, caption string, opts dialog.SendOptions) (int64, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return 0, err
	}

	file := &models.InputFileString{Data: media.FileID}
	markup := replyMarkup(opts)
	parseMode := models.ParseMode(opts.ParseMode)

	var msg *models.Message
	var err error
	switch media.Kind {
	case board.MediaPhoto:
		msg, err = c.bot.SendPhoto(ctx, &bot.SendPhotoParams{
			ChatID: chatID, Photo: file, Caption: caption,
			MessageThreadID: opts.TopicID, ParseMode: parseMode, ReplyMarkup: markup,
		})
	case board.MediaVideo:
		msg, err = c.bot.SendVideo(ctx, &bot.SendVideoParams{
			ChatID: chatID, Video: file, Caption: caption,
			MessageThreadID: opts.TopicID, ParseMode: parseMode, ReplyMarkup: markup,
		})
	case board.MediaDocument:
		msg, err = c.bot.SendDocument(ctx, &bot.SendDocumentParams{
			ChatID: chatID, Document: file, Caption: caption,
			MessageThreadID: opts.TopicID, ParseMode: parseMode, ReplyMarkup: markup,
		})
	case board.MediaAudio:
		msg, err = c.bot.SendAudio(ctx, &bot.SendAudioParams{
			ChatID: chatID, Audio: file, Caption: caption,
			MessageThreadID: opts.TopicID, ParseMode: parseMode, ReplyMarkup: markup,
		})
	case board.MediaVoice:
		msg, err = c.bot.SendVoice(ctx, &bot.SendVoiceParams{
			ChatID: chatID, Voice: file, Caption: caption,
			MessageThreadID: opts.TopicID, ParseMode: parseMode, ReplyMarkup: markup,
		})
	default:
		return 0, fmt.Errorf("telegram: unsupported media kind %q", media.Kind)
	}
	if err != nil {
		return 0, fmt.Errorf("telegram: send %s: %w", media.Kind, err)
	}
	return int64(msg.ID), nil
}

// EditActionRow replaces the inline keyboard on an existing message.
func (c *Client) EditActionRow(ctx context.Context, chatID, messageID int64, rows [][]dialog.Button) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}
	_, err := c.bot.EditMessageReplyMarkup(ctx, &bot.EditMessageReplyMarkupParams{
		ChatID:      chatID,
		MessageID:   int(messageID),
		ReplyMarkup: inlineKeyboard(rows),
	})
	if err != nil {
		return fmt.Errorf("telegram: edit reply markup: %w", err)
	}
	return nil
}

// CheckMembership asks the group for the user's standing.
func (c *Client) CheckMembership(ctx context.Context, groupID, userID int64) (dialog.MemberStatus, error) {
	member, err := c.bot.GetChatMember(ctx, &bot.GetChatMemberParams{
		ChatID: groupID,
		UserID: userID,
	})
	if err != nil {
		return "", fmt.Errorf("telegram: get chat member: %w", err)
	}
	return memberStatus(member), nil
}

// PinMessage pins a channel message.
func (c *Client) PinMessage(ctx context.Context, chatID, messageID int64) error {
	_, err := c.bot.PinChatMessage(ctx, &bot.PinChatMessageParams{
		ChatID:    chatID,
		MessageID: int(messageID),
	})
	if err != nil {
		return fmt.Errorf("telegram: pin message: %w", err)
	}
	return nil
}

// AnswerCallback closes the spinner on a pressed inline button.
func (c *Client) AnswerCallback(ctx context.Context, callbackID, text string) error {
	_, err := c.bot.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{
		CallbackQueryID: callbackID,
		Text:            text,
	})
	if err != nil {
		return fmt.Errorf("telegram: answer callback: %w", err)
	}
	return nil
}

func memberStatus(m *models.ChatMember) dialog.MemberStatus {
	switch {
	case m.Owner != nil:
		return dialog.MemberStatusCreator
	case m.Administrator != nil:
		return dialog.MemberStatusAdministrator
	case m.Member != nil:
		return dialog.MemberStatusMember
	case m.Restricted != nil:
		return dialog.MemberStatusRestricted
	case m.Banned != nil:
		return dialog.MemberStatusBanned
	}
	return dialog.MemberStatusLeft
}

func inlineKeyboard(rows [][]dialog.Button) *models.InlineKeyboardMarkup {
	keyboard := make([][]models.InlineKeyboardButton, 0, len(rows))
	for _, row := range rows {
		buttons := make([]models.InlineKeyboardButton, 0, len(row))
		for _, b := range row {
			buttons = append(buttons, models.InlineKeyboardButton{
				Text:         b.Text,
				CallbackData: b.Data,
				URL:          b.URL,
			})
		}
		keyboard = append(keyboard, buttons)
	}
	return &models.InlineKeyboardMarkup{InlineKeyboard: keyboard}
}

func replyMarkup(opts dialog.SendOptions) models.ReplyMarkup {
	switch {
	case len(opts.Keyboard) > 0:
		return inlineKeyboard(opts.Keyboard)
	case len(opts.ReplyKeyboard) > 0:
		rows := make([][]models.KeyboardButton, 0, len(opts.ReplyKeyboard))
		for _, row := range opts.ReplyKeyboard {
			buttons := make([]models.KeyboardButton, 0, len(row))
			for _, label := range row {
				buttons = append(buttons, models.KeyboardButton{Text: label})
			}
			rows = append(rows, buttons)
		}
		return &models.ReplyKeyboardMarkup{
			Keyboard:        rows,
			ResizeKeyboard:  true,
			OneTimeKeyboard: true,
		}
	case opts.RemoveReplyKeyboard:
		return &models.ReplyKeyboardRemove{RemoveKeyboard: true}
	}
	return nil
}
