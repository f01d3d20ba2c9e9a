package dialog

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/anonpost/internal/board"
	"github.com/anonpost/internal/session"
)

// stepTyping buffers the draft body. Text goes straight to topic
// selection; media detours through a caption sub-step first.
func (e *Engine) stepTyping(ctx context.Context, s *session.Session, in Incoming) error {
	if in.Media != nil {
		s.Draft.Media = in.Media
		s.Step = session.StepAwaitingCaption
		e.sessions.Set(s)
		return e.sendWithKeyboard(ctx, in.ChatID, msgAskCaption, captionKeyboard)
	}
	if strings.TrimSpace(in.Text) != "" {
		s.Draft.Text = in.Text
		return e.advanceToTopic(ctx, s)
	}
	return e.sendPlain(ctx, in.ChatID, msgAskBody)
}

func (e *Engine) stepAwaitingCaption(ctx context.Context, s *session.Session, in Incoming) error {
	if !labelIs(in.Text, labelSkip) && strings.TrimSpace(in.Text) != "" {
		s.Draft.Text = in.Text
	}
	return e.advanceToTopic(ctx, s)
}

// advanceToTopic moves to topic selection, or straight to the
// confirmation preview when no topics are configured.
func (e *Engine) advanceToTopic(ctx context.Context, s *session.Session) error {
	if len(e.cfg.Topics) == 0 {
		return e.advanceToConfirm(ctx, s)
	}
	s.Step = session.StepChooseTopic
	e.sessions.Set(s)
	return e.sendWithKeyboard(ctx, s.ChatID, msgChooseTopic, e.topicKeyboard())
}

// stepChooseTopic accepts exactly one of the fixed topic labels; any
// other input re-prompts without a state change.
func (e *Engine) stepChooseTopic(ctx context.Context, s *session.Session, in Incoming) error {
	for _, topic := range e.cfg.Topics {
		if labelIs(in.Text, topic.Label) {
			s.Draft.Topic = topic.Label
			s.Draft.TopicID = topic.ThreadID
			return e.advanceToConfirm(ctx, s)
		}
	}
	return e.sendWithKeyboard(ctx, s.ChatID, msgUnknownTopic, e.topicKeyboard())
}

func (e *Engine) advanceToConfirm(ctx context.Context, s *session.Session) error {
	s.Step = session.StepConfirming
	e.sessions.Set(s)
	return e.sendWithKeyboard(ctx, s.ChatID, draftPreview(s.Draft), confirmKeyboard)
}

// stepConfirming accepts edit, format, cancel or submit. Edit clears the
// draft text on purpose: the user retypes the body from scratch.
func (e *Engine) stepConfirming(ctx context.Context, s *session.Session, in Incoming) error {
	switch {
	case labelIs(in.Text, labelEdit):
		s.Draft.Text = ""
		s.Step = session.StepTyping
		e.sessions.Set(s)
		return e.sendPlain(ctx, s.ChatID, msgAskBody)
	case labelIs(in.Text, labelFormat):
		s.Step = session.StepFormatting
		e.sessions.Set(s)
		return e.sendWithKeyboard(ctx, s.ChatID, msgChooseFormat, formatKeyboard)
	case labelIs(in.Text, labelCancel):
		e.sessions.Clear(s.ChatID)
		return e.sendPlain(ctx, s.ChatID, msgCancelled)
	case labelIs(in.Text, labelSubmit):
		return e.publish(ctx, s)
	}
	return e.sendWithKeyboard(ctx, s.ChatID, msgConfirmHint, confirmKeyboard)
}

// stepFormatting wraps the current draft text in the selected style's
// delimiters. Wrapping an already wrapped draft nests the markers; the
// delimiters are never stripped.
func (e *Engine) stepFormatting(ctx context.Context, s *session.Session, in Incoming) error {
	if labelIs(in.Text, labelBack) {
		return e.advanceToConfirm(ctx, s)
	}
	if wrapped, ok := wrapStyle(in.Text, s.Draft.Text); ok {
		s.Draft.Text = wrapped
		return e.advanceToConfirm(ctx, s)
	}
	return e.sendWithKeyboard(ctx, s.ChatID, msgChooseFormat, formatKeyboard)
}

// publish is the submission algorithm. Membership is verified before any
// channel write; the comment affordance is attached only after the send
// returns the channel message id, because the deep link needs that id.
func (e *Engine) publish(ctx context.Context, s *session.Session) error {
	content := board.Content{Text: s.Draft.Text, Media: s.Draft.Media}
	if content.IsEmpty() {
		return e.sendWithKeyboard(ctx, s.ChatID, msgEmptyDraft, confirmKeyboard)
	}

	status, err := e.messenger.CheckMembership(ctx, e.cfg.GroupID, s.UserID)
	if err != nil {
		log.Warn().Err(err).Int64("user_id", s.UserID).Msg("membership check failed")
		return e.sendWithKeyboard(ctx, s.ChatID, msgMustJoin, confirmKeyboard)
	}
	if !status.CanPost() {
		return e.sendWithKeyboard(ctx, s.ChatID, msgMustJoin, confirmKeyboard)
	}

	opts := SendOptions{TopicID: s.Draft.TopicID, ParseMode: "Markdown"}
	var msgID int64
	if s.Draft.Media != nil {
		msgID, err = e.messenger.SendMedia(ctx, e.cfg.ChannelID, *s.Draft.Media, s.Draft.Text, opts)
	} else {
		msgID, err = e.messenger.SendText(ctx, e.cfg.ChannelID, s.Draft.Text, opts)
	}
	if err != nil {
		e.metrics.TransportError()
		log.Error().Err(err).Int64("chat_id", s.ChatID).Msg("publish send failed")
		return e.sendWithKeyboard(ctx, s.ChatID, msgPublishFailed, confirmKeyboard)
	}

	e.effort.EditActionRow(ctx, e.cfg.ChannelID, msgID,
		commentCountRow(e.cfg.BotUsername, msgID, 0))
	if e.cfg.PinPosts {
		e.effort.PinMessage(ctx, e.cfg.ChannelID, msgID)
	}

	post := board.NewPost(msgID, content, s.Draft.Topic, s.Draft.TopicID)
	if err := e.store.Put(post); err != nil {
		// In-memory state stays; disk catches up on the next save.
		log.Error().Err(err).Int64("post_id", msgID).Msg("persisting new post failed")
	}

	e.sessions.Clear(s.ChatID)
	e.metrics.PostPublished()
	return e.sendPlain(ctx, s.ChatID, msgPosted)
}

func (e *Engine) topicKeyboard() [][]string {
	rows := make([][]string, 0, (len(e.cfg.Topics)+1)/2)
	for i := 0; i < len(e.cfg.Topics); i += 2 {
		row := []string{e.cfg.Topics[i].Label}
		if i+1 < len(e.cfg.Topics) {
			row = append(row, e.cfg.Topics[i+1].Label)
		}
		rows = append(rows, row)
	}
	return rows
}

// draftPreview renders the confirmation view of a draft.
func draftPreview(d session.Draft) string {
	var b strings.Builder
	if d.Media != nil {
		fmt.Fprintf(&b, "📎 %s\n", d.Media.Kind)
	}
	if d.Text != "" {
		b.WriteString(d.Text)
		b.WriteString("\n")
	}
	if d.Topic != "" {
		fmt.Fprintf(&b, "\nTopic: %s\n", d.Topic)
	}
	b.WriteString("\n")
	b.WriteString(msgConfirmHint)
	return b.String()
}
