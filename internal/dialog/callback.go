package dialog

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"

	"github.com/anonpost/internal/board"
	"github.com/anonpost/internal/session"
)

// Callback is one inline-button press.
type Callback struct {
	ChatID     int64
	UserID     int64
	MessageID  int64
	CallbackID string
	Data       string
}

// HandleCallback decodes the payload once at the boundary and routes the
// typed action. Malformed payloads are acknowledged and dropped.
func (e *Engine) HandleCallback(ctx context.Context, cb Callback) {
	defer e.lockChat(cb.ChatID)()

	action, err := ParseAction(cb.Data)
	if err != nil {
		log.Warn().Err(err).Str("data", cb.Data).Msg("dropping malformed callback")
		e.effort.AnswerCallback(ctx, cb.CallbackID, "")
		return
	}

	switch action.Kind {
	case ActionReact:
		e.handleReact(ctx, cb, action)
	case ActionReply:
		e.handleReply(ctx, cb, action)
	}
}

// handleReact toggles the reaction and re-renders the node's full action
// row so every button carries fresh counts.
func (e *Engine) handleReact(ctx context.Context, cb Callback, action Action) {
	var added bool
	var rows [][]Button
	err := e.store.Mutate(action.PostID, func(p *board.Post) error {
		node, resolveErr := p.Resolve(action.Path)
		if resolveErr != nil {
			return resolveErr
		}
		added = node.Reactions.Toggle(cb.UserID, action.Reaction)
		rows = nodeActionRows(node, action.PostID, action.Path)
		return nil
	})
	if errors.Is(err, board.ErrNotFound) {
		e.sessions.Clear(cb.ChatID)
		e.effort.AnswerCallback(ctx, cb.CallbackID, msgGone)
		return
	}
	if err != nil {
		// Toggle already applied in memory; disk catches up later.
		log.Error().Err(err).Int64("post_id", action.PostID).Msg("persisting reaction failed")
	}

	e.metrics.ReactionToggled(added)
	e.effort.EditActionRow(ctx, cb.ChatID, cb.MessageID, rows)

	ack := msgReactionRemoved
	if added {
		ack = msgReactionAdded
	}
	e.effort.AnswerCallback(ctx, cb.CallbackID, ack)
}

// handleReply opens a replying session at the pressed node's
// coordinates. Replying to a reply goes through here again with a longer
// path; depth is unbounded.
func (e *Engine) handleReply(ctx context.Context, cb Callback, action Action) {
	post, ok := e.store.Get(action.PostID)
	if !ok {
		e.sessions.Clear(cb.ChatID)
		e.effort.AnswerCallback(ctx, cb.CallbackID, msgGone)
		return
	}
	if _, err := post.Resolve(action.Path); err != nil {
		e.sessions.Clear(cb.ChatID)
		e.effort.AnswerCallback(ctx, cb.CallbackID, msgGone)
		return
	}

	e.sessions.Set(&session.Session{
		ChatID: cb.ChatID,
		UserID: cb.UserID,
		Step:   session.StepReplying,
		Draft:  session.Draft{PostID: action.PostID, Path: action.Path},
	})
	e.effort.AnswerCallback(ctx, cb.CallbackID, "")
	if err := e.sendPlain(ctx, cb.ChatID, msgReplyPrompt); err != nil {
		log.Warn().Err(err).Int64("chat_id", cb.ChatID).Msg("reply prompt failed")
	}
}
