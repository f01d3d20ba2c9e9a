package dialog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/anonpost/internal/board"
	"github.com/anonpost/internal/session"
)

const msgNoComments = "No comments yet. Be the first."

// openComments renders a post's comment thread into the user's private
// chat and opens a commenting session on that post.
func (e *Engine) openComments(ctx context.Context, in Incoming, postID int64) error {
	post, ok := e.store.Get(postID)
	if !ok {
		e.sessions.Clear(in.ChatID)
		return e.sendPlain(ctx, in.ChatID, msgGone)
	}

	header := fmt.Sprintf("💬 %d comments", post.CommentCount())
	if body := post.Body.Text; body != "" {
		header = fmt.Sprintf("%s\n\n%s", truncate(body, 200), header)
	}
	if err := e.sendPlain(ctx, in.ChatID, header); err != nil {
		return err
	}

	if post.CommentCount() == 0 {
		if err := e.sendPlain(ctx, in.ChatID, msgNoComments); err != nil {
			return err
		}
	}
	for i, comment := range post.Comments {
		if err := e.renderNode(ctx, in.ChatID, post, board.Path{i}, comment, 0); err != nil {
			return err
		}
	}

	e.sessions.Set(&session.Session{
		ChatID: in.ChatID,
		UserID: in.UserID,
		Step:   session.StepCommenting,
		Draft:  session.Draft{PostID: postID},
	})
	return e.sendPlain(ctx, in.ChatID, msgCommentPrompt)
}

// renderNode sends one node with its reaction and reply affordances,
// then its children depth-first so replies read under their parent.
func (e *Engine) renderNode(ctx context.Context, chatID int64, post *board.Post, path board.Path, node *board.Node, depth int) error {
	text := nodeText(node, node.Alias, depth)
	opts := SendOptions{Keyboard: nodeActionRows(node, post.ID, path)}

	var err error
	if node.Content.Media != nil {
		_, err = e.messenger.SendMedia(ctx, chatID, *node.Content.Media, text, opts)
	} else {
		_, err = e.messenger.SendText(ctx, chatID, text, opts)
	}
	if err != nil {
		e.metrics.TransportError()
		return err
	}

	for i, child := range node.Children {
		if err := e.renderNode(ctx, chatID, post, path.Child(i), child, depth+1); err != nil {
			return err
		}
	}
	return nil
}

// stepCommenting takes the comment body. Media posts immediately; text
// detours through a preview confirmation.
func (e *Engine) stepCommenting(ctx context.Context, s *session.Session, in Incoming) error {
	if in.Media != nil {
		return e.appendComment(ctx, s, board.Content{Text: in.Text, Media: in.Media})
	}
	if strings.TrimSpace(in.Text) == "" {
		return e.sendPlain(ctx, s.ChatID, msgCommentPrompt)
	}
	s.Draft.Pending = in.Text
	s.Step = session.StepConfirmComment
	e.sessions.Set(s)
	preview := fmt.Sprintf("%s\n\n%s", in.Text, msgCommentPreview)
	return e.sendWithKeyboard(ctx, s.ChatID, preview, confirmCommentKeyboard)
}

func (e *Engine) stepConfirmComment(ctx context.Context, s *session.Session, in Incoming) error {
	switch {
	case labelIs(in.Text, labelSend):
		return e.appendComment(ctx, s, board.Content{Text: s.Draft.Pending})
	case labelIs(in.Text, labelEdit):
		s.Draft.Pending = ""
		s.Step = session.StepCommenting
		e.sessions.Set(s)
		return e.sendPlain(ctx, s.ChatID, msgCommentPrompt)
	case labelIs(in.Text, labelCancel):
		e.sessions.Clear(s.ChatID)
		return e.sendPlain(ctx, s.ChatID, msgCancelled)
	}
	return e.sendWithKeyboard(ctx, s.ChatID, msgCommentPreview, confirmCommentKeyboard)
}

// appendComment appends a top-level comment, refreshes the comment-count
// affordance on the published message best-effort, and ends the session.
func (e *Engine) appendComment(ctx context.Context, s *session.Session, content board.Content) error {
	var count int
	err := e.store.Mutate(s.Draft.PostID, func(p *board.Post) error {
		node := board.NewNode(content)
		node.Alias = p.AliasFor(s.UserID)
		p.AppendComment(node)
		count = p.CommentCount()
		return nil
	})
	if errors.Is(err, board.ErrNotFound) {
		e.sessions.Clear(s.ChatID)
		return e.sendPlain(ctx, s.ChatID, msgGone)
	}
	if err != nil {
		log.Error().Err(err).Int64("post_id", s.Draft.PostID).Msg("persisting comment failed")
	}

	e.effort.EditActionRow(ctx, e.cfg.ChannelID, s.Draft.PostID,
		commentCountRow(e.cfg.BotUsername, s.Draft.PostID, count))

	e.metrics.CommentAppended()
	e.sessions.Clear(s.ChatID)
	return e.sendPlain(ctx, s.ChatID, msgCommentAdded)
}

// stepReplying takes the reply body and appends it under the addressed
// node. The session already carries the target coordinates; a deeper
// reply simply starts a new replying session at the child's path.
func (e *Engine) stepReplying(ctx context.Context, s *session.Session, in Incoming) error {
	content := board.Content{Text: in.Text, Media: in.Media}
	if content.IsEmpty() || (in.Media == nil && strings.TrimSpace(in.Text) == "") {
		return e.sendPlain(ctx, s.ChatID, msgReplyPrompt)
	}

	err := e.store.Mutate(s.Draft.PostID, func(p *board.Post) error {
		node := board.NewNode(content)
		node.Alias = p.AliasFor(s.UserID)
		_, appendErr := p.AppendChild(s.Draft.Path, node)
		return appendErr
	})
	if errors.Is(err, board.ErrNotFound) {
		e.sessions.Clear(s.ChatID)
		return e.sendPlain(ctx, s.ChatID, msgGone)
	}
	if err != nil {
		log.Error().Err(err).Int64("post_id", s.Draft.PostID).Msg("persisting reply failed")
	}

	e.metrics.ReplyAppended()
	e.sessions.Clear(s.ChatID)
	return e.sendPlain(ctx, s.ChatID, msgReplyAdded)
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "…"
}
