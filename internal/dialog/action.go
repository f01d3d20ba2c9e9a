package dialog

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/anonpost/internal/board"
)

// ActionKind discriminates the typed actions decoded from callback
// payloads at the boundary.
type ActionKind string

const (
	ActionReact ActionKind = "react"
	ActionReply ActionKind = "reply"
)

// actionSep joins callback payload fields. Colon cannot appear in a
// numeric id (unlike underscore, which would collide with the minus sign
// of negative chat ids being read as a field break by sloppier schemes).
const actionSep = ":"

// Action is a decoded button press: react to or reply to the node at
// Path inside the post PostID.
type Action struct {
	Kind     ActionKind
	Reaction board.ReactionKind
	PostID   int64
	Path     board.Path
}

// Encode renders the action as a callback payload. The layouts are
//
//	react:<kind>:<postID>:<path>
//	reply:<postID>:<path>
//
// where <path> is dot-joined child indices, e.g. "0.2.1".
func (a Action) Encode() string {
	switch a.Kind {
	case ActionReact:
		return strings.Join([]string{
			string(ActionReact),
			string(a.Reaction),
			strconv.FormatInt(a.PostID, 10),
			a.Path.String(),
		}, actionSep)
	case ActionReply:
		return strings.Join([]string{
			string(ActionReply),
			strconv.FormatInt(a.PostID, 10),
			a.Path.String(),
		}, actionSep)
	}
	return ""
}

// ParseAction decodes a callback payload. Unknown or malformed payloads
// return an error; the caller answers the callback and moves on.
func ParseAction(data string) (Action, error) {
	parts := strings.Split(data, actionSep)
	switch ActionKind(parts[0]) {
	case ActionReact:
		if len(parts) != 4 {
			return Action{}, fmt.Errorf("dialog: malformed react payload %q", data)
		}
		kind := board.ReactionKind(parts[1])
		if !board.ValidReaction(kind) {
			return Action{}, fmt.Errorf("dialog: unknown reaction %q", parts[1])
		}
		postID, err := strconv.ParseInt(parts[2], 10, 64)
		if err != nil {
			return Action{}, fmt.Errorf("dialog: bad post id in %q: %w", data, err)
		}
		path, err := board.ParsePath(parts[3])
		if err != nil {
			return Action{}, fmt.Errorf("dialog: bad path in %q: %w", data, err)
		}
		return Action{Kind: ActionReact, Reaction: kind, PostID: postID, Path: path}, nil

	case ActionReply:
		if len(parts) != 3 {
			return Action{}, fmt.Errorf("dialog: malformed reply payload %q", data)
		}
		postID, err := strconv.ParseInt(parts[1], 10, 64)
		if err != nil {
			return Action{}, fmt.Errorf("dialog: bad post id in %q: %w", data, err)
		}
		path, err := board.ParsePath(parts[2])
		if err != nil {
			return Action{}, fmt.Errorf("dialog: bad path in %q: %w", data, err)
		}
		return Action{Kind: ActionReply, PostID: postID, Path: path}, nil
	}
	return Action{}, fmt.Errorf("dialog: unknown action payload %q", data)
}

// startPayloadPrefix marks a comment-thread deep link. Telegram start
// payloads only allow [A-Za-z0-9_-], so the separator here stays an
// underscore; the split on the first underscore is unambiguous because
// the prefix itself is fixed.
const startPayloadPrefix = "comments_"

// ParseStartPayload extracts the post id from a deep-link start payload.
// Returns ok=false for a plain /start with no payload of ours.
func ParseStartPayload(payload string) (int64, bool) {
	if !strings.HasPrefix(payload, startPayloadPrefix) {
		return 0, false
	}
	id, err := strconv.ParseInt(strings.TrimPrefix(payload, startPayloadPrefix), 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

// CommentsDeepLink builds the t.me link that opens the bot on the
// comment thread for a post.
func CommentsDeepLink(botUsername string, postID int64) string {
	return fmt.Sprintf("https://t.me/%s?start=%s%d", botUsername, startPayloadPrefix, postID)
}
