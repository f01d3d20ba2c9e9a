package dialog

import (
	"fmt"
	"strings"

	"github.com/anonpost/internal/board"
)

// Markdown delimiters for the three supported styles. Applying a style
// wraps the current draft text as-is; applying another one afterwards
// wraps the already-wrapped text, so delimiters nest rather than
// replace.
var styleDelims = map[string]string{
	strings.ToLower(labelBold):      "*",
	strings.ToLower(labelItalic):    "_",
	strings.ToLower(labelMonospace): "`",
}

// wrapStyle applies a style label to text. ok is false for inputs that
// are not style labels.
func wrapStyle(label, text string) (string, bool) {
	delim, ok := styleDelims[strings.ToLower(strings.TrimSpace(label))]
	if !ok {
		return text, false
	}
	return delim + text + delim, true
}

// reactionEmoji maps each kind to its button face.
var reactionEmoji = map[board.ReactionKind]string{
	board.ReactionLove:     "❤️",
	board.ReactionSupport:  "🤗",
	board.ReactionAmen:     "🙏",
	board.ReactionAgree:    "👍",
	board.ReactionDisagree: "👎",
}

// nodeActionRows builds the interactive rows under a rendered node: one
// row of reaction toggles with live counts, one row with the reply
// button. Every button re-encodes (kind, postID, path) so the next click
// routes to the same node regardless of what changed in between.
func nodeActionRows(node *board.Node, postID int64, path board.Path) [][]Button {
	reactions := make([]Button, 0, len(board.ReactionKinds))
	for _, kind := range board.ReactionKinds {
		text := reactionEmoji[kind]
		if n := node.Reactions.Count(kind); n > 0 {
			text = fmt.Sprintf("%s %d", text, n)
		}
		reactions = append(reactions, Button{
			Text: text,
			Data: Action{Kind: ActionReact, Reaction: kind, PostID: postID, Path: path}.Encode(),
		})
	}
	reply := Button{
		Text: "↩️ Reply",
		Data: Action{Kind: ActionReply, PostID: postID, Path: path}.Encode(),
	}
	return [][]Button{reactions, {reply}}
}

// commentCountRow builds the single affordance attached to the published
// channel message: "N comments" opening the comment-thread deep link.
func commentCountRow(botUsername string, postID int64, count int) [][]Button {
	label := fmt.Sprintf("💬 %d comments", count)
	if count == 1 {
		label = "💬 1 comment"
	}
	return [][]Button{{{
		Text: label,
		URL:  CommentsDeepLink(botUsername, postID),
	}}}
}

// nodeText renders a node body for the private comment view. depth
// controls the thread indent; alias is the author's anonymous tag.
func nodeText(node *board.Node, alias string, depth int) string {
	indent := strings.Repeat("  ", depth)
	marker := ""
	if depth > 0 {
		marker = "↳ "
	}
	body := node.Content.Text
	if body == "" && node.Content.Media != nil {
		body = fmt.Sprintf("[%s]", node.Content.Media.Kind)
	}
	return fmt.Sprintf("%s%sAnon·%s\n%s%s", indent, marker, alias, indent, body)
}
