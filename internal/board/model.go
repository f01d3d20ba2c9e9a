package board

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned when a post/comment/reply coordinate no longer
// resolves (stale deep link, index out of range).
var ErrNotFound = errors.New("board: node not found")

// MediaKind identifies the kind of an attached media reference.
type MediaKind string

const (
	MediaPhoto    MediaKind = "photo"
	MediaVideo    MediaKind = "video"
	MediaDocument MediaKind = "document"
	MediaAudio    MediaKind = "audio"
	MediaVoice    MediaKind = "voice"
)

// MediaRef points at a file already uploaded to the chat platform. The
// FileID is opaque to us; we only ever hand it back when re-sending.
type MediaRef struct {
	Kind   MediaKind `json:"kind"`
	FileID string    `json:"file_id"`
}

// Content is the body of a post, comment or reply: plain text, a media
// reference, or both (media with caption text).
type Content struct {
	Text  string    `json:"text,omitempty"`
	Media *MediaRef `json:"media,omitempty"`
}

// IsEmpty reports whether the content carries neither text nor media.
func (c Content) IsEmpty() bool {
	return c.Text == "" && c.Media == nil
}

// Node is a comment or a reply at any depth. Children is append-only:
// a child's index within its parent is its stable address, so nothing
// may ever be removed from the slice.
type Node struct {
	Content   Content      `json:"content"`
	Reactions *ReactionSet `json:"reactions"`
	Children  []*Node      `json:"children,omitempty"`
	Alias     string       `json:"alias,omitempty"`
	CreatedAt time.Time    `json:"created_at"`
}

// NewNode creates a node with zero-initialized reaction counts for the
// full reaction vocabulary.
func NewNode(content Content) *Node {
	return &Node{
		Content:   content,
		Reactions: NewReactionSet(),
		CreatedAt: time.Now().UTC(),
	}
}

// Post is the top-level aggregate: the anonymous submission plus its
// comment tree. ID is the channel message id assigned at publish time
// and doubles as the primary key in the store.
type Post struct {
	ID        int64            `json:"id"`
	Body      Content          `json:"body"`
	Topic     string           `json:"topic,omitempty"`
	TopicID   int              `json:"topic_id,omitempty"`
	Comments  []*Node          `json:"comments"`
	Aliases   map[int64]string `json:"aliases,omitempty"`
	CreatedAt time.Time        `json:"created_at"`
}

// NewPost creates a published post with an empty comment list.
func NewPost(id int64, body Content, topic string, topicID int) *Post {
	return &Post{
		ID:        id,
		Body:      body,
		Topic:     topic,
		TopicID:   topicID,
		Comments:  []*Node{},
		CreatedAt: time.Now().UTC(),
	}
}

// AppendComment appends a top-level comment and returns its index.
func (p *Post) AppendComment(n *Node) int {
	p.Comments = append(p.Comments, n)
	return len(p.Comments) - 1
}

// CommentCount returns the number of top-level comments. Replies do not
// count toward the affordance shown on the published message.
func (p *Post) CommentCount() int {
	return len(p.Comments)
}

// AliasFor returns the stable anonymous alias for a user within this
// post, assigning one on first use. The alias lets readers follow a
// single author through a thread without learning who they are.
func (p *Post) AliasFor(userID int64) string {
	if p.Aliases == nil {
		p.Aliases = make(map[int64]string)
	}
	if alias, ok := p.Aliases[userID]; ok {
		return alias
	}
	alias := uuid.NewString()[:8]
	p.Aliases[userID] = alias
	return alias
}
