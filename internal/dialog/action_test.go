package dialog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anonpost/internal/board"
)

func TestActionEncodeParseRoundTrip(t *testing.T) {
	react := Action{
		Kind:     ActionReact,
		Reaction: board.ReactionAmen,
		PostID:   -1001234,
		Path:     board.Path{0, 2, 1},
	}
	assert.Equal(t, "react:amen:-1001234:0.2.1", react.Encode())

	parsed, err := ParseAction(react.Encode())
	require.NoError(t, err)
	assert.Equal(t, react, parsed)

	reply := Action{Kind: ActionReply, PostID: 55, Path: board.Path{3}}
	assert.Equal(t, "reply:55:3", reply.Encode())

	parsed, err = ParseAction(reply.Encode())
	require.NoError(t, err)
	assert.Equal(t, reply, parsed)
}

func TestParseActionRejectsGarbage(t *testing.T) {
	for _, data := range []string{
		"",
		"nonsense",
		"react:like:5:0",     // unknown reaction kind
		"react:love:x:0",     // bad post id
		"react:love:5:a.b",   // bad path
		"react:love:5",       // missing path
		"reply:5",            // missing path
		"reply:x:0",          // bad post id
		"delete:5:0",         // unknown action
	} {
		_, err := ParseAction(data)
		assert.Error(t, err, "payload %q should not parse", data)
	}
}

func TestStartPayload(t *testing.T) {
	id, ok := ParseStartPayload("comments_42")
	assert.True(t, ok)
	assert.Equal(t, int64(42), id)

	// Negative channel-assigned ids keep their minus sign intact because
	// the prefix split is fixed, not separator-scanned.
	id, ok = ParseStartPayload("comments_-100500")
	assert.True(t, ok)
	assert.Equal(t, int64(-100500), id)

	_, ok = ParseStartPayload("")
	assert.False(t, ok)
	_, ok = ParseStartPayload("comments_abc")
	assert.False(t, ok)
	_, ok = ParseStartPayload("other_42")
	assert.False(t, ok)
}

func TestCommentsDeepLink(t *testing.T) {
	assert.Equal(t, "https://t.me/anonbot?start=comments_42", CommentsDeepLink("anonbot", 42))
}
