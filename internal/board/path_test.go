package board

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveDescendsToAnyDepth(t *testing.T) {
	post := NewPost(100, Content{Text: "original"}, "", 0)
	post.AppendComment(NewNode(Content{Text: "c0"}))
	post.AppendComment(NewNode(Content{Text: "c1"}))

	p1, err := post.AppendChild(Path{1}, NewNode(Content{Text: "r1"}))
	require.NoError(t, err)
	assert.Equal(t, Path{1, 0}, p1)

	p2, err := post.AppendChild(p1, NewNode(Content{Text: "r2"}))
	require.NoError(t, err)
	assert.Equal(t, Path{1, 0, 0}, p2)

	node, err := post.Resolve(Path{1, 0, 0})
	require.NoError(t, err)
	assert.Equal(t, "r2", node.Content.Text)

	node, err = post.Resolve(Path{1, 0})
	require.NoError(t, err)
	assert.Equal(t, "r1", node.Content.Text)
	assert.Len(t, node.Children, 1)
}

func TestResolveOutOfRange(t *testing.T) {
	post := NewPost(100, Content{Text: "original"}, "", 0)
	post.AppendComment(NewNode(Content{Text: "c0"}))

	_, err := post.Resolve(Path{3})
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = post.Resolve(Path{0, 0})
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = post.Resolve(Path{})
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = post.AppendChild(Path{9}, NewNode(Content{Text: "r"}))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPathStringRoundTrip(t *testing.T) {
	p := Path{0, 2, 1}
	assert.Equal(t, "0.2.1", p.String())

	parsed, err := ParsePath("0.2.1")
	require.NoError(t, err)
	assert.Equal(t, p, parsed)

	_, err = ParsePath("")
	assert.Error(t, err)
	_, err = ParsePath("0.x")
	assert.Error(t, err)
	_, err = ParsePath("0.-1")
	assert.Error(t, err)
}

func TestPathChildDoesNotAliasParent(t *testing.T) {
	p := make(Path, 1, 4)
	p[0] = 0
	a := p.Child(1)
	b := p.Child(2)
	assert.Equal(t, Path{0, 1}, a)
	assert.Equal(t, Path{0, 2}, b)
}

func TestAliasForIsStablePerPost(t *testing.T) {
	post := NewPost(100, Content{Text: "x"}, "", 0)
	first := post.AliasFor(5)
	assert.Len(t, first, 8)
	assert.Equal(t, first, post.AliasFor(5))
	assert.NotEqual(t, first, post.AliasFor(6))
}
