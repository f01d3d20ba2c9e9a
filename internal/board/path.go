package board

import (
	"fmt"
	"strconv"
	"strings"
)

// Path addresses a node inside a post: the first element is the index
// into Post.Comments, each further element descends one level into
// Children. Paths stay valid forever because children are append-only.
type Path []int

// String renders the path as dot-joined indices, e.g. "0.2.1".
func (p Path) String() string {
	parts := make([]string, len(p))
	for i, idx := range p {
		parts[i] = strconv.Itoa(idx)
	}
	return strings.Join(parts, ".")
}

// ParsePath parses the dot-joined form produced by String.
func ParsePath(s string) (Path, error) {
	if s == "" {
		return nil, fmt.Errorf("board: empty path")
	}
	parts := strings.Split(s, ".")
	path := make(Path, len(parts))
	for i, part := range parts {
		idx, err := strconv.Atoi(part)
		if err != nil || idx < 0 {
			return nil, fmt.Errorf("board: bad path element %q", part)
		}
		path[i] = idx
	}
	return path, nil
}

// Child returns the path extended by one more index.
func (p Path) Child(idx int) Path {
	child := make(Path, len(p)+1)
	copy(child, p)
	child[len(p)] = idx
	return child
}

// Resolve walks the path from the post's top-level comments down to the
// addressed node. Returns ErrNotFound when any index is out of range.
func (p *Post) Resolve(path Path) (*Node, error) {
	if len(path) == 0 {
		return nil, ErrNotFound
	}
	if path[0] < 0 || path[0] >= len(p.Comments) {
		return nil, ErrNotFound
	}
	node := p.Comments[path[0]]
	for _, idx := range path[1:] {
		if idx < 0 || idx >= len(node.Children) {
			return nil, ErrNotFound
		}
		node = node.Children[idx]
	}
	return node, nil
}

// AppendChild appends a reply under the node addressed by path and
// returns the new child's full path.
func (p *Post) AppendChild(path Path, child *Node) (Path, error) {
	parent, err := p.Resolve(path)
	if err != nil {
		return nil, err
	}
	parent.Children = append(parent.Children, child)
	return path.Child(len(parent.Children) - 1), nil
}
