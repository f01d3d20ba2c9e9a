package store

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/anonpost/internal/board"
)

// Store holds every published post keyed by its channel message id and
// mirrors the whole map to a single JSON document on disk. Writes are
// whole-snapshot: temp file then atomic rename, so a crash mid-write
// never corrupts previously committed state.
type Store struct {
	path string

	mu    sync.Mutex
	posts map[int64]*board.Post
}

// Open loads the snapshot at path. A missing file yields an empty store;
// a corrupt file is logged, sidelined to <path>.corrupt and replaced by
// an empty store on the next save.
func Open(path string) (*Store, error) {
	s := &Store{
		path:  path,
		posts: make(map[int64]*board.Post),
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			log.Info().Str("path", path).Msg("no post snapshot yet, starting empty")
			return s, nil
		}
		return nil, fmt.Errorf("failed to read post snapshot: %w", err)
	}

	if err := json.Unmarshal(data, &s.posts); err != nil {
		sidelined := path + ".corrupt"
		log.Error().Err(err).Str("path", path).Str("sidelined", sidelined).
			Msg("post snapshot is corrupt, starting empty")
		if renameErr := os.Rename(path, sidelined); renameErr != nil {
			log.Warn().Err(renameErr).Msg("could not sideline corrupt snapshot")
		}
		s.posts = make(map[int64]*board.Post)
		return s, nil
	}

	log.Info().Int("posts", len(s.posts)).Str("path", path).Msg("loaded post snapshot")
	return s, nil
}

// Get returns the post for id, or false when no such post exists.
func (s *Store) Get(id int64) (*board.Post, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	post, ok := s.posts[id]
	return post, ok
}

// Put inserts a freshly published post and persists the snapshot.
func (s *Store) Put(post *board.Post) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.posts[post.ID] = post
	return s.saveLocked()
}

// Mutate applies fn to the post for id under the store lock and persists
// the snapshot afterwards. The lock spans mutation and save, so two
// in-flight events for the same post cannot interleave their
// read-modify-write cycles. Returns board.ErrNotFound for unknown ids.
func (s *Store) Mutate(id int64, fn func(*board.Post) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	post, ok := s.posts[id]
	if !ok {
		return board.ErrNotFound
	}
	if err := fn(post); err != nil {
		return err
	}
	return s.saveLocked()
}

// Len returns the number of stored posts.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.posts)
}

// Totals returns post and comment counts for the ops endpoint. Replies
// at any depth count as comments here.
func (s *Store) Totals() (posts, comments int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	posts = len(s.posts)
	for _, post := range s.posts {
		for _, c := range post.Comments {
			comments += countNodes(c)
		}
	}
	return posts, comments
}

func countNodes(n *board.Node) int {
	total := 1
	for _, child := range n.Children {
		total += countNodes(child)
	}
	return total
}

// SaveAll persists the current snapshot. Mutating paths already save
// through Put/Mutate; this exists for shutdown.
func (s *Store) SaveAll() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveLocked()
}

// saveLocked writes the full snapshot with write-temp-then-rename.
// Callers must hold s.mu. A failed write leaves the previous snapshot
// intact on disk; in-memory state is not rolled back, so memory and disk
// can diverge until the next successful save.
func (s *Store) saveLocked() error {
	data, err := json.MarshalIndent(s.posts, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal post snapshot: %w", err)
	}

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create snapshot directory: %w", err)
		}
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("failed to write post snapshot: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("failed to replace post snapshot: %w", err)
	}
	return nil
}
