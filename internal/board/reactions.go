package board

// ReactionKind is one of the five toggleable reaction kinds. The same
// vocabulary applies to every node class; there is no separate set for
// replies.
type ReactionKind string

const (
	ReactionLove     ReactionKind = "love"
	ReactionSupport  ReactionKind = "support"
	ReactionAmen     ReactionKind = "amen"
	ReactionAgree    ReactionKind = "agree"
	ReactionDisagree ReactionKind = "disagree"
)

// ReactionKinds lists the full vocabulary in display order.
var ReactionKinds = []ReactionKind{
	ReactionLove,
	ReactionSupport,
	ReactionAmen,
	ReactionAgree,
	ReactionDisagree,
}

// ValidReaction reports whether k belongs to the vocabulary.
func ValidReaction(k ReactionKind) bool {
	for _, known := range ReactionKinds {
		if k == known {
			return true
		}
	}
	return false
}

// ReactionSet holds per-kind counts and the per-user toggle flags that
// back them. A user may hold several kinds active on the same node at
// once; kinds toggle independently.
type ReactionSet struct {
	Counts map[ReactionKind]int            `json:"counts"`
	Users  map[int64]map[ReactionKind]bool `json:"users,omitempty"`
}

// NewReactionSet returns a set with every kind zeroed.
func NewReactionSet() *ReactionSet {
	counts := make(map[ReactionKind]int, len(ReactionKinds))
	for _, k := range ReactionKinds {
		counts[k] = 0
	}
	return &ReactionSet{
		Counts: counts,
		Users:  make(map[int64]map[ReactionKind]bool),
	}
}

// Toggle flips the user's flag for the given kind and adjusts the count.
// Returns true when the reaction is now active (added), false when it
// was removed. Toggle is its own inverse: applying it twice restores the
// original count.
func (r *ReactionSet) Toggle(userID int64, kind ReactionKind) bool {
	if r.Counts == nil {
		r.Counts = make(map[ReactionKind]int, len(ReactionKinds))
	}
	if r.Users == nil {
		r.Users = make(map[int64]map[ReactionKind]bool)
	}
	flags := r.Users[userID]
	if flags == nil {
		flags = make(map[ReactionKind]bool)
		r.Users[userID] = flags
	}
	if flags[kind] {
		flags[kind] = false
		if r.Counts[kind] > 0 {
			r.Counts[kind]--
		}
		return false
	}
	flags[kind] = true
	r.Counts[kind]++
	return true
}

// Count returns the current count for a kind.
func (r *ReactionSet) Count(kind ReactionKind) int {
	if r == nil || r.Counts == nil {
		return 0
	}
	return r.Counts[kind]
}

// Active reports whether the user currently holds the reaction.
func (r *ReactionSet) Active(userID int64, kind ReactionKind) bool {
	if r == nil || r.Users == nil {
		return false
	}
	return r.Users[userID][kind]
}
