package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics bundles the bot's prometheus counters. A nil *Metrics is safe
// to call, so tests can run the engine without a registry.
type Metrics struct {
	postsPublished prometheus.Counter
	comments       prometheus.Counter
	replies        prometheus.Counter
	reactions      *prometheus.CounterVec
	transportErrs  prometheus.Counter
}

// New registers the counters on reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		postsPublished: factory.NewCounter(prometheus.CounterOpts{
			Name: "anonpost_posts_published_total",
			Help: "Posts published to the channel.",
		}),
		comments: factory.NewCounter(prometheus.CounterOpts{
			Name: "anonpost_comments_total",
			Help: "Top-level comments appended.",
		}),
		replies: factory.NewCounter(prometheus.CounterOpts{
			Name: "anonpost_replies_total",
			Help: "Replies appended at any depth.",
		}),
		reactions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "anonpost_reactions_toggled_total",
			Help: "Reaction toggles by outcome.",
		}, []string{"outcome"}),
		transportErrs: factory.NewCounter(prometheus.CounterOpts{
			Name: "anonpost_transport_errors_total",
			Help: "Failed calls to the chat transport.",
		}),
	}
}

// PostPublished records a successful publish.
func (m *Metrics) PostPublished() {
	if m != nil {
		m.postsPublished.Inc()
	}
}

// CommentAppended records a new top-level comment.
func (m *Metrics) CommentAppended() {
	if m != nil {
		m.comments.Inc()
	}
}

// ReplyAppended records a new reply.
func (m *Metrics) ReplyAppended() {
	if m != nil {
		m.replies.Inc()
	}
}

// ReactionToggled records a toggle; outcome is "added" or "removed".
func (m *Metrics) ReactionToggled(added bool) {
	if m == nil {
		return
	}
	outcome := "removed"
	if added {
		outcome = "added"
	}
	m.reactions.WithLabelValues(outcome).Inc()
}

// TransportError records a failed transport call.
func (m *Metrics) TransportError() {
	if m != nil {
		m.transportErrs.Inc()
	}
}
