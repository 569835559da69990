// Package metrics declares the Prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// EntitiesCreated counts created films and users by kind.
	EntitiesCreated = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "filmorate_entities_created_total",
		Help: "Total entities created by kind",
	}, []string{"kind"})

	// RelationshipChanges counts applied like/friendship changes.
	// Idempotent no-ops are counted with result="noop".
	RelationshipChanges = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "filmorate_relationship_changes_total",
		Help: "Relationship mutations by relation, operation and result",
	}, []string{"relation", "operation", "result"})

	// EventPublishErrors counts activity events that could not be published.
	EventPublishErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "filmorate_event_publish_errors_total",
		Help: "Activity events that failed to publish",
	})
)

// Kind and relation label values.
const (
	KindFilm = "film"
	KindUser = "user"

	RelationLike   = "like"
	RelationFriend = "friend"

	OpAdd    = "add"
	OpRemove = "remove"

	ResultApplied = "applied"
	ResultNoop    = "noop"
)
