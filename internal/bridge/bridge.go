// Package bridge carries gate-list synchronization messages between the page
// context (CLI commands mutating the store) and the interception gateway's
// read-only mirror.
package bridge

import (
	"context"
	"errors"
	"time"

	"github.com/groblegark/shadowgate/internal/model"
)

// Topic constants. The gateway subscribes to sync and update; page contexts
// answer request round-trips.
const (
	TopicProjectsSync    = "shadowgate.projects.sync"
	TopicProjectUpdate   = "shadowgate.projects.update"
	TopicProjectsRequest = "shadowgate.projects.request"
)

// Message type markers, part of the cross-context wire contract.
const (
	TypeSyncProjects    = "SYNC_PROJECTS"
	TypeUpdateProject   = "UPDATE_PROJECT"
	TypeRequestProjects = "REQUEST_PROJECTS"
)

// ErrNoResponder is returned by Request when no page context answers within
// the bounded wait. Callers fall back to their default (empty list, 404)
// instead of waiting longer.
var ErrNoResponder = errors.New("no responder on topic")

// ProjectsSync replaces the gateway mirror wholesale.
type ProjectsSync struct {
	Type     string        `json:"type"`
	Projects []*model.Gate `json:"projects"`
}

// NewProjectsSync builds a SYNC_PROJECTS message for the full gate list.
func NewProjectsSync(projects []*model.Gate) ProjectsSync {
	return ProjectsSync{Type: TypeSyncProjects, Projects: projects}
}

// ProjectUpdate is an advisory single-record notification; the mirror
// applies it only when the record is already present.
type ProjectUpdate struct {
	Type    string      `json:"type"`
	Project *model.Gate `json:"project"`
}

// NewProjectUpdate builds an UPDATE_PROJECT message for one gate.
func NewProjectUpdate(project *model.Gate) ProjectUpdate {
	return ProjectUpdate{Type: TypeUpdateProject, Project: project}
}

// ProjectsRequest asks any connected page context for the authoritative list.
type ProjectsRequest struct {
	Type string `json:"type"`
}

// NewProjectsRequest builds a REQUEST_PROJECTS message.
func NewProjectsRequest() ProjectsRequest {
	return ProjectsRequest{Type: TypeRequestProjects}
}

// Publisher is the interface for emitting messages.
type Publisher interface {
	Publish(ctx context.Context, topic string, event any) error
	Close() error
}

// Subscriber receives messages from the bus.
type Subscriber interface {
	// Subscribe delivers raw message payloads on the returned channel.
	// Call the returned cancel function to unsubscribe and close the channel.
	Subscribe(topic string) (<-chan []byte, func(), error)
	Close() error
}

// Bus couples publishing and subscription with bounded request/reply
// round-trips. There is no delivery guarantee in either direction; every
// consumer tolerates missed messages by re-requesting or re-syncing.
type Bus interface {
	Publisher
	Subscriber

	// Request performs one bounded round-trip on topic and returns the raw
	// reply. When no responder answers within timeout it returns
	// ErrNoResponder; it never waits unboundedly.
	Request(ctx context.Context, topic string, data []byte, timeout time.Duration) ([]byte, error)

	// Respond registers a responder for Request round-trips on topic. The
	// returned cancel function removes it.
	Respond(topic string, handler func(data []byte) ([]byte, error)) (func(), error)
}
