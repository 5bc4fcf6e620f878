package gateway

import (
	"encoding/json"

	"github.com/groblegark/shadowgate/internal/bridge"
)

// handleSync applies a SYNC_PROJECTS message: the mirror is replaced
// wholesale with the message's list.
func (g *Gateway) handleSync(data []byte) {
	var msg bridge.ProjectsSync
	if err := json.Unmarshal(data, &msg); err != nil {
		g.logger.Warn("dropping malformed sync message", "error", err)
		return
	}
	if msg.Type != bridge.TypeSyncProjects {
		g.logger.Warn("dropping sync message with wrong type", "type", msg.Type)
		return
	}
	g.mirror.ReplaceAll(msg.Projects)
	g.logger.Debug("mirror synced", "gates", len(msg.Projects))
}

// handleUpdate applies an UPDATE_PROJECT message. Updates are advisory: a
// record the mirror does not hold yet is ignored until a wholesale sync
// carries it.
func (g *Gateway) handleUpdate(data []byte) {
	var msg bridge.ProjectUpdate
	if err := json.Unmarshal(data, &msg); err != nil {
		g.logger.Warn("dropping malformed update message", "error", err)
		return
	}
	if msg.Type != bridge.TypeUpdateProject || msg.Project == nil {
		g.logger.Warn("dropping update message with wrong shape", "type", msg.Type)
		return
	}
	g.mirror.Update(msg.Project)
}
