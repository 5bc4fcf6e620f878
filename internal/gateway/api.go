package gateway

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/groblegark/shadowgate/internal/bridge"
	"github.com/groblegark/shadowgate/internal/idgen"
	"github.com/groblegark/shadowgate/internal/model"
)

// Synthetic API wire constants. These mirror the original endpoint contract,
// so existing consumers keep working unchanged.
const (
	apiVersion      = "1.0"
	sampleData      = "Sample data from connected spreadsheet"
	errInvalidGate  = "Invalid gate ID"
	errGateNotFound = "Gate not found"
)

// identityResponse answers GET /{id}.
type identityResponse struct {
	ID        string            `json:"id"`
	Name      string            `json:"name"`
	Created   time.Time         `json:"created"`
	Endpoints map[string]string `json:"endpoints"`
}

// dataResponse answers GET /{id}/data and GET /api/{id}/data.
type dataResponse struct {
	Project     string    `json:"project"`
	Data        string    `json:"data"`
	LastUpdated time.Time `json:"lastUpdated"`
	URL         string    `json:"url"`
}

// statusResponse answers GET /{id}/status.
type statusResponse struct {
	Status   string          `json:"status"`
	Level    int             `json:"level"`
	Requests requestCounters `json:"requests"`
	Uptime   string          `json:"uptime"`
}

type requestCounters struct {
	Today int `json:"today"`
	Total int `json:"total"`
}

// serveAPI answers a gate API route entirely from local state. The upstream
// is never consulted.
func (g *Gateway) serveAPI(w http.ResponseWriter, r *http.Request, id, rest string) {
	if !idgen.IsGateID(id) {
		writeAPIError(w, http.StatusBadRequest, errInvalidGate)
		return
	}

	gate, ok := g.resolveGate(r, id)
	if !ok {
		writeAPIError(w, http.StatusNotFound, errGateNotFound)
		return
	}

	switch rest {
	case "data":
		writeAPIJSON(w, http.StatusOK, dataResponse{
			Project:     gate.Name,
			Data:        sampleData,
			LastUpdated: time.Now().UTC(),
			URL:         gate.SourceURL,
		})
	case "status":
		writeAPIJSON(w, http.StatusOK, statusResponse{
			Status: gate.Status.String(),
			Level:  gate.Level,
			Requests: requestCounters{
				Today: gate.RequestsToday,
				Total: gate.TotalRequests,
			},
			Uptime: "100%",
		})
	default:
		origin := requestOrigin(r)
		writeAPIJSON(w, http.StatusOK, identityResponse{
			ID:      gate.ID,
			Name:    gate.Name,
			Created: gate.CreatedAt,
			Endpoints: map[string]string{
				"data":   fmt.Sprintf("%s/%s/data", origin, gate.ID),
				"status": fmt.Sprintf("%s/%s/status", origin, gate.ID),
				"api":    fmt.Sprintf("%s/api/%s/data", origin, gate.ID),
			},
		})
	}
}

// resolveGate looks the gate up in the mirror first. On a cold mirror it
// asks any connected page context for the authoritative list, bounded by
// pageQueryTimeout; no answer within the window resolves as not found.
func (g *Gateway) resolveGate(r *http.Request, id string) (*model.Gate, bool) {
	if gate, ok := g.mirror.Lookup(id); ok {
		return gate, true
	}

	req, err := json.Marshal(bridge.NewProjectsRequest())
	if err != nil {
		return nil, false
	}
	reply, err := g.bus.Request(r.Context(), bridge.TopicProjectsRequest, req, pageQueryTimeout)
	if err != nil {
		if err != bridge.ErrNoResponder {
			g.logger.Warn("page query failed", "gate_id", id, "error", err)
		}
		return nil, false
	}

	var sync bridge.ProjectsSync
	if err := json.Unmarshal(reply, &sync); err != nil {
		g.logger.Warn("malformed page query reply", "error", err)
		return nil, false
	}
	g.mirror.ReplaceAll(sync.Projects)
	return g.mirror.Lookup(id)
}

// writeAPIJSON writes a synthetic API response with the contract headers and
// indented body.
func writeAPIJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("X-ShadowGate-Version", apiVersion)
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(data)
}

// writeAPIError writes a synthetic API error response.
func writeAPIError(w http.ResponseWriter, status int, message string) {
	writeAPIJSON(w, status, map[string]string{"error": message})
}

func requestOrigin(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s", scheme, r.Host)
}
