package gateway

import (
	"encoding/json"
	"net/http"

	"github.com/groblegark/shadowgate/internal/model"
)

// mirrorKey is the data-cache entry holding the serialized gate list.
const mirrorKey = "/projects.json"

// mirror is the gateway's read-only copy of the gate list, kept in the data
// cache generation. It is advisory; the authoritative list lives in the page
// context's store. A cold mirror answers nothing until the first sync or a
// successful request round-trip.
type mirror struct {
	cache *Cache
}

func newMirror(cs *CacheSet) *mirror {
	return &mirror{cache: cs.Open(DataCacheName)}
}

// ReplaceAll swaps the mirrored list wholesale.
func (m *mirror) ReplaceAll(gates []*model.Gate) {
	body, err := json.Marshal(gates)
	if err != nil {
		return
	}
	m.cache.Put(mirrorKey, cachedResponse{
		Status: http.StatusOK,
		Header: http.Header{"Content-Type": []string{"application/json"}},
		Body:   body,
	})
}

// Update swaps a single mirrored record in place. A record the mirror has
// never seen is dropped; the next wholesale sync carries it.
func (m *mirror) Update(gate *model.Gate) {
	gates := m.list()
	for i, g := range gates {
		if g.ID == gate.ID {
			gates[i] = gate
			m.ReplaceAll(gates)
			return
		}
	}
}

// Lookup returns the mirrored gate with the given ID, if present.
func (m *mirror) Lookup(id string) (*model.Gate, bool) {
	for _, g := range m.list() {
		if g.ID == id {
			return g, true
		}
	}
	return nil, false
}

func (m *mirror) list() []*model.Gate {
	resp, ok := m.cache.Match(mirrorKey)
	if !ok {
		return nil
	}
	var gates []*model.Gate
	if err := json.Unmarshal(resp.Body, &gates); err != nil {
		return nil
	}
	return gates
}
