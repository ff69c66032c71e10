package signaling

import "github.com/navikt/huddle/internal/models"

// mediaTracker holds the last reported media state of each connection
type mediaTracker struct {
	states map[string]models.MediaState
}

func newMediaTracker() *mediaTracker {
	return &mediaTracker{states: make(map[string]models.MediaState)}
}

func (m *mediaTracker) init(connID string, initial *models.MediaState) models.MediaState {
	state := models.DefaultMediaState()
	if initial != nil {
		state = *initial
	}
	m.states[connID] = state
	return state
}

func (m *mediaTracker) set(connID string, kind models.MediaKind, enabled bool) models.MediaState {
	state := m.get(connID).With(kind, enabled)
	m.states[connID] = state
	return state
}

// get returns the known state, or the default when nothing was reported
func (m *mediaTracker) get(connID string) models.MediaState {
	if state, ok := m.states[connID]; ok {
		return state
	}
	return models.DefaultMediaState()
}

func (m *mediaTracker) clear(connID string) {
	delete(m.states, connID)
}
