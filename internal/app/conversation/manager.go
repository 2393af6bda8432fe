package conversation

import (
	"context"
	"fmt"
	"sync"

	"github.com/PabloGalante/farum-oracle/internal/domain"
	"github.com/PabloGalante/farum-oracle/internal/observability"
)

// PersonaCatalog resolves persona ids.
type PersonaCatalog interface {
	Get(id domain.PersonaID) (domain.Persona, error)
}

// Manager keeps the open sessions of a process.
type Manager struct {
	personas PersonaCatalog
	deps     Deps
	opts     Options

	mu       sync.RWMutex
	sessions map[domain.SessionID]*Controller
}

func NewManager(personas PersonaCatalog, deps Deps, opts Options) *Manager {
	return &Manager{
		personas: personas,
		deps:     deps.withDefaults(),
		opts:     opts,
		sessions: make(map[domain.SessionID]*Controller),
	}
}

type OpenInput struct {
	UserID    domain.UserID
	PersonaID domain.PersonaID
}

// Open creates and starts a session for a persona.
func (m *Manager) Open(ctx context.Context, in OpenInput) (*Controller, error) {
	log := observability.LoggerFromContext(ctx).With(
		"user_id", in.UserID,
		"persona_id", in.PersonaID,
	)

	p, err := m.personas.Get(in.PersonaID)
	if err != nil {
		log.Warn("cannot open session", "error", err)
		return nil, err
	}

	id := domain.SessionID(m.deps.NewID())
	ctrl := NewController(id, in.UserID, p, m.deps, m.opts)

	m.mu.Lock()
	m.sessions[id] = ctrl
	m.mu.Unlock()

	ctrl.Start()
	log.Info("session opened", "session_id", id)
	return ctrl, nil
}

func (m *Manager) Get(id domain.SessionID) (*Controller, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	ctrl, ok := m.sessions[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrSessionNotFound, id)
	}
	return ctrl, nil
}

// Close discards a session.
func (m *Manager) Close(id domain.SessionID) error {
	m.mu.Lock()
	ctrl, ok := m.sessions[id]
	delete(m.sessions, id)
	m.mu.Unlock()

	if !ok {
		return fmt.Errorf("%w: %s", domain.ErrSessionNotFound, id)
	}
	ctrl.Close()
	return nil
}

func (m *Manager) CloseAll() {
	m.mu.Lock()
	sessions := m.sessions
	m.sessions = make(map[domain.SessionID]*Controller)
	m.mu.Unlock()

	for _, ctrl := range sessions {
		ctrl.Close()
	}
}

func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
