// Package memory provides an in-memory implementation of the repository
// registry. It backs the service tests; the Postgres implementations in the
// parent package are the production path.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/agency-crm/internal/domain"
	"github.com/spec-kit/agency-crm/internal/repository"
)

// Store holds every entity table behind one mutex.
type Store struct {
	mu sync.Mutex

	users         map[string]*domain.User
	agents        map[string]*domain.Agent
	clients       map[string]*domain.Client
	policies      map[string]*domain.Policy
	messages      map[string]*domain.Message
	notifications map[string]*domain.Notification
	tasks         map[string]*domain.Task
	interactions  map[string]*domain.Interaction
	licenses      map[string]*domain.License
	calendarNotes map[string]*domain.CalendarNote
	testimonials  map[string]*domain.Testimonial
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		users:         make(map[string]*domain.User),
		agents:        make(map[string]*domain.Agent),
		clients:       make(map[string]*domain.Client),
		policies:      make(map[string]*domain.Policy),
		messages:      make(map[string]*domain.Message),
		notifications: make(map[string]*domain.Notification),
		tasks:         make(map[string]*domain.Task),
		interactions:  make(map[string]*domain.Interaction),
		licenses:      make(map[string]*domain.License),
		calendarNotes: make(map[string]*domain.CalendarNote),
		testimonials:  make(map[string]*domain.Testimonial),
	}
}

// Registry returns repository implementations bound to this store.
func (s *Store) Registry() *repository.Registry {
	return &repository.Registry{
		Users:         &userRepo{s},
		Agents:        &agentRepo{s},
		Clients:       &clientRepo{s},
		Policies:      &policyRepo{s},
		Messages:      &messageRepo{s},
		Notifications: &notificationRepo{s},
		Tasks:         &taskRepo{s},
		Interactions:  &interactionRepo{s},
		Licenses:      &licenseRepo{s},
		CalendarNotes: &calendarNoteRepo{s},
		Testimonials:  &testimonialRepo{s},
	}
}

// UnitOfWork returns a pass-through unit of work. The in-memory store serves
// single-goroutine tests, so Run needs no isolation beyond calling fn.
func (s *Store) UnitOfWork() repository.UnitOfWork {
	return passthroughUoW{registry: s.Registry()}
}

type passthroughUoW struct {
	registry *repository.Registry
}

func (u passthroughUoW) Run(_ context.Context, fn func(r *repository.Registry) error) error {
	return fn(u.registry)
}

func newID() string {
	return uuid.NewString()
}

func now() time.Time {
	return time.Now().UTC()
}
