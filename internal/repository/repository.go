package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Querier is the query surface shared by *pgxpool.Pool and pgx.Tx, so the
// same repository code runs inside and outside a transaction.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Registry bundles one repository per entity table.
type Registry struct {
	Users         UserRepository
	Agents        AgentRepository
	Clients       ClientRepository
	Policies      PolicyRepository
	Messages      MessageRepository
	Notifications NotificationRepository
	Tasks         TaskRepository
	Interactions  InteractionRepository
	Licenses      LicenseRepository
	CalendarNotes CalendarNoteRepository
	Testimonials  TestimonialRepository
}

// UnitOfWork executes fn atomically against a registry bound to a single
// transaction. Cross-entity mutations (agent cascades, broadcast) go through
// here so partial writes cannot be observed.
type UnitOfWork interface {
	Run(ctx context.Context, fn func(r *Registry) error) error
}

// NewRegistry builds Postgres-backed repositories over the given querier.
func NewRegistry(db Querier) *Registry {
	return &Registry{
		Users:         NewUserRepository(db),
		Agents:        NewAgentRepository(db),
		Clients:       NewClientRepository(db),
		Policies:      NewPolicyRepository(db),
		Messages:      NewMessageRepository(db),
		Notifications: NewNotificationRepository(db),
		Tasks:         NewTaskRepository(db),
		Interactions:  NewInteractionRepository(db),
		Licenses:      NewLicenseRepository(db),
		CalendarNotes: NewCalendarNoteRepository(db),
		Testimonials:  NewTestimonialRepository(db),
	}
}

type pgUnitOfWork struct {
	pool *pgxpool.Pool
}

// NewPgUnitOfWork returns a UnitOfWork running over pgx transactions.
func NewPgUnitOfWork(pool *pgxpool.Pool) UnitOfWork {
	return &pgUnitOfWork{pool: pool}
}

func (u *pgUnitOfWork) Run(ctx context.Context, fn func(r *Registry) error) error {
	tx, err := u.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	if err := fn(NewRegistry(tx)); err != nil {
		return err
	}
	return tx.Commit(ctx)
}
