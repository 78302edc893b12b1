package orders

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/dmitrymomot/entityhub/pkg/logger"
	"github.com/dmitrymomot/entityhub/pkg/messaging"
	"github.com/dmitrymomot/entityhub/pkg/notify"
	"github.com/dmitrymomot/entityhub/pkg/patch"
	"github.com/dmitrymomot/entityhub/pkg/pg"
)

// DB is satisfied by *pgxpool.Pool.
type DB interface {
	pg.TxBeginner
	Querier
}

// NewNotifier wires the order notification groups:
//
//	order                      every change
//	order/{id}                 changes of one order
//	customer/{customer}/order  changes of one customer's orders
//
// transformer, when not nil, rewrites each destination group (for example
// to scope it to a tenant).
func NewNotifier(sender messaging.Sender, transformer notify.GroupTransformer, opts ...notify.Option) (*notify.Processor[Order], error) {
	byCustomer := notify.Prefixer[Order](func(ev notify.Event[Order]) []any {
		return []any{"customer", ev.Entity.Customer}
	})
	reg := notify.NewRegistry[Order](sender, opts...).
		UseEntityGroup().
		UseEntityGroupWithKeys().
		UseEntityGroupWithPrefix(byCustomer)
	if transformer != nil {
		if err := reg.SetGroupTransformer(transformer); err != nil {
			return nil, err
		}
	}
	return reg.Processor(notify.ActionAll), nil
}

// Service applies order changes and notifies subscribers once the database
// transaction that made them has committed.
type Service struct {
	db       DB
	store    Store
	notifier *notify.Processor[Order]
	now      func() time.Time
	logger   *slog.Logger
}

type ServiceOption func(*Service)

// WithLogger sets the service logger.
func WithLogger(l *slog.Logger) ServiceOption {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithClock overrides time.Now, mostly for tests.
func WithClock(now func() time.Time) ServiceOption {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// NewService creates the orders service.
func NewService(db DB, store Store, notifier *notify.Processor[Order], opts ...ServiceOption) *Service {
	if db == nil || store == nil || notifier == nil {
		panic("orders: db, store and notifier are required")
	}
	s := &Service{
		db:       db,
		store:    store,
		notifier: notifier,
		now:      time.Now,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Get returns the order by id or ErrNotFound.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (Order, error) {
	return s.store.Get(ctx, s.db, id, false)
}

// Create stores a new pending order and notifies its groups after commit.
func (s *Service) Create(ctx context.Context, in CreateInput) (Order, error) {
	if err := in.Validate(); err != nil {
		return Order{}, err
	}

	now := s.now().UTC()
	o := Order{
		ID:         uuid.New(),
		Customer:   in.Customer,
		Status:     StatusPending,
		TotalCents: in.TotalCents,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	err := pg.WithTx(ctx, s.db, func(ctx context.Context, tx pgx.Tx) error {
		if err := s.store.Insert(ctx, tx, o); err != nil {
			return err
		}
		return s.notify(ctx, s.notifier.OnAdded(ctx, o))
	})
	if err != nil {
		return Order{}, err
	}

	s.logger.InfoContext(ctx, "order created", slog.String("order_id", o.ID.String()))
	return o, nil
}

// Update applies a partial update. An update that changes nothing is not
// written and produces no notification.
func (s *Service) Update(ctx context.Context, id uuid.UUID, in UpdateInput) (Order, error) {
	if err := in.Validate(); err != nil {
		return Order{}, err
	}

	var updated Order
	err := pg.WithTx(ctx, s.db, func(ctx context.Context, tx pgx.Tx) error {
		before, err := s.store.Get(ctx, tx, id, true)
		if err != nil {
			return err
		}

		after := in.apply(before)
		if after == before {
			updated = before
			return nil
		}
		after.UpdatedAt = s.now().UTC()

		changes, err := patch.Diff(before, after)
		if err != nil {
			return err
		}
		if err := s.store.Update(ctx, tx, after); err != nil {
			return err
		}
		updated = after
		return s.notify(ctx, s.notifier.OnUpdated(ctx, after, changes))
	})
	if err != nil {
		return Order{}, err
	}
	return updated, nil
}

// Delete removes the order and notifies its groups after commit.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	return pg.WithTx(ctx, s.db, func(ctx context.Context, tx pgx.Tx) error {
		o, err := s.store.Get(ctx, tx, id, true)
		if err != nil {
			return err
		}
		if err := s.store.Delete(ctx, tx, id); err != nil {
			return err
		}
		return s.notify(ctx, s.notifier.OnDeleted(ctx, o))
	})
}

// notify turns a dispatch failure into a rollback. Inside WithTx sends are
// only queued, so a failure here means the queueing itself broke.
func (s *Service) notify(ctx context.Context, err error) error {
	if err == nil {
		return nil
	}
	s.logger.ErrorContext(ctx, "order notification failed", logger.Error(err))
	return errors.Join(ErrNotifying, err)
}
