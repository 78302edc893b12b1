package notify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"slices"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/multierr"

	"github.com/dmitrymomot/entityhub/pkg/group"
	"github.com/dmitrymomot/entityhub/pkg/logger"
	"github.com/dmitrymomot/entityhub/pkg/messaging"
)

// DispatcherConfig wires the strategies of one dispatcher.
type DispatcherConfig[T any] struct {
	Selectors          []GroupSelector[T]
	GroupTransformer   GroupTransformer
	PayloadTransformer PayloadTransformer[T]
}

// Dispatcher delivers events of one kind for entity type T.
// It is safe for concurrent use once constructed.
type Dispatcher[T any] struct {
	kind   Kind
	entity string
	sender messaging.Sender
	cfg    DispatcherConfig[T]
	opts   options
}

// NewDispatcher builds a dispatcher for kind. It panics on an invalid kind or
// a nil sender, since both are wiring mistakes.
func NewDispatcher[T any](kind Kind, sender messaging.Sender, cfg DispatcherConfig[T], opts ...Option) *Dispatcher[T] {
	if !kind.valid() {
		panic(fmt.Errorf("%w: %d", ErrInvalidKind, kind))
	}
	if sender == nil {
		panic(messaging.ErrNilSender)
	}

	cfg.Selectors = slices.DeleteFunc(slices.Clone(cfg.Selectors), func(s GroupSelector[T]) bool {
		return s == nil
	})

	return &Dispatcher[T]{
		kind:   kind,
		entity: strings.ToLower(EntityName[T]()),
		sender: sender,
		cfg:    cfg,
		opts:   newOptions(opts...),
	}
}

// Kind returns the kind the dispatcher handles.
func (d *Dispatcher[T]) Kind() Kind {
	return d.kind
}

// Dispatch notifies every group selected for ev.
//
// Selectors run in order and their groups are deduplicated. If no group is
// selected, or the payload is absent, nothing is sent. Otherwise each group,
// in canonical order, receives one send whose method is the group with the
// kind tag appended, addressed to the group after the optional transform.
// The first failure aborts the dispatch unless best effort is enabled.
func (d *Dispatcher[T]) Dispatch(ctx context.Context, ev Event[T]) (err error) {
	if ev.Kind != d.kind {
		return fmt.Errorf("%w: got %s, want %s", ErrKindMismatch, ev.Kind, d.kind)
	}

	start := time.Now()
	ctx, span := d.opts.tracer.Start(ctx, "notify.dispatch",
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(
			attribute.String("notify.entity", d.entity),
			attribute.String("notify.kind", d.kind.Action()),
		),
	)
	defer func() {
		if err != nil {
			d.opts.metrics.fail(d.entity, d.kind, err)
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		d.opts.metrics.observeDispatch(d.entity, d.kind, time.Since(start))
		span.End()
	}()

	groups, err := d.selectGroups(ctx, ev)
	if err != nil {
		return err
	}
	if len(groups) == 0 {
		d.suppress(ctx, span, "no_groups")
		return nil
	}

	payload, err := d.payload(ctx, ev)
	if err != nil {
		return err
	}
	if absent(payload) {
		d.suppress(ctx, span, "empty_payload")
		return nil
	}

	span.SetAttributes(attribute.Int("notify.groups", len(groups)))

	var errs error
	for _, g := range groups {
		if err := ctx.Err(); err != nil {
			return multierr.Append(errs, err)
		}
		if err := d.send(ctx, g, payload); err != nil {
			if !d.opts.bestEffort {
				return err
			}
			errs = multierr.Append(errs, err)
		}
	}
	return errs
}

func (d *Dispatcher[T]) selectGroups(ctx context.Context, ev Event[T]) ([]group.Group, error) {
	seen := make(map[group.Group]struct{})
	var groups []group.Group

	for _, sel := range d.cfg.Selectors {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		selected, err := sel.Groups(ctx, ev)
		if err != nil {
			return nil, errors.Join(ErrSelectorFailed, err)
		}
		for _, g := range selected {
			if g.IsZero() {
				continue
			}
			if _, dup := seen[g]; dup {
				continue
			}
			seen[g] = struct{}{}
			groups = append(groups, g)
		}
	}

	slices.SortFunc(groups, func(a, b group.Group) int {
		return strings.Compare(a.String(), b.String())
	})
	return groups, nil
}

func (d *Dispatcher[T]) payload(ctx context.Context, ev Event[T]) (any, error) {
	if d.cfg.PayloadTransformer != nil {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		p, err := d.cfg.PayloadTransformer.Transform(ctx, ev)
		if err != nil {
			return nil, errors.Join(ErrTransformFailed, err)
		}
		return p, nil
	}

	switch d.kind {
	case KindAdded:
		return ev.Entity, nil
	case KindDeleted:
		return ev.EntityKeys(), nil
	case KindUpdated:
		ops := ev.Changes.ToPatch()
		if len(ops) == 0 {
			return nil, nil
		}
		return UpdateData{Keys: ev.EntityKeys(), Patch: ops}, nil
	}
	return nil, nil
}

func (d *Dispatcher[T]) send(ctx context.Context, g group.Group, payload any) error {
	dst := g
	if d.cfg.GroupTransformer != nil {
		var err error
		if dst, err = d.cfg.GroupTransformer.Transform(ctx, g); err != nil {
			return errors.Join(ErrTransformFailed, err)
		}
	}

	method := g.Append(d.kind.Action()).String()
	if err := d.sender.Send(ctx, dst, method, payload); err != nil {
		d.opts.logger.LogAttrs(ctx, slog.LevelError, "notification send failed",
			logger.EntityType(d.entity),
			logger.GroupName(dst),
			logger.Method(method),
			logger.Error(err),
		)
		return errors.Join(ErrSendFailed, err)
	}

	d.opts.metrics.sent(d.entity, d.kind)
	return nil
}

func (d *Dispatcher[T]) suppress(ctx context.Context, span trace.Span, reason string) {
	d.opts.metrics.suppress(d.entity, d.kind, reason)
	span.SetAttributes(attribute.String("notify.suppressed", reason))
	d.opts.logger.LogAttrs(ctx, slog.LevelDebug, "notification suppressed",
		logger.EntityType(d.entity),
		logger.Kind(d.kind.Action()),
		slog.String("reason", reason),
	)
}

// absent reports whether a payload means "nothing to send": nil, a nil
// pointer, map, slice or interface, an empty map or slice, or an empty string.
func absent(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Chan, reflect.Func:
		return rv.IsNil()
	case reflect.Map, reflect.Slice:
		return rv.IsNil() || rv.Len() == 0
	case reflect.String:
		return rv.Len() == 0
	}
	return false
}
