package logger

import (
	"log/slog"
	"strconv"
	"time"
)

// Group nests attrs under name.
func Group(name string, attrs ...slog.Attr) slog.Attr {
	return slog.Attr{Key: name, Value: slog.GroupValue(attrs...)}
}

// Error records err under "error". A nil error yields an empty Attr, which
// slog skips.
func Error(err error) slog.Attr {
	if err == nil {
		return slog.Attr{}
	}
	return slog.Any("error", err)
}

// Errors records the non-nil errors under "errors", keyed by position.
func Errors(errs ...error) slog.Attr {
	as := make([]slog.Attr, 0, len(errs))
	for i, err := range errs {
		if err != nil {
			as = append(as, slog.Any(strconv.Itoa(i), err))
		}
	}
	if len(as) == 0 {
		return slog.Attr{}
	}
	return slog.Attr{Key: "errors", Value: slog.GroupValue(as...)}
}

// Component names the subsystem that logs.
func Component(name string) slog.Attr {
	return slog.String("component", name)
}

// Duration records d under "duration".
func Duration(d time.Duration) slog.Attr {
	return slog.Duration("duration", d)
}

// RequestID is empty for an empty id.
func RequestID(id string) slog.Attr {
	if id == "" {
		return slog.Attr{}
	}
	return slog.String("request_id", id)
}

// EntityType records the notified entity name, e.g. "order".
func EntityType(name string) slog.Attr {
	return slog.String("entity_type", name)
}

// Kind records the change kind tag: add, update or delete.
func Kind(kind string) slog.Attr {
	return slog.String("kind", kind)
}

// Method records the wire method name of a notification.
func Method(method string) slog.Attr {
	return slog.String("method", method)
}

// GroupName records a delivery group by its canonical form.
func GroupName(g interface{ String() string }) slog.Attr {
	return slog.String("group", g.String())
}

// ConnectionID identifies a hub connection.
func ConnectionID(id any) slog.Attr {
	if id == nil {
		return slog.Attr{}
	}
	return slog.Any("connection_id", id)
}

// TxDepth records the nesting depth of the active transaction.
func TxDepth(depth int) slog.Attr {
	return slog.Int("tx_depth", depth)
}
