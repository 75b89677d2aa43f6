package repository

import (
	"context"
	"strings"
	"time"

	"taskmanager/internal/adapter/database"
	"taskmanager/internal/core/domain"
	"taskmanager/internal/core/port"
	tel "taskmanager/internal/core/telemetry"
)

// observation ties a repository span to the duration probe.
type observation struct {
	span port.Span
	op   *tel.Operation
}

func observe(ctx context.Context, probe port.Telemetry, db *database.DB, operation, entity string, attrs map[string]interface{}) (context.Context, *observation) {
	if attrs == nil {
		attrs = map[string]interface{}{}
	}

	attrs["db.system"] = string(db.Dialect)
	attrs["db.table"] = entity

	ctx, span := probe.StartRepositorySpan(ctx, operation, entity, attrs)

	return ctx, &observation{span: span, op: tel.StartOperation(ctx, probe, operation, entity)}
}

// done closes the span and hands err back to the caller.
func (o *observation) done(err error) error {
	if err != nil {
		o.span.SetStatus("error", err.Error())
		o.span.RecordError(err)
	} else {
		o.span.SetStatus("ok", "")
	}

	o.op.End(err)
	o.span.End()

	return err
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern builds a LIKE pattern matching term anywhere, with the
// wildcards of term taken literally. Pair it with ESCAPE '\'.
func containsPattern(term string) string {
	return "%" + likeEscaper.Replace(domain.FoldCase(term)) + "%"
}

func utc(t time.Time) time.Time {
	if t.IsZero() {
		return time.Now().UTC()
	}

	return t.UTC()
}
