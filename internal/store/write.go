package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/roach88/navsplit/internal/model"
)

// Save inserts e or replaces the stored entity with the same id. A
// replaced entity keeps its position; a new one is appended.
func (p *Provider[E]) Save(ctx context.Context, e E) error {
	body, err := marshalBody(e)
	if err != nil {
		return fmt.Errorf("save %s: %w", p.kind, err)
	}

	_, err = p.store.db.ExecContext(ctx, `
		INSERT INTO entities (kind, id, seq, body)
		VALUES (?, ?, (SELECT COALESCE(MAX(seq), 0) + 1 FROM entities WHERE kind = ?), ?)
		ON CONFLICT(kind, id) DO UPDATE SET body = excluded.body
	`, p.kind, e.EntityID().String(), p.kind, body)
	if err != nil {
		return fmt.Errorf("save %s: %w", p.kind, err)
	}

	p.store.changed(p.kind)
	return nil
}

// Delete removes the entity with id. Deleting a missing entity is not an
// error and notifies nobody.
func (p *Provider[E]) Delete(ctx context.Context, id model.ID) error {
	res, err := p.store.db.ExecContext(ctx,
		`DELETE FROM entities WHERE kind = ? AND id = ?`, p.kind, id.String())
	if err != nil {
		return fmt.Errorf("delete %s: %w", p.kind, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete %s: %w", p.kind, err)
	}
	if n > 0 {
		p.store.changed(p.kind)
	}
	return nil
}

func isNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}
