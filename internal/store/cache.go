package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/magv/rat2c/internal/engine"
	"github.com/magv/rat2c/internal/ir"
)

// Lookup returns the cached programs for a batch, positionally. The second
// return is false unless every fragment of the batch hits: the batch is the
// smallest unit of work, so a partial hit is treated as a full miss.
//
// Cached program text is stored with engine temporary names intact, so a
// cache hit is indistinguishable from a fresh engine run downstream.
func (s *Store) Lookup(ctx context.Context, batch *engine.Batch) ([]ir.Program, bool, error) {
	vocab := VocabHash(batch.Variables, batch.Functions)
	programs := make([]ir.Program, len(batch.Fragments))
	for i, frag := range batch.Fragments {
		var text string
		err := s.db.QueryRowContext(ctx,
			`SELECT program FROM fragments WHERE key = ?`,
			Key(frag.Body, vocab, batch.OptLevel),
		).Scan(&text)
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		if err != nil {
			return nil, false, fmt.Errorf("cache lookup: %w", err)
		}
		prog, err := ir.ParseProgram(text)
		if err != nil {
			return nil, false, fmt.Errorf("cache entry for %s is corrupt: %w", frag.Name, err)
		}
		// The final-target rename is positional, so stored programs carry a
		// placeholder final target that must be rebound to this batch's
		// fragment name.
		if len(prog) == 0 {
			return nil, false, fmt.Errorf("cache entry for %s is empty", frag.Name)
		}
		prog[len(prog)-1].Target = frag.Name
		programs[i] = prog
	}
	return programs, true, nil
}

// StoreBatch records all programs of one engine run under a single batch
// id. Idempotent per key: replaying the same batch overwrites entries with
// identical content.
func (s *Store) StoreBatch(ctx context.Context, batch *engine.Batch, programs []ir.Program) error {
	if len(programs) != len(batch.Fragments) {
		return fmt.Errorf("cache store: %d programs for %d fragments", len(programs), len(batch.Fragments))
	}
	vocab := VocabHash(batch.Variables, batch.Functions)
	batchID := uuid.Must(uuid.NewV7()).String()
	now := time.Now().Unix()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("cache store: %w", err)
	}
	defer tx.Rollback()

	for i, frag := range batch.Fragments {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO fragments (key, body, program, opt_level, batch_id, created_at)
			VALUES (?, ?, ?, ?, ?, ?)
			ON CONFLICT(key) DO UPDATE SET
				program = excluded.program,
				batch_id = excluded.batch_id,
				created_at = excluded.created_at
		`,
			Key(frag.Body, vocab, batch.OptLevel),
			frag.Body,
			programs[i].String(),
			batch.OptLevel,
			batchID,
			now,
		)
		if err != nil {
			return fmt.Errorf("cache store %s: %w", frag.Name, err)
		}
	}
	return tx.Commit()
}

// Stats reports the number of cached fragments and distinct batches.
func (s *Store) Stats(ctx context.Context) (fragments, batches int64, err error) {
	err = s.db.QueryRowContext(ctx,
		`SELECT COUNT(*), COUNT(DISTINCT batch_id) FROM fragments`,
	).Scan(&fragments, &batches)
	if err != nil {
		return 0, 0, fmt.Errorf("cache stats: %w", err)
	}
	return fragments, batches, nil
}

// Clear removes every cached fragment.
func (s *Store) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM fragments`); err != nil {
		return fmt.Errorf("cache clear: %w", err)
	}
	return nil
}
