package pgsql

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/SscSPs/group_ledger/internal/apperrors"
	"github.com/SscSPs/group_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/group_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/group_ledger/internal/models"
	"github.com/SscSPs/group_ledger/internal/utils/mapping"
	"github.com/SscSPs/group_ledger/internal/utils/pagination"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/samber/lo"
)

type PgxLedgerRepository struct {
	BaseRepository
}

// newPgxLedgerRepository creates a new repository for group ledger data.
func newPgxLedgerRepository(pool *pgxpool.Pool) portsrepo.LedgerRepositoryFacade {
	return &PgxLedgerRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxLedgerRepository implements portsrepo.LedgerRepositoryFacade
var _ portsrepo.LedgerRepositoryFacade = (*PgxLedgerRepository)(nil)

const entryColumns = `group_id, sequence, event_id, kind, occurred_at, recorded_at, recorded_by,
	payer_id, payee_id, amount, currency_code, split_mode, memo, source_ref, reversed_sequence, reason`

// AppendEntry appends an entry inside one transaction. The group header row is
// locked with FOR UPDATE, which serializes appenders of the same group across
// every process sharing the database.
func (r *PgxLedgerRepository) AppendEntry(ctx context.Context, entry domain.LedgerEntry) (domain.LedgerEntry, error) {
	header := entry.Header()
	groupID := header.GroupID
	if err := domain.CheckOccurredAt(header.OccurredAt); err != nil {
		return domain.LedgerEntry{}, err
	}

	tx, err := r.Begin(ctx)
	if err != nil {
		return domain.LedgerEntry{}, err
	}
	defer r.Rollback(ctx, tx) // Will be ignored if transaction is committed successfully

	// 1. Make sure the header row exists. The first expense or settlement fixes the currency.
	if entry.Kind != domain.EntryReversal {
		_, err = tx.Exec(ctx, `
			INSERT INTO ledger_groups (group_id, currency_code, head_sequence, created_at, created_by, last_updated_at, last_updated_by)
			VALUES ($1, $2, 0, $3, $4, $3, $4)
			ON CONFLICT (group_id) DO NOTHING;
		`, groupID, entry.CurrencyCode(), header.RecordedAt, header.RecordedBy)
		if err != nil {
			return domain.LedgerEntry{}, apperrors.NewAppError(500, "failed to create ledger header for group "+groupID, err)
		}
	}

	// 2. Lock the header row
	var group models.LedgerGroup
	err = tx.QueryRow(ctx, `
		SELECT group_id, currency_code, head_sequence
		FROM ledger_groups
		WHERE group_id = $1
		FOR UPDATE;
	`, groupID).Scan(&group.GroupID, &group.CurrencyCode, &group.HeadSequence)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.LedgerEntry{}, fmt.Errorf("%w: group %s has no entries", apperrors.ErrNotFound, groupID)
		}
		return domain.LedgerEntry{}, apperrors.NewAppError(500, "failed to lock ledger header for group "+groupID, err)
	}

	if ccy := entry.CurrencyCode(); ccy != "" && ccy != group.CurrencyCode {
		return domain.LedgerEntry{}, fmt.Errorf("%w: group %s uses %s, got %s", apperrors.ErrCurrencyMismatch, groupID, group.CurrencyCode, ccy)
	}
	if entry.Kind == domain.EntryReversal {
		if err := r.checkReversalTarget(ctx, tx, groupID, entry.Reversal); err != nil {
			return domain.LedgerEntry{}, err
		}
	}

	// 3. Insert the entry and its shares
	seq := group.HeadSequence + 1
	appended := entry.WithSequence(seq)
	row := mapping.ToModelLedgerEntry(appended)

	batch := &pgx.Batch{}
	batch.Queue(`
		INSERT INTO ledger_entries (`+entryColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16);
	`,
		row.GroupID,
		row.Sequence,
		row.EventID,
		row.Kind,
		row.OccurredAt,
		row.RecordedAt,
		row.RecordedBy,
		row.PayerID,
		row.PayeeID,
		row.Amount,
		row.CurrencyCode,
		row.SplitMode,
		row.Memo,
		row.SourceRef,
		row.ReversedSequence,
		row.Reason,
	)
	for _, s := range row.Shares {
		batch.Queue(`
			INSERT INTO ledger_expense_shares (group_id, sequence, participant_id, amount)
			VALUES ($1, $2, $3, $4);
		`, s.GroupID, s.Sequence, s.ParticipantID, s.Amount)
	}

	// 4. Advance the head
	batch.Queue(`
		UPDATE ledger_groups
		SET head_sequence = $2, last_updated_at = $3, last_updated_by = $4
		WHERE group_id = $1;
	`, groupID, seq, header.RecordedAt, header.RecordedBy)

	br := tx.SendBatch(ctx, batch)
	if err := br.Close(); err != nil {
		if constraint, ok := uniqueViolation(err); ok {
			if constraint == "uq_ledger_entries_reversed" {
				return domain.LedgerEntry{}, fmt.Errorf("%w: entry %d", apperrors.ErrAlreadyReversed, entry.Reversal.ReversedSequence)
			}
			return domain.LedgerEntry{}, fmt.Errorf("%w: %s", apperrors.ErrConcurrentModification, constraint)
		}
		return domain.LedgerEntry{}, apperrors.NewAppError(500, "failed to append ledger entry to group "+groupID, err)
	}

	if err := r.Commit(ctx, tx); err != nil {
		return domain.LedgerEntry{}, err
	}
	return appended, nil
}

func (r *PgxLedgerRepository) checkReversalTarget(ctx context.Context, tx pgx.Tx, groupID string, reversal *domain.ReversalEvent) error {
	var target models.LedgerEntry
	var reversedBy *int64
	err := tx.QueryRow(ctx, `
		SELECT e.sequence, e.kind, e.occurred_at,
		       (SELECT r.sequence FROM ledger_entries r WHERE r.group_id = e.group_id AND r.reversed_sequence = e.sequence)
		FROM ledger_entries e
		WHERE e.group_id = $1 AND e.sequence = $2;
	`, groupID, reversal.ReversedSequence).Scan(&target.Sequence, &target.Kind, &target.OccurredAt, &reversedBy)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return fmt.Errorf("%w: entry %d in group %s", apperrors.ErrNotFound, reversal.ReversedSequence, groupID)
		}
		return apperrors.NewAppError(500, "failed to load reversal target", err)
	}

	if domain.EntryKind(target.Kind) == domain.EntryReversal {
		return fmt.Errorf("%w: entry %d is itself a reversal", apperrors.ErrValidation, target.Sequence)
	}
	if reversal.OccurredAt.Before(target.OccurredAt) {
		return fmt.Errorf("%w: reversal cannot be dated before entry %d", apperrors.ErrValidation, target.Sequence)
	}
	if reversedBy != nil {
		return fmt.Errorf("%w: entry %d by entry %d", apperrors.ErrAlreadyReversed, target.Sequence, *reversedBy)
	}
	return nil
}

// FindGroup retrieves the ledger header of a group.
func (r *PgxLedgerRepository) FindGroup(ctx context.Context, groupID string) (*domain.Group, error) {
	var m models.LedgerGroup
	err := r.Pool.QueryRow(ctx, `
		SELECT group_id, currency_code, head_sequence, created_at, created_by, last_updated_at, last_updated_by
		FROM ledger_groups
		WHERE group_id = $1;
	`, groupID).Scan(
		&m.GroupID,
		&m.CurrencyCode,
		&m.HeadSequence,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find ledger header for group "+groupID, err)
	}
	g := mapping.ToDomainGroup(m)
	return &g, nil
}

func scanEntry(row pgx.Row) (models.LedgerEntry, error) {
	var m models.LedgerEntry
	err := row.Scan(
		&m.GroupID,
		&m.Sequence,
		&m.EventID,
		&m.Kind,
		&m.OccurredAt,
		&m.RecordedAt,
		&m.RecordedBy,
		&m.PayerID,
		&m.PayeeID,
		&m.Amount,
		&m.CurrencyCode,
		&m.SplitMode,
		&m.Memo,
		&m.SourceRef,
		&m.ReversedSequence,
		&m.Reason,
	)
	return m, err
}

// FindEntry retrieves one ledger entry with its shares.
func (r *PgxLedgerRepository) FindEntry(ctx context.Context, groupID string, sequence int64) (*domain.LedgerEntry, error) {
	tx, err := r.BeginSnapshot(ctx)
	if err != nil {
		return nil, err
	}
	defer r.Rollback(ctx, tx)

	m, err := scanEntry(tx.QueryRow(ctx, `SELECT `+entryColumns+` FROM ledger_entries WHERE group_id = $1 AND sequence = $2;`, groupID, sequence))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find ledger entry "+strconv.FormatInt(sequence, 10), err)
	}

	rows := []models.LedgerEntry{m}
	if err := attachShares(ctx, tx, groupID, rows); err != nil {
		return nil, err
	}
	entry, err := mapping.ToDomainLedgerEntry(rows[0])
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrLedgerCorrupted, err)
	}
	return &entry, nil
}

// attachShares loads the shares of every expense row in rows.
func attachShares(ctx context.Context, tx pgx.Tx, groupID string, rows []models.LedgerEntry) error {
	expenseSeqs := lo.FilterMap(rows, func(m models.LedgerEntry, _ int) (int64, bool) {
		return m.Sequence, domain.EntryKind(m.Kind) == domain.EntryExpense
	})
	if len(expenseSeqs) == 0 {
		return nil
	}

	shareRows, err := tx.Query(ctx, `
		SELECT group_id, sequence, participant_id, amount
		FROM ledger_expense_shares
		WHERE group_id = $1 AND sequence = ANY($2)
		ORDER BY sequence, participant_id;
	`, groupID, expenseSeqs)
	if err != nil {
		return apperrors.NewAppError(500, "failed to query expense shares for group "+groupID, err)
	}
	defer shareRows.Close()

	bySeq := make(map[int64][]models.ExpenseShare, len(expenseSeqs))
	for shareRows.Next() {
		var s models.ExpenseShare
		if err := shareRows.Scan(&s.GroupID, &s.Sequence, &s.ParticipantID, &s.Amount); err != nil {
			return apperrors.NewAppError(500, "failed to scan expense share row", err)
		}
		bySeq[s.Sequence] = append(bySeq[s.Sequence], s)
	}
	if err := shareRows.Err(); err != nil {
		return apperrors.NewAppError(500, "error iterating expense share rows", err)
	}

	for i := range rows {
		rows[i].Shares = bySeq[rows[i].Sequence]
	}
	return nil
}

// ListEntries retrieves a page of entries in ledger order using token-based pagination.
// Entries and their shares are read from one repeatable-read snapshot.
func (r *PgxLedgerRepository) ListEntries(ctx context.Context, groupID string, filter portsrepo.EntryFilter, limit int, nextToken *string) ([]domain.LedgerEntry, *string, error) {
	if limit <= 0 {
		limit = 20
	}
	// We fetch one extra item to determine if there's a next page.
	fetchLimit := limit + 1

	conditions := []string{"group_id = $1"}
	args := []any{groupID}
	addCondition := func(format string, values ...any) {
		placeholders := make([]any, len(values))
		for i, v := range values {
			args = append(args, v)
			placeholders[i] = "$" + strconv.Itoa(len(args))
		}
		conditions = append(conditions, fmt.Sprintf(format, placeholders...))
	}

	if !filter.Since.IsZero() {
		addCondition("occurred_at >= %s", filter.Since)
	}
	if !filter.Until.IsZero() {
		addCondition("occurred_at <= %s", filter.Until)
	}
	if filter.MaxSequence > 0 {
		addCondition("sequence <= %s", filter.MaxSequence)
	}
	if nextToken != nil && *nextToken != "" {
		lastOccurredAt, lastSeq, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: invalid nextToken: %v", apperrors.ErrValidation, err)
		}
		// Tuple comparison is concise and efficient in Postgres
		addCondition("(occurred_at, sequence) > (%s, %s)", lastOccurredAt, lastSeq)
	}
	args = append(args, fetchLimit)
	query := `SELECT ` + entryColumns + ` FROM ledger_entries WHERE ` + strings.Join(conditions, " AND ") +
		` ORDER BY occurred_at, sequence LIMIT $` + strconv.Itoa(len(args)) + `;`

	tx, err := r.BeginSnapshot(ctx)
	if err != nil {
		return nil, nil, err
	}
	defer r.Rollback(ctx, tx)

	rows, err := tx.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, apperrors.NewAppError(500, "failed to query ledger entries for group "+groupID, err)
	}
	entries := make([]models.LedgerEntry, 0, fetchLimit)
	for rows.Next() {
		m, err := scanEntry(rows)
		if err != nil {
			rows.Close()
			return nil, nil, apperrors.NewAppError(500, "failed to scan ledger entry row", err)
		}
		entries = append(entries, m)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, nil, apperrors.NewAppError(500, "error iterating ledger entry rows", err)
	}

	// Determine the next token
	var nextTokenVal *string
	if len(entries) > limit {
		last := entries[limit-1]
		token := pagination.EncodeToken(last.OccurredAt, last.Sequence)
		nextTokenVal = &token
		entries = entries[:limit]
	}

	if err := attachShares(ctx, tx, groupID, entries); err != nil {
		return nil, nil, err
	}

	result, err := mapping.ToDomainLedgerEntrySlice(entries)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", apperrors.ErrLedgerCorrupted, err)
	}
	return result, nextTokenVal, nil
}
