package badgerdb

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/SscSPs/group_ledger/internal/apperrors"
	"github.com/SscSPs/group_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/group_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/group_ledger/internal/models"
	"github.com/SscSPs/group_ledger/internal/utils/mapping"
	"github.com/SscSPs/group_ledger/internal/utils/pagination"
	"github.com/dgraph-io/badger/v4"
)

type BadgerLedgerRepository struct {
	BaseRepository
}

// newBadgerLedgerRepository creates a new repository for group ledger data.
func newBadgerLedgerRepository(db *badger.DB) portsrepo.LedgerRepositoryFacade {
	return &BadgerLedgerRepository{BaseRepository: BaseRepository{DB: db}}
}

var _ portsrepo.LedgerRepositoryFacade = (*BadgerLedgerRepository)(nil)

// AppendEntry appends the entry in a single optimistic transaction. The group
// header key is read and rewritten by every append, so two concurrent appends
// to the same group always conflict and exactly one of them commits.
func (r *BadgerLedgerRepository) AppendEntry(ctx context.Context, entry domain.LedgerEntry) (domain.LedgerEntry, error) {
	header := entry.Header()
	groupID := header.GroupID
	if err := checkKeyParts(groupID); err != nil {
		return domain.LedgerEntry{}, err
	}
	if err := domain.CheckOccurredAt(header.OccurredAt); err != nil {
		return domain.LedgerEntry{}, err
	}

	var appended domain.LedgerEntry
	err := r.update(func(txn *badger.Txn) error {
		var group models.LedgerGroup
		err := getJSON(txn, groupKey(groupID), &group)
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			if entry.Kind == domain.EntryReversal {
				return fmt.Errorf("%w: group %s has no entries", apperrors.ErrNotFound, groupID)
			}
			group = models.LedgerGroup{
				GroupID:      groupID,
				CurrencyCode: entry.CurrencyCode(),
				AuditFields: models.AuditFields{
					CreatedAt: header.RecordedAt,
					CreatedBy: header.RecordedBy,
				},
			}
		case err != nil:
			return err
		}

		if ccy := entry.CurrencyCode(); ccy != "" && ccy != group.CurrencyCode {
			return fmt.Errorf("%w: group %s uses %s, got %s", apperrors.ErrCurrencyMismatch, groupID, group.CurrencyCode, ccy)
		}
		if entry.Kind == domain.EntryReversal {
			if err := checkReversalTarget(txn, groupID, entry.Reversal); err != nil {
				return err
			}
		}

		seq := group.HeadSequence + 1
		appended = entry.WithSequence(seq)
		row := mapping.ToModelLedgerEntry(appended)

		if err := setJSON(txn, entryKey(groupID, seq), row); err != nil {
			return err
		}
		if err := txn.Set(indexKey(groupID, row.OccurredAt, seq), nil); err != nil {
			return err
		}
		if entry.Kind == domain.EntryReversal {
			if err := txn.Set(reversalKey(groupID, entry.Reversal.ReversedSequence), []byte(pad(seq))); err != nil {
				return err
			}
		}

		group.HeadSequence = seq
		group.LastUpdatedAt = header.RecordedAt
		group.LastUpdatedBy = header.RecordedBy
		return setJSON(txn, groupKey(groupID), group)
	})
	if err != nil {
		return domain.LedgerEntry{}, err
	}
	return appended, nil
}

func checkReversalTarget(txn *badger.Txn, groupID string, reversal *domain.ReversalEvent) error {
	var target models.LedgerEntry
	err := getJSON(txn, entryKey(groupID, reversal.ReversedSequence), &target)
	if errors.Is(err, apperrors.ErrNotFound) {
		return fmt.Errorf("%w: entry %d in group %s", apperrors.ErrNotFound, reversal.ReversedSequence, groupID)
	}
	if err != nil {
		return err
	}

	if domain.EntryKind(target.Kind) == domain.EntryReversal {
		return fmt.Errorf("%w: entry %d is itself a reversal", apperrors.ErrValidation, target.Sequence)
	}
	if reversal.OccurredAt.Before(target.OccurredAt) {
		return fmt.Errorf("%w: reversal cannot be dated before entry %d", apperrors.ErrValidation, target.Sequence)
	}

	_, err = txn.Get(reversalKey(groupID, reversal.ReversedSequence))
	switch {
	case err == nil:
		return fmt.Errorf("%w: entry %d", apperrors.ErrAlreadyReversed, target.Sequence)
	case !errors.Is(err, badger.ErrKeyNotFound):
		return apperrors.NewAppError(500, "failed to check reversal marker", err)
	}
	return nil
}

// FindGroup retrieves the ledger header of a group.
func (r *BadgerLedgerRepository) FindGroup(ctx context.Context, groupID string) (*domain.Group, error) {
	var m models.LedgerGroup
	if err := r.DB.View(func(txn *badger.Txn) error {
		return getJSON(txn, groupKey(groupID), &m)
	}); err != nil {
		return nil, err
	}
	g := mapping.ToDomainGroup(m)
	return &g, nil
}

// FindEntry retrieves one ledger entry by sequence.
func (r *BadgerLedgerRepository) FindEntry(ctx context.Context, groupID string, sequence int64) (*domain.LedgerEntry, error) {
	var m models.LedgerEntry
	if err := r.DB.View(func(txn *badger.Txn) error {
		return getJSON(txn, entryKey(groupID, sequence), &m)
	}); err != nil {
		return nil, err
	}
	entry, err := mapping.ToDomainLedgerEntry(m)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrLedgerCorrupted, err)
	}
	return &entry, nil
}

// ListEntries walks the ledger order index and loads each referenced entry.
// The whole page is read from a single Badger snapshot.
func (r *BadgerLedgerRepository) ListEntries(ctx context.Context, groupID string, filter portsrepo.EntryFilter, limit int, nextToken *string) ([]domain.LedgerEntry, *string, error) {
	if limit <= 0 {
		limit = 20
	}
	fetchLimit := limit + 1

	prefix := indexPrefix(groupID)
	start := prefix
	if !filter.Since.IsZero() && !filter.Since.Before(domain.MinOccurredAt) {
		if filter.Since.After(domain.MaxOccurredAt) {
			return []domain.LedgerEntry{}, nil, nil
		}
		start = indexKey(groupID, filter.Since, 0)
	}

	var afterKey []byte
	if nextToken != nil && *nextToken != "" {
		occurredAt, seq, err := pagination.DecodeToken(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: invalid nextToken: %v", apperrors.ErrValidation, err)
		}
		if domain.CheckOccurredAt(occurredAt) != nil {
			return nil, nil, fmt.Errorf("%w: invalid nextToken: time out of range", apperrors.ErrValidation)
		}
		afterKey = indexKey(groupID, occurredAt, seq)
		if bytes.Compare(afterKey, start) > 0 {
			start = afterKey
		}
	}

	rows := make([]models.LedgerEntry, 0, fetchLimit)
	err := r.DB.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false // index keys carry no value

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(start); it.ValidForPrefix(prefix) && len(rows) < fetchLimit; it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			key := it.Item().Key()
			if afterKey != nil && bytes.Equal(key, afterKey) {
				continue
			}

			occurredAt, seq, err := parseIndexKey(key)
			if err != nil {
				return fmt.Errorf("%w: %v", apperrors.ErrLedgerCorrupted, err)
			}
			if !filter.Until.IsZero() && occurredAt.After(filter.Until) {
				break
			}
			if filter.MaxSequence > 0 && seq > filter.MaxSequence {
				continue
			}

			var m models.LedgerEntry
			if err := getJSON(txn, entryKey(groupID, seq), &m); err != nil {
				if errors.Is(err, apperrors.ErrNotFound) {
					return fmt.Errorf("%w: index references missing entry %d", apperrors.ErrLedgerCorrupted, seq)
				}
				return err
			}
			rows = append(rows, m)
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	var nextTokenVal *string
	if len(rows) > limit {
		last := rows[limit-1]
		token := pagination.EncodeToken(last.OccurredAt, last.Sequence)
		nextTokenVal = &token
		rows = rows[:limit]
	}

	entries, err := mapping.ToDomainLedgerEntrySlice(rows)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", apperrors.ErrLedgerCorrupted, err)
	}
	return entries, nextTokenVal, nil
}
