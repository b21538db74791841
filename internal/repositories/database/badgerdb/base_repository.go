package badgerdb

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/SscSPs/group_ledger/internal/apperrors"
	"github.com/dgraph-io/badger/v4"
)

// Key layout. Every component is separated by sep; numeric components are
// zero padded so that lexicographic key order equals numeric order.
//
//	grp<sep>{group}                         -> models.LedgerGroup
//	evt<sep>{group}<sep>{seq}               -> models.LedgerEntry
//	idx<sep>{group}<sep>{unix}{nanos}<sep>{seq} -> empty, ledger order index
//	rev<sep>{group}<sep>{target seq}        -> reversing sequence
//	pt<sep>{group}<sep>{participant}        -> models.Participant
const (
	sep = "\x00"

	prefixGroup       = "grp"
	prefixEntry       = "evt"
	prefixIndex       = "idx"
	prefixReversal    = "rev"
	prefixParticipant = "pt"
)

func pad(n int64) string {
	return fmt.Sprintf("%019d", n)
}

// checkKeyParts rejects identifiers that would let one key prefix match another's keys.
func checkKeyParts(parts ...string) error {
	for _, part := range parts {
		if part == "" || strings.Contains(part, sep) {
			return fmt.Errorf("%w: invalid key component %q", apperrors.ErrValidation, part)
		}
	}
	return nil
}

func groupKey(groupID string) []byte {
	return []byte(prefixGroup + sep + groupID)
}

func entryKey(groupID string, seq int64) []byte {
	return []byte(prefixEntry + sep + groupID + sep + pad(seq))
}

func indexPrefix(groupID string) []byte {
	return []byte(prefixIndex + sep + groupID + sep)
}

// timeComponent encodes t as 19 digits of Unix seconds followed by 9 digits of
// nanoseconds. t must lie in [domain.MinOccurredAt, domain.MaxOccurredAt].
func timeComponent(t time.Time) string {
	return pad(t.Unix()) + fmt.Sprintf("%09d", t.Nanosecond())
}

func indexKey(groupID string, occurredAt time.Time, seq int64) []byte {
	return []byte(prefixIndex + sep + groupID + sep + timeComponent(occurredAt) + sep + pad(seq))
}

// parseIndexKey extracts the occurrence time and sequence from an idx key.
func parseIndexKey(key []byte) (time.Time, int64, error) {
	parts := strings.Split(string(key), sep)
	if len(parts) != 4 || len(parts[2]) != 28 {
		return time.Time{}, 0, fmt.Errorf("malformed index key %q", key)
	}
	secs, err := strconv.ParseInt(parts[2][:19], 10, 64)
	if err != nil {
		return time.Time{}, 0, fmt.Errorf("malformed index key %q: %w", key, err)
	}
	nanos, err := strconv.ParseInt(parts[2][19:], 10, 64)
	if err != nil {
		return time.Time{}, 0, fmt.Errorf("malformed index key %q: %w", key, err)
	}
	seq, err := strconv.ParseInt(parts[3], 10, 64)
	if err != nil {
		return time.Time{}, 0, fmt.Errorf("malformed index key %q: %w", key, err)
	}
	return time.Unix(secs, nanos).UTC(), seq, nil
}

func reversalKey(groupID string, targetSeq int64) []byte {
	return []byte(prefixReversal + sep + groupID + sep + pad(targetSeq))
}

func participantPrefix(groupID string) []byte {
	return []byte(prefixParticipant + sep + groupID + sep)
}

func participantKey(groupID, participantID string) []byte {
	return []byte(prefixParticipant + sep + groupID + sep + participantID)
}

// BaseRepository provides common functionality for all Badger repositories
type BaseRepository struct {
	DB *badger.DB
}

// getJSON loads and decodes the value stored under key.
// It returns apperrors.ErrNotFound when the key does not exist.
func getJSON(txn *badger.Txn, key []byte, out any) error {
	item, err := txn.Get(key)
	if errors.Is(err, badger.ErrKeyNotFound) {
		return apperrors.ErrNotFound
	}
	if err != nil {
		return apperrors.NewAppError(500, "failed to read key", err)
	}
	return decodeItem(item, out)
}

func decodeItem(item *badger.Item, out any) error {
	return item.Value(func(v []byte) error {
		if err := json.Unmarshal(v, out); err != nil {
			return apperrors.NewAppError(500, "failed to decode value of "+string(item.Key()), err)
		}
		return nil
	})
}

func setJSON(txn *badger.Txn, key []byte, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return apperrors.NewAppError(500, "failed to encode value", err)
	}
	return txn.Set(key, data)
}

// update runs fn in a read-write transaction and maps a lost optimistic
// race to apperrors.ErrConcurrentModification.
func (r *BaseRepository) update(fn func(txn *badger.Txn) error) error {
	err := r.DB.Update(fn)
	if errors.Is(err, badger.ErrConflict) {
		return fmt.Errorf("%w: %v", apperrors.ErrConcurrentModification, err)
	}
	return err
}
