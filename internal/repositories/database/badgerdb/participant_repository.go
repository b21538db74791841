package badgerdb

import (
	"context"
	"errors"

	"github.com/SscSPs/group_ledger/internal/apperrors"
	"github.com/SscSPs/group_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/group_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/group_ledger/internal/models"
	"github.com/SscSPs/group_ledger/internal/utils/mapping"
	"github.com/dgraph-io/badger/v4"
	"github.com/samber/lo"
)

type BadgerParticipantRepository struct {
	BaseRepository
}

func newBadgerParticipantRepository(db *badger.DB) portsrepo.ParticipantRepositoryFacade {
	return &BadgerParticipantRepository{BaseRepository: BaseRepository{DB: db}}
}

var _ portsrepo.ParticipantRepositoryFacade = (*BadgerParticipantRepository)(nil)

// SaveParticipant inserts or replaces a participant.
func (r *BadgerParticipantRepository) SaveParticipant(ctx context.Context, participant domain.Participant) error {
	m := mapping.ToModelParticipant(participant)
	if err := checkKeyParts(m.GroupID, m.ParticipantID); err != nil {
		return err
	}
	return r.update(func(txn *badger.Txn) error {
		return setJSON(txn, participantKey(m.GroupID, m.ParticipantID), m)
	})
}

// FindParticipant retrieves a participant by group and participant ID.
func (r *BadgerParticipantRepository) FindParticipant(ctx context.Context, groupID, participantID string) (*domain.Participant, error) {
	var m models.Participant
	err := r.DB.View(func(txn *badger.Txn) error {
		return getJSON(txn, participantKey(groupID, participantID), &m)
	})
	if err != nil {
		return nil, err
	}
	p := mapping.ToDomainParticipant(m)
	return &p, nil
}

// FindParticipantsByIDs retrieves the registered participants among ids.
func (r *BadgerParticipantRepository) FindParticipantsByIDs(ctx context.Context, groupID string, ids []string) (map[string]domain.Participant, error) {
	found := make(map[string]domain.Participant, len(ids))
	err := r.DB.View(func(txn *badger.Txn) error {
		for _, id := range lo.Uniq(ids) {
			var m models.Participant
			err := getJSON(txn, participantKey(groupID, id), &m)
			if errors.Is(err, apperrors.ErrNotFound) {
				continue
			}
			if err != nil {
				return err
			}
			found[id] = mapping.ToDomainParticipant(m)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return found, nil
}

// ListParticipants iterates the group's participant prefix in key order.
func (r *BadgerParticipantRepository) ListParticipants(ctx context.Context, groupID string, includeInactive bool) ([]domain.Participant, error) {
	var rows []models.Participant
	prefix := participantPrefix(groupID)

	err := r.DB.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			var m models.Participant
			if err := decodeItem(it.Item(), &m); err != nil {
				return err
			}
			if m.IsActive || includeInactive {
				rows = append(rows, m)
			}
		}
		return nil
	})
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to list participants for group "+groupID, err)
	}
	return mapping.ToDomainParticipantSlice(rows), nil
}
