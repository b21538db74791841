package pgsql

import (
	"context"
	"errors"

	"github.com/SscSPs/group_ledger/internal/apperrors"
	"github.com/SscSPs/group_ledger/internal/core/domain"
	portsrepo "github.com/SscSPs/group_ledger/internal/core/ports/repositories"
	"github.com/SscSPs/group_ledger/internal/models"
	"github.com/SscSPs/group_ledger/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxParticipantRepository struct {
	BaseRepository
}

func newPgxParticipantRepository(pool *pgxpool.Pool) portsrepo.ParticipantRepositoryFacade {
	return &PgxParticipantRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxParticipantRepository implements portsrepo.ParticipantRepositoryFacade
var _ portsrepo.ParticipantRepositoryFacade = (*PgxParticipantRepository)(nil)

const participantColumns = `group_id, participant_id, display_name, mention_opt_out, is_active,
	created_at, created_by, last_updated_at, last_updated_by`

// SaveParticipant upserts a participant row. created_* columns are kept on update.
func (r *PgxParticipantRepository) SaveParticipant(ctx context.Context, participant domain.Participant) error {
	m := mapping.ToModelParticipant(participant)
	query := `
		INSERT INTO participants (` + participantColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (group_id, participant_id) DO UPDATE SET
			display_name = EXCLUDED.display_name,
			mention_opt_out = EXCLUDED.mention_opt_out,
			is_active = EXCLUDED.is_active,
			last_updated_at = EXCLUDED.last_updated_at,
			last_updated_by = EXCLUDED.last_updated_by;
	`
	_, err := r.Pool.Exec(ctx, query,
		m.GroupID,
		m.ParticipantID,
		m.DisplayName,
		m.MentionOptOut,
		m.IsActive,
		m.CreatedAt,
		m.CreatedBy,
		m.LastUpdatedAt,
		m.LastUpdatedBy,
	)
	if err != nil {
		return apperrors.NewAppError(500, "failed to save participant "+m.ParticipantID+" in group "+m.GroupID, err)
	}
	return nil
}

func scanParticipant(row pgx.Row) (models.Participant, error) {
	var m models.Participant
	err := row.Scan(
		&m.GroupID,
		&m.ParticipantID,
		&m.DisplayName,
		&m.MentionOptOut,
		&m.IsActive,
		&m.CreatedAt,
		&m.CreatedBy,
		&m.LastUpdatedAt,
		&m.LastUpdatedBy,
	)
	return m, err
}

// FindParticipant retrieves a participant by group and participant ID.
func (r *PgxParticipantRepository) FindParticipant(ctx context.Context, groupID, participantID string) (*domain.Participant, error) {
	query := `SELECT ` + participantColumns + ` FROM participants WHERE group_id = $1 AND participant_id = $2;`

	m, err := scanParticipant(r.Pool.QueryRow(ctx, query, groupID, participantID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, apperrors.NewAppError(500, "failed to find participant "+participantID, err)
	}
	p := mapping.ToDomainParticipant(m)
	return &p, nil
}

// FindParticipantsByIDs retrieves all registered participants among ids.
func (r *PgxParticipantRepository) FindParticipantsByIDs(ctx context.Context, groupID string, ids []string) (map[string]domain.Participant, error) {
	found := make(map[string]domain.Participant, len(ids))
	if len(ids) == 0 {
		return found, nil
	}

	query := `SELECT ` + participantColumns + ` FROM participants WHERE group_id = $1 AND participant_id = ANY($2);`
	rows, err := r.Pool.Query(ctx, query, groupID, ids)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to query participants of group "+groupID, err)
	}
	defer rows.Close()

	for rows.Next() {
		m, err := scanParticipant(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan participant row", err)
		}
		found[m.ParticipantID] = mapping.ToDomainParticipant(m)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating participant rows", err)
	}
	return found, nil
}

// ListParticipants lists a group's participants ordered by participant ID.
func (r *PgxParticipantRepository) ListParticipants(ctx context.Context, groupID string, includeInactive bool) ([]domain.Participant, error) {
	query := `
		SELECT ` + participantColumns + `
		FROM participants
		WHERE group_id = $1 AND (is_active OR $2)
		ORDER BY participant_id;
	`
	rows, err := r.Pool.Query(ctx, query, groupID, includeInactive)
	if err != nil {
		return nil, apperrors.NewAppError(500, "failed to list participants of group "+groupID, err)
	}
	defer rows.Close()

	var participants []models.Participant
	for rows.Next() {
		m, err := scanParticipant(rows)
		if err != nil {
			return nil, apperrors.NewAppError(500, "failed to scan participant row", err)
		}
		participants = append(participants, m)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewAppError(500, "error iterating participant rows", err)
	}
	return mapping.ToDomainParticipantSlice(participants), nil
}
