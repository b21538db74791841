package mapping

import (
	"time"

	"github.com/SscSPs/group_ledger/internal/core/domain"
	"github.com/SscSPs/group_ledger/internal/models"
)

// storedTime matches the precision both stores keep, so a saved participant or
// group header reads back equal to what was written.
func storedTime(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	return t.UTC().Truncate(time.Microsecond)
}

// ToModelAuditFields converts a domain AuditFields to a model AuditFields.
// A missing LastUpdated pair defaults to the creation pair.
func ToModelAuditFields(d domain.AuditFields) models.AuditFields {
	m := models.AuditFields{
		CreatedAt:     storedTime(d.CreatedAt),
		CreatedBy:     d.CreatedBy,
		LastUpdatedAt: storedTime(d.LastUpdatedAt),
		LastUpdatedBy: d.LastUpdatedBy,
	}
	if m.LastUpdatedAt.IsZero() {
		m.LastUpdatedAt = m.CreatedAt
	}
	if m.LastUpdatedBy == "" {
		m.LastUpdatedBy = m.CreatedBy
	}
	return m
}

func ToDomainAuditFields(m models.AuditFields) domain.AuditFields {
	return domain.AuditFields{
		CreatedAt:     storedTime(m.CreatedAt),
		CreatedBy:     m.CreatedBy,
		LastUpdatedAt: storedTime(m.LastUpdatedAt),
		LastUpdatedBy: m.LastUpdatedBy,
	}
}
