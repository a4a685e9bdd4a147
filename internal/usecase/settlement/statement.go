package settlement

import (
	"context"

	domain "github.com/BruksfildServices01/clinic-scheduler/internal/domain/settlement"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
	"github.com/BruksfildServices01/clinic-scheduler/internal/pdf"
	"github.com/BruksfildServices01/clinic-scheduler/internal/settings"
	"github.com/BruksfildServices01/clinic-scheduler/internal/storage"
)

const defaultClinicName = "Consultorio"

// Statements renders settlement statements and archives them.
type Statements struct {
	repo     domain.Repository
	settings settings.Reader
	archive  storage.Archive
}

// NewStatements accepts a nil archive; ArchiveStatement is then a no-op.
func NewStatements(
	repo domain.Repository,
	settingsReader settings.Reader,
	archive storage.Archive,
) *Statements {
	return &Statements{
		repo:     repo,
		settings: settingsReader,
		archive:  archive,
	}
}

func (uc *Statements) Render(
	ctx context.Context,
	id uint,
) ([]byte, *models.Settlement, error) {

	s, err := uc.repo.GetSettlement(ctx, id, true)
	if err != nil {
		return nil, nil, errSettlementNotFound(err)
	}

	clinic := defaultClinicName
	if uc.settings != nil {
		clinic = uc.settings.String(ctx, settings.KeyClinicName, clinic)
	}

	body, err := pdf.Statement(clinic, s)
	if err != nil {
		return nil, nil, err
	}
	return body, s, nil
}

// ArchiveStatement uploads the statement and records its object key.
func (uc *Statements) ArchiveStatement(ctx context.Context, id uint) error {
	if uc.archive == nil {
		return nil
	}

	body, s, err := uc.Render(ctx, id)
	if err != nil {
		return err
	}

	key := storage.StatementKey(s.ID, s.ProfessionalID)
	if err := uc.archive.Put(ctx, key, body, "application/pdf"); err != nil {
		return err
	}
	return uc.repo.SetStatementKey(ctx, s.ID, key)
}
