package professional

import (
	"context"

	"github.com/BruksfildServices01/clinic-scheduler/internal/domain/schedule"
	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

type Repository interface {
	Get(ctx context.Context, id uint) (*models.Professional, error)

	UpdateSchedule(
		ctx context.Context,
		id uint,
		w schedule.WeeklySchedule,
	) error

	SetStatus(
		ctx context.Context,
		id uint,
		status string,
	) error
}
