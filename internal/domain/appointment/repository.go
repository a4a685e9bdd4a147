package appointment

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/clinic-scheduler/internal/models"
)

// ErrRenderingExists is returned by CreateRendering when the appointment
// already has a rendering. The transaction stays usable.
var ErrRenderingExists = errors.New("appointment already has a rendering")

type ListFilter struct {
	ProfessionalID *uint
	PatientID      *uuid.UUID
	Status         string
	From           *models.Date
	To             *models.Date

	Page  int
	Limit int
}

type Repository interface {
	ConflictChecker

	// Transaction runs fn against a repository bound to one serializable
	// transaction. Store conflicts surface as business errors.
	Transaction(
		ctx context.Context,
		fn func(tx Repository) error,
	) error

	// -------- Read models --------
	GetProfessional(
		ctx context.Context,
		id uint,
	) (*models.Professional, error)

	GetPatient(
		ctx context.Context,
		id uuid.UUID,
	) (*models.Patient, error)

	GetService(
		ctx context.Context,
		id uint,
	) (*models.Service, error)

	GetSubService(
		ctx context.Context,
		serviceID uint,
		id uint,
	) (*models.SubService, error)

	// -------- Appointment --------
	GetAppointment(
		ctx context.Context,
		id uint,
	) (*models.Appointment, error)

	LockAppointment(
		ctx context.Context,
		id uint,
	) (*models.Appointment, error)

	CreateAppointment(
		ctx context.Context,
		ap *models.Appointment,
	) error

	UpdateAppointment(
		ctx context.Context,
		ap *models.Appointment,
	) error

	DeleteAppointment(
		ctx context.Context,
		id uint,
	) error

	ListAppointments(
		ctx context.Context,
		filter ListFilter,
	) ([]models.Appointment, int64, error)

	ListAppointmentsForDay(
		ctx context.Context,
		professionalID uint,
		date models.Date,
	) ([]models.Appointment, error)

	ServiceOffering

	// -------- Billing --------
	// FindRenderingByAppointment returns nil, nil when none exists.
	FindRenderingByAppointment(
		ctx context.Context,
		appointmentID uint,
	) (*models.ServiceRendering, error)

	CreateRendering(
		ctx context.Context,
		r *models.ServiceRendering,
	) error

	DeleteRendering(
		ctx context.Context,
		id uint,
	) error
}
