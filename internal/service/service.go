package service

import (
	"github.com/airx/beds/server/hub/internal/auth"
	"github.com/airx/beds/server/hub/internal/cleanup"
	"github.com/airx/beds/server/hub/internal/errors"
	"github.com/airx/beds/server/hub/internal/events"
	"github.com/airx/beds/server/hub/internal/models"
	"github.com/airx/beds/server/hub/internal/monitoring"
	"github.com/airx/beds/server/hub/internal/repository"
	"github.com/airx/beds/server/hub/internal/status"
	"github.com/jonboulle/clockwork"
)

// Service contains the store and service-wide dependencies
type Service struct {
	Store     repository.Store
	Cleanup   *cleanup.CleanupService
	Tokens    *auth.TokenIssuer
	Engine    *status.Engine
	Publisher events.Publisher
	Monitor   *monitoring.Service

	clock            clockwork.Clock
	measurementLimit int
}

// Deps are the collaborators of a Service. Only Store and Tokens are required.
type Deps struct {
	Store            repository.Store
	Tokens           *auth.TokenIssuer
	Thresholds       status.Thresholds
	Publisher        events.Publisher
	Monitor          *monitoring.Service
	Clock            clockwork.Clock
	MeasurementLimit int
}

// New creates a new service instance
func New(d Deps) (*Service, error) {
	if d.Clock == nil {
		d.Clock = clockwork.NewRealClock()
	}
	if d.Publisher == nil {
		d.Publisher = events.NopPublisher{}
	}
	if d.Monitor == nil {
		d.Monitor = monitoring.NewServiceForTesting()
	}
	if d.MeasurementLimit <= 0 {
		d.MeasurementLimit = models.DefaultMeasurementLimit
	}

	s := &Service{
		Store:            d.Store,
		Tokens:           d.Tokens,
		Engine:           status.NewEngine(d.Clock, d.Thresholds),
		Publisher:        d.Publisher,
		Monitor:          d.Monitor,
		clock:            d.Clock,
		measurementLimit: d.MeasurementLimit,
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	s.Cleanup = cleanup.New(d.Store, d.Store)
	return s, nil
}

// Validate checks if all required dependencies are initialized
func (s *Service) Validate() error {
	if s.Store == nil {
		return ErrMissingRepository("store")
	}
	if s.Tokens == nil {
		return ErrMissingRepository("tokens")
	}
	return nil
}

func ErrMissingRepository(name string) error {
	return errors.NewInternalError("missing repository: "+name, nil)
}

// storageFailed counts server-side failures and passes err through.
func (s *Service) storageFailed(op string, err error) error {
	if apiErr, ok := errors.As(err); ok && apiErr.Code < 500 {
		return err
	}
	s.Monitor.RecordStorageError(op)
	return err
}
