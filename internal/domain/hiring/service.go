package hiring

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/honeycarbs/plugplayers/internal/domain"
	"github.com/honeycarbs/plugplayers/internal/domain/identity"
	"github.com/honeycarbs/plugplayers/internal/lock"
	"github.com/honeycarbs/plugplayers/internal/repository"
	"github.com/honeycarbs/plugplayers/pkg/logging"
)

const tracerName = "github.com/honeycarbs/plugplayers/internal/domain/hiring"

// Notifier delivers inbox notifications
type Notifier interface {
	Notify(ctx context.Context, userID string, kind domain.NotificationType, message, link string) (domain.Notification, error)
}

// Recorder receives lifecycle metrics
type Recorder interface {
	Transition(entity, to string)
	Observe(operation string, started time.Time, err error)
	NotificationFailed(kind string)
}

// Option configures Service
type Option func(*Service)

// WithNotifier sets the notification sink
func WithNotifier(n Notifier) Option {
	return func(s *Service) {
		s.notifier = n
	}
}

// WithLocks sets the per-entity lock manager
func WithLocks(m *lock.Manager) Option {
	return func(s *Service) {
		s.locks = m
	}
}

// WithRecorder sets the metrics recorder
func WithRecorder(r Recorder) Option {
	return func(s *Service) {
		s.recorder = r
	}
}

// WithLogger sets the logger
func WithLogger(l *logging.Logger) Option {
	return func(s *Service) {
		s.logger = l
	}
}

// WithClock sets a custom clock
func WithClock(clock func() time.Time) Option {
	return func(s *Service) {
		s.clock = clock
	}
}

// WithIDGenerator sets a custom id source
func WithIDGenerator(newID func() string) Option {
	return func(s *Service) {
		s.newID = newID
	}
}

// WithTracerProvider sets the provider operation spans come from
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(s *Service) {
		s.tracer = tp.Tracer(tracerName)
	}
}

// WithContractWriter replaces the contract body generator
func WithContractWriter(w ContractWriter) Option {
	return func(s *Service) {
		s.writeContract = w
	}
}

// Service runs the Application, Interview, Contract and Payment state machine.
// Every transition holds the entity lock while it loads, checks and saves
type Service struct {
	repos         *repository.Repositories
	dir           *identity.Directory
	notifier      Notifier
	locks         *lock.Manager
	recorder      Recorder
	logger        *logging.Logger
	tracer        trace.Tracer
	clock         func() time.Time
	newID         func() string
	writeContract ContractWriter
}

// NewService builds Service from options
func NewService(repos *repository.Repositories, dir *identity.Directory, opts ...Option) (*Service, error) {
	if repos == nil {
		return nil, fmt.Errorf("hiring.Service: repositories are required")
	}
	if dir == nil {
		return nil, fmt.Errorf("hiring.Service: identity directory is required")
	}

	s := &Service{
		repos:         repos,
		dir:           dir,
		recorder:      nopRecorder{},
		logger:        logging.NewNop(),
		tracer:        otel.Tracer(tracerName),
		clock:         time.Now,
		newID:         domain.NewID,
		writeContract: TemplateContract,
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.notifier == nil {
		return nil, fmt.Errorf("hiring.Service: notifier is required")
	}
	if s.locks == nil {
		s.locks = lock.NewManager(lock.WithLogger(s.logger))
	}
	return s, nil
}

// NewServiceWithDeps creates a Service with direct dependencies (Wire-compatible)
func NewServiceWithDeps(
	repos *repository.Repositories,
	dir *identity.Directory,
	notifier Notifier,
	locks *lock.Manager,
	recorder Recorder,
	logger *logging.Logger,
) (*Service, error) {
	return NewService(repos, dir,
		WithNotifier(notifier),
		WithLocks(locks),
		WithRecorder(recorder),
		WithLogger(logger.Named("hiring")),
	)
}

// run wraps one operation in a span and a duration observation
func (s *Service) run(ctx context.Context, op string, fn func(context.Context) error) error {
	ctx, span := s.tracer.Start(ctx, "hiring."+op)
	defer span.End()

	started := time.Now()
	err := fn(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	s.recorder.Observe(op, started, err)
	return err
}

func (s *Service) now() time.Time {
	return s.clock().UTC()
}

// notify never fails the caller: the transition is already committed
func (s *Service) notify(ctx context.Context, userID string, kind domain.NotificationType, message, link string) {
	if _, err := s.notifier.Notify(ctx, userID, kind, message, link); err != nil {
		s.recorder.NotificationFailed(string(kind))
		s.logger.Warn("failed to deliver notification", "user_id", userID, "type", kind, "err", err)
	}
}

func (s *Service) notifyClientAdmins(ctx context.Context, orgID string, kind domain.NotificationType, message, link string) {
	admins, err := s.dir.ClientAdmins(ctx, orgID)
	if err != nil {
		s.recorder.NotificationFailed(string(kind))
		s.logger.Warn("failed to resolve client admins", "organization_id", orgID, "err", err)
		return
	}
	for _, admin := range admins {
		s.notify(ctx, admin.ID, kind, message, link)
	}
}

func (s *Service) notifyCandidate(ctx context.Context, candidate domain.Candidate, kind domain.NotificationType, message, link string) {
	user, ok, err := s.dir.CandidateUser(ctx, candidate)
	if err != nil {
		s.recorder.NotificationFailed(string(kind))
		s.logger.Warn("failed to resolve candidate user", "candidate_id", candidate.ID, "err", err)
		return
	}
	if !ok {
		s.logger.Debug("candidate has no account, skipping notification", "candidate_id", candidate.ID, "type", kind)
		return
	}
	s.notify(ctx, user.ID, kind, message, link)
}

func load[T any](ctx context.Context, c *repository.Collection[T], entity, id string) (T, error) {
	v, err := c.Get(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return v, domain.NotFound(entity, id)
	}
	if err != nil {
		return v, fmt.Errorf("hiring: load %s: %w", entity, err)
	}
	return v, nil
}

func save[T any](ctx context.Context, c *repository.Collection[T], entity, id string, fn func(*T) error) (T, error) {
	v, err := c.Update(ctx, id, fn)
	if errors.Is(err, repository.ErrNotFound) {
		return v, domain.NotFound(entity, id)
	}
	if err != nil {
		return v, fmt.Errorf("hiring: save %s: %w", entity, err)
	}
	return v, nil
}

type nopRecorder struct{}

func (nopRecorder) Transition(string, string)        {}
func (nopRecorder) Observe(string, time.Time, error) {}
func (nopRecorder) NotificationFailed(string)        {}
