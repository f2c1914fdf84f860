package service

//go:generate go run go.uber.org/mock/mockgen -source=./service.go -destination=./mocks/service_mock.go -package=mocks

import (
	"context"
	"errors"
	"fmt"
	"purohit/config"
	"purohit/infras/otel"
	"purohit/infras/pubsub"
	"purohit/internal/domains/booking/model"
	"purohit/internal/domains/booking/model/dto"
	"purohit/internal/domains/booking/repository"
	"purohit/internal/domains/booking/validator"
	notification "purohit/internal/domains/notification/service"
	"purohit/shared"
	"purohit/shared/constant"
	gDto "purohit/shared/dto"
	"purohit/shared/failure"
	"purohit/shared/task"
	"purohit/shared/timezone"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	MessageStatusUpdated = "Status updated to %s"
	MessageStatusFailed  = "Failed to update status"
	MessageBookingClosed = "Booking can no longer be updated"
	MessageInvalidStatus = "invalid booking status"

	referenceDigits = 1_000_000
)

type Booking interface {
	Submit(ctx context.Context, req dto.CreateBookingRequest, userID string) (*model.Submission, error)
	GetPage(ctx context.Context, scope model.Scope, userID, cursor string) (dto.GetBookingsResponse, error)
	Page(ctx context.Context, scope model.Scope, userID string, after *dto.Cursor) ([]model.Record, bool, error)
	Get(ctx context.Context, id string) (model.Record, error)
	UpdateStatus(ctx context.Context, id string, status model.Status, actor model.Actor) error
}

type serviceImpl struct {
	repo      repository.Booking
	validator *validator.Validator
	notifier  notification.Notifier
	bus       pubsub.Bus
	cfg       *config.Config
	otel      otel.Otel
	clock     func() time.Time
}

func New(repo repository.Booking, notifier notification.Notifier, bus pubsub.Bus, cfg *config.Config, otel otel.Otel) Booking {
	return &serviceImpl{
		repo: repo,
		validator: validator.New(validator.Rules{
			HorizonDays:       cfg.Booking.HorizonDays,
			DisposableDomains: cfg.Booking.DisposableDomains,
		}),
		notifier: notifier,
		bus:      bus,
		cfg:      cfg,
		otel:     otel,
		clock:    timezone.Now,
	}
}

// Submit validates the draft, stores it exactly once and then hands the
// stored record to both notification channels in the background. The
// notification outcome never changes the result of a stored booking.
func (s *serviceImpl) Submit(ctx context.Context, req dto.CreateBookingRequest, userID string) (res *model.Submission, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Submit")
	defer scope.End()
	defer scope.TraceIfError(&err)

	now := s.clock()
	res = &model.Submission{State: model.StateValidating}

	if fields := s.validator.Validate(req, now); len(fields) > 0 {
		res.State = model.StateInvalid

		return res, failure.NewValidationError(fields) //nolint:wrapcheck
	}

	res.State = model.StatePersisting

	reference := newReference(s.cfg.Booking.ReferencePrefix, now)
	booking := req.ToModel(reference, userID, now)

	if err = s.repo.Insert(ctx, booking); err != nil {
		log.Error().Err(err).Str("reference", reference).Msg("failed to store booking")

		res.State = model.StateFailed

		return res, failure.NewPersistenceError(reference, err) //nolint:wrapcheck
	}

	res.State = model.StatePersisted
	res.Record = booking.Normalize(s.cfg.Booking.ReferencePrefix, now)

	s.publishChange(ctx, model.ChangeEvent{ID: booking.ID, UserID: userID, Kind: model.ChangeCreated})

	record := res.Record
	res.Chat = task.Go(ctx, notification.ChannelChat, func(ctx context.Context) error {
		return s.notify(ctx, userID, record, s.notifier.NotifyChat)
	})
	res.Email = task.Go(ctx, notification.ChannelEmail, func(ctx context.Context) error {
		return s.notify(ctx, userID, record, s.notifier.SendConfirmation)
	})

	res.State = model.StateDone

	log.Info().Str("reference", reference).Str("id", booking.ID).Msg("booking stored")

	return res, nil
}

func newReference(prefix string, now time.Time) string {
	return fmt.Sprintf("%s%06d", prefix, now.UnixMilli()%referenceDigits)
}

// notify runs one delivery and turns its failure into a warning advisory
// for the submitting user.
func (s *serviceImpl) notify(ctx context.Context, userID string, record model.Record, send func(context.Context, model.Record) error) error {
	err := send(ctx, record)
	if err == nil {
		return nil
	}

	message := err.Error()

	var notificationErr *failure.NotificationError
	if errors.As(err, &notificationErr) {
		message = notificationErr.Message
	}

	log.Warn().Err(err).Str("reference", record.BookingReference).Msg(message)

	if userID == "" {
		return err
	}

	topic := pubsub.Topic(constant.TopicAdvisories, userID)
	if pubErr := s.bus.Publish(ctx, topic, gDto.NewAdvisory(gDto.AdvisoryWarning, message)); pubErr != nil {
		log.Error().Err(pubErr).Str("topic", topic).Msg("failed to publish advisory")
	}

	return err
}

func (s *serviceImpl) publishChange(ctx context.Context, event model.ChangeEvent) {
	if err := s.bus.Publish(ctx, constant.TopicBookingChanges, event); err != nil {
		log.Error().Err(err).Str("id", event.ID).Msg("failed to publish booking change")
	}
}

func (s *serviceImpl) GetPage(ctx context.Context, scope model.Scope, userID, cursor string) (res dto.GetBookingsResponse, err error) {
	ctx, span := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetPage")
	defer span.End()
	defer span.TraceIfError(&err)

	after, err := dto.DecodeCursor(cursor)
	if err != nil {
		return res, failure.InvalidCursorParam
	}

	records, hasMore, err := s.Page(ctx, scope, userID, after)
	if err != nil {
		return res, err
	}

	res.FromRecords(records, hasMore)

	return res, nil
}

// Page reads one page newest first. One extra row is fetched to tell
// whether another page exists.
func (s *serviceImpl) Page(ctx context.Context, scope model.Scope, userID string, after *dto.Cursor) (_ []model.Record, _ bool, err error) {
	ctx, span := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Page")
	defer span.End()
	defer span.TraceIfError(&err)

	filter, err := scopeFilter(scope, userID)
	if err != nil {
		return nil, false, err
	}

	size := s.pageSize()

	rows, err := s.repo.GetPage(ctx, filter, after, size+1)
	if err != nil {
		log.Error().Err(err).Str("scope", string(scope)).Msg("failed to get bookings")

		return nil, false, fmt.Errorf("failed to get bookings: %w", err)
	}

	hasMore := len(rows) > size
	if hasMore {
		rows = rows[:size]
	}

	now := s.clock()
	records := make([]model.Record, len(rows))

	for i, row := range rows {
		records[i] = row.Normalize(s.cfg.Booking.ReferencePrefix, now)
	}

	return records, hasMore, nil
}

func (s *serviceImpl) pageSize() int {
	if s.cfg.Booking.PageSize <= 0 {
		return constant.DefaultValueLimit
	}

	return s.cfg.Booking.PageSize
}

func scopeFilter(scope model.Scope, userID string) (gDto.FilterGroup, error) {
	switch scope {
	case model.ScopeAll:
		return gDto.FilterGroup{}, nil
	case model.ScopeMine:
		if userID == "" {
			return gDto.FilterGroup{}, failure.Unauthorized("Please log in to continue") //nolint:wrapcheck
		}

		return gDto.FilterGroup{
			Operator: gDto.FilterGroupOperatorAnd,
			Filters: []any{
				gDto.Filter{
					Field:    model.FieldUserID,
					Value:    userID,
					Operator: gDto.FilterOperatorEq,
					Table:    model.TableName,
				},
			},
		}, nil
	default:
		return gDto.FilterGroup{}, failure.BadRequestFromString("unknown booking scope") //nolint:wrapcheck
	}
}

func (s *serviceImpl) Get(ctx context.Context, id string) (_ model.Record, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer scope.End()
	defer scope.TraceIfError(&err)

	booking, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Str("id", id).Msg("failed to get booking")

		return model.Record{}, fmt.Errorf("failed to get booking: %w", err)
	}

	if booking.ID == "" {
		return model.Record{}, failure.NotFound(model.EntityName) //nolint:wrapcheck
	}

	return booking.Normalize(s.cfg.Booking.ReferencePrefix, s.clock()), nil
}

// UpdateStatus writes a new status when the booking is still open. Owners
// may only touch their own bookings; admins may touch any.
func (s *serviceImpl) UpdateStatus(ctx context.Context, id string, status model.Status, actor model.Actor) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".UpdateStatus")
	defer scope.End()
	defer scope.TraceIfError(&err)

	if !status.Settable() {
		return failure.BadRequestFromString(MessageInvalidStatus) //nolint:wrapcheck
	}

	record, err := s.Get(ctx, id)
	if err != nil {
		return err
	}

	if !actor.Admin && record.UserID != actor.UserID {
		return failure.ResourceRestrictedError
	}

	if record.Status.Final() {
		return failure.Conflict(MessageBookingClosed) //nolint:wrapcheck
	}

	update := shared.TransformFields(model.StatusUpdate{Status: string(status)})
	if err = s.repo.Update(ctx, update, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Str("id", id).Msg("failed to update booking status")

		return fmt.Errorf("failed to update booking status: %w", err)
	}

	s.publishChange(ctx, model.ChangeEvent{ID: id, UserID: record.UserID, Kind: model.ChangeStatusUpdated})

	return nil
}
