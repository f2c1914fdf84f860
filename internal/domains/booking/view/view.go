// Package view keeps booking lists live. A Session holds the first page as a
// standing query, re-reads it on every booking change and pushes full
// snapshots; older pages are appended on demand.
package view

import (
	"context"
	"errors"
	"fmt"
	"purohit/infras/otel"
	"purohit/infras/pubsub"
	"purohit/internal/domains/booking/model"
	"purohit/internal/domains/booking/model/dto"
	booking "purohit/internal/domains/booking/service"
	"purohit/shared/constant"
	gDto "purohit/shared/dto"
	"purohit/shared/failure"
	"slices"
	"sync"

	"github.com/rs/zerolog/log"
)

const (
	EventSnapshot = "snapshot"
	EventAdvisory = "advisory"

	MessageLoadFailed     = "Failed to load bookings."
	MessageLoadMoreFailed = "Failed to load more bookings."

	eventBuffer = 16
)

var ErrClosed = errors.New("view session closed")

// Event is one message pushed to the viewer.
type Event struct {
	Type     string                   `json:"type"`
	Snapshot *dto.GetBookingsResponse `json:"snapshot,omitempty"`
	Advisory *gDto.Advisory           `json:"advisory,omitempty"`
}

type Viewer interface {
	Open(ctx context.Context, scope model.Scope, actor model.Actor) (Session, error)
}

type Session interface {
	Events() <-chan Event
	Done() <-chan struct{}
	LoadMore(ctx context.Context) error
	UpdateStatus(ctx context.Context, id string, status model.Status) error
	Close() error
}

type viewerImpl struct {
	bookings booking.Booking
	bus      pubsub.Bus
	otel     otel.Otel
}

func New(bookings booking.Booking, bus pubsub.Bus, otel otel.Otel) Viewer {
	return &viewerImpl{
		bookings: bookings,
		bus:      bus,
		otel:     otel,
	}
}

// Open subscribes before the first read so no change between the two is
// missed. The first snapshot is queued before Open returns.
func (v *viewerImpl) Open(ctx context.Context, scope model.Scope, actor model.Actor) (_ Session, err error) {
	ctx, span := v.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".view.Open")
	defer span.End()
	defer span.TraceIfError(&err)

	if scope == model.ScopeAll && !actor.Admin {
		return nil, failure.ForbiddenError
	}

	topics := []string{constant.TopicBookingChanges}
	if actor.UserID != "" {
		topics = append(topics, pubsub.Topic(constant.TopicAdvisories, actor.UserID))
	}

	sub, err := v.bus.Subscribe(ctx, topics...)
	if err != nil {
		log.Error().Err(err).Msg("failed to subscribe to booking changes")

		return nil, fmt.Errorf("failed to subscribe to booking changes: %w", err)
	}

	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))

	s := &sessionImpl{
		bookings: v.bookings,
		sub:      sub,
		scope:    scope,
		actor:    actor,
		events:   make(chan Event, eventBuffer),
		done:     make(chan struct{}),
		stopped:  make(chan struct{}),
		cancel:   cancel,
	}

	if err = s.refresh(runCtx, ""); err != nil {
		cancel()
		_ = sub.Close()

		return nil, err
	}

	go s.run(runCtx)

	return s, nil
}

type sessionImpl struct {
	bookings booking.Booking
	sub      pubsub.Subscription
	scope    model.Scope
	actor    model.Actor

	// mu serialises reads, state changes and emission so snapshots leave in
	// the order their queries ran.
	mu      sync.Mutex
	live    []model.Record
	tail    []model.Record
	hasMore bool

	events    chan Event
	done      chan struct{}
	stopped   chan struct{}
	cancel    context.CancelFunc
	closeOnce sync.Once
}

func (s *sessionImpl) Events() <-chan Event {
	return s.events
}

func (s *sessionImpl) Done() <-chan struct{} {
	return s.done
}

func (s *sessionImpl) run(ctx context.Context) {
	defer close(s.stopped)

	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-s.sub.Messages():
			if !ok {
				return
			}

			s.handle(ctx, msg)
		}
	}
}

func (s *sessionImpl) handle(ctx context.Context, msg pubsub.Message) {
	if msg.Topic != constant.TopicBookingChanges {
		var advisory gDto.Advisory
		if err := msg.Decode(&advisory); err != nil {
			log.Warn().Err(err).Msg("dropping malformed advisory")

			return
		}

		s.emit(Event{Type: EventAdvisory, Advisory: &advisory})

		return
	}

	var event model.ChangeEvent
	if err := msg.Decode(&event); err != nil {
		log.Warn().Err(err).Msg("dropping malformed booking change")

		return
	}

	if s.scope == model.ScopeMine && event.UserID != s.actor.UserID {
		return
	}

	if err := s.refresh(ctx, event.ID); err != nil {
		s.emit(Event{Type: EventAdvisory, Advisory: gDto.NewAdvisory(gDto.AdvisoryError, MessageLoadFailed)})
	}
}

// refresh re-reads the live page. Records pushed off it join the tail so the
// accumulated list never loses an item it already showed.
func (s *sessionImpl) refresh(ctx context.Context, changedID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records, hasMore, err := s.bookings.Page(ctx, s.scope, s.actor.UserID, nil)
	if err != nil {
		log.Error().Err(err).Str("scope", string(s.scope)).Msg("failed to refresh live bookings")

		return err //nolint:wrapcheck
	}

	inLive := ids(records)

	tail := make([]model.Record, 0, len(s.tail)+len(s.live))

	for _, record := range s.live {
		if !inLive[record.ID] {
			tail = append(tail, record)
		}
	}

	for _, record := range s.tail {
		if !inLive[record.ID] {
			tail = append(tail, record)
		}
	}

	tail = dedupe(tail)
	sortNewestFirst(tail)

	if changedID != "" && !inLive[changedID] {
		if i := slices.IndexFunc(tail, func(r model.Record) bool { return r.ID == changedID }); i >= 0 {
			if updated, err := s.bookings.Get(ctx, changedID); err == nil {
				tail[i] = updated
			} else {
				log.Warn().Err(err).Str("id", changedID).Msg("failed to re-read changed booking")
			}
		}
	}

	if len(s.tail) == 0 {
		s.hasMore = hasMore
	}

	s.live = records
	s.tail = tail

	s.emitLocked()

	return nil
}

// LoadMore appends the page strictly after the last accumulated item.
func (s *sessionImpl) LoadMore(ctx context.Context) error {
	if s.closed() {
		return ErrClosed
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.hasMore {
		return nil
	}

	accumulated := s.accumulated()
	if len(accumulated) == 0 {
		return nil
	}

	after := dto.CursorAfter(accumulated[len(accumulated)-1])

	records, hasMore, err := s.bookings.Page(ctx, s.scope, s.actor.UserID, &after)
	if err != nil {
		log.Error().Err(err).Str("scope", string(s.scope)).Msg("failed to load more bookings")
		s.sendLocked(Event{Type: EventAdvisory, Advisory: gDto.NewAdvisory(gDto.AdvisoryError, MessageLoadMoreFailed)})

		return err //nolint:wrapcheck
	}

	seen := ids(accumulated)

	for _, record := range records {
		if !seen[record.ID] {
			s.tail = append(s.tail, record)
			seen[record.ID] = true
		}
	}

	s.hasMore = hasMore
	s.emitLocked()

	return nil
}

// UpdateStatus leaves the shown status untouched; the change arrives with
// the next snapshot.
func (s *sessionImpl) UpdateStatus(ctx context.Context, id string, status model.Status) error {
	if s.closed() {
		return ErrClosed
	}

	if err := s.bookings.UpdateStatus(ctx, id, status, s.actor); err != nil {
		log.Error().Err(err).Str("id", id).Str("status", string(status)).Msg("status update failed")
		s.emit(Event{Type: EventAdvisory, Advisory: gDto.NewAdvisory(gDto.AdvisoryError, booking.MessageStatusFailed)})

		return err //nolint:wrapcheck
	}

	s.emit(Event{Type: EventAdvisory, Advisory: gDto.NewAdvisory(gDto.AdvisorySuccess, fmt.Sprintf(booking.MessageStatusUpdated, status))})

	return nil
}

func (s *sessionImpl) Close() error {
	s.closeOnce.Do(func() {
		close(s.done)
		s.cancel()

		if err := s.sub.Close(); err != nil {
			log.Warn().Err(err).Msg("failed to close booking subscription")
		}

		<-s.stopped
	})

	return nil
}

func (s *sessionImpl) closed() bool {
	select {
	case <-s.done:
		return true
	default:
		return false
	}
}

func (s *sessionImpl) accumulated() []model.Record {
	return append(slices.Clone(s.live), s.tail...)
}

func (s *sessionImpl) emitLocked() {
	var snapshot dto.GetBookingsResponse
	snapshot.FromRecords(s.accumulated(), s.hasMore)

	s.sendLocked(Event{Type: EventSnapshot, Snapshot: &snapshot})
}

func (s *sessionImpl) emit(event Event) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.sendLocked(event)
}

func (s *sessionImpl) sendLocked(event Event) {
	select {
	case s.events <- event:
	case <-s.done:
	}
}

func ids(records []model.Record) map[string]bool {
	set := make(map[string]bool, len(records))
	for _, record := range records {
		set[record.ID] = true
	}

	return set
}

func dedupe(records []model.Record) []model.Record {
	seen := make(map[string]bool, len(records))

	return slices.DeleteFunc(records, func(r model.Record) bool {
		if seen[r.ID] {
			return true
		}

		seen[r.ID] = true

		return false
	})
}

func sortNewestFirst(records []model.Record) {
	slices.SortStableFunc(records, func(a, b model.Record) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}

		switch {
		case a.ID > b.ID:
			return -1
		case a.ID < b.ID:
			return 1
		default:
			return 0
		}
	})
}
