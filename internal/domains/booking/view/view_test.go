package view_test

import (
	"context"
	"fmt"
	"net/http"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	otelMocks "purohit/infras/otel/mocks"
	"purohit/infras/pubsub"
	"purohit/internal/domains/booking/model"
	"purohit/internal/domains/booking/model/dto"
	booking "purohit/internal/domains/booking/service"
	bookingMocks "purohit/internal/domains/booking/service/mocks"
	"purohit/internal/domains/booking/view"
	"purohit/shared/constant"
	gDto "purohit/shared/dto"
	"purohit/shared/failure"
)

const pageSize = 10

var base = time.Date(2026, time.February, 1, 9, 0, 0, 0, time.UTC)

// dataset backs the booking service mock with an ordered in-memory table.
type dataset struct {
	mu      sync.Mutex
	records []model.Record
	bus     pubsub.Bus
}

func newDataset(bus pubsub.Bus, n int) *dataset {
	d := &dataset{bus: bus}
	for i := 1; i <= n; i++ {
		d.add(i, "uid_1")
	}

	return d
}

func (d *dataset) add(i int, userID string) model.Record {
	d.mu.Lock()
	defer d.mu.Unlock()

	record := model.Record{
		ID:               fmt.Sprintf("b%02d", i),
		BookingReference: fmt.Sprintf("BK%06d", i),
		UserID:           userID,
		Status:           model.StatusPending,
		CreatedAt:        base.Add(time.Duration(i) * time.Minute),
	}
	d.records = append(d.records, record)

	return record
}

func (d *dataset) page(_ context.Context, scope model.Scope, userID string, after *dto.Cursor) ([]model.Record, bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	rows := slices.Clone(d.records)
	slices.SortFunc(rows, func(a, b model.Record) int { return b.CreatedAt.Compare(a.CreatedAt) })

	var out []model.Record

	for _, row := range rows {
		if scope == model.ScopeMine && row.UserID != userID {
			continue
		}

		if after != nil && !row.CreatedAt.Before(after.CreatedAt) {
			continue
		}

		out = append(out, row)
	}

	if len(out) > pageSize {
		return out[:pageSize], true, nil
	}

	return out, false, nil
}

func (d *dataset) get(_ context.Context, id string) (model.Record, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	for _, row := range d.records {
		if row.ID == id {
			return row, nil
		}
	}

	return model.Record{}, failure.NotFound(model.EntityName)
}

func (d *dataset) updateStatus(ctx context.Context, id string, status model.Status, _ model.Actor) error {
	d.mu.Lock()

	var userID string

	for i := range d.records {
		if d.records[i].ID == id {
			d.records[i].Status = status
			userID = d.records[i].UserID
		}
	}

	d.mu.Unlock()

	return d.bus.Publish(ctx, constant.TopicBookingChanges, model.ChangeEvent{ID: id, UserID: userID, Kind: model.ChangeStatusUpdated})
}

func newViewer(t *testing.T, n int) (view.Viewer, *dataset, *bookingMocks.MockBooking, pubsub.Bus) {
	ctrl := gomock.NewController(t)
	t.Cleanup(ctrl.Finish)

	bus := pubsub.NewMemory()
	data := newDataset(bus, n)

	svc := bookingMocks.NewMockBooking(ctrl)
	svc.EXPECT().Page(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).DoAndReturn(data.page).AnyTimes()
	svc.EXPECT().Get(gomock.Any(), gomock.Any()).DoAndReturn(data.get).AnyTimes()

	return view.New(svc, bus, otelMocks.NewOtel()), data, svc, bus
}

func open(t *testing.T, viewer view.Viewer, scope model.Scope, actor model.Actor) view.Session {
	session, err := viewer.Open(context.Background(), scope, actor)
	require.NoError(t, err)
	t.Cleanup(func() { _ = session.Close() })

	return session
}

func next(t *testing.T, session view.Session) view.Event {
	t.Helper()

	select {
	case event := <-session.Events():
		return event
	case <-time.After(2 * time.Second):
		t.Fatal("no event received")

		return view.Event{}
	}
}

func nextSnapshot(t *testing.T, session view.Session) *dto.GetBookingsResponse {
	t.Helper()

	for {
		if event := next(t, session); event.Type == view.EventSnapshot {
			return event.Snapshot
		}
	}
}

func bookingIDs(snapshot *dto.GetBookingsResponse) []string {
	out := make([]string, len(snapshot.Bookings))
	for i, b := range snapshot.Bookings {
		out[i] = b.ID
	}

	return out
}

func assertUnique(t *testing.T, ids []string) {
	t.Helper()

	seen := map[string]bool{}
	for _, id := range ids {
		assert.False(t, seen[id], "duplicate %s", id)
		seen[id] = true
	}
}

func TestOpen_FirstSnapshot(t *testing.T) {
	viewer, _, _, _ := newViewer(t, 12)

	session := open(t, viewer, model.ScopeMine, model.Actor{UserID: "uid_1"})
	snapshot := nextSnapshot(t, session)

	require.Len(t, snapshot.Bookings, pageSize)
	assert.True(t, snapshot.HasMore)
	assert.Equal(t, "b12", snapshot.Bookings[0].ID)
	assert.Equal(t, "b03", snapshot.Bookings[9].ID)
}

func TestOpen_AllRequiresAdmin(t *testing.T) {
	viewer, _, _, _ := newViewer(t, 1)

	_, err := viewer.Open(context.Background(), model.ScopeAll, model.Actor{UserID: "uid_1"})
	assert.Equal(t, http.StatusForbidden, failure.GetCode(err))
}

func TestLoadMore_NoDuplicatesNoGaps(t *testing.T) {
	viewer, _, _, _ := newViewer(t, 25)

	session := open(t, viewer, model.ScopeAll, model.Actor{UserID: "admin", Admin: true})
	nextSnapshot(t, session)

	require.NoError(t, session.LoadMore(context.Background()))
	second := nextSnapshot(t, session)
	assert.Len(t, second.Bookings, 20)
	assert.True(t, second.HasMore)

	require.NoError(t, session.LoadMore(context.Background()))
	third := nextSnapshot(t, session)

	ids := bookingIDs(third)
	assert.Len(t, ids, 25)
	assert.False(t, third.HasMore)
	assertUnique(t, ids)
	assert.Equal(t, "b01", ids[24])

	require.NoError(t, session.LoadMore(context.Background()))

	select {
	case event := <-session.Events():
		t.Fatalf("unexpected event after the last page: %+v", event)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestStatusChangeReachesLiveView(t *testing.T) {
	viewer, data, svc, _ := newViewer(t, 3)
	svc.EXPECT().UpdateStatus(gomock.Any(), "b02", model.StatusConfirmed, gomock.Any()).DoAndReturn(data.updateStatus)

	admin := model.Actor{UserID: "admin", Admin: true}
	session := open(t, viewer, model.ScopeAll, admin)

	first := nextSnapshot(t, session)
	require.Len(t, first.Bookings, 3)
	assert.Equal(t, "pending", first.Bookings[1].Status)

	require.NoError(t, session.UpdateStatus(context.Background(), "b02", model.StatusConfirmed))

	var (
		confirmed bool
		advised   bool
	)

	for !confirmed || !advised {
		event := next(t, session)

		switch event.Type {
		case view.EventSnapshot:
			confirmed = event.Snapshot.Bookings[1].Status == "confirmed"
		case view.EventAdvisory:
			assert.Equal(t, gDto.AdvisorySuccess, event.Advisory.Level)
			assert.Equal(t, "Status updated to confirmed", event.Advisory.Message)
			advised = true
		}
	}
}

func TestUpdateStatus_FailureKeepsPriorStatus(t *testing.T) {
	viewer, _, svc, _ := newViewer(t, 2)
	svc.EXPECT().UpdateStatus(gomock.Any(), "b01", model.StatusPending, gomock.Any()).Return(failure.Conflict(booking.MessageBookingClosed))

	session := open(t, viewer, model.ScopeMine, model.Actor{UserID: "uid_1"})
	nextSnapshot(t, session)

	err := session.UpdateStatus(context.Background(), "b01", model.StatusPending)
	assert.Equal(t, http.StatusConflict, failure.GetCode(err))

	event := next(t, session)
	require.Equal(t, view.EventAdvisory, event.Type)
	assert.Equal(t, gDto.AdvisoryError, event.Advisory.Level)
	assert.Equal(t, booking.MessageStatusFailed, event.Advisory.Message)
}

func TestDisplacedRecordsMoveToTheTail(t *testing.T) {
	viewer, data, _, bus := newViewer(t, 12)

	session := open(t, viewer, model.ScopeMine, model.Actor{UserID: "uid_1"})
	nextSnapshot(t, session)

	added := data.add(13, "uid_1")
	require.NoError(t, bus.Publish(context.Background(), constant.TopicBookingChanges, model.ChangeEvent{ID: added.ID, UserID: "uid_1", Kind: model.ChangeCreated}))

	snapshot := nextSnapshot(t, session)
	ids := bookingIDs(snapshot)
	assert.Equal(t, "b13", ids[0])
	assert.Equal(t, "b03", ids[len(ids)-1])
	assert.Len(t, ids, 11)

	require.NoError(t, session.LoadMore(context.Background()))

	ids = bookingIDs(nextSnapshot(t, session))
	assert.Len(t, ids, 13)
	assertUnique(t, ids)
}

func TestOtherUsersChangesAreIgnored(t *testing.T) {
	viewer, data, _, bus := newViewer(t, 2)

	session := open(t, viewer, model.ScopeMine, model.Actor{UserID: "uid_1"})
	nextSnapshot(t, session)

	added := data.add(3, "uid_2")
	require.NoError(t, bus.Publish(context.Background(), constant.TopicBookingChanges, model.ChangeEvent{ID: added.ID, UserID: "uid_2", Kind: model.ChangeCreated}))

	select {
	case event := <-session.Events():
		t.Fatalf("unexpected event: %+v", event)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestAdvisoriesAreForwarded(t *testing.T) {
	viewer, _, _, bus := newViewer(t, 1)

	session := open(t, viewer, model.ScopeMine, model.Actor{UserID: "uid_1"})
	nextSnapshot(t, session)

	advisory := gDto.NewAdvisory(gDto.AdvisoryWarning, "Telegram notification failed after retries")
	require.NoError(t, bus.Publish(context.Background(), pubsub.Topic(constant.TopicAdvisories, "uid_1"), advisory))

	event := next(t, session)
	require.Equal(t, view.EventAdvisory, event.Type)
	assert.Equal(t, advisory, event.Advisory)
}

func TestClose(t *testing.T) {
	viewer, _, _, _ := newViewer(t, 1)

	session, err := viewer.Open(context.Background(), model.ScopeMine, model.Actor{UserID: "uid_1"})
	require.NoError(t, err)

	require.NoError(t, session.Close())
	require.NoError(t, session.Close())

	select {
	case <-session.Done():
	default:
		t.Fatal("session not done after Close")
	}

	assert.ErrorIs(t, session.LoadMore(context.Background()), view.ErrClosed)
	assert.ErrorIs(t, session.UpdateStatus(context.Background(), "b01", model.StatusCancelled), view.ErrClosed)
}
