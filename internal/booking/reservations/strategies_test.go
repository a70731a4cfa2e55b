package reservations

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/atlas-stays/atlas-stays/internal/authz"
	"github.com/atlas-stays/atlas-stays/internal/lifecycle"
	"github.com/atlas-stays/atlas-stays/internal/shared"
)

type mockRepo struct {
	reservations map[int64]*Reservation
	nextID       int64
	trip         *TripInfo
	email        string
	lastUpdates  map[string]interface{}
	lastList     ListReservationsRequest
	deleteCalls  int
}

func newMockRepo() *mockRepo {
	return &mockRepo{
		reservations: make(map[int64]*Reservation),
		nextID:       1,
		trip:         &TripInfo{ID: 10, Name: "Douro Cruise", PricePerPerson: 120, Capacity: 8, IsActive: true},
		email:        "guest@atlas.test",
	}
}

func (m *mockRepo) Get(ctx context.Context, id int64) (*Reservation, error) {
	res, ok := m.reservations[id]
	if !ok {
		return nil, shared.ErrNotFound
	}
	out := *res
	return &out, nil
}

func (m *mockRepo) List(ctx context.Context, req ListReservationsRequest) ([]Reservation, error) {
	m.lastList = req
	var out []Reservation
	for _, res := range m.reservations {
		if req.UserID != nil && res.UserID != *req.UserID {
			continue
		}
		out = append(out, *res)
	}
	return out, nil
}

func (m *mockRepo) Create(ctx context.Context, res Reservation) (int64, error) {
	res.ID = m.nextID
	m.nextID++
	m.reservations[res.ID] = &res
	return res.ID, nil
}

func (m *mockRepo) Update(ctx context.Context, id int64, updates map[string]interface{}) error {
	m.lastUpdates = updates
	res := m.reservations[id]
	if guests, ok := updates["guests"].(int); ok {
		res.Guests = guests
	}
	if total, ok := updates["total_price"].(float64); ok {
		res.TotalPrice = total
	}
	if status, ok := updates["status"].(string); ok {
		res.Status = status
	}
	return nil
}

func (m *mockRepo) Delete(ctx context.Context, id int64) error {
	m.deleteCalls++
	delete(m.reservations, id)
	return nil
}

func (m *mockRepo) TripInfo(ctx context.Context, tripID int64) (*TripInfo, error) {
	if m.trip == nil || m.trip.ID != tripID {
		return nil, shared.ErrNotFound
	}
	out := *m.trip
	return &out, nil
}

func (m *mockRepo) UserEmail(ctx context.Context, userID int64) (string, error) {
	return m.email, nil
}

type mockEnqueuer struct {
	calls int
	email string
	trip  string
	res   Reservation
	err   error
}

func (m *mockEnqueuer) EnqueueConfirmation(ctx context.Context, email, tripName string, res Reservation) error {
	m.calls++
	m.email = email
	m.trip = tripName
	m.res = res
	return m.err
}

type recordingForgetter struct {
	forgotten [][]string
}

func (f *recordingForgetter) Forget(ctx context.Context, keys ...string) error {
	f.forgotten = append(f.forgotten, keys)
	return nil
}

func newRegistry(t *testing.T, repo Repository, mail ConfirmationEnqueuer, forgetter lifecycle.Forgetter) *authz.Registry {
	t.Helper()
	rules := []lifecycle.Rule{
		{Family: authz.FamilyReservation, Keys: []string{"dashboard.total_reservations"}},
		{Family: authz.FamilyReservation, WatchedFields: []string{"status"}, Keys: []string{"dashboard.pending_reservations"}},
	}
	notifier := lifecycle.NewNotifier(forgetter, slog.Default(), rules)
	reg := authz.NewRegistry()
	Register(reg, repo, notifier, mail, slog.Default())
	reg.Seal()
	return reg
}

func asUser(id int64) context.Context {
	return authz.ContextWithIdentity(context.Background(), authz.Identity{ID: id, Role: authz.RoleUser})
}

func TestCreateComputesTotalAndEnqueuesConfirmation(t *testing.T) {
	repo := newMockRepo()
	mail := &mockEnqueuer{}
	forgetter := &recordingForgetter{}
	reg := newRegistry(t, repo, mail, forgetter)

	manage, err := authz.ResolveAs[ManageStrategy](reg, authz.RoleUser, authz.Manage(authz.FamilyReservation))
	require.NoError(t, err)

	res, err := manage.Create(asUser(7), CreateReservationRequest{TripID: 10, Guests: 3})
	require.NoError(t, err)
	assert.Equal(t, int64(7), res.UserID)
	assert.Equal(t, StatusPending, res.Status)
	assert.InDelta(t, 360.0, res.TotalPrice, 0.001)

	require.Equal(t, 1, mail.calls)
	assert.Equal(t, "guest@atlas.test", mail.email)
	assert.Equal(t, "Douro Cruise", mail.trip)

	// created fires both family rules
	require.Len(t, forgetter.forgotten, 2)
}

func TestCreateRejectsInactiveTrip(t *testing.T) {
	repo := newMockRepo()
	repo.trip.IsActive = false
	reg := newRegistry(t, repo, &mockEnqueuer{}, &recordingForgetter{})

	manage, err := authz.ResolveAs[ManageStrategy](reg, authz.RoleUser, authz.Manage(authz.FamilyReservation))
	require.NoError(t, err)

	_, err = manage.Create(asUser(7), CreateReservationRequest{TripID: 10, Guests: 2})
	require.ErrorIs(t, err, shared.ErrConflict)
	assert.Empty(t, repo.reservations)
}

func TestCreateRejectsOverCapacity(t *testing.T) {
	repo := newMockRepo()
	reg := newRegistry(t, repo, &mockEnqueuer{}, &recordingForgetter{})

	manage, err := authz.ResolveAs[ManageStrategy](reg, authz.RoleUser, authz.Manage(authz.FamilyReservation))
	require.NoError(t, err)

	_, err = manage.Create(asUser(7), CreateReservationRequest{TripID: 10, Guests: 9})
	require.ErrorIs(t, err, shared.ErrConflict)
}

func TestCreateSurvivesEnqueueFailure(t *testing.T) {
	repo := newMockRepo()
	mail := &mockEnqueuer{err: errors.New("queue down")}
	reg := newRegistry(t, repo, mail, &recordingForgetter{})

	manage, err := authz.ResolveAs[ManageStrategy](reg, authz.RoleUser, authz.Manage(authz.FamilyReservation))
	require.NoError(t, err)

	res, err := manage.Create(asUser(7), CreateReservationRequest{TripID: 10, Guests: 2})
	require.NoError(t, err)
	assert.NotNil(t, res)
	assert.Equal(t, 1, mail.calls)
}

func TestOwnerReadScopesToOwnRows(t *testing.T) {
	repo := newMockRepo()
	repo.reservations[1] = &Reservation{ID: 1, TripID: 10, UserID: 7, Guests: 2, Status: StatusPending}
	repo.reservations[2] = &Reservation{ID: 2, TripID: 10, UserID: 8, Guests: 1, Status: StatusPending}
	reg := newRegistry(t, repo, &mockEnqueuer{}, &recordingForgetter{})

	read, err := authz.ResolveAs[ReadStrategy](reg, authz.RoleUser, authz.Read(authz.FamilyReservation))
	require.NoError(t, err)

	list, err := read.List(asUser(7), ListReservationsRequest{})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, int64(1), list[0].ID)
	require.NotNil(t, repo.lastList.UserID)
	assert.Equal(t, int64(7), *repo.lastList.UserID)

	// foreign rows read as not found, never as forbidden
	_, err = read.Get(asUser(7), 2)
	require.ErrorIs(t, err, shared.ErrNotFound)

	own, err := read.Get(asUser(7), 1)
	require.NoError(t, err)
	assert.Equal(t, int64(7), own.UserID)
}

func TestStaffReadIsUnscoped(t *testing.T) {
	repo := newMockRepo()
	repo.reservations[2] = &Reservation{ID: 2, TripID: 10, UserID: 8, Guests: 1, Status: StatusPending}
	reg := newRegistry(t, repo, &mockEnqueuer{}, &recordingForgetter{})

	read, err := authz.ResolveAs[ReadStrategy](reg, authz.RoleAdmin, authz.Read(authz.FamilyReservation))
	require.NoError(t, err)

	res, err := read.Get(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, int64(8), res.UserID)
}

func TestOwnerMayOnlyCancel(t *testing.T) {
	repo := newMockRepo()
	repo.reservations[1] = &Reservation{ID: 1, TripID: 10, UserID: 7, Guests: 2, Status: StatusPending}
	reg := newRegistry(t, repo, &mockEnqueuer{}, &recordingForgetter{})

	manage, err := authz.ResolveAs[ManageStrategy](reg, authz.RoleUser, authz.Manage(authz.FamilyReservation))
	require.NoError(t, err)

	confirmed := StatusConfirmed
	_, err = manage.Update(asUser(7), 1, UpdateReservationRequest{Status: &confirmed})
	require.ErrorIs(t, err, shared.ErrConflict)

	cancelled := StatusCancelled
	res, err := manage.Update(asUser(7), 1, UpdateReservationRequest{Status: &cancelled})
	require.NoError(t, err)
	assert.Equal(t, StatusCancelled, res.Status)
}

func TestOwnerCannotTouchSettledReservation(t *testing.T) {
	repo := newMockRepo()
	repo.reservations[1] = &Reservation{ID: 1, TripID: 10, UserID: 7, Guests: 2, Status: StatusConfirmed}
	reg := newRegistry(t, repo, &mockEnqueuer{}, &recordingForgetter{})

	manage, err := authz.ResolveAs[ManageStrategy](reg, authz.RoleUser, authz.Manage(authz.FamilyReservation))
	require.NoError(t, err)

	cancelled := StatusCancelled
	_, err = manage.Update(asUser(7), 1, UpdateReservationRequest{Status: &cancelled})
	require.ErrorIs(t, err, shared.ErrConflict)

	err = manage.Delete(asUser(7), 1)
	require.ErrorIs(t, err, shared.ErrConflict)
	assert.Zero(t, repo.deleteCalls)
}

func TestOwnerCannotMutateForeignReservation(t *testing.T) {
	repo := newMockRepo()
	repo.reservations[2] = &Reservation{ID: 2, TripID: 10, UserID: 8, Guests: 1, Status: StatusPending}
	reg := newRegistry(t, repo, &mockEnqueuer{}, &recordingForgetter{})

	manage, err := authz.ResolveAs[ManageStrategy](reg, authz.RoleUser, authz.Manage(authz.FamilyReservation))
	require.NoError(t, err)

	err = manage.Delete(asUser(7), 2)
	require.ErrorIs(t, err, shared.ErrNotFound)
}

func TestUpdateGuestsRecomputesTotal(t *testing.T) {
	repo := newMockRepo()
	repo.reservations[1] = &Reservation{ID: 1, TripID: 10, UserID: 8, Guests: 2, TotalPrice: 240, Status: StatusConfirmed}
	forgetter := &recordingForgetter{}
	reg := newRegistry(t, repo, &mockEnqueuer{}, forgetter)

	manage, err := authz.ResolveAs[ManageStrategy](reg, authz.RoleAdmin, authz.Manage(authz.FamilyReservation))
	require.NoError(t, err)

	guests := 4
	res, err := manage.Update(context.Background(), 1, UpdateReservationRequest{Guests: &guests})
	require.NoError(t, err)
	assert.Equal(t, 4, res.Guests)
	assert.InDelta(t, 480.0, res.TotalPrice, 0.001)

	assert.Contains(t, repo.lastUpdates, "guests")
	assert.Contains(t, repo.lastUpdates, "total_price")
	assert.NotContains(t, repo.lastUpdates, "status")

	// guests is not a watched field, so only the update itself matters;
	// no rule fires because neither rule watches guests or total_price.
	assert.Empty(t, forgetter.forgotten)
}

func TestStatusChangeInvalidatesPendingCount(t *testing.T) {
	repo := newMockRepo()
	repo.reservations[1] = &Reservation{ID: 1, TripID: 10, UserID: 8, Guests: 2, Status: StatusPending}
	forgetter := &recordingForgetter{}
	reg := newRegistry(t, repo, &mockEnqueuer{}, forgetter)

	manage, err := authz.ResolveAs[ManageStrategy](reg, authz.RoleAdmin, authz.Manage(authz.FamilyReservation))
	require.NoError(t, err)

	confirmed := StatusConfirmed
	_, err = manage.Update(context.Background(), 1, UpdateReservationRequest{Status: &confirmed})
	require.NoError(t, err)

	require.Len(t, forgetter.forgotten, 1)
	assert.Equal(t, []string{"dashboard.pending_reservations"}, forgetter.forgotten[0])
}

func TestUpdateRejectsUnknownStatus(t *testing.T) {
	repo := newMockRepo()
	repo.reservations[1] = &Reservation{ID: 1, TripID: 10, UserID: 8, Guests: 2, Status: StatusPending}
	reg := newRegistry(t, repo, &mockEnqueuer{}, &recordingForgetter{})

	manage, err := authz.ResolveAs[ManageStrategy](reg, authz.RoleAdmin, authz.Manage(authz.FamilyReservation))
	require.NoError(t, err)

	bogus := "archived"
	_, err = manage.Update(context.Background(), 1, UpdateReservationRequest{Status: &bogus})
	require.ErrorIs(t, err, shared.ErrConflict)
}
