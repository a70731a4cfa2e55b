package reservations

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/atlas-stays/atlas-stays/internal/authz"
	"github.com/atlas-stays/atlas-stays/internal/lifecycle"
	"github.com/atlas-stays/atlas-stays/internal/shared"
)

// ReadStrategy is the read capability surface for the reservation family.
type ReadStrategy interface {
	List(ctx context.Context, req ListReservationsRequest) ([]Reservation, error)
	Get(ctx context.Context, id int64) (*Reservation, error)
}

// ManageStrategy is the manage capability surface for the reservation family.
type ManageStrategy interface {
	Create(ctx context.Context, req CreateReservationRequest) (*Reservation, error)
	Update(ctx context.Context, id int64, req UpdateReservationRequest) (*Reservation, error)
	Delete(ctx context.Context, id int64) error
}

// ConfirmationEnqueuer schedules the reservation confirmation email. The
// reservation is already committed when this runs, so enqueue failures are
// logged and never surfaced.
type ConfirmationEnqueuer interface {
	EnqueueConfirmation(ctx context.Context, email, tripName string, res Reservation) error
}

// Register binds the reservation strategies into the capability registry.
// USER gets the owner-scoped tier; ADMIN and SUPER_ADMIN get the staff tier.
func Register(reg *authz.Registry, repo Repository, events *lifecycle.Notifier, mail ConfirmationEnqueuer, logger *slog.Logger) {
	base := base{repo: repo, events: events, mail: mail, logger: logger}
	ownerRead := &ownerReadStrategy{repo: repo}
	ownerManage := &ownerManageStrategy{base: base}
	staffRead := &staffReadStrategy{repo: repo}
	staffManage := &staffManageStrategy{base: base}

	reg.Bind(authz.Read(authz.FamilyReservation), ownerRead, authz.RoleUser)
	reg.Bind(authz.Read(authz.FamilyReservation), staffRead, authz.RoleAdmin, authz.RoleSuperAdmin)
	reg.Bind(authz.Manage(authz.FamilyReservation), ownerManage, authz.RoleUser)
	reg.Bind(authz.Manage(authz.FamilyReservation), staffManage, authz.RoleAdmin, authz.RoleSuperAdmin)
}

type base struct {
	repo   Repository
	events *lifecycle.Notifier
	mail   ConfirmationEnqueuer
	logger *slog.Logger
}

func (b base) create(ctx context.Context, userID int64, req CreateReservationRequest) (*Reservation, error) {
	trip, err := b.repo.TripInfo(ctx, req.TripID)
	if err != nil {
		return nil, fmt.Errorf("load trip: %w", err)
	}
	if !trip.IsActive {
		return nil, fmt.Errorf("%w: trip %d is not open for booking", shared.ErrConflict, trip.ID)
	}
	if req.Guests > trip.Capacity {
		return nil, fmt.Errorf("%w: %d guests exceed trip capacity %d", shared.ErrConflict, req.Guests, trip.Capacity)
	}

	res := Reservation{
		TripID:     req.TripID,
		UserID:     userID,
		Guests:     req.Guests,
		TotalPrice: trip.PricePerPerson * float64(req.Guests),
		Status:     StatusPending,
		Notes:      req.Notes,
	}
	id, err := b.repo.Create(ctx, res)
	if err != nil {
		return nil, fmt.Errorf("create reservation: %w", err)
	}
	created, err := b.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("reload reservation: %w", err)
	}

	b.events.Notify(ctx, lifecycle.Created(authz.FamilyReservation))
	b.enqueueConfirmation(ctx, trip.Name, *created)
	return created, nil
}

func (b base) enqueueConfirmation(ctx context.Context, tripName string, res Reservation) {
	if b.mail == nil {
		return
	}
	email, err := b.repo.UserEmail(ctx, res.UserID)
	if err != nil {
		b.logger.Warn("confirmation email lookup failed",
			slog.Int64("reservation_id", res.ID), slog.Any("error", err))
		return
	}
	if err := b.mail.EnqueueConfirmation(ctx, email, tripName, res); err != nil {
		b.logger.Warn("confirmation email enqueue failed",
			slog.Int64("reservation_id", res.ID), slog.Any("error", err))
	}
}

func (b base) update(ctx context.Context, existing *Reservation, req UpdateReservationRequest) (*Reservation, error) {
	updates := make(map[string]interface{})
	changed := make(map[string]lifecycle.Change)

	if req.Guests != nil && *req.Guests != existing.Guests {
		trip, err := b.repo.TripInfo(ctx, existing.TripID)
		if err != nil {
			return nil, fmt.Errorf("load trip: %w", err)
		}
		if *req.Guests > trip.Capacity {
			return nil, fmt.Errorf("%w: %d guests exceed trip capacity %d", shared.ErrConflict, *req.Guests, trip.Capacity)
		}
		newTotal := trip.PricePerPerson * float64(*req.Guests)
		updates["guests"] = *req.Guests
		changed["guests"] = lifecycle.Change{Old: existing.Guests, New: *req.Guests}
		if newTotal != existing.TotalPrice {
			updates["total_price"] = newTotal
			changed["total_price"] = lifecycle.Change{Old: existing.TotalPrice, New: newTotal}
		}
	}
	if req.Status != nil && *req.Status != existing.Status {
		if !validStatus(*req.Status) {
			return nil, fmt.Errorf("%w: unknown status %q", shared.ErrConflict, *req.Status)
		}
		updates["status"] = *req.Status
		changed["status"] = lifecycle.Change{Old: existing.Status, New: *req.Status}
	}
	if req.Notes != nil && !equalStringPtr(req.Notes, existing.Notes) {
		updates["notes"] = *req.Notes
		changed["notes"] = lifecycle.Change{Old: existing.Notes, New: *req.Notes}
	}

	if len(updates) == 0 {
		return existing, nil
	}

	if err := b.repo.Update(ctx, existing.ID, updates); err != nil {
		return nil, fmt.Errorf("update reservation: %w", err)
	}
	updated, err := b.repo.Get(ctx, existing.ID)
	if err != nil {
		return nil, fmt.Errorf("reload reservation: %w", err)
	}
	b.events.Notify(ctx, lifecycle.Updated(authz.FamilyReservation, changed))
	return updated, nil
}

func (b base) delete(ctx context.Context, res *Reservation) error {
	if err := b.repo.Delete(ctx, res.ID); err != nil {
		return fmt.Errorf("delete reservation: %w", err)
	}
	b.events.Notify(ctx, lifecycle.Deleted(authz.FamilyReservation))
	return nil
}

// ownerReadStrategy scopes every read to the acting identity's own rows.
// Foreign reservations are reported as not found, never as forbidden.
type ownerReadStrategy struct {
	repo Repository
}

func (s *ownerReadStrategy) List(ctx context.Context, req ListReservationsRequest) ([]Reservation, error) {
	ident := authz.IdentityFromContext(ctx)
	req.UserID = &ident.ID
	return s.repo.List(ctx, req)
}

func (s *ownerReadStrategy) Get(ctx context.Context, id int64) (*Reservation, error) {
	ident := authz.IdentityFromContext(ctx)
	res, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if res.UserID != ident.ID {
		return nil, shared.ErrNotFound
	}
	return res, nil
}

type ownerManageStrategy struct {
	base
}

func (s *ownerManageStrategy) Create(ctx context.Context, req CreateReservationRequest) (*Reservation, error) {
	ident := authz.IdentityFromContext(ctx)
	return s.create(ctx, ident.ID, req)
}

func (s *ownerManageStrategy) Update(ctx context.Context, id int64, req UpdateReservationRequest) (*Reservation, error) {
	existing, err := s.owned(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.Status != nil && *req.Status != StatusCancelled {
		return nil, fmt.Errorf("%w: guests may only cancel a reservation", shared.ErrConflict)
	}
	if existing.Status != StatusPending {
		return nil, fmt.Errorf("%w: reservation is %s", shared.ErrConflict, existing.Status)
	}
	return s.update(ctx, existing, req)
}

func (s *ownerManageStrategy) Delete(ctx context.Context, id int64) error {
	existing, err := s.owned(ctx, id)
	if err != nil {
		return err
	}
	if existing.Status != StatusPending {
		return fmt.Errorf("%w: reservation is %s", shared.ErrConflict, existing.Status)
	}
	return s.delete(ctx, existing)
}

func (s *ownerManageStrategy) owned(ctx context.Context, id int64) (*Reservation, error) {
	ident := authz.IdentityFromContext(ctx)
	res, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get reservation: %w", err)
	}
	if res.UserID != ident.ID {
		return nil, shared.ErrNotFound
	}
	return res, nil
}

// staffReadStrategy sees every reservation.
type staffReadStrategy struct {
	repo Repository
}

func (s *staffReadStrategy) List(ctx context.Context, req ListReservationsRequest) ([]Reservation, error) {
	return s.repo.List(ctx, req)
}

func (s *staffReadStrategy) Get(ctx context.Context, id int64) (*Reservation, error) {
	return s.repo.Get(ctx, id)
}

type staffManageStrategy struct {
	base
}

func (s *staffManageStrategy) Create(ctx context.Context, req CreateReservationRequest) (*Reservation, error) {
	ident := authz.IdentityFromContext(ctx)
	return s.create(ctx, ident.ID, req)
}

func (s *staffManageStrategy) Update(ctx context.Context, id int64, req UpdateReservationRequest) (*Reservation, error) {
	existing, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get reservation: %w", err)
	}
	return s.update(ctx, existing, req)
}

func (s *staffManageStrategy) Delete(ctx context.Context, id int64) error {
	existing, err := s.repo.Get(ctx, id)
	if err != nil {
		return fmt.Errorf("get reservation: %w", err)
	}
	return s.delete(ctx, existing)
}

func equalStringPtr(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
