package dashboard

import (
	"github.com/atlas-stays/atlas-stays/internal/authz"
	"github.com/atlas-stays/atlas-stays/internal/lifecycle"
)

// Cache keys for the dashboard's derived aggregates.
const (
	KeyTotalCities         = "dashboard.total_cities"
	KeyTotalHotels         = "dashboard.total_hotels"
	KeyTotalTrips          = "dashboard.total_trips"
	KeyActiveTrips         = "dashboard.active_trips"
	KeyTotalReservations   = "dashboard.total_reservations"
	KeyPendingReservations = "dashboard.pending_reservations"
)

// AllKeys lists every dashboard aggregate key, in display order.
func AllKeys() []string {
	return []string{
		KeyTotalCities,
		KeyTotalHotels,
		KeyTotalTrips,
		KeyActiveTrips,
		KeyTotalReservations,
		KeyPendingReservations,
	}
}

// InvalidationRules declares which entity mutations stale which aggregates.
// Cardinality keys carry no watched fields so plain updates leave them
// alone; state-filtered keys watch exactly the field that moves an entity
// in or out of the aggregate.
func InvalidationRules() []lifecycle.Rule {
	return []lifecycle.Rule{
		{Family: authz.FamilyCity, Keys: []string{KeyTotalCities}},
		{Family: authz.FamilyHotel, Keys: []string{KeyTotalHotels}},
		{Family: authz.FamilyTrip, Keys: []string{KeyTotalTrips}},
		{Family: authz.FamilyTrip, WatchedFields: []string{"is_active"}, Keys: []string{KeyActiveTrips}},
		{Family: authz.FamilyReservation, Keys: []string{KeyTotalReservations}},
		{Family: authz.FamilyReservation, WatchedFields: []string{"status"}, Keys: []string{KeyPendingReservations}},
	}
}
