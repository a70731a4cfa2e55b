package authz

// Family identifies one entity family managed by the platform.
type Family string

const (
	FamilyCity        Family = "city"
	FamilyHotel       Family = "hotel"
	FamilyTrip        Family = "trip"
	FamilyReservation Family = "reservation"
	FamilyHeroImage   Family = "hero_image"
	FamilyUser        Family = "user"
)

// Action is the class of access requested against a family.
type Action string

const (
	ActionRead   Action = "read"
	ActionManage Action = "manage"
)

// Capability pairs an action with an entity family. Capabilities are
// statically enumerated; a family may expose read only, manage only, or both.
type Capability struct {
	Action Action
	Family Family
}

// String renders the capability as "action.family", the form used in logs.
func (c Capability) String() string {
	return string(c.Action) + "." + string(c.Family)
}

// Read returns the read capability for a family.
func Read(f Family) Capability {
	return Capability{Action: ActionRead, Family: f}
}

// Manage returns the manage capability for a family.
func Manage(f Family) Capability {
	return Capability{Action: ActionManage, Family: f}
}
