package types

// Role represents the kind of account a user holds
type Role string

const (
	RoleEventManager Role = "event_manager"
	RoleVendor       Role = "vendor"
	RoleVenueOwner   Role = "venue_owner"
	RoleArtist       Role = "artist"
	RoleGuest        Role = "guest"
)

// RoleInfo describes a role for sign-up forms
type RoleInfo struct {
	Value       Role
	Label       string
	Description string
}

var roleInfos = []RoleInfo{
	{Value: RoleEventManager, Label: "Event Manager", Description: "Plan and organize events"},
	{Value: RoleVendor, Label: "Vendor/Service Provider", Description: "Offer services for events"},
	{Value: RoleVenueOwner, Label: "Venue Owner", Description: "List and manage venues"},
	{Value: RoleArtist, Label: "Artist/Talent", Description: "Provide entertainment services"},
	{Value: RoleGuest, Label: "Guest/Attendee", Description: "Attend and participate in events"},
}

// Roles returns all roles in display order
func Roles() []RoleInfo {
	out := make([]RoleInfo, len(roleInfos))
	copy(out, roleInfos)
	return out
}

// String returns the string representation of the role
func (r Role) String() string {
	return string(r)
}

// IsValid checks if the role is valid
func (r Role) IsValid() bool {
	for _, info := range roleInfos {
		if info.Value == r {
			return true
		}
	}
	return false
}

// HasBusiness reports whether the role carries business information
func (r Role) HasBusiness() bool {
	return r == RoleVendor || r == RoleVenueOwner
}

// Label returns the human readable role name
func (r Role) Label() string {
	for _, info := range roleInfos {
		if info.Value == r {
			return info.Label
		}
	}
	return string(r)
}
