package gamemode

// RoleAny marks a mode with no role distinction: slots are limited only by
// the mode's total capacity. It is never mixed with named roles.
const RoleAny = "Any"

// RoleSlot pairs a role name with the number of roster slots it can hold.
type RoleSlot struct {
	Name     string `json:"name"`
	Capacity int    `json:"capacity"`
}

// Mode is a static game mode configuration.
type Mode struct {
	ID    string     `json:"id"`
	Name  string     `json:"name"`
	Roles []RoleSlot `json:"roles"`
}

// Total returns the mode's total roster capacity.
func (m Mode) Total() int {
	total := 0
	for _, r := range m.Roles {
		total += r.Capacity
	}
	return total
}

// AnyOnly reports whether the mode uses a single undifferentiated role.
func (m Mode) AnyOnly() bool {
	return len(m.Roles) == 1 && m.Roles[0].Name == RoleAny
}

// Capacity returns the capacity for a role, or 0 if the mode doesn't have it.
func (m Mode) Capacity(role string) int {
	for _, r := range m.Roles {
		if r.Name == role {
			return r.Capacity
		}
	}
	return 0
}

// HasRole reports whether role is part of the mode's role set.
func (m Mode) HasRole(role string) bool {
	return m.Capacity(role) > 0
}

var catalog = []Mode{
	{
		ID:   "5v5",
		Name: "5v5 Competitive",
		Roles: []RoleSlot{
			{Name: "Tank", Capacity: 1},
			{Name: "DPS", Capacity: 2},
			{Name: "Support", Capacity: 2},
		},
	},
	{
		ID:    "6v6",
		Name:  "6v6 Classic",
		Roles: []RoleSlot{{Name: RoleAny, Capacity: 6}},
	},
	{
		ID:    "stadium",
		Name:  "Stadium Mode",
		Roles: []RoleSlot{{Name: RoleAny, Capacity: 6}},
	},
}

// NamedRoles returns the distinct non-Any roles across the catalog, in
// declaration order. These are the roles an account can hold a rating for.
func NamedRoles() []string {
	var roles []string
	for _, m := range catalog {
		for _, r := range m.Roles {
			if r.Name == RoleAny {
				continue
			}
			seen := false
			for _, have := range roles {
				if have == r.Name {
					seen = true
					break
				}
			}
			if !seen {
				roles = append(roles, r.Name)
			}
		}
	}
	return roles
}

// ValidRatingRole reports whether an account rating may exist for role.
func ValidRatingRole(role string) bool {
	for _, r := range NamedRoles() {
		if r == role {
			return true
		}
	}
	return false
}

// Lookup returns the mode with the given id.
func Lookup(id string) (Mode, bool) {
	for _, m := range catalog {
		if m.ID == id {
			return m, true
		}
	}
	return Mode{}, false
}

// All returns every configured mode in declaration order.
func All() []Mode {
	out := make([]Mode, len(catalog))
	copy(out, catalog)
	return out
}
