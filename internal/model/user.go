package model

// User is a platform account. Users are owned by the host platform; this service only reads
// them and maintains the role list kept in their preferences.
type User struct {
	ID          string         `db:"id" json:"id"`
	Name        *string        `db:"name" json:"name"`
	Email       string         `db:"email" json:"email"`
	Image       *string        `db:"image" json:"image"`
	Preferences map[string]any `db:"preferences" json:"preferences"`
}

const rolesPreference = "_roles"

// Roles returns the user's roles, and false when they have never been assigned.
func (u *User) Roles() ([]string, bool) {
	raw, ok := u.Preferences[rolesPreference]
	if !ok || raw == nil {
		return nil, false
	}
	switch v := raw.(type) {
	case []string:
		return v, true
	case []any:
		roles := make([]string, 0, len(v))
		for _, r := range v {
			if s, ok := r.(string); ok {
				roles = append(roles, s)
			}
		}
		return roles, true
	}
	return nil, false
}

// WithRoles returns a copy of the preferences with the role list replaced.
func (u *User) WithRoles(roles []string) map[string]any {
	prefs := make(map[string]any, len(u.Preferences)+1)
	for k, v := range u.Preferences {
		prefs[k] = v
	}
	if roles == nil {
		roles = []string{}
	}
	prefs[rolesPreference] = roles
	return prefs
}
