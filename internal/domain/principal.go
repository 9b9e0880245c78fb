package domain

// RoleClaim is the role snapshot embedded in a token payload. The permission
// list is resolved once, when the token is issued; it is not refreshed on
// later requests, so a role change only takes effect after the next login.
type RoleClaim struct {
	Name        string   `json:"name"`
	Permissions []string `json:"Permissions"`
}

// Principal is the caller identity carried by a token for its whole lifetime.
// It is the payload segment of the credential, verbatim.
type Principal struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Age       int       `json:"age"`
	Role      RoleClaim `json:"role"`
	IssuedAt  int64     `json:"iat,omitempty"`
	ExpiresAt int64     `json:"exp,omitempty"`
}

// HasPermission reports whether the principal's snapshot contains the named
// permission. Matching is exact and case-sensitive.
func (p *Principal) HasPermission(name string) bool {
	for _, granted := range p.Role.Permissions {
		if granted == name {
			return true
		}
	}
	return false
}
