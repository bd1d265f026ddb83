// Package user contains the identity domain: the locally provisioned user
// record and the externally issued session claims it is resolved from.
package user

import "time"

// Tier is the entitlement plan carried by the identity provider
type Tier string

const (
	TierFree Tier = "free"
	TierPro  Tier = "pro"
)

// ParseTier maps a plan claim onto the tier enum, defaulting to free
func ParseTier(s string) Tier {
	if s == string(TierPro) {
		return TierPro
	}
	return TierFree
}

// User is the provisioned application user. ID is the opaque content-store
// identifier; SubjectID is the identity provider's stable subject.
type User struct {
	ID        string    `json:"id,omitempty"`
	SubjectID string    `json:"subjectId"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	ImageURL  string    `json:"imageUrl"`
	Tier      Tier      `json:"subscriptionTier"`
	CreatedAt time.Time `json:"createdAt,omitempty"`

	// Provisioning holds the registration-only fields the content backend
	// requires on create. Nil on every user read back from the store.
	Provisioning *Provisioning `json:"-"`
}

// Provisioning is the create-time registration payload. The password is a
// provider-managed placeholder, never used for login.
type Provisioning struct {
	Password  string
	Confirmed bool
	Blocked   bool
	RoleID    int
}

// IsPro reports whether the user holds the pro entitlement
func (u *User) IsPro() bool {
	return u.Tier == TierPro
}

// Session is the verified claim set of an identity-provider JWT. A nil
// *Session means the request is unauthenticated.
type Session struct {
	SubjectID string
	Email     string
	Username  string
	FirstName string
	LastName  string
	ImageURL  string
	Plan      string
}

// Tier returns the entitlement tier asserted by the session
func (s *Session) Tier() Tier {
	return ParseTier(s.Plan)
}
