package domain

import (
	"strings"
	"time"
)

// VerificationStatus is the review state of an organization profile,
// distinct from email verification.
type VerificationStatus string

const (
	VerificationPending  VerificationStatus = "PENDING"
	VerificationVerified VerificationStatus = "VERIFIED"
	VerificationRejected VerificationStatus = "REJECTED"
)

// verificationTransitions defines the allowed review state machine.
// A rejected organization may resubmit and return to PENDING.
var verificationTransitions = map[VerificationStatus][]VerificationStatus{
	VerificationPending:  {VerificationVerified, VerificationRejected},
	VerificationRejected: {VerificationPending},
}

// CanTransitionTo reports whether a review transition from s to next is
// valid. Re-applying the current status is a no-op and always allowed,
// which keeps bulk approve/reject idempotent. A VERIFIED organization
// cannot move to any other status.
func (s VerificationStatus) CanTransitionTo(next VerificationStatus) bool {
	if s == next {
		return true
	}
	for _, allowed := range verificationTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// User is an identity in the marketplace. Exactly one role-scoped profile
// is attached, selected by Role; the repository layer keeps profile and
// role in agreement when the role changes.
type User struct {
	ID              string     `json:"id"`
	Email           string     `json:"email"`
	PasswordHash    string     `json:"-"`
	Name            string     `json:"name"`
	Phone           string     `json:"phone,omitempty"`
	Role            Role       `json:"role"`
	Active          bool       `json:"active"`
	EmailVerifiedAt *time.Time `json:"email_verified_at,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`

	Freelancer   *FreelancerProfile   `json:"freelancer_profile,omitempty"`
	Organization *OrganizationProfile `json:"organization_profile,omitempty"`
	Maintainer   *MaintainerProfile   `json:"maintainer_profile,omitempty"`
	Admin        *AdminProfile        `json:"admin_profile,omitempty"`
}

// Profile returns the profile matching the user's role, or nil when the
// role and attached profile disagree.
func (u *User) Profile() any {
	switch u.Role {
	case RoleFreelancer:
		if u.Freelancer != nil {
			return u.Freelancer
		}
	case RoleOrganization:
		if u.Organization != nil {
			return u.Organization
		}
	case RoleMaintainer:
		if u.Maintainer != nil {
			return u.Maintainer
		}
	case RoleAdmin:
		if u.Admin != nil {
			return u.Admin
		}
	}
	return nil
}

// FreelancerProfile extends an identity with trainer marketplace data.
type FreelancerProfile struct {
	Headline        string   `json:"headline,omitempty"`
	Bio             string   `json:"bio,omitempty"`
	StackIDs        []string `json:"stack_ids,omitempty"`
	Location        string   `json:"location,omitempty"`
	YearsExperience int      `json:"years_experience,omitempty"`
	HourlyRate      float64  `json:"hourly_rate,omitempty"`
}

// OrganizationProfile extends an identity with company data and a review state.
type OrganizationProfile struct {
	CompanyName  string             `json:"company_name"`
	Website      string             `json:"website,omitempty"`
	EmailDomain  string             `json:"email_domain"`
	Location     string             `json:"location,omitempty"`
	Verification VerificationStatus `json:"verification"`
}

// MaintainerProfile extends an identity with platform-operations data.
type MaintainerProfile struct {
	Department string `json:"department,omitempty"`
}

// AdminProfile extends an identity with administrative metadata.
type AdminProfile struct {
	Notes string `json:"notes,omitempty"`
}

// personalEmailProviders are consumer mail domains that organizations may
// not register with.
var personalEmailProviders = map[string]struct{}{
	"gmail.com":      {},
	"googlemail.com": {},
	"yahoo.com":      {},
	"hotmail.com":    {},
	"outlook.com":    {},
	"live.com":       {},
	"icloud.com":     {},
	"aol.com":        {},
	"proton.me":      {},
	"protonmail.com": {},
	"gmx.com":        {},
	"mail.com":       {},
}

// EmailDomain returns the lowercased domain part of an email address, or
// an empty string when the address has no domain part.
func EmailDomain(email string) string {
	at := strings.LastIndex(email, "@")
	if at < 0 || at == len(email)-1 {
		return ""
	}
	return strings.ToLower(email[at+1:])
}

// IsCorporateEmailDomain reports whether the email's domain is acceptable
// for organization registration.
func IsCorporateEmailDomain(email string) bool {
	d := EmailDomain(email)
	if d == "" {
		return false
	}
	_, personal := personalEmailProviders[d]
	return !personal
}
