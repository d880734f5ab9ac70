package model

import (
	"strings"
	"time"

	"github.com/eventgrid/eventgrid/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 8

// BusinessProfile holds business details of vendors and venue owners
type BusinessProfile struct {
	BusinessName string
	BusinessType string
	Description  string
	Website      string
	Phone        string
	Address      string
	City         string
	Country      string
}

// NotificationPreferences controls which channels a user is notified on
type NotificationPreferences struct {
	Email bool
	SMS   bool
}

// Preferences holds per-user display settings
type Preferences struct {
	Language      string
	Currency      string
	Timezone      string
	Notifications NotificationPreferences
}

// DefaultPreferences returns the preferences assigned to new users
func DefaultPreferences() Preferences {
	return Preferences{
		Language: "en",
		Currency: "USD",
		Timezone: "UTC",
		Notifications: NotificationPreferences{
			Email: true,
			SMS:   false,
		},
	}
}

// User represents an EventGrid account
type User struct {
	ID              types.UserID
	Email           string // Lower-cased, unique
	PasswordHash    string
	FirstName       string
	LastName        string
	Avatar          string
	Role            types.Role
	IsVerified      bool
	IsActive        bool
	BusinessProfile *BusinessProfile // Only for vendor and venue_owner
	Preferences     Preferences
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// NewUser creates a new active User with default preferences
func NewUser(email, firstName, lastName string, role types.Role) *User {
	now := time.Now()
	return &User{
		ID:          types.NewUserID(),
		Email:       NormalizeEmail(email),
		FirstName:   firstName,
		LastName:    lastName,
		Role:        role,
		IsActive:    true,
		Preferences: DefaultPreferences(),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// NormalizeEmail lower-cases and trims an email address
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ValidateEmail checks the minimal email shape accepted at registration
func ValidateEmail(email string) error {
	if !strings.Contains(email, "@") {
		return NewValidationError("Invalid email format", goerr.V("email", email))
	}
	return nil
}

// ValidatePassword checks password strength rules
func ValidatePassword(password string) error {
	if len(password) < minPasswordLength {
		return NewValidationError("Password must be at least 8 characters long")
	}
	return nil
}

// SetPassword stores a bcrypt hash of the password
func (u *User) SetPassword(password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return goerr.Wrap(err, "failed to hash password", goerr.V("userID", u.ID))
	}
	u.PasswordHash = string(hash)
	return nil
}

// CheckPassword reports whether password matches the stored hash
func (u *User) CheckPassword(password string) bool {
	if u.PasswordHash == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

// FullName returns first and last name joined
func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// Copy returns a deep copy of the user
func (u *User) Copy() *User {
	if u == nil {
		return nil
	}
	c := *u
	if u.BusinessProfile != nil {
		bp := *u.BusinessProfile
		c.BusinessProfile = &bp
	}
	return &c
}

// BusinessInfo is the business block submitted at registration
type BusinessInfo struct {
	CompanyName  string
	BusinessType string
	Location     string // "City, Country"
}

// ToProfile converts registration business info into a profile.
// The location is split on commas: the first part is the city and the last the country.
func (b *BusinessInfo) ToProfile() *BusinessProfile {
	profile := &BusinessProfile{
		BusinessName: b.CompanyName,
		BusinessType: b.BusinessType,
	}
	if b.Location != "" {
		parts := strings.Split(b.Location, ",")
		profile.City = strings.TrimSpace(parts[0])
		if len(parts) > 1 {
			profile.Country = strings.TrimSpace(parts[len(parts)-1])
		}
	}
	return profile
}

// PreferencesUpdate holds optional preference changes
type PreferencesUpdate struct {
	Language           *string
	Currency           *string
	Timezone           *string
	EmailNotifications *bool
	SMSNotifications   *bool
}

// Apply merges the update into p
func (u PreferencesUpdate) Apply(p *Preferences) {
	if u.Language != nil {
		p.Language = *u.Language
	}
	if u.Currency != nil {
		p.Currency = strings.ToUpper(*u.Currency)
	}
	if u.Timezone != nil {
		p.Timezone = *u.Timezone
	}
	if u.EmailNotifications != nil {
		p.Notifications.Email = *u.EmailNotifications
	}
	if u.SMSNotifications != nil {
		p.Notifications.SMS = *u.SMSNotifications
	}
}

// RegisterRequest contains the fields required to create an account
type RegisterRequest struct {
	Email        string
	Password     string
	FirstName    string
	LastName     string
	Role         types.Role
	BusinessInfo *BusinessInfo
	Preferences  *PreferencesUpdate
}

// Validate checks required fields and formats in submission order
func (r *RegisterRequest) Validate() error {
	required := []struct {
		name  string
		value string
	}{
		{"email", r.Email},
		{"password", r.Password},
		{"firstName", r.FirstName},
		{"lastName", r.LastName},
		{"role", string(r.Role)},
	}
	for _, f := range required {
		if strings.TrimSpace(f.value) == "" {
			return NewMissingFieldError(f.name)
		}
	}
	if !r.Role.IsValid() {
		return NewValidationError("Invalid role", goerr.V("role", r.Role))
	}
	if err := ValidateEmail(r.Email); err != nil {
		return err
	}
	return ValidatePassword(r.Password)
}

// AuthResult is returned after a successful registration or login
type AuthResult struct {
	User        *User
	AccessToken string
	ExpiresIn   int // seconds
}
