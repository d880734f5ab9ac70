package usecase

import (
	"context"
	"crypto/rand"
	"strings"
	"time"

	"github.com/eventgrid/eventgrid/pkg/domain/interfaces"
	"github.com/eventgrid/eventgrid/pkg/domain/model"
	"github.com/eventgrid/eventgrid/pkg/domain/types"
	"github.com/lestrrat-go/jwx/v2/jwa"
	"github.com/lestrrat-go/jwx/v2/jwt"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
)

const (
	// TokenIssuer is the iss claim of access tokens
	TokenIssuer = "eventgrid"

	// DefaultTokenTTL is the lifetime of access tokens and their sessions
	DefaultTokenTTL = time.Hour
)

// Auth implements AuthUseCase with repository-backed sessions and HS256 tokens
type Auth struct {
	repo     interfaces.Repository
	secret   []byte
	tokenTTL time.Duration
}

// AuthOption configures Auth
type AuthOption func(*Auth)

// WithTokenSecret sets the HMAC key used to sign access tokens
func WithTokenSecret(secret []byte) AuthOption {
	return func(a *Auth) {
		a.secret = secret
	}
}

// WithTokenTTL sets the lifetime of access tokens
func WithTokenTTL(ttl time.Duration) AuthOption {
	return func(a *Auth) {
		if ttl > 0 {
			a.tokenTTL = ttl
		}
	}
}

// NewAuth creates a new Auth use case. Without a token secret a random one
// is generated, so tokens do not survive a restart.
func NewAuth(ctx context.Context, repo interfaces.Repository, opts ...AuthOption) AuthUseCase {
	a := &Auth{
		repo:     repo,
		tokenTTL: DefaultTokenTTL,
	}
	for _, opt := range opts {
		opt(a)
	}

	if len(a.secret) == 0 {
		a.secret = make([]byte, 32)
		_, _ = rand.Read(a.secret)
		ctxlog.From(ctx).Warn("No token secret configured, generated a random one")
	}

	return a
}

// Register creates an account and signs it in
func (a *Auth) Register(ctx context.Context, req *model.RegisterRequest) (*model.AuthResult, error) {
	logger := ctxlog.From(ctx)

	if err := req.Validate(); err != nil {
		return nil, err
	}

	email := model.NormalizeEmail(req.Email)
	if _, err := a.repo.GetUserByEmail(ctx, email); err == nil {
		return nil, goerr.New("User with this email already exists",
			goerr.T(model.ErrTagUserExists), goerr.V("email", email))
	} else if !model.HasTag(err, model.ErrTagUserNotFound) {
		return nil, goerr.Wrap(err, "failed to look up user by email")
	}

	user := model.NewUser(email, strings.TrimSpace(req.FirstName), strings.TrimSpace(req.LastName), req.Role)
	if err := user.SetPassword(req.Password); err != nil {
		return nil, err
	}
	if req.Role.HasBusiness() && req.BusinessInfo != nil {
		user.BusinessProfile = req.BusinessInfo.ToProfile()
	}
	if req.Preferences != nil {
		req.Preferences.Apply(&user.Preferences)
	}

	if err := a.repo.SaveUser(ctx, user); err != nil {
		return nil, goerr.Wrap(err, "failed to save user")
	}

	if req.Role == types.RoleVendor && user.BusinessProfile != nil {
		if err := a.createVendorListing(ctx, user); err != nil {
			return nil, err
		}
	}

	logger.Info("Registered user",
		"userID", user.ID,
		"role", user.Role,
	)

	return a.issue(ctx, user)
}

func (a *Auth) createVendorListing(ctx context.Context, user *model.User) error {
	profile := user.BusinessProfile
	vendor := model.NewVendor(user.ID, profile.BusinessName, profile.BusinessType)
	vendor.Description = profile.Description
	if profile.City != "" {
		vendor.ServiceAreas = []string{profile.City}
	}

	if err := a.repo.PutVendor(ctx, vendor); err != nil {
		return goerr.Wrap(err, "failed to save vendor listing", goerr.V("userID", user.ID))
	}

	ctxlog.From(ctx).Info("Created vendor listing",
		"vendorID", vendor.ID,
		"userID", user.ID,
	)
	return nil
}

// Login verifies credentials and issues an access token
func (a *Auth) Login(ctx context.Context, email, password string) (*model.AuthResult, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return nil, model.NewValidationError("Email and password are required")
	}

	user, err := a.repo.GetUserByEmail(ctx, email)
	if err != nil {
		if model.HasTag(err, model.ErrTagUserNotFound) {
			return nil, goerr.New("Invalid email or password", goerr.T(model.ErrTagInvalidCredentials))
		}
		return nil, goerr.Wrap(err, "failed to look up user by email")
	}
	if !user.CheckPassword(password) {
		return nil, goerr.New("Invalid email or password",
			goerr.T(model.ErrTagInvalidCredentials), goerr.V("userID", user.ID))
	}
	if !user.IsActive {
		return nil, goerr.New("Account is disabled",
			goerr.T(model.ErrTagAccountDisabled), goerr.V("userID", user.ID))
	}

	ctxlog.From(ctx).Info("User logged in", "userID", user.ID)

	return a.issue(ctx, user)
}

// issue opens a session for the user and signs a token referencing it
func (a *Auth) issue(ctx context.Context, user *model.User) (*model.AuthResult, error) {
	session, err := model.NewSession(user.ID, a.tokenTTL)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create session")
	}
	if err := a.repo.SaveSession(ctx, session); err != nil {
		return nil, goerr.Wrap(err, "failed to save session")
	}

	tok, err := jwt.NewBuilder().
		Issuer(TokenIssuer).
		Subject(user.ID.String()).
		JwtID(session.ID.String()).
		IssuedAt(session.CreatedAt).
		Expiration(session.ExpiresAt).
		Build()
	if err != nil {
		return nil, goerr.Wrap(err, "failed to build token")
	}

	signed, err := jwt.Sign(tok, jwt.WithKey(jwa.HS256, a.secret))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to sign token")
	}

	return &model.AuthResult{
		User:        user,
		AccessToken: string(signed),
		ExpiresIn:   int(a.tokenTTL.Seconds()),
	}, nil
}

// Logout revokes the session behind an access token
func (a *Auth) Logout(ctx context.Context, sessionID types.SessionID) error {
	if sessionID == "" {
		return goerr.New("session ID is required", goerr.T(model.ErrTagUnauthorized))
	}
	if err := a.repo.DeleteSession(ctx, sessionID); err != nil {
		return goerr.Wrap(err, "failed to delete session")
	}

	ctxlog.From(ctx).Info("Deleted session", "sessionID", sessionID)
	return nil
}

// ValidateToken verifies an access token and returns the caller
func (a *Auth) ValidateToken(ctx context.Context, token string) (*model.AuthContext, error) {
	if token == "" {
		return nil, goerr.New("Authentication required", goerr.T(model.ErrTagUnauthorized))
	}

	tok, err := jwt.Parse([]byte(token),
		jwt.WithKey(jwa.HS256, a.secret),
		jwt.WithValidate(true),
		jwt.WithIssuer(TokenIssuer),
	)
	if err != nil {
		return nil, goerr.Wrap(
			goerr.New("Invalid or expired token", goerr.T(model.ErrTagUnauthorized)),
			"failed to parse token", goerr.V("cause", err.Error()))
	}

	sessionID := types.SessionID(tok.JwtID())
	session, err := a.repo.GetSession(ctx, sessionID)
	if err != nil {
		if model.HasTag(err, model.ErrTagUnauthorized) {
			return nil, goerr.Wrap(
				goerr.New("Session has been revoked", goerr.T(model.ErrTagUnauthorized)),
				"session not found", goerr.V("sessionID", sessionID))
		}
		return nil, goerr.Wrap(err, "failed to get session")
	}
	if !session.IsValid() || session.UserID.String() != tok.Subject() {
		return nil, goerr.New("Invalid or expired token",
			goerr.T(model.ErrTagUnauthorized), goerr.V("sessionID", sessionID))
	}

	user, err := a.repo.GetUser(ctx, session.UserID)
	if err != nil {
		if model.HasTag(err, model.ErrTagUserNotFound) {
			return nil, goerr.Wrap(
				goerr.New("Invalid or expired token", goerr.T(model.ErrTagUnauthorized)),
				"token user not found", goerr.V("userID", session.UserID))
		}
		return nil, goerr.Wrap(err, "failed to get user")
	}
	if !user.IsActive {
		return nil, goerr.New("Account is disabled",
			goerr.T(model.ErrTagAccountDisabled), goerr.V("userID", user.ID))
	}

	return &model.AuthContext{
		UserID:    user.ID,
		SessionID: session.ID,
		Role:      user.Role,
	}, nil
}

// GetUser returns the account of the caller
func (a *Auth) GetUser(ctx context.Context, userID types.UserID) (*model.User, error) {
	user, err := a.repo.GetUser(ctx, userID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get user", goerr.V("userID", userID))
	}
	return user, nil
}

// UpdatePreferences changes the display preferences of the caller
func (a *Auth) UpdatePreferences(ctx context.Context, userID types.UserID, update *model.PreferencesUpdate) (*model.User, error) {
	user, err := a.repo.GetUser(ctx, userID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get user", goerr.V("userID", userID))
	}

	if update != nil {
		update.Apply(&user.Preferences)
	}
	user.UpdatedAt = time.Now()

	if err := a.repo.SaveUser(ctx, user); err != nil {
		return nil, goerr.Wrap(err, "failed to save user", goerr.V("userID", userID))
	}
	return user, nil
}
