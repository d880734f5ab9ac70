package http

import (
	"net/http"

	"github.com/eventgrid/eventgrid/pkg/domain/model"
	"github.com/eventgrid/eventgrid/pkg/domain/types"
	"github.com/eventgrid/eventgrid/pkg/usecase"
	"github.com/m-mizutani/ctxlog"
)

// AuthHandler handles account API requests
type AuthHandler struct {
	authUC usecase.AuthUseCase
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authUC usecase.AuthUseCase) *AuthHandler {
	return &AuthHandler{authUC: authUC}
}

type businessInfoRequest struct {
	CompanyName  string `json:"companyName"`
	BusinessType string `json:"businessType"`
	Location     string `json:"location"`
}

type notificationsRequest struct {
	Email *bool `json:"email"`
	SMS   *bool `json:"sms"`
}

type preferencesRequest struct {
	Language      *string               `json:"language"`
	Currency      *string               `json:"currency"`
	Timezone      *string               `json:"timezone"`
	Notifications *notificationsRequest `json:"notifications"`
}

func (p *preferencesRequest) toUpdate() *model.PreferencesUpdate {
	if p == nil {
		return nil
	}
	update := &model.PreferencesUpdate{
		Language: p.Language,
		Currency: p.Currency,
		Timezone: p.Timezone,
	}
	if p.Notifications != nil {
		update.EmailNotifications = p.Notifications.Email
		update.SMSNotifications = p.Notifications.SMS
	}
	return update
}

type registerRequest struct {
	Email        string               `json:"email"`
	Password     string               `json:"password"`
	FirstName    string               `json:"firstName"`
	LastName     string               `json:"lastName"`
	Role         string               `json:"role"`
	BusinessInfo *businessInfoRequest `json:"businessInfo"`
	Preferences  *preferencesRequest  `json:"preferences"`
}

func (req *registerRequest) toModel() *model.RegisterRequest {
	out := &model.RegisterRequest{
		Email:       req.Email,
		Password:    req.Password,
		FirstName:   req.FirstName,
		LastName:    req.LastName,
		Role:        types.Role(req.Role),
		Preferences: req.Preferences.toUpdate(),
	}
	if req.BusinessInfo != nil {
		out.BusinessInfo = &model.BusinessInfo{
			CompanyName:  req.BusinessInfo.CompanyName,
			BusinessType: req.BusinessInfo.BusinessType,
			Location:     req.BusinessInfo.Location,
		}
	}
	return out
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// HandleRegister creates an account and returns its first token
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req registerRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.authUC.Register(ctx, req.toModel())
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeData(ctx, w, http.StatusCreated, toAuthResultJSON(result))
}

// HandleLogin exchanges credentials for an access token
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req loginRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	result, err := h.authUC.Login(ctx, req.Email, req.Password)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeData(ctx, w, http.StatusOK, toAuthResultJSON(result))
}

// HandleMe returns the caller's account
func (h *AuthHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	user, err := h.authUC.GetUser(ctx, authFrom(ctx).UserID)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeData(ctx, w, http.StatusOK, map[string]any{"user": toUserJSON(user)})
}

// HandleLogout revokes the session behind the caller's token
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := h.authUC.Logout(ctx, authFrom(ctx).SessionID); err != nil {
		writeError(ctx, w, err)
		return
	}

	ctxlog.From(ctx).Info("User logged out", "userID", authFrom(ctx).UserID)
	writeMessage(ctx, w, "Logged out successfully")
}

// HandleUpdatePreferences changes the caller's display preferences
func (h *AuthHandler) HandleUpdatePreferences(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req preferencesRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(ctx, w, err)
		return
	}

	user, err := h.authUC.UpdatePreferences(ctx, authFrom(ctx).UserID, req.toUpdate())
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	writeData(ctx, w, http.StatusOK, map[string]any{"user": toUserJSON(user)})
}
