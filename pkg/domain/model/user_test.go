package model_test

import (
	"testing"

	"github.com/eventgrid/eventgrid/pkg/domain/model"
	"github.com/eventgrid/eventgrid/pkg/domain/types"
	"github.com/m-mizutani/gt"
)

func TestUserPassword(t *testing.T) {
	user := model.NewUser("  Sarah.Chen@Example.com ", "Sarah", "Chen", types.RoleEventManager)
	gt.Equal(t, user.Email, "sarah.chen@example.com")
	gt.True(t, user.IsActive)
	gt.False(t, user.CheckPassword("password123"))

	gt.NoError(t, user.SetPassword("password123")).Required()
	gt.True(t, user.CheckPassword("password123"))
	gt.False(t, user.CheckPassword("password124"))
	gt.V(t, user.PasswordHash).NotEqual("password123")
}

func TestUserDefaults(t *testing.T) {
	user := model.NewUser("a@b.c", "Mike", "Rodriguez", types.RoleVendor)
	gt.Equal(t, user.FullName(), "Mike Rodriguez")
	gt.Equal(t, user.Preferences.Language, "en")
	gt.Equal(t, user.Preferences.Currency, "USD")
	gt.Equal(t, user.Preferences.Timezone, "UTC")
	gt.True(t, user.Preferences.Notifications.Email)
	gt.False(t, user.Preferences.Notifications.SMS)
}

func TestUserCopy(t *testing.T) {
	user := model.NewUser("a@b.c", "Mike", "Rodriguez", types.RoleVendor)
	user.BusinessProfile = &model.BusinessProfile{BusinessName: "Capture Moments"}

	c := user.Copy()
	c.BusinessProfile.BusinessName = "Changed"
	gt.Equal(t, user.BusinessProfile.BusinessName, "Capture Moments")
}

func TestBusinessInfoToProfile(t *testing.T) {
	t.Run("city and country", func(t *testing.T) {
		info := &model.BusinessInfo{CompanyName: "Gourmet", BusinessType: "catering", Location: "San Francisco, CA, USA"}
		profile := info.ToProfile()
		gt.Equal(t, profile.BusinessName, "Gourmet")
		gt.Equal(t, profile.City, "San Francisco")
		gt.Equal(t, profile.Country, "USA")
	})

	t.Run("city only", func(t *testing.T) {
		profile := (&model.BusinessInfo{Location: "Tokyo"}).ToProfile()
		gt.Equal(t, profile.City, "Tokyo")
		gt.Equal(t, profile.Country, "")
	})
}

func TestRegisterRequestValidate(t *testing.T) {
	valid := func() model.RegisterRequest {
		return model.RegisterRequest{
			Email:     "new@example.com",
			Password:  "longenough",
			FirstName: "New",
			LastName:  "User",
			Role:      types.RoleGuest,
		}
	}

	t.Run("valid", func(t *testing.T) {
		req := valid()
		gt.NoError(t, req.Validate())
	})

	tests := []struct {
		name    string
		mutate  func(r *model.RegisterRequest)
		message string
	}{
		{"missing email", func(r *model.RegisterRequest) { r.Email = "" }, "Missing required field: email"},
		{"missing last name", func(r *model.RegisterRequest) { r.LastName = " " }, "Missing required field: lastName"},
		{"missing role", func(r *model.RegisterRequest) { r.Role = "" }, "Missing required field: role"},
		{"invalid role", func(r *model.RegisterRequest) { r.Role = "admin" }, "Invalid role"},
		{"invalid email", func(r *model.RegisterRequest) { r.Email = "nope" }, "Invalid email format"},
		{"short password", func(r *model.RegisterRequest) { r.Password = "short" }, "Password must be at least 8 characters long"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := valid()
			tt.mutate(&req)
			err := req.Validate()
			gt.Error(t, err)
			gt.True(t, model.HasTag(err, model.ErrTagValidation))
			gt.Equal(t, model.RootMessage(err), tt.message)
		})
	}
}

func TestPreferencesUpdate(t *testing.T) {
	prefs := model.DefaultPreferences()
	lang, cur, sms := "ja", "jpy", true
	model.PreferencesUpdate{Language: &lang, Currency: &cur, SMSNotifications: &sms}.Apply(&prefs)

	gt.Equal(t, prefs.Language, "ja")
	gt.Equal(t, prefs.Currency, "JPY")
	gt.Equal(t, prefs.Timezone, "UTC")
	gt.True(t, prefs.Notifications.SMS)
	gt.True(t, prefs.Notifications.Email)
}
