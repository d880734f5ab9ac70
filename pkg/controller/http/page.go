package http

import (
	"bytes"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"strconv"
	"strings"

	"github.com/eventgrid/eventgrid/pkg/domain/model"
	"github.com/eventgrid/eventgrid/pkg/domain/types"
	"github.com/eventgrid/eventgrid/pkg/usecase"
	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/yuin/goldmark"
)

// PageHandler renders the server-side HTML pages
type PageHandler struct {
	authUC        usecase.AuthUseCase
	eventUC       usecase.EventUseCase
	dashboardUC   usecase.DashboardUseCase
	marketplaceUC usecase.MarketplaceUseCase
	venueUC       usecase.VenueUseCase
	pages         map[string]*template.Template
	markdown      goldmark.Markdown
	secureCookie  bool
}

var navigation = []struct {
	Label string
	Href  string
}{
	{"Dashboard", "/dashboard"},
	{"Events", "/events"},
	{"Marketplace", "/marketplace"},
	{"Venues", "/venues"},
	{"Profile", "/profile"},
	{"Settings", "/settings"},
}

// sections are the authenticated pages other than the dashboard
var sections = map[string]struct {
	Title       string
	Description string
}{
	"/events":      {"Events", "Manage all your events here."},
	"/marketplace": {"Marketplace", "Find vendors and services for your events."},
	"/venues":      {"Venues", "Discover and book amazing venues."},
	"/profile":     {"Profile", "Manage your profile and preferences."},
	"/settings":    {"Settings", "Configure your account settings."},
}

type navItem struct {
	Label  string
	Href   string
	Active bool
}

type authForm struct {
	Tab         string
	Error       string
	Email       string
	FirstName   string
	LastName    string
	Role        string
	CompanyName string
	Location    string
	Roles       []types.RoleInfo
}

type eventCard struct {
	Title       string
	Type        string
	Status      string
	Date        string
	Attendees   int
	Description template.HTML
}

type sectionView struct {
	Heading     string
	Description string
	Events      []eventCard
	Vendors     []*model.Vendor
	Venues      []*model.Venue
	Profile     *model.User
}

type pageData struct {
	Title     string
	Nav       []navItem
	User      *model.User
	Greeting  string
	Dashboard *model.DashboardView
	Form      *authForm
	Section   *sectionView
}

var templateFuncs = template.FuncMap{
	"statusColor":   model.StatusColor,
	"priorityColor": model.PriorityColor,
	"count":         formatCount,
	"money":         formatBudget,
	"roleLabel":     func(r types.Role) string { return r.Label() },
	"price": func(v *float64) string {
		if v == nil {
			return "-"
		}
		return formatBudget(*v)
	},
	"capacity": func(v *int) string {
		if v == nil {
			return "-"
		}
		return formatCount(*v)
	},
}

// NewPageHandler parses the page templates found in templates. Every page is
// rendered through base.html; pages behind the navigation also include app.html.
func NewPageHandler(templates fs.FS, uc *UseCases, secureCookie bool) (*PageHandler, error) {
	base, err := template.New("base.html").Funcs(templateFuncs).ParseFS(templates, "base.html", "app.html")
	if err != nil {
		return nil, goerr.Wrap(err, "failed to parse base templates")
	}

	pages := map[string]*template.Template{}
	for _, name := range []string{"landing.html", "auth.html", "dashboard.html", "section.html"} {
		clone, err := base.Clone()
		if err != nil {
			return nil, goerr.Wrap(err, "failed to clone base template", goerr.V("page", name))
		}
		if _, err := clone.ParseFS(templates, name); err != nil {
			return nil, goerr.Wrap(err, "failed to parse page template", goerr.V("page", name))
		}
		pages[name] = clone
	}

	return &PageHandler{
		authUC:        uc.Auth,
		eventUC:       uc.Event,
		dashboardUC:   uc.Dashboard,
		marketplaceUC: uc.Marketplace,
		venueUC:       uc.Venue,
		pages:         pages,
		markdown:      goldmark.New(),
		secureCookie:  secureCookie,
	}, nil
}

func navFor(path string) []navItem {
	items := make([]navItem, 0, len(navigation))
	for _, n := range navigation {
		items = append(items, navItem{Label: n.Label, Href: n.Href, Active: n.Href == path})
	}
	return items
}

func (h *PageHandler) render(w http.ResponseWriter, r *http.Request, status int, page string, data *pageData) {
	ctx := r.Context()

	var buf bytes.Buffer
	if err := h.pages[page].ExecuteTemplate(&buf, "base", data); err != nil {
		ctxlog.From(ctx).Error("Failed to render page", "error", err, "page", page)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if _, err := buf.WriteTo(w); err != nil {
		ctxlog.From(ctx).Error("Failed to write page", "error", err, "page", page)
	}
}

// renderMarkdown converts an event description to HTML. Raw HTML in the
// source is dropped by goldmark's default renderer.
func (h *PageHandler) renderMarkdown(src string) template.HTML {
	var buf bytes.Buffer
	if err := h.markdown.Convert([]byte(src), &buf); err != nil {
		return template.HTML(template.HTMLEscapeString(src))
	}
	return template.HTML(buf.String())
}

// HandleLanding renders the public landing page
func (h *PageHandler) HandleLanding(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, "landing.html", &pageData{Title: "Intelligent Event Management"})
}

// HandleAuth renders the sign-in and sign-up forms
func (h *PageHandler) HandleAuth(w http.ResponseWriter, r *http.Request) {
	form := &authForm{Tab: "signin", Role: types.RoleEventManager.String(), Roles: types.Roles()}
	if r.URL.Query().Get("tab") == "signup" {
		form.Tab = "signup"
	}
	h.render(w, r, http.StatusOK, "auth.html", &pageData{Title: "Sign In", Form: form})
}

func (h *PageHandler) setTokenCookie(w http.ResponseWriter, result *model.AuthResult, remember bool) {
	cookie := &http.Cookie{
		Name:     TokenCookieName,
		Value:    result.AccessToken,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
	}
	if remember {
		cookie.MaxAge = result.ExpiresIn
	}
	http.SetCookie(w, cookie)
}

func (h *PageHandler) clearTokenCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     TokenCookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   h.secureCookie,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
}

// renderAuthError re-renders the auth page with the failure and the submitted values
func (h *PageHandler) renderAuthError(w http.ResponseWriter, r *http.Request, form *authForm, err error) {
	status, ok := errorStatus[model.ErrorCode(err)]
	if ok {
		form.Error = model.RootMessage(err)
		ctxlog.From(r.Context()).Debug("Auth form rejected", "error", err)
	} else {
		status = http.StatusInternalServerError
		form.Error = "Something went wrong. Please try again."
		writeErrorLog(r, err)
	}
	form.Roles = types.Roles()
	h.render(w, r, status, "auth.html", &pageData{Title: "Sign In", Form: form})
}

// HandleSignIn logs in from the sign-in form
func (h *PageHandler) HandleSignIn(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := r.ParseForm(); err != nil {
		h.renderAuthError(w, r, &authForm{Tab: "signin"}, model.NewValidationError("Invalid form submission"))
		return
	}

	form := &authForm{Tab: "signin", Email: r.PostFormValue("email"), Role: types.RoleEventManager.String()}
	result, err := h.authUC.Login(ctx, form.Email, r.PostFormValue("password"))
	if err != nil {
		h.renderAuthError(w, r, form, err)
		return
	}

	h.setTokenCookie(w, result, r.PostFormValue("remember") != "")
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

// HandleSignUp registers from the sign-up form
func (h *PageHandler) HandleSignUp(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	if err := r.ParseForm(); err != nil {
		h.renderAuthError(w, r, &authForm{Tab: "signup"}, model.NewValidationError("Invalid form submission"))
		return
	}

	form := &authForm{
		Tab:         "signup",
		Email:       r.PostFormValue("email"),
		FirstName:   r.PostFormValue("firstName"),
		LastName:    r.PostFormValue("lastName"),
		Role:        r.PostFormValue("role"),
		CompanyName: r.PostFormValue("companyName"),
		Location:    r.PostFormValue("location"),
	}
	req := &model.RegisterRequest{
		Email:     form.Email,
		Password:  r.PostFormValue("password"),
		FirstName: form.FirstName,
		LastName:  form.LastName,
		Role:      types.Role(form.Role),
	}
	if req.Role.HasBusiness() && (form.CompanyName != "" || form.Location != "") {
		req.BusinessInfo = &model.BusinessInfo{
			CompanyName:  form.CompanyName,
			BusinessType: r.PostFormValue("businessType"),
			Location:     form.Location,
		}
	}

	result, err := h.authUC.Register(ctx, req)
	if err != nil {
		h.renderAuthError(w, r, form, err)
		return
	}

	h.setTokenCookie(w, result, true)
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

// HandleSignOut revokes the browser session
func (h *PageHandler) HandleSignOut(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if cookie, err := r.Cookie(TokenCookieName); err == nil && cookie.Value != "" {
		if authCtx, err := h.authUC.ValidateToken(ctx, cookie.Value); err == nil {
			if err := h.authUC.Logout(ctx, authCtx.SessionID); err != nil {
				writeErrorLog(r, err)
			}
		}
	}

	h.clearTokenCookie(w)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// currentUser returns the signed-in user, or nil for anonymous visitors
func (h *PageHandler) currentUser(r *http.Request) (*model.User, error) {
	authCtx, ok := model.GetAuthContext(r.Context())
	if !ok {
		return nil, nil
	}
	return h.authUC.GetUser(r.Context(), authCtx.UserID)
}

// HandleDashboard renders the caller's dashboard, or the demo for anonymous visitors
func (h *PageHandler) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	user, err := h.currentUser(r)
	if err != nil {
		writeErrorLog(r, err)
		user = nil
	}

	data := &pageData{Title: "Dashboard", Nav: navFor(r.URL.Path)}
	if user == nil {
		data.Greeting = "Sarah"
		data.Dashboard = model.DemoDashboard()
	} else {
		view, err := h.dashboardUC.GetDashboard(ctx, user.ID)
		if err != nil {
			writeErrorLog(r, err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}
		data.User = user
		data.Greeting = user.FirstName
		data.Dashboard = view
	}
	h.render(w, r, http.StatusOK, "dashboard.html", data)
}

// HandleSection renders one of the authenticated section pages
func (h *PageHandler) HandleSection(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	section, ok := sections[r.URL.Path]
	if !ok {
		http.NotFound(w, r)
		return
	}

	user, err := h.currentUser(r)
	if err != nil || user == nil {
		if err != nil {
			writeErrorLog(r, err)
		}
		http.Redirect(w, r, "/auth", http.StatusSeeOther)
		return
	}

	view := &sectionView{Heading: section.Title, Description: section.Description}
	switch r.URL.Path {
	case "/events":
		page, err := h.eventUC.ListEvents(ctx, user.ID, &model.EventFilter{Limit: model.MaxPageLimit})
		if err != nil {
			writeErrorLog(r, err)
			break
		}
		for _, e := range page.Items {
			view.Events = append(view.Events, eventCard{
				Title:       e.Title,
				Type:        e.Type,
				Status:      string(e.Status),
				Date:        e.StartDate.Format("2006-01-02"),
				Attendees:   e.ExpectedCount(),
				Description: h.renderMarkdown(e.Description),
			})
		}
	case "/marketplace":
		vendors, err := h.marketplaceUC.FeaturedVendors(ctx)
		if err != nil {
			writeErrorLog(r, err)
			break
		}
		view.Vendors = vendors
	case "/venues":
		page, err := h.venueUC.ListVenues(ctx, &model.VenueFilter{Limit: model.MaxPageLimit})
		if err != nil {
			writeErrorLog(r, err)
			break
		}
		view.Venues = page.Items
	case "/profile", "/settings":
		view.Profile = user
	}

	h.render(w, r, http.StatusOK, "section.html", &pageData{
		Title:   section.Title,
		Nav:     navFor(r.URL.Path),
		User:    user,
		Section: view,
	})
}

func writeErrorLog(r *http.Request, err error) {
	ctxlog.From(r.Context()).Error("Page request failed", "error", err, "path", r.URL.Path)
}

// formatCount renders an integer with thousands separators
func formatCount(n int) string {
	s := strconv.Itoa(n)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	var out strings.Builder
	for i, c := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			out.WriteByte(',')
		}
		out.WriteRune(c)
	}
	if neg {
		return "-" + out.String()
	}
	return out.String()
}

// formatBudget renders an amount of money compactly: $1.2M, $150,000
func formatBudget(v float64) string {
	if v >= 1_000_000 {
		return fmt.Sprintf("$%.1fM", v/1_000_000)
	}
	return "$" + formatCount(int(v))
}
