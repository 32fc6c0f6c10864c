package controllers

import (
	"net/http"
	"net/url"
	"strings"

	"go-storefront/api"
	"go-storefront/middleware"
	"go-storefront/models"
)

// UserController handles sign-in, registration and sign-out
type UserController struct {
	Pages *Pages
}

// NewUserController creates a new UserController
func NewUserController(pages *Pages) *UserController {
	return &UserController{Pages: pages}
}

// Home greets the visitor according to their role
func (uc *UserController) Home(w http.ResponseWriter, r *http.Request) {
	uc.Pages.Render(w, r, "home", nil)
}

// LoginPage renders the login form
func (uc *UserController) LoginPage(w http.ResponseWriter, r *http.Request) {
	data := map[string]interface{}{"next": r.URL.Query().Get("next")}
	if r.URL.Query().Get("registered") == "true" {
		data["success_message"] = "Registration successful! Please log in."
	}
	uc.Pages.Render(w, r, "login", data)
}

// Login handles the login form submission
func (uc *UserController) Login(w http.ResponseWriter, r *http.Request) {
	creds := models.Credentials{
		Email:    strings.TrimSpace(r.FormValue("email")),
		Password: r.FormValue("password"),
	}
	next := r.FormValue("next")

	sess, err := shopper(r).Session.Login(r.Context(), creds)
	if err != nil {
		logger(r).WithField("error", err).Warn("login failed")
		uc.Pages.RenderStatus(w, r, http.StatusUnauthorized, "login", map[string]interface{}{
			"login_error": loginMessage(err),
			"email":       creds.Email,
			"next":        next,
		})
		return
	}

	http.Redirect(w, r, landingPage(sess.Role, next), http.StatusFound)
}

// RegisterPage renders the registration form
func (uc *UserController) RegisterPage(w http.ResponseWriter, r *http.Request) {
	uc.Pages.Render(w, r, "register", map[string]interface{}{"role": string(models.RoleBuyer)})
}

// Register creates the account and sends the user to log in. Registering does not sign in.
func (uc *UserController) Register(w http.ResponseWriter, r *http.Request) {
	profile := models.Profile{
		Email:    strings.TrimSpace(r.FormValue("email")),
		Password: r.FormValue("password"),
		Role:     models.ParseRole(r.FormValue("role")),
	}
	if err := shopper(r).Session.Register(r.Context(), profile); err != nil {
		logger(r).WithField("error", err).Warn("registration failed")
		uc.Pages.RenderStatus(w, r, http.StatusBadRequest, "register", map[string]interface{}{
			"register_error": api.Message(err),
			"email":          profile.Email,
			"role":           string(profile.Role),
		})
		return
	}
	logger(r).WithField("email", profile.Email).Info("user registered")
	http.Redirect(w, r, middleware.LoginPath+"?registered=true", http.StatusFound)
}

// Logout ends the session and goes back home
func (uc *UserController) Logout(w http.ResponseWriter, r *http.Request) {
	shopper(r).Session.Logout(r.Context())
	http.Redirect(w, r, "/", http.StatusFound)
}

func loginMessage(err error) string {
	if api.IsAuthError(err) {
		return "Invalid email or password"
	}
	return api.Message(err)
}

// landingPage picks where to go after login. next must be a local path.
func landingPage(role models.Role, next string) string {
	if isLocalPath(next) && next != middleware.LoginPath {
		return next
	}
	if role.IsSeller() {
		return middleware.SellerPath
	}
	return middleware.CatalogPath
}

// isLocalPath accepts "/x" but nothing a browser could read as another host.
// Browsers treat a backslash like a slash, so "/\host" counts as "//host".
func isLocalPath(next string) bool {
	if !strings.HasPrefix(next, "/") || strings.ContainsAny(next, "\\\r\n\t") {
		return false
	}
	u, err := url.Parse(next)
	if err != nil {
		return false
	}
	return u.Scheme == "" && u.Host == "" && !strings.HasPrefix(u.Path, "//")
}
