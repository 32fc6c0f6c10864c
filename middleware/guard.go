package middleware

import (
	"net/http"
	"net/url"

	"go-storefront/models"
)

// GuardState is what a guard knows about the visitor
type GuardState int

const (
	StateLoading GuardState = iota
	StateUnauthenticated
	StateAuthorizedBuyer
	StateAuthorizedSeller
)

// Gate is one of the navigation checks a route can sit behind
type Gate int

const (
	// GateAuthenticated lets in any signed-in user
	GateAuthenticated Gate = iota
	// GateBuyerOnly lets in buyers and sends sellers to their dashboard
	GateBuyerOnly
	// GateSellerOnly lets in sellers and sends buyers to the catalog
	GateSellerOnly
	// GateBlockSeller keeps sellers off public catalog pages; everyone else passes
	GateBlockSeller
)

// Redirect targets
const (
	LoginPath   = "/login"
	SellerPath  = "/seller"
	CatalogPath = "/products"
)

// Action is what to do with a navigation
type Action int

const (
	ActionWait Action = iota
	ActionRender
	ActionRedirect
)

// Decision is the outcome of evaluating a gate. Replace is set when the
// redirect comes from a role mismatch: the blocked page is not remembered.
type Decision struct {
	Action   Action
	Location string
	Replace  bool
}

// SessionReader is the read side of the session store
type SessionReader interface {
	IsLoading() bool
	CurrentUser() (models.User, bool)
}

// StateOf maps the session to a guard state
func StateOf(s SessionReader) GuardState {
	if s == nil {
		return StateUnauthenticated
	}
	if s.IsLoading() {
		return StateLoading
	}
	u, ok := s.CurrentUser()
	switch {
	case !ok:
		return StateUnauthenticated
	case u.Role.IsSeller():
		return StateAuthorizedSeller
	default:
		return StateAuthorizedBuyer
	}
}

// Evaluate applies gate g to state st. A loading session is never rendered or redirected.
func Evaluate(g Gate, st GuardState) Decision {
	if st == StateLoading {
		return Decision{Action: ActionWait}
	}
	render := Decision{Action: ActionRender}
	toLogin := Decision{Action: ActionRedirect, Location: LoginPath}

	switch g {
	case GateAuthenticated:
		if st == StateUnauthenticated {
			return toLogin
		}
		return render
	case GateBuyerOnly:
		switch st {
		case StateUnauthenticated:
			return toLogin
		case StateAuthorizedSeller:
			return Decision{Action: ActionRedirect, Location: SellerPath, Replace: true}
		}
		return render
	case GateSellerOnly:
		switch st {
		case StateUnauthenticated:
			return toLogin
		case StateAuthorizedBuyer:
			return Decision{Action: ActionRedirect, Location: CatalogPath, Replace: true}
		}
		return render
	case GateBlockSeller:
		if st == StateAuthorizedSeller {
			return Decision{Action: ActionRedirect, Location: SellerPath, Replace: true}
		}
		return render
	}
	return toLogin
}

// Guard wraps a handler with gate g. It needs WithShopper earlier in the chain.
func Guard(g Gate) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sh := ShopperFromContext(r.Context())
			if sh == nil {
				http.Error(w, "session unavailable", http.StatusInternalServerError)
				return
			}

			d := Evaluate(g, StateOf(sh.Session))
			if d.Action == ActionWait {
				select {
				case <-sh.Session.Ready():
				case <-r.Context().Done():
					return
				}
				d = Evaluate(g, StateOf(sh.Session))
			}

			if d.Action == ActionRender {
				next.ServeHTTP(w, r)
				return
			}
			Logger(r.Context()).WithField("to", d.Location).Debug("guard redirect")
			http.Redirect(w, r, redirectTarget(d, r), http.StatusFound)
		})
	}
}

// redirectTarget appends ?next= for login redirects so the user comes back where they were
func redirectTarget(d Decision, r *http.Request) string {
	if d.Replace || d.Location != LoginPath || r.Method != http.MethodGet {
		return d.Location
	}
	return d.Location + "?next=" + url.QueryEscape(r.URL.RequestURI())
}
