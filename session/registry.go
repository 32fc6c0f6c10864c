package session

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"go-storefront/api"
)

// Shopper bundles one browser's session with resource clients bound to it
type Shopper struct {
	ID       string
	Session  *Store
	Products *api.ProductAPI
	Cart     *api.CartAPI
	Orders   *api.OrderAPI

	lastSeen time.Time
}

// Registry hands out one Shopper per browser session id. Shoppers live in memory
// and are dropped after IdleTTL; their tokens stay in the backend, so a returning
// browser is restored by Init.
type Registry struct {
	base    *api.Client
	auth    *api.AuthAPI
	backend Backend
	log     logrus.FieldLogger
	IdleTTL time.Duration

	mu       sync.Mutex
	shoppers map[string]*Shopper
	now      func() time.Time
}

// NewRegistry builds a registry. base must be an unbound client.
func NewRegistry(base *api.Client, backend Backend, log logrus.FieldLogger) *Registry {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &Registry{
		base:     base,
		auth:     api.NewAuthAPI(base),
		backend:  backend,
		log:      log,
		IdleTTL:  30 * time.Minute,
		shoppers: make(map[string]*Shopper),
		now:      time.Now,
	}
}

// Get returns the shopper for sessionID, creating and initializing it on first use
func (r *Registry) Get(ctx context.Context, sessionID string) *Shopper {
	r.mu.Lock()
	if sh, ok := r.shoppers[sessionID]; ok {
		sh.lastSeen = r.now()
		r.mu.Unlock()
		return sh
	}
	sh := r.newShopper(sessionID)
	r.shoppers[sessionID] = sh
	r.mu.Unlock()

	// a cancelled request must not look like "no stored session"
	initCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()
	sh.Session.Init(initCtx)
	return sh
}

func (r *Registry) newShopper(sessionID string) *Shopper {
	log := r.log.WithField("session", sessionID)
	store := NewStore(r.auth, Scoped(r.backend, sessionID), log)
	store.Subscribe(func(e Event) {
		entry := log.WithField("event", e.Type)
		if e.User != nil {
			entry = entry.WithField("user", e.User.Email)
		}
		entry.Debug("session changed")
	})

	client := r.base.WithTokens(store)
	return &Shopper{
		ID:       sessionID,
		Session:  store,
		Products: api.NewProductAPI(client),
		Cart:     api.NewCartAPI(client),
		Orders:   api.NewOrderAPI(client),
		lastSeen: r.now(),
	}
}

// Len is the number of shoppers held in memory
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.shoppers)
}

// Sweep drops shoppers idle for longer than IdleTTL and reports how many went
func (r *Registry) Sweep() int {
	cutoff := r.now().Add(-r.IdleTTL)
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for id, sh := range r.shoppers {
		if sh.lastSeen.Before(cutoff) {
			delete(r.shoppers, id)
			n++
		}
	}
	return n
}

// Run sweeps every interval until ctx is done
func (r *Registry) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := r.Sweep(); n > 0 {
				r.log.WithField("dropped", n).Debug("swept idle shoppers")
			}
		}
	}
}
