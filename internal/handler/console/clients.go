package console

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/buynlarge/console/internal/apiclient"
	chatModel "github.com/buynlarge/console/internal/model/chat"
	"github.com/buynlarge/console/internal/service/auth"
	catalogService "github.com/buynlarge/console/internal/service/catalog"
	"github.com/buynlarge/console/internal/service/chatapi"
	"github.com/buynlarge/console/internal/service/conversation"
	dashboardService "github.com/buynlarge/console/internal/service/dashboard"
	"github.com/buynlarge/console/internal/service/notify"
	"github.com/buynlarge/console/internal/service/session"
	"github.com/buynlarge/console/internal/storage"
)

const (
	// clientIdleTTL is how long an unused client stays in memory.
	clientIdleTTL = 30 * time.Minute
	sweepEvery    = time.Minute
)

// client is everything the console keeps for one browser. Its persisted state
// lives in a namespace of the shared store, so it survives server restarts
// and eviction when the store does.
type client struct {
	id        string
	gate      *auth.Gate
	center    *notify.Center
	favorites *catalogService.Favorites
	catalog   *catalogService.Service
	dashboard *dashboardService.Service
	chat      *conversation.State

	mu      sync.Mutex
	conns   int
	streams int

	// guarded by registry.mu
	seen time.Time
}

// attach registers a chat connection, mounting the conversation for the first.
func (c *client) attach(ctx context.Context) {
	c.mu.Lock()
	c.conns++
	first := c.conns == 1
	c.mu.Unlock()

	if first {
		c.chat.Mount(ctx)
	}
}

// detach unmounts the conversation once its last connection is gone. The
// unmount happens under the lock so it cannot land after the mount of a
// connection that attached in the meantime.
func (c *client) detach() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.conns--
	if c.conns == 0 {
		c.chat.Unmount()
	}
}

// hold and release bracket a notification stream.
func (c *client) hold() {
	c.mu.Lock()
	c.streams++
	c.mu.Unlock()
}

func (c *client) release() {
	c.mu.Lock()
	c.streams--
	c.mu.Unlock()
}

func (c *client) busy() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conns > 0 || c.streams > 0
}

type registry struct {
	store     storage.Store
	api       *apiclient.Client
	creds     *auth.Credentials
	notifyTTL time.Duration
	idleTTL   time.Duration
	now       func() time.Time

	mu        sync.Mutex
	clients   map[string]*client
	lastSweep time.Time
}

func newRegistry(store storage.Store, api *apiclient.Client, creds *auth.Credentials, notifyTTL time.Duration) *registry {
	return &registry{
		store:     store,
		api:       api,
		creds:     creds,
		notifyTTL: notifyTTL,
		idleTTL:   clientIdleTTL,
		now:       time.Now,
		clients:   make(map[string]*client),
	}
}

// get returns the in-memory client of id, rebuilding it from the store when
// it was never loaded or has been evicted.
func (r *registry) get(ctx context.Context, id string) *client {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := r.now()
	r.sweepLocked(now)

	c, ok := r.clients[id]
	if !ok {
		c = r.build(ctx, id)
		r.clients[id] = c
	}
	c.seen = now
	return c
}

// transient builds a client without keeping it. Browsers that were just
// issued an id have nothing persisted yet, and most never come back.
func (r *registry) transient(ctx context.Context, id string) *client {
	return r.build(ctx, id)
}

func (r *registry) build(ctx context.Context, id string) *client {
	scoped := storage.Namespace(r.store, "client:"+id)
	center := notify.NewCenter(r.notifyTTL)
	chat := conversation.New(session.NewIdentity(scoped), chatapi.New(r.api), center,
		conversation.WithOnNewMessage(func(m chatModel.Message) {
			log.Printf("[console] client=%s new %s message id=%s", id, m.Sender, m.ID)
		}),
	)
	return &client{
		id:        id,
		gate:      auth.NewGate(ctx, scoped, r.creds),
		center:    center,
		favorites: catalogService.NewFavorites(scoped),
		catalog:   catalogService.NewService(r.api, center),
		dashboard: dashboardService.NewService(r.api, center),
		chat:      chat,
	}
}

// sweepLocked drops clients that have been idle for idleTTL and have no open
// socket or stream.
func (r *registry) sweepLocked(now time.Time) {
	if now.Sub(r.lastSweep) < sweepEvery {
		return
	}
	r.lastSweep = now

	for id, c := range r.clients {
		if now.Sub(c.seen) >= r.idleTTL && !c.busy() {
			delete(r.clients, id)
		}
	}
}

func (r *registry) size() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.clients)
}
