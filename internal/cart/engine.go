package cart

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/Skotchmaster/storefront/internal/guard"
	"github.com/Skotchmaster/storefront/internal/models"
	"github.com/Skotchmaster/storefront/internal/session"
	"github.com/Skotchmaster/storefront/pkg/apiclient"
	"github.com/Skotchmaster/storefront/pkg/logging"
)

var ErrEmptyCart = errors.New("cart is empty")

type State int

const (
	StateEmpty State = iota
	StateSyncing
	StateReady
	StateLocallyModified
	StateError
)

func (s State) String() string {
	switch s {
	case StateSyncing:
		return "syncing"
	case StateReady:
		return "ready"
	case StateLocallyModified:
		return "locally_modified"
	case StateError:
		return "error"
	default:
		return "empty"
	}
}

// Engine reconciles server cart membership with client-only quantities.
//
// Quantities live only here: every fetch replaces the lines and resets each
// quantity to 1, and PlaceOrder never reaches the server. The remote cart is
// therefore not cleared by an order and no order record exists remotely.
//
// Lines belong to one session: any session change drops them.
type Engine struct {
	Remote  Remote
	Session *session.Store
	Guard   *guard.Guard
	Now     func() time.Time

	mu       sync.Mutex
	lines    []models.CartLine
	state    State
	message  string
	inflight int
	linesGen uint64
}

func NewEngine(remote Remote, store *session.Store, g *guard.Guard) *Engine {
	e := &Engine{Remote: remote, Session: store, Guard: g, Now: time.Now}
	store.OnChange(e.sessionChanged)
	return e
}

// FetchCart replaces every line with the server's view. On failure the
// previous lines stay and the engine moves to StateError.
func (e *Engine) FetchCart(ctx context.Context) error {
	l := logging.FromContext(ctx).With("svc", "cart.fetch")

	gen := e.Session.Generation()
	token := e.Session.Token()
	if token == "" {
		return e.fail(ctx, apiclient.NoCredential())
	}

	e.begin()
	products, err := e.Remote.GetCart(ctx, token)

	e.mu.Lock()
	e.inflight--
	if cur := e.Session.Generation(); cur != gen {
		if e.linesGen != cur {
			e.lines = nil
		}
		if e.inflight == 0 {
			e.state = StateReady
			if e.lines == nil {
				e.state = StateEmpty
			}
		}
		e.mu.Unlock()
		l.Info("fetch_cart_discarded", "reason", "session changed")
		return nil
	}
	if err != nil {
		e.message = apiclient.Message(err)
		e.settleErrorLocked()
		e.mu.Unlock()

		l.Warn("fetch_cart_failed", "reason", apiclient.Message(err), "error", err)
		e.Guard.HandleUnauthorized(ctx, err)
		return err
	}

	lines := make([]models.CartLine, 0, len(products))
	for _, p := range products {
		lines = append(lines, models.CartLine{Product: p, Quantity: 1, ServerConfirmed: true})
	}
	e.lines = lines
	e.linesGen = gen
	e.message = ""
	e.settleLocked()
	e.mu.Unlock()

	l.Debug("fetch_cart_successful", "lines", len(lines))
	return nil
}

func (e *Engine) AddToCart(ctx context.Context, productID string) error {
	return e.mutate(ctx, "cart.add", productID, e.Remote.AddToCart)
}

func (e *Engine) RemoveFromCart(ctx context.Context, productID string) error {
	return e.mutate(ctx, "cart.remove", productID, e.Remote.RemoveFromCart)
}

func (e *Engine) mutate(ctx context.Context, svc, productID string, call func(context.Context, string, string) error) error {
	l := logging.FromContext(ctx).With("svc", svc, "product_id", productID)

	token := e.Session.Token()
	if token == "" {
		return e.fail(ctx, apiclient.NoCredential())
	}

	e.begin()
	err := call(ctx, token, productID)

	e.mu.Lock()
	e.inflight--
	if err != nil {
		e.message = apiclient.Message(err)
		e.settleErrorLocked()
		e.mu.Unlock()

		l.Warn("cart_update_failed", "reason", apiclient.Message(err), "error", err)
		e.Guard.HandleUnauthorized(ctx, err)
		return err
	}
	e.mu.Unlock()

	l.Info("cart_update_successful")
	return e.FetchCart(ctx)
}

// IncrementQuantity is local only. It reports whether a line matched.
func (e *Engine) IncrementQuantity(productID string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	for i := range e.lines {
		if e.lines[i].Product.ID == productID {
			e.lines[i].Quantity++
			e.markModifiedLocked()
			return true
		}
	}
	return false
}

// DecrementQuantity is local only and stops at 1.
func (e *Engine) DecrementQuantity(productID string) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	for i := range e.lines {
		if e.lines[i].Product.ID != productID {
			continue
		}
		if e.lines[i].Quantity <= 1 {
			return false
		}
		e.lines[i].Quantity--
		e.markModifiedLocked()
		return true
	}
	return false
}

// PlaceOrder snapshots the current lines. Nothing is sent to the server,
// but a session is still required.
func (e *Engine) PlaceOrder() (models.OrderSnapshot, error) {
	if e.Session.Token() == "" {
		return models.OrderSnapshot{}, apiclient.NoCredential()
	}
	e.mu.Lock()
	defer e.mu.Unlock()

	if len(e.lines) == 0 {
		return models.OrderSnapshot{}, ErrEmptyCart
	}
	return models.OrderSnapshot{Lines: e.copyLinesLocked(), PlacedAt: e.Now()}, nil
}

func (e *Engine) Lines() []models.CartLine {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.copyLinesLocked()
}

func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

func (e *Engine) Message() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.message
}

// Reset drops all local state, used on logout.
func (e *Engine) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.lines = nil
	e.message = ""
	if e.inflight == 0 {
		e.state = StateEmpty
	}
}

// sessionChanged drops the lines of the previous session. After a clear the
// failure message and error state stay so the cause remains visible; a new
// login starts from scratch.
func (e *Engine) sessionChanged(next models.Session) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.lines = nil
	if next.Authenticated() {
		e.message = ""
	}
	if e.inflight == 0 && (e.state != StateError || next.Authenticated()) {
		e.state = StateEmpty
	}
}

func (e *Engine) fail(ctx context.Context, err error) error {
	e.mu.Lock()
	e.message = apiclient.Message(err)
	e.settleErrorLocked()
	e.mu.Unlock()

	logging.FromContext(ctx).With("svc", "cart").Warn("cart_request_skipped", "status", 401, "reason", "no token")
	e.Guard.HandleUnauthorized(ctx, err)
	return err
}

func (e *Engine) begin() {
	e.mu.Lock()
	e.inflight++
	e.state = StateSyncing
	e.mu.Unlock()
}

func (e *Engine) settleLocked() {
	if e.inflight == 0 {
		e.state = StateReady
	}
}

func (e *Engine) settleErrorLocked() {
	if e.inflight == 0 {
		e.state = StateError
	}
}

func (e *Engine) markModifiedLocked() {
	if e.inflight == 0 {
		e.state = StateLocallyModified
	}
}

func (e *Engine) copyLinesLocked() []models.CartLine {
	out := make([]models.CartLine, len(e.lines))
	copy(out, e.lines)
	return out
}
