// File: internal/client/view.go
package client

import (
	"context"
	"errors"
	"sync"

	"legacyvault/internal/asset"
	"legacyvault/internal/common"
	"legacyvault/internal/shared"
)

type State string

const (
	StateIdle            State = "idle"
	StateCheckingSession State = "checking-session"
	StateUnauthenticated State = "unauthenticated"
	StateLoading         State = "loading"
	StateEmpty           State = "empty"
	StatePopulated       State = "populated"
	StateFetchError      State = "fetch-error"
	StateSubmitting      State = "submitting"
	StateSubmitError     State = "submit-error"
)

// ErrNotReady is returned by Submit outside the empty and populated states.
var ErrNotReady = errors.New("view is not ready for input")

// Backend is what a protected view needs from the API.
type Backend interface {
	Me(ctx context.Context) (*shared.Identity, error)
	ListAssets(ctx context.Context) (*asset.Listing, error)
}

// Snapshot is a copy of the view at one point in time.
type Snapshot struct {
	State      State
	Identity   *shared.Identity
	Listing    *asset.Listing
	Err        error
	Generation uint64
}

// View runs the session check, load and submit cycle of one protected view.
// Each Activate starts a new generation; results that come back for an older
// generation, or after Close, are dropped.
type View struct {
	backend  Backend
	onChange func(Snapshot)

	mu   sync.Mutex
	snap Snapshot
}

// NewView creates an idle view. onChange, if set, sees every applied transition;
// it runs with the view locked and must not call back into it.
func NewView(backend Backend, onChange func(Snapshot)) *View {
	return &View{backend: backend, onChange: onChange, snap: Snapshot{State: StateIdle}}
}

func (v *View) Snapshot() Snapshot {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.snap
}

// Close detaches the view; anything still in flight is discarded.
func (v *View) Close() {
	v.mu.Lock()
	v.snap.Generation++
	v.mu.Unlock()
}

// Activate re-derives the session and loads the listing from scratch.
func (v *View) Activate(ctx context.Context) Snapshot {
	v.mu.Lock()
	v.snap.Generation++
	gen := v.snap.Generation
	v.snap = Snapshot{State: StateCheckingSession, Generation: gen}
	v.notifyLocked()
	v.mu.Unlock()

	identity, err := v.backend.Me(ctx)
	if err != nil {
		state := StateFetchError
		if errors.Is(err, common.ErrUnauthenticated) {
			state = StateUnauthenticated
		}
		v.apply(gen, func(s *Snapshot) {
			s.State = state
			s.Err = err
		})
		return v.Snapshot()
	}

	if !v.apply(gen, func(s *Snapshot) {
		s.Identity = identity
		s.State = StateLoading
	}) {
		return v.Snapshot()
	}
	v.load(ctx, gen)
	return v.Snapshot()
}

// Submit runs a write from the empty or populated state. Success reloads the
// listing; failure leaves the view in submit-error with the error kept.
func (v *View) Submit(ctx context.Context, write func(ctx context.Context) error) (Snapshot, error) {
	v.mu.Lock()
	if v.snap.State != StateEmpty && v.snap.State != StatePopulated && v.snap.State != StateSubmitError {
		snap := v.snap
		v.mu.Unlock()
		return snap, ErrNotReady
	}
	gen := v.snap.Generation
	v.snap.State = StateSubmitting
	v.snap.Err = nil
	v.notifyLocked()
	v.mu.Unlock()

	if err := write(ctx); err != nil {
		v.apply(gen, func(s *Snapshot) {
			s.State = StateSubmitError
			s.Err = err
		})
		return v.Snapshot(), nil
	}

	if v.apply(gen, func(s *Snapshot) { s.State = StateLoading }) {
		v.load(ctx, gen)
	}
	return v.Snapshot(), nil
}

func (v *View) load(ctx context.Context, gen uint64) {
	listing, err := v.backend.ListAssets(ctx)
	v.apply(gen, func(s *Snapshot) {
		switch {
		case err != nil:
			s.State = StateFetchError
			s.Listing = nil
			s.Err = err
		case listing.State == asset.ListingEmpty:
			s.State = StateEmpty
			s.Listing = listing
			s.Err = nil
		default:
			s.State = StatePopulated
			s.Listing = listing
			s.Err = nil
		}
	})
}

// apply runs fn only if gen is still current.
func (v *View) apply(gen uint64, fn func(*Snapshot)) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	if gen != v.snap.Generation {
		return false
	}
	fn(&v.snap)
	v.notifyLocked()
	return true
}

func (v *View) notifyLocked() {
	if v.onChange != nil {
		v.onChange(v.snap)
	}
}
