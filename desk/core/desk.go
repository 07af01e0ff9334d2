package core

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	v1 "jget.app/jget/crm/v1"
)

// Mirror persists last confirmed views across restarts. The mirror store
// implements it.
type Mirror interface {
	SaveSnapshot(ctx context.Context, shiftID int, view any) error
	LoadSnapshot(ctx context.Context, shiftID int, dest any) (time.Time, error)
}

// Desk manages one reconciler per shift, hydrated on first use and kept
// for the life of the process.
type Desk struct {
	client  *v1.CrmClient
	journal Journal
	mirror  Mirror

	mu     sync.Mutex
	shifts map[int]*Reconciler
}

func NewDesk(client *v1.CrmClient, journal Journal, mirror Mirror) *Desk {
	return &Desk{
		client:  client,
		journal: journal,
		mirror:  mirror,
		shifts:  make(map[int]*Reconciler),
	}
}

// Client exposes the underlying CRM client for passthrough endpoints that
// need no reconciliation.
func (d *Desk) Client() *v1.CrmClient {
	return d.client
}

// Shift returns the reconciler for a shift, hydrating it on first access.
// When hydration fails and a mirror snapshot exists, the snapshot serves
// as the starting state until a later Refresh succeeds.
func (d *Desk) Shift(ctx context.Context, shiftID int) (*Reconciler, error) {
	d.mu.Lock()
	if r, ok := d.shifts[shiftID]; ok {
		d.mu.Unlock()
		return r, nil
	}
	d.mu.Unlock()

	r := NewReconciler(d.client, d.journal)
	if err := r.Hydrate(ctx, shiftID); err != nil {
		if d.mirror == nil {
			return nil, err
		}
		var view View
		if _, loadErr := d.mirror.LoadSnapshot(ctx, shiftID, &view); loadErr != nil {
			return nil, fmt.Errorf("hydrate failed (%v), no usable snapshot: %w", err, loadErr)
		}
		log.Printf("shift %d: hydrate failed, serving mirror snapshot: %v", shiftID, err)
		r.Restore(&view)
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if existing, ok := d.shifts[shiftID]; ok {
		return existing, nil
	}
	d.shifts[shiftID] = r
	return r, nil
}

// Refresh re-hydrates an already managed shift from the CRM.
func (d *Desk) Refresh(ctx context.Context, shiftID int) (*Reconciler, error) {
	r, err := d.Shift(ctx, shiftID)
	if err != nil {
		return nil, err
	}
	if err := r.Hydrate(ctx, shiftID); err != nil {
		return nil, err
	}
	d.Persist(ctx, r)
	return r, nil
}

// Persist snapshots the current view into the mirror. Best-effort: the
// view in memory is already confirmed upstream.
func (d *Desk) Persist(ctx context.Context, r *Reconciler) {
	if d.mirror == nil {
		return
	}
	view, err := r.Snapshot()
	if err != nil {
		return
	}
	if err := d.mirror.SaveSnapshot(ctx, view.ShiftID, view); err != nil {
		log.Printf("shift %d: snapshot save failed: %v", view.ShiftID, err)
	}
}
