package service

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"admin_go/internal/domain"
	"admin_go/internal/infra"
)

// Resolver issues the single mutating request that drives one record to a
// terminal status.
type Resolver func(ctx context.Context, id string, status domain.Status, notes string) error

// Resolution describes one admin decision on one pending record.
type Resolution struct {
	Resource string // "deposit", "withdrawal", "kyc"
	ID       string
	Current  domain.Status
	Target   domain.Status
	Notes    string
}

// Approvals runs the approval workflow: pending records get exactly one
// shot at a terminal status. The same machine serves plain transfers,
// trade requests, and KYC records; the record kind never changes which
// transitions are legal.
type Approvals struct {
	mu       sync.Mutex
	inFlight map[string]bool
	logger   *slog.Logger
}

// NewApprovals creates the workflow service.
func NewApprovals() *Approvals {
	return &Approvals{
		inFlight: make(map[string]bool),
		logger:   slog.Default().With("module", "approvals"),
	}
}

// Resolve drives one pending record to res.Target. Preconditions are
// checked before any network write: the record must be pending, the
// target must be legal for the resource, and no resolution for the same
// record may be outstanding. On success the owning list is refreshed; on
// failure local state is left untouched and the error is returned for the
// operator. The mutating request is issued exactly once, never retried.
func (a *Approvals) Resolve(ctx context.Context, res Resolution, resolve Resolver, refresh func(context.Context) error) error {
	if res.Current != domain.StatusPending {
		return &domain.PreconditionError{
			Resource: res.Resource,
			ID:       res.ID,
			Reason:   fmt.Sprintf("already %s, no further transition permitted", res.Current),
		}
	}
	if !a.validTarget(res) {
		return &domain.PreconditionError{
			Resource: res.Resource,
			ID:       res.ID,
			Reason:   fmt.Sprintf("illegal target status %q", res.Target),
		}
	}

	key := res.Resource + ":" + res.ID
	a.mu.Lock()
	if a.inFlight[key] {
		a.mu.Unlock()
		return domain.ErrResolutionInFlight
	}
	a.inFlight[key] = true
	a.mu.Unlock()

	defer func() {
		a.mu.Lock()
		delete(a.inFlight, key)
		a.mu.Unlock()
	}()

	if err := resolve(ctx, res.ID, res.Target, res.Notes); err != nil {
		a.logger.Warn("resolution failed",
			"resource", res.Resource, "id", res.ID, "target", res.Target,
			"error", err)
		return err
	}

	infra.GlobalMetrics.RecordResolution()
	a.logger.Info("record resolved",
		"resource", res.Resource, "id", res.ID, "target", res.Target)

	// The write committed; a refresh failure only leaves the list stale,
	// so it must not read as a failed resolution to the operator.
	if refresh != nil {
		if err := refresh(ctx); err != nil {
			a.logger.Warn("list refresh after resolution failed",
				"resource", res.Resource, "id", res.ID, "error", err)
		}
	}
	return nil
}

// InFlight reports whether a resolution for the record is outstanding,
// so the action control can be disabled while one runs.
func (a *Approvals) InFlight(resource, id string) bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.inFlight[resource+":"+id]
}

func (a *Approvals) validTarget(res Resolution) bool {
	if res.Resource == "kyc" {
		return domain.ValidKYCTarget(res.Target)
	}
	return domain.ValidFundTarget(res.Target)
}
