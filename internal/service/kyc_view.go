package service

import (
	"context"
	"log/slog"
	"sync"

	"admin_go/internal/backend"
	"admin_go/internal/domain"
	"admin_go/internal/infra"
)

// KYCView drives the identity review panel. KYC submissions arrive as a
// single unpaged list; each record carries document URLs that are
// fetched and thumbnailed lazily when the reviewer opens a detail view.
type KYCView struct {
	mu        sync.RWMutex
	api       *backend.Client
	docs      *infra.DocStore
	approvals *Approvals
	records   []domain.KYCRecord
	logger    *slog.Logger
}

func NewKYCView(api *backend.Client, docs *infra.DocStore, approvals *Approvals, logger *slog.Logger) *KYCView {
	return &KYCView{
		api:       api,
		docs:      docs,
		approvals: approvals,
		logger:    logger.With("module", "kyc_view"),
	}
}

// Refresh reloads the full submission list.
func (v *KYCView) Refresh(ctx context.Context) error {
	records, err := v.api.ListKYC(ctx)
	if err != nil {
		return err
	}
	v.mu.Lock()
	v.records = records
	v.mu.Unlock()
	return nil
}

// Records returns a copy of the current list.
func (v *KYCView) Records() []domain.KYCRecord {
	v.mu.RLock()
	defer v.mu.RUnlock()
	out := make([]domain.KYCRecord, len(v.records))
	copy(out, v.records)
	return out
}

// PendingCount counts submissions still awaiting review.
func (v *KYCView) PendingCount() int {
	n := 0
	for _, r := range v.Records() {
		if r.Status == domain.StatusPending {
			n++
		}
	}
	return n
}

// Detail fetches one submission and caches local thumbnails for its
// documents. A failed thumbnail is logged and skipped; the review can
// proceed from the original URLs.
func (v *KYCView) Detail(ctx context.Context, id string) (domain.KYCRecord, map[string]string, error) {
	record, err := v.api.GetKYC(ctx, id)
	if err != nil {
		return domain.KYCRecord{}, nil, err
	}

	previews := make(map[string]string, len(record.Documents))
	for _, doc := range record.Documents {
		path, err := v.docs.FetchPreview(ctx, record.ID, doc.Label, doc.URL)
		if err != nil {
			v.logger.Warn("document preview failed", "kyc", record.ID, "doc", doc.Label, "error", err)
			continue
		}
		previews[doc.Label] = path
	}
	return *record, previews, nil
}

// Review approves or rejects a pending submission, then refetches the
// list. Rejections carry the reviewer's notes so the user learns why.
func (v *KYCView) Review(ctx context.Context, record domain.KYCRecord, target domain.Status, notes string) error {
	if target == domain.StatusRejected && notes == "" {
		return &domain.PreconditionError{
			Resource: "kyc",
			ID:       record.ID,
			Reason:   "a rejection must state the reason",
		}
	}
	res := Resolution{
		Resource: "kyc",
		ID:       record.ID,
		Current:  record.Status,
		Target:   target,
		Notes:    notes,
	}
	err := v.approvals.Resolve(ctx, res, func(ctx context.Context, id string, status domain.Status, notes string) error {
		return v.api.ReviewKYC(ctx, id, status, notes)
	}, v.Refresh)
	if err != nil {
		return err
	}
	v.logger.Info("kyc reviewed", "id", record.ID, "target", string(target))
	return nil
}

// Reviewing reports whether a review for this record is in flight.
func (v *KYCView) Reviewing(id string) bool {
	return v.approvals.InFlight("kyc", id)
}
