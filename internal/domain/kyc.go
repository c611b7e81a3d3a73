package domain

import "time"

// KYCDocument points at an identity document image held by the backend.
type KYCDocument struct {
	Label string `json:"label"` // "pan_card", "aadhaar_front", ...
	URL   string `json:"url"`
}

// KYCRecord is an identity-verification submission under admin review.
type KYCRecord struct {
	ID          string        `json:"id"`
	User        UserRef       `json:"user"`
	PAN         string        `json:"pan,omitempty"`
	Aadhaar     string        `json:"aadhaar,omitempty"`
	DateOfBirth string        `json:"dateOfBirth,omitempty"`
	Address     string        `json:"address,omitempty"`
	City        string        `json:"city,omitempty"`
	State       string        `json:"state,omitempty"`
	PinCode     string        `json:"pinCode,omitempty"`
	Documents   []KYCDocument `json:"documents,omitempty"`
	Status      Status        `json:"status"`
	AdminNotes  string        `json:"adminNotes,omitempty"`
	SubmittedAt time.Time     `json:"submittedAt"`
	ReviewedAt  *time.Time    `json:"reviewedAt,omitempty"`
}

// Reviewable reports whether the console may offer a review action.
func (k *KYCRecord) Reviewable() bool {
	return k.Status == StatusPending
}
