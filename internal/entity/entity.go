package entity

import "time"

// BasicEntity carries the bookkeeping columns shared by mutable tables.
type BasicEntity struct {
	ID        string     `json:"id" bun:"id,pk"`
	CreatedAt time.Time  `json:"created_at" bun:"created_at"`
	UpdatedAt *time.Time `json:"updated_at,omitempty" bun:"updated_at"`
}

const (
	KindEntry  = "entry"
	KindExit   = "exit"
	KindManual = "manual"
)

const (
	ModeApp         = "app"
	ModeManual      = "manual"
	ModeSyncOffline = "sync_offline"
)

const (
	StatusPending  = "PENDING"
	StatusApproved = "APPROVED"
	StatusRejected = "REJECTED"
)
