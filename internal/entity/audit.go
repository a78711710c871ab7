package entity

import (
	"time"

	"github.com/uptrace/bun"
)

// AuditLog entries are append only.
type AuditLog struct {
	bun.BaseModel `bun:"table:audit_log,alias:al"`

	ID        string                 `json:"id" bun:"id,pk"`
	ActorID   *string                `json:"actor_id" bun:"actor_id"`
	Entity    string                 `json:"entity" bun:"entity"`
	EntityID  *string                `json:"entity_id" bun:"entity_id"`
	Action    string                 `json:"action" bun:"action"`
	Detail    map[string]interface{} `json:"detail" bun:"detail,type:jsonb"`
	IP        *string                `json:"ip" bun:"ip"`
	CreatedAt time.Time              `json:"created_at" bun:"created_at"`
}

// RevealGrant records every PII disclosure request. It is retained
// independently of the audit log.
type RevealGrant struct {
	bun.BaseModel `bun:"table:reveal_grant,alias:rg"`

	ID          string    `json:"id" bun:"id,pk"`
	RequesterID string    `json:"requester_id" bun:"requester_id"`
	TargetID    string    `json:"target_id" bun:"target_id"`
	Reason      string    `json:"reason" bun:"reason"`
	CreatedAt   time.Time `json:"created_at" bun:"created_at"`
}
