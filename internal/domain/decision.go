package domain

import "github.com/google/uuid"

// DecisionAction is the outcome of reconciling one record against state.
type DecisionAction string

const (
	ActionCreate DecisionAction = "create"
	ActionUpdate DecisionAction = "update"
	ActionSkip   DecisionAction = "skip"
)

// Decision captures the reconciliation outcome for a single record before it
// is applied. Separating decide from apply keeps the decision logic testable
// without a database.
type Decision struct {
	Action           DecisionAction `json:"action"`
	Record           ValidatedRecord `json:"record"`
	CompanyID        uuid.UUID      `json:"company_id"`
	ExistingItemID   uuid.UUID      `json:"existing_item_id,omitempty"`
	PreviousQuantity int64          `json:"previous_quantity"`
	NewQuantity      int64          `json:"new_quantity"`
	QuantityDelta    int64          `json:"quantity_delta"`
	Reason           string         `json:"reason,omitempty"`
	Error            string         `json:"error,omitempty"`
}
