package queue

const (
	TypeFeeRecalc         = "fees:recalculate"
	TypeSubscriptionSweep = "subscriptions:sweep"
)

// FeeRecalcPayload identifies the logs affected by a contract change:
// the contract owner's logs for the company inside the validity window.
type FeeRecalcPayload struct {
	ContractID int64   `json:"contract_id"`
	CompanyID  int64   `json:"company_id"`
	OwnerID    string  `json:"owner_id"`
	From       string  `json:"from"`
	To         *string `json:"to,omitempty"` // nil = open-ended
}

type SubscriptionSweepPayload struct{}
