package domain

// SubFlowState is the step of the guided partner-data collection.
type SubFlowState string

const (
	SubFlowIdle                     SubFlowState = "idle"
	SubFlowAwaitingPartnerName      SubFlowState = "awaiting_partner_name"
	SubFlowAwaitingPartnerBirthDate SubFlowState = "awaiting_partner_birth_date"
)
