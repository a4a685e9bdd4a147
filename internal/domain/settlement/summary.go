package settlement

import "github.com/shopspring/decimal"

type StatusRow struct {
	Status             string          `json:"status"`
	Count              int             `json:"count"`
	ProfessionalAmount decimal.Decimal `json:"professional_amount"`
	TotalAmount        decimal.Decimal `json:"total_amount"`
}

type Summary struct {
	ProfessionalID    uint        `json:"professional_id"`
	ByStatus          []StatusRow `json:"by_status"`
	PendingRenderings int64       `json:"pending_renderings"`
}
