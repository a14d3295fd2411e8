package transport

import "simulador_solar_backend/internal/leads/gateway"

// ToLeadResponse maps a gateway lead to its API shape.
func ToLeadResponse(l gateway.Lead) LeadResponse {
	warnings := l.Warnings
	if warnings == nil {
		warnings = []string{}
	}
	return LeadResponse{
		ID:                      l.ID,
		CreatedAt:               l.CreatedAt,
		SessionID:               l.SessionID,
		Status:                  string(l.Status),
		PostalCode:              l.PostalCode,
		City:                    l.City,
		State:                   l.State,
		MonthlyBillAmount:       l.MonthlyBillAmount,
		ConnectionType:          l.ConnectionType,
		RoofType:                l.RoofType,
		FullName:                l.FullName,
		PhoneNumber:             l.PhoneNumber,
		PhoneE164:               l.PhoneE164,
		Email:                   l.Email,
		SystemSizeKWp:           l.SystemSizeKWp,
		EstimatedMonthlySavings: l.EstimatedMonthlySavings,
		DisqualificationReason:  l.DisqualificationReason,
		Warnings:                warnings,
		Attribution: AttributionResponse{
			Source:   l.Source,
			Medium:   l.Medium,
			Campaign: l.Campaign,
			Term:     l.Term,
			Content:  l.Content,
		},
		Placeholder: l.Placeholder,
	}
}
