package adapters

import (
	"simulador_solar_backend/internal/leads/gateway"
	"simulador_solar_backend/internal/simulator/message"
)

// SalesLinker builds the click-to-chat link the sales team uses to open a
// conversation with a stored lead. It implements leads/handler.OutreachLinker.
type SalesLinker struct {
	formatter *message.Formatter
}

func NewSalesLinker(formatter *message.Formatter) *SalesLinker {
	return &SalesLinker{formatter: formatter}
}

// SalesLink returns the lead's WhatsApp number and a greeting deep link.
func (l *SalesLinker) SalesLink(lead gateway.Lead) (string, string) {
	phone := message.NormalizePhone(lead.PhoneNumber)
	text := message.Greeting(lead.FullName, lead.SystemSizeKWp, lead.EstimatedMonthlySavings)
	return phone, l.formatter.DeepLink(phone, text)
}
