package session

import (
	"net/url"
	"strings"

	"simulador_solar_backend/internal/simulator/domain"
)

const maxAttributionValue = 255

// AttributionFromQuery reads the utm_* parameters of a landing URL.
func AttributionFromQuery(q url.Values) domain.Attribution {
	return domain.Attribution{
		Source:   clip(q.Get("utm_source")),
		Medium:   clip(q.Get("utm_medium")),
		Campaign: clip(q.Get("utm_campaign")),
		Term:     clip(q.Get("utm_term")),
		Content:  clip(q.Get("utm_content")),
	}
}

func clip(s string) string {
	s = strings.TrimSpace(s)
	if r := []rune(s); len(r) > maxAttributionValue {
		s = string(r[:maxAttributionValue])
	}
	return s
}
