// Package message renders the WhatsApp outreach message for a qualified simulation.
package message

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"simulador_solar_backend/internal/simulator/domain"
	"simulador_solar_backend/internal/simulator/qualification"

	"github.com/dustin/go-humanize"
)

const (
	// DefaultDeepLinkBase is the public WhatsApp click-to-chat host.
	DefaultDeepLinkBase = "https://wa.me"
	countryCode         = "55"

	header     = "☀️ *Simulação de Energia Solar*"
	closing    = "Gostaria de receber uma proposta personalizada. Aguardo o contato!"
	Disclaimer = "_Mensagem gerada automaticamente pelo simulador solar._"
)

var nonDigit = regexp.MustCompile(`\D`)

// Message is the outreach payload: destination phone, text and the click-to-chat link.
type Message struct {
	Phone       string `json:"phone"`
	Text        string `json:"text"`
	DeepLinkURL string `json:"deepLinkUrl"`
}

// Formatter builds outreach messages for one deep-link host.
type Formatter struct {
	base string
}

// NewFormatter creates a formatter. An empty base uses DefaultDeepLinkBase.
func NewFormatter(base string) *Formatter {
	base = strings.TrimRight(strings.TrimSpace(base), "/")
	if base == "" {
		base = DefaultDeepLinkBase
	}
	return &Formatter{base: base}
}

// Format renders the message for a lead and its qualification result.
func (f *Formatter) Format(lead domain.LeadData, res qualification.Result) Message {
	phone := NormalizePhone(lead.PhoneNumber)
	text := Text(lead, res)
	return Message{
		Phone:       phone,
		Text:        text,
		DeepLinkURL: f.DeepLink(phone, text),
	}
}

// DeepLink builds <base>/<phone>?text=<escaped text>. Spaces are encoded as %20 so
// both query and path unescaping reproduce the text.
func (f *Formatter) DeepLink(phone, text string) string {
	escaped := strings.ReplaceAll(url.QueryEscape(text), "+", "%20")
	return f.base + "/" + phone + "?text=" + escaped
}

// NormalizePhone keeps digits only and prefixes the Brazilian country code when missing.
func NormalizePhone(raw string) string {
	digits := nonDigit.ReplaceAllString(raw, "")
	if digits == "" || strings.HasPrefix(digits, countryCode) {
		return digits
	}
	return countryCode + digits
}

// Text renders the fixed-structure message body. The last line is always Disclaimer.
func Text(lead domain.LeadData, res qualification.Result) string {
	var b strings.Builder

	line := func(format string, args ...interface{}) {
		fmt.Fprintf(&b, format, args...)
		b.WriteByte('\n')
	}

	line("%s", header)
	line("Nome: %s", strings.TrimSpace(lead.FullName))
	line("Localização: %s/%s", strings.TrimSpace(lead.City), strings.ToUpper(strings.TrimSpace(lead.State)))
	line("Conta de luz: %s", Currency(lead.MonthlyBillAmount))
	line("Tipo de ligação: %s", lead.ConnectionType.Label())
	line("Tipo de telhado: %s", lead.RoofType.Label())
	line("")
	line("📊 *Análise do sistema*")
	line("Potência estimada: %s kWp", KWp(res.SystemSizeKWp))
	line("Economia estimada: %s/mês", Currency(res.EstimatedMonthlySavings))
	line("Pacote: %s", res.PackageTier.Label())

	if len(res.Warnings) > 0 {
		line("")
		line("⚠️ *Observações*")
		for _, w := range res.Warnings {
			line("• %s", w)
		}
	}

	line("")
	line("%s", closing)
	b.WriteString(Disclaimer)
	return b.String()
}

// Currency renders an amount as R$ with dot thousands and comma decimals, e.g. R$ 1.234,50.
func Currency(amount float64) string {
	if amount < 0 {
		return "-R$ " + humanize.FormatFloat("#.###,##", -amount)
	}
	return "R$ " + humanize.FormatFloat("#.###,##", amount)
}

// KWp renders a system size with one decimal and a comma separator.
func KWp(size float64) string {
	return humanize.FormatFloat("#.###,#", size)
}

// Greeting is the opening message the sales team sends to a simulator lead.
func Greeting(fullName string, systemSizeKWp, monthlySavings float64) string {
	name := strings.TrimSpace(fullName)
	if first, _, ok := strings.Cut(name, " "); ok {
		name = first
	}
	return fmt.Sprintf("Olá %s! Recebemos sua simulação de energia solar (%s kWp, economia estimada de %s/mês). Podemos conversar sobre sua proposta?",
		name, KWp(systemSizeKWp), Currency(monthlySavings))
}
