// Package client provides the HTTP client for the CEP address service.
// The service contract is GET <base>/<digits>; a base containing {cep} is used as a
// template instead, which is how the ViaCEP default is expressed.
package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"simulador_solar_backend/internal/address/transport"
	"simulador_solar_backend/internal/simulator/validation"
	"simulador_solar_backend/platform/apperr"
	"simulador_solar_backend/platform/config"
	"simulador_solar_backend/platform/logger"
	"simulador_solar_backend/platform/retry"
)

const (
	CodeNotFound     apperr.Code = "NOT_FOUND"
	CodeNetworkError apperr.Code = "NETWORK_ERROR"
	CodeUnknown      apperr.Code = "UNKNOWN_ERROR"

	// CEPPlaceholder marks where the digits go in a templated base URL.
	CEPPlaceholder    = "{cep}"
	DefaultBaseURL    = "https://viacep.com.br/ws/" + CEPPlaceholder + "/json/"
	DefaultTimeout    = 5 * time.Second
	DefaultRetries    = 2
	DefaultRetryDelay = time.Second

	msgNotFound     = "CEP não encontrado. Preencha o endereço manualmente."
	msgNetworkError = "Não foi possível consultar o CEP. Verifique sua conexão e tente novamente."
)

// Options configures the client.
type Options struct {
	BaseURL    string
	Timeout    time.Duration
	Retries    int
	RetryDelay time.Duration
	HTTPClient *http.Client
}

// OptionsFromConfig reads client options from the address config.
func OptionsFromConfig(cfg config.AddressConfig) Options {
	return Options{
		BaseURL:    cfg.GetAddressServiceURL(),
		Timeout:    cfg.GetAddressLookupTimeout(),
		Retries:    cfg.GetAddressLookupRetries(),
		RetryDelay: cfg.GetAddressLookupRetryDelay(),
	}
}

// Client resolves CEPs against the address service.
type Client struct {
	httpClient *http.Client
	baseURL    string
	timeout    time.Duration
	policy     retry.Policy
	log        *logger.Logger
}

// SafeResult is the non-failing form of Lookup: exactly one of Data and Err is set.
type SafeResult struct {
	Data *transport.Address
	Err  *apperr.Error
}

// New creates a client. Zero option values fall back to the defaults.
func New(opts Options, log *logger.Logger) *Client {
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.Retries < 0 {
		opts.Retries = DefaultRetries
	}
	if opts.RetryDelay <= 0 {
		opts.RetryDelay = DefaultRetryDelay
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{}
	}
	if log == nil {
		log = logger.Discard()
	}

	c := &Client{
		httpClient: opts.HTTPClient,
		baseURL:    opts.BaseURL,
		timeout:    opts.Timeout,
		log:        log,
	}
	c.policy = retry.Policy{
		Attempts:  opts.Retries + 1,
		BaseDelay: opts.RetryDelay,
		Backoff:   retry.Linear,
		Retryable: isTransient,
		OnFailure: func(attempt int, err error) {
			c.log.ExternalCallFailed("address", "lookup", attempt, err)
		},
	}
	return c
}

// Lookup resolves a CEP. Malformed input fails with INVALID_CEP before any request is made;
// HTTP 404 fails with NOT_FOUND; timeouts, transport failures and malformed bodies fail
// with NETWORK_ERROR after the configured retries.
func (c *Client) Lookup(ctx context.Context, cep string) (transport.Address, error) {
	if err := validation.ValidateCEP(cep); err != nil {
		return transport.Address{}, err
	}
	digits := validation.CleanCEP(cep)

	var addr transport.Address
	err := retry.Do(ctx, c.policy, func(ctx context.Context) error {
		var err error
		addr, err = c.fetch(ctx, digits)
		return err
	})
	if err != nil {
		var domainErr *apperr.Error
		if errors.As(err, &domainErr) {
			return transport.Address{}, domainErr
		}
		return transport.Address{}, networkError(err)
	}
	return addr, nil
}

// SafeLookup is Lookup returning the failure as a value.
func (c *Client) SafeLookup(ctx context.Context, cep string) SafeResult {
	addr, err := c.Lookup(ctx, cep)
	if err != nil {
		var domainErr *apperr.Error
		if !errors.As(err, &domainErr) {
			domainErr = apperr.Coded(apperr.KindInternal, CodeUnknown, "Erro inesperado ao consultar o CEP.").WithErr(err)
		}
		return SafeResult{Err: domainErr}
	}
	return SafeResult{Data: &addr}
}

func (c *Client) fetch(ctx context.Context, digits string) (transport.Address, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.requestURL(digits), nil)
	if err != nil {
		return transport.Address{}, networkError(fmt.Errorf("create request: %w", err))
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return transport.Address{}, networkError(fmt.Errorf("http request: %w", err))
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusNotFound:
		return transport.Address{}, notFound(digits)
	default:
		return transport.Address{}, networkError(fmt.Errorf("upstream error: status %d", resp.StatusCode))
	}

	var body apiAddress
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return transport.Address{}, networkError(fmt.Errorf("decode response: %w", err))
	}
	if body.missing() {
		return transport.Address{}, notFound(digits)
	}

	addr := body.toTransport()
	if addr.City == "" || addr.State == "" || addr.CEP == "" {
		return transport.Address{}, networkError(errors.New("malformed response: missing cep, city or state"))
	}
	return addr, nil
}

// requestURL substitutes the digits into a templated base, or appends them as the
// last path segment.
func (c *Client) requestURL(digits string) string {
	if strings.Contains(c.baseURL, CEPPlaceholder) {
		return strings.ReplaceAll(c.baseURL, CEPPlaceholder, digits)
	}
	return strings.TrimRight(c.baseURL, "/") + "/" + digits
}

// apiAddress accepts both the ViaCEP field names and the English names used by the
// same-origin proxy.
type apiAddress struct {
	CEP        string      `json:"cep"`
	Localidade string      `json:"localidade"`
	City       string      `json:"city"`
	UF         string      `json:"uf"`
	State      string      `json:"state"`
	Bairro     string      `json:"bairro"`
	District   string      `json:"district"`
	Logradouro string      `json:"logradouro"`
	Street     string      `json:"street"`
	Erro       interface{} `json:"erro"`
}

// missing reports ViaCEP's 200 response for unknown CEPs: {"erro": true} (or "true").
func (a apiAddress) missing() bool {
	switch v := a.Erro.(type) {
	case bool:
		return v
	case string:
		return strings.EqualFold(v, "true")
	}
	return false
}

func (a apiAddress) toTransport() transport.Address {
	addr := transport.Address{
		City:     firstNonEmpty(a.Localidade, a.City),
		State:    strings.ToUpper(firstNonEmpty(a.UF, a.State)),
		District: firstNonEmpty(a.Bairro, a.District),
		Street:   firstNonEmpty(a.Logradouro, a.Street),
	}
	if cep, err := validation.FormatCEP(a.CEP); err == nil {
		addr.CEP = cep
	}
	return addr
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

func notFound(digits string) *apperr.Error {
	return apperr.Coded(apperr.KindNotFound, CodeNotFound, msgNotFound).
		WithOp("address.lookup").
		WithDetails(map[string]string{"cep": digits})
}

func networkError(err error) *apperr.Error {
	return apperr.Coded(apperr.KindUnavailable, CodeNetworkError, msgNetworkError).
		WithOp("address.lookup").
		WithErr(err)
}

// isTransient retries NETWORK_ERROR only; NOT_FOUND and INVALID_CEP are final.
func isTransient(err error) bool {
	return apperr.HasCode(err, CodeNetworkError)
}
