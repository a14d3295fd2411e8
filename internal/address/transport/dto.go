package transport

// Address is a resolved Brazilian postal address. Street is empty for city-wide CEPs.
type Address struct {
	CEP      string `json:"cep"`
	City     string `json:"city"`
	State    string `json:"state"`
	District string `json:"district"`
	Street   string `json:"street,omitempty"`
}

// LookupResponse is returned by GET /address/:cep.
type LookupResponse struct {
	Address
	Cached bool `json:"cached"`
}
