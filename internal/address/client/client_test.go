package client

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"simulador_solar_backend/internal/simulator/validation"
	"simulador_solar_backend/platform/apperr"
)

func newTestClient(url string, retries int, timeout time.Duration) *Client {
	return New(Options{
		BaseURL:    url,
		Timeout:    timeout,
		Retries:    retries,
		RetryDelay: time.Millisecond,
	}, nil)
}

func serve(t *testing.T, calls *atomic.Int32, fn http.HandlerFunc) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		fn(w, r)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestLookupViaCEPShape(t *testing.T) {
	var calls atomic.Int32
	var path string
	srv := serve(t, &calls, func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"cep":"01310-100","logradouro":"Avenida Paulista","bairro":"Bela Vista","localidade":"São Paulo","uf":"SP"}`))
	})

	addr, err := newTestClient(srv.URL+"/ws/"+CEPPlaceholder+"/json/", 2, time.Second).Lookup(context.Background(), "01310100")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if path != "/ws/01310100/json/" {
		t.Fatalf("unexpected request path %q", path)
	}
	if addr.CEP != "01310-100" || addr.City != "São Paulo" || addr.State != "SP" || addr.District != "Bela Vista" || addr.Street != "Avenida Paulista" {
		t.Fatalf("unexpected address %+v", addr)
	}
}

func TestLookupProxyShape(t *testing.T) {
	var calls atomic.Int32
	srv := serve(t, &calls, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/cep/20040020" {
			http.NotFound(w, r)
			return
		}
		_, _ = w.Write([]byte(`{"cep":"20040020","city":"Rio de Janeiro","state":"rj","district":"Centro"}`))
	})

	addr, err := newTestClient(srv.URL+"/api/cep/", 0, time.Second).Lookup(context.Background(), "20040-020")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if addr.CEP != "20040-020" || addr.State != "RJ" || addr.Street != "" {
		t.Fatalf("unexpected address %+v", addr)
	}
}

func TestMalformedCEPSkipsNetwork(t *testing.T) {
	var calls atomic.Int32
	srv := serve(t, &calls, func(w http.ResponseWriter, r *http.Request) {})

	_, err := newTestClient(srv.URL, 2, time.Second).Lookup(context.Background(), "1234")
	if !apperr.HasCode(err, validation.CodeInvalidCEP) {
		t.Fatalf("expected INVALID_CEP, got %v", err)
	}
	if calls.Load() != 0 {
		t.Fatalf("expected no request, got %d", calls.Load())
	}
}

func TestNotFoundIsTerminal(t *testing.T) {
	var calls atomic.Int32
	srv := serve(t, &calls, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	_, err := newTestClient(srv.URL, 2, time.Second).Lookup(context.Background(), "99999-999")
	if !apperr.HasCode(err, CodeNotFound) {
		t.Fatalf("expected NOT_FOUND, got %v", err)
	}
	if calls.Load() != 1 {
		t.Fatalf("NOT_FOUND must not be retried, got %d calls", calls.Load())
	}
}

func TestViaCEPErroBodyIsNotFound(t *testing.T) {
	var calls atomic.Int32
	srv := serve(t, &calls, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"erro": true}`))
	})

	_, err := newTestClient(srv.URL, 2, time.Second).Lookup(context.Background(), "99999999")
	if !apperr.HasCode(err, CodeNotFound) {
		t.Fatalf("expected NOT_FOUND, got %v", err)
	}
	if calls.Load() != 1 {
		t.Fatalf("expected a single call, got %d", calls.Load())
	}
}

func TestServerErrorRetriedThenNetworkError(t *testing.T) {
	var calls atomic.Int32
	srv := serve(t, &calls, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	_, err := newTestClient(srv.URL, 2, time.Second).Lookup(context.Background(), "01310100")
	if !apperr.HasCode(err, CodeNetworkError) {
		t.Fatalf("expected NETWORK_ERROR, got %v", err)
	}
	if apperr.GetKind(err) != apperr.KindUnavailable {
		t.Fatalf("expected unavailable kind")
	}
	if calls.Load() != 3 {
		t.Fatalf("expected 3 attempts, got %d", calls.Load())
	}
}

func TestTransientFailureRecovers(t *testing.T) {
	var calls atomic.Int32
	srv := serve(t, &calls, func(w http.ResponseWriter, r *http.Request) {
		if calls.Load() < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(`{"cep":"01310-100","localidade":"São Paulo","uf":"SP"}`))
	})

	addr, err := newTestClient(srv.URL, 2, time.Second).Lookup(context.Background(), "01310100")
	if err != nil {
		t.Fatalf("expected recovery on third attempt: %v", err)
	}
	if addr.City != "São Paulo" {
		t.Fatalf("unexpected address %+v", addr)
	}
}

func TestMalformedResponseIsNetworkError(t *testing.T) {
	var calls atomic.Int32
	srv := serve(t, &calls, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"cep":"01310-100","localidade":"","uf":"SP"}`))
	})

	_, err := newTestClient(srv.URL, 1, time.Second).Lookup(context.Background(), "01310100")
	if !apperr.HasCode(err, CodeNetworkError) {
		t.Fatalf("expected NETWORK_ERROR, got %v", err)
	}
	if calls.Load() != 2 {
		t.Fatalf("expected retry of malformed response, got %d calls", calls.Load())
	}
}

func TestTimeoutIsNetworkError(t *testing.T) {
	var calls atomic.Int32
	srv := serve(t, &calls, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	})

	start := time.Now()
	_, err := newTestClient(srv.URL, 0, 50*time.Millisecond).Lookup(context.Background(), "01310100")
	if !apperr.HasCode(err, CodeNetworkError) {
		t.Fatalf("expected NETWORK_ERROR on timeout, got %v", err)
	}
	if time.Since(start) > time.Second {
		t.Fatalf("timeout did not abort the request")
	}
}

func TestSafeLookup(t *testing.T) {
	var calls atomic.Int32
	srv := serve(t, &calls, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	c := newTestClient(srv.URL, 0, time.Second)

	res := c.SafeLookup(context.Background(), "01310100")
	if res.Data != nil || res.Err == nil || res.Err.Code != CodeNotFound {
		t.Fatalf("unexpected safe result %+v", res)
	}

	res = c.SafeLookup(context.Background(), "abc")
	if res.Err == nil || res.Err.Code != validation.CodeInvalidCEP {
		t.Fatalf("expected INVALID_CEP in safe result, got %+v", res)
	}
}

func TestDefaultBaseURLIsViaCEPTemplate(t *testing.T) {
	c := New(Options{}, nil)
	if got := c.requestURL("01310100"); got != "https://viacep.com.br/ws/01310100/json/" {
		t.Fatalf("unexpected default url %q", got)
	}
}
