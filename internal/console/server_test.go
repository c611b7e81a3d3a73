package console

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"admin_go/internal/backend"
	"admin_go/internal/domain"
	"admin_go/internal/infra"
	"admin_go/internal/infra/storage"
	"admin_go/internal/service"
)

// newTestConsole wires a full console against a fake admin backend.
func newTestConsole(t *testing.T, handler http.HandlerFunc) *Server {
	t.Helper()

	upstream := httptest.NewServer(handler)
	t.Cleanup(upstream.Close)

	cfg := &infra.Config{}
	cfg.Backend.BaseURL = upstream.URL
	cfg.Backend.RequestTimeoutSec = 5
	cfg.Console.ListenAddr = "localhost:0"
	cfg.Console.PageSize = 50
	cfg.Console.DefaultPageSize = 20
	cfg.Console.TrendDays = 7

	store, err := storage.NewStorage(t.TempDir())
	if err != nil {
		t.Fatalf("storage: %v", err)
	}

	logger := slog.Default()
	session := service.NewSession(store, logger)
	api := backend.NewClient(cfg, session.Token)
	docs, err := infra.NewDocStore(t.TempDir(), session.Token)
	if err != nil {
		t.Fatalf("doc store: %v", err)
	}

	approvals := service.NewApprovals()
	deps := Deps{
		API:         api,
		Session:     session,
		Users:       service.NewUsersView(api, cfg, logger),
		Deposits:    service.NewFundingView(api, cfg, domain.DirectionDeposit, approvals, logger),
		Withdrawals: service.NewFundingView(api, cfg, domain.DirectionWithdrawal, approvals, logger),
		Txs:         service.NewTransactionsView(api, cfg),
		KYC:         service.NewKYCView(api, docs, approvals, logger),
		Analytics:   service.NewAnalytics(api, cfg),
		Settings:    service.NewSettingsService(api, store, logger),
	}
	return NewServer(cfg, deps, logger)
}

func doLogin(t *testing.T, s *Server) {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/login",
		strings.NewReader(`{"username":"admin","password":"secret1"}`))
	rec := httptest.NewRecorder()
	s.handleLogin(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("login: status %d body %s", rec.Code, rec.Body.String())
	}
}

func TestConsole_AuthGate(t *testing.T) {
	s := newTestConsole(t, func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("backend must not be reached before login: %s", r.URL.Path)
	})

	rec := httptest.NewRecorder()
	s.auth(s.handleStats)(rec, httptest.NewRequest(http.MethodGet, "/api/stats", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status %d, want 401", rec.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("response was not json: %v", err)
	}
	if body["error"] == "" {
		t.Fatal("401 must carry an operator-facing message")
	}
}

func TestConsole_LoginThenStats(t *testing.T) {
	s := newTestConsole(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/login":
			if r.Header.Get("Authorization") != "" {
				t.Error("login must not carry a bearer token")
			}
			w.Write([]byte(`{"token":"tok-1"}`))
		case "/stats":
			if r.Header.Get("Authorization") != "Bearer tok-1" {
				t.Errorf("stats got auth %q", r.Header.Get("Authorization"))
			}
			w.Write([]byte(`{"totalUsers":12,"totalTransactions":3,"pendingDeposits":2,"pendingWithdrawals":1,"totalVolume":"4500"}`))
		default:
			http.NotFound(w, r)
		}
	})

	doLogin(t, s)

	rec := httptest.NewRecorder()
	s.auth(s.handleStats)(rec, httptest.NewRequest(http.MethodGet, "/api/stats", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("stats: status %d body %s", rec.Code, rec.Body.String())
	}
	var stats domain.Stats
	if err := json.Unmarshal(rec.Body.Bytes(), &stats); err != nil {
		t.Fatalf("decode stats: %v", err)
	}
	if stats.TotalUsers != 12 || stats.PendingDeposits != 2 {
		t.Fatalf("stats = %+v", stats)
	}
}

func TestConsole_BackendMessageSurfacesVerbatim(t *testing.T) {
	s := newTestConsole(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/login" {
			w.Write([]byte(`{"token":"tok-1"}`))
			return
		}
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"message":"deposit already resolved"}`))
	})

	doLogin(t, s)

	rec := httptest.NewRecorder()
	s.auth(s.handleStats)(rec, httptest.NewRequest(http.MethodGet, "/api/stats", nil))
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("status %d, want 502", rec.Code)
	}
	var body map[string]string
	json.Unmarshal(rec.Body.Bytes(), &body)
	if body["error"] != "deposit already resolved" {
		t.Fatalf("error = %q, want the backend message verbatim", body["error"])
	}
}

func TestConsole_BackendUnauthorizedExpiresSession(t *testing.T) {
	s := newTestConsole(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/login" {
			w.Write([]byte(`{"token":"tok-stale"}`))
			return
		}
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"message":"token expired"}`))
	})

	doLogin(t, s)

	rec := httptest.NewRecorder()
	s.auth(s.handleStats)(rec, httptest.NewRequest(http.MethodGet, "/api/stats", nil))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status %d, want 401", rec.Code)
	}
	if s.session.Authenticated() {
		t.Fatal("a backend 401 must drop the local session")
	}
}

func TestConsole_AnalyticsIncludesBackendSnapshot(t *testing.T) {
	listEnvelope := func(key, items string) string {
		return `{"` + key + `":` + items + `,"pagination":{"page":1,"limit":50,"hasNext":false}}`
	}
	s := newTestConsole(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/login":
			w.Write([]byte(`{"token":"tok-1"}`))
		case "/users":
			w.Write([]byte(listEnvelope("users", `[{"_id":"u1","name":"Ravi","wallets":{"inr":0,"usdt":0},"createdAt":"2026-08-20T10:00:00Z"}]`)))
		case "/transactions":
			w.Write([]byte(listEnvelope("transactions", `[{"_id":"t1","userId":{"_id":"u1","name":"Ravi"},"type":"buy","amount":10,"price":92,"total":920,"status":"completed","createdAt":"2026-08-20T10:00:00Z"}]`)))
		case "/deposits":
			w.Write([]byte(listEnvelope("deposits", `[]`)))
		case "/withdrawals":
			w.Write([]byte(listEnvelope("withdrawals", `[]`)))
		case "/analytics":
			w.Write([]byte(`{"totalVolume":"920","profit":"9.2"}`))
		default:
			t.Errorf("unexpected backend call %s", r.URL.Path)
		}
	})

	doLogin(t, s)

	rec := httptest.NewRecorder()
	s.auth(s.handleAnalytics)(rec, httptest.NewRequest(http.MethodGet, "/api/analytics", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d body %s", rec.Code, rec.Body.String())
	}

	var body struct {
		Local   json.RawMessage `json:"local"`
		Backend json.RawMessage `json:"backend"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body.Local) == 0 {
		t.Fatal("response must carry the locally computed aggregates")
	}
	var backendAgg map[string]string
	if err := json.Unmarshal(body.Backend, &backendAgg); err != nil {
		t.Fatalf("backend snapshot: %v", err)
	}
	if backendAgg["totalVolume"] != "920" {
		t.Fatalf("backend snapshot = %v, want the passthrough payload", backendAgg)
	}
}

func TestConsole_ResolveUnknownRequest(t *testing.T) {
	s := newTestConsole(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/login":
			w.Write([]byte(`{"token":"tok-1"}`))
		case "/deposits":
			w.Write([]byte(`{"deposits":[],"pagination":{"page":1,"limit":50,"hasNext":false}}`))
		default:
			t.Errorf("unexpected backend call %s %s", r.Method, r.URL.Path)
		}
	})

	doLogin(t, s)

	// Populate the canonical (empty) list first.
	rec := httptest.NewRecorder()
	s.fundingList(s.deposits)(rec, httptest.NewRequest(http.MethodGet, "/api/deposits", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("list: status %d", rec.Code)
	}

	rec = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/api/deposits/ghost",
		strings.NewReader(`{"status":"completed","adminNotes":""}`))
	s.fundingResolve(s.deposits, "/api/deposits/")(rec, req)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status %d, want 404 for a record not in the list", rec.Code)
	}
}

func TestConsole_SettingsRejectedLocally(t *testing.T) {
	s := newTestConsole(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/login" {
			w.Write([]byte(`{"token":"tok-1"}`))
			return
		}
		if r.Method == http.MethodPut {
			t.Error("invalid settings must not reach the backend")
		}
	})

	doLogin(t, s)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/api/settings",
		strings.NewReader(`{"buyPrice":"80","sellPrice":"92","upiId":"x@upi","bankAccount":"1234567","bankIFSC":"HDFC0001234","bankName":"HDFC","usdtAddress":"TXk3abcdefghijklmnopqrs"}`))
	s.handleSettings(rec, req)
	if rec.Code != http.StatusConflict {
		t.Fatalf("status %d, want 409 for buy below sell", rec.Code)
	}
}
