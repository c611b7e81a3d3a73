package console

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"admin_go/internal/backend"
	"admin_go/internal/domain"
	"admin_go/internal/infra"
	"admin_go/internal/service"

	"github.com/shopspring/decimal"
)

// Server is the local web console: an embedded single-page frontend plus
// a JSON API that fronts the admin backend through the service layer.
type Server struct {
	addr      string
	api       *backend.Client
	session   *service.Session
	users     *service.UsersView
	deposits  *service.FundingView
	withdraws *service.FundingView
	txs       *service.TransactionsView
	kyc       *service.KYCView
	analytics *service.Analytics
	settings  *service.SettingsService
	live      *LiveHub
	logger    *slog.Logger
}

// Deps bundles the service layer the console serves.
type Deps struct {
	API         *backend.Client
	Session     *service.Session
	Users       *service.UsersView
	Deposits    *service.FundingView
	Withdrawals *service.FundingView
	Txs         *service.TransactionsView
	KYC         *service.KYCView
	Analytics   *service.Analytics
	Settings    *service.SettingsService
}

func NewServer(cfg *infra.Config, deps Deps, logger *slog.Logger) *Server {
	return &Server{
		addr:      cfg.Console.ListenAddr,
		api:       deps.API,
		session:   deps.Session,
		users:     deps.Users,
		deposits:  deps.Deposits,
		withdraws: deps.Withdrawals,
		txs:       deps.Txs,
		kyc:       deps.KYC,
		analytics: deps.Analytics,
		settings:  deps.Settings,
		live:      NewLiveHub(logger),
		logger:    logger.With("module", "console"),
	}
}

// Live exposes the websocket hub so the refresher can push updates.
func (s *Server) Live() *LiveHub { return s.live }

// Run serves until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	mux := http.NewServeMux()

	mux.HandleFunc("/api/login", cors(s.handleLogin))
	mux.HandleFunc("/api/logout", cors(s.auth(s.handleLogout)))
	mux.HandleFunc("/api/session", cors(s.handleSession))
	mux.HandleFunc("/api/stats", cors(s.auth(s.handleStats)))
	mux.HandleFunc("/api/analytics", cors(s.auth(s.handleAnalytics)))
	mux.HandleFunc("/api/users", cors(s.auth(s.handleUsers)))
	mux.HandleFunc("/api/users/", cors(s.auth(s.handleUserWallet)))
	mux.HandleFunc("/api/deposits", cors(s.auth(s.fundingList(s.deposits))))
	mux.HandleFunc("/api/deposits/", cors(s.auth(s.fundingResolve(s.deposits, "/api/deposits/"))))
	mux.HandleFunc("/api/withdrawals", cors(s.auth(s.fundingList(s.withdraws))))
	mux.HandleFunc("/api/withdrawals/", cors(s.auth(s.fundingResolve(s.withdraws, "/api/withdrawals/"))))
	mux.HandleFunc("/api/transactions", cors(s.auth(s.handleTransactions)))
	mux.HandleFunc("/api/kyc", cors(s.auth(s.handleKYCList)))
	mux.HandleFunc("/api/kyc/", cors(s.auth(s.handleKYCDetail)))
	mux.HandleFunc("/api/settings", cors(s.auth(s.handleSettings)))
	mux.HandleFunc("/ws", s.live.Handle)
	mux.HandleFunc("/", s.serveFrontend)

	srv := &http.Server{Addr: s.addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("console listening", "addr", s.addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutCtx)
	case err := <-errCh:
		return err
	}
}

func cors(h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		h(w, r)
	}
}

// auth rejects requests made before login. A 401 from the backend
// mid-session also lands the operator back here.
func (s *Server) auth(h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !s.session.Authenticated() {
			writeError(w, http.StatusUnauthorized, domain.ErrNotAuthenticated)
			return
		}
		h(w, r)
	}
}

func writeJSON(w http.ResponseWriter, data any) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(data)
}

// writeError renders the operator-facing message for err, not the raw
// error chain.
func writeError(w http.ResponseWriter, status int, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": domain.OperatorMessage(err)})
}

// fail maps service errors to HTTP statuses. A 401 from the backend
// means the persisted token went stale; the session is expired so the
// operator lands back on the login form.
func (s *Server) fail(w http.ResponseWriter, err error) {
	var pe *domain.PreconditionError
	var ae *domain.APIError
	if errors.As(err, &ae) && ae.StatusCode == http.StatusUnauthorized {
		s.session.Expire()
		writeError(w, http.StatusUnauthorized, err)
		return
	}
	switch {
	case errors.Is(err, domain.ErrNotAuthenticated):
		writeError(w, http.StatusUnauthorized, err)
	case errors.Is(err, domain.ErrResolutionInFlight), errors.Is(err, domain.ErrPageRequestInFlight):
		writeError(w, http.StatusConflict, err)
	case errors.As(err, &pe):
		writeError(w, http.StatusConflict, err)
	case errors.As(err, &ae):
		writeError(w, http.StatusBadGateway, err)
	case domain.IsTimeout(err):
		writeError(w, http.StatusGatewayTimeout, err)
	default:
		writeError(w, http.StatusBadGateway, err)
	}
}

// dateRange reads start/end query params as YYYY-MM-DD calendar days.
func dateRange(r *http.Request) service.DateRange {
	var dr service.DateRange
	if v := r.URL.Query().Get("start"); v != "" {
		if t, err := time.Parse("2006-01-02", v); err == nil {
			dr.Start = t
		}
	}
	if v := r.URL.Query().Get("end"); v != "" {
		if t, err := time.Parse("2006-01-02", v); err == nil {
			dr.End = t
		}
	}
	return dr
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "POST only", http.StatusMethodNotAllowed)
		return
	}
	var creds service.Credentials
	if err := json.NewDecoder(r.Body).Decode(&creds); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}
	if err := s.session.Login(r.Context(), s.api, creds); err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, map[string]bool{"authenticated": true})
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "POST only", http.StatusMethodNotAllowed)
		return
	}
	s.session.Logout()
	writeJSON(w, map[string]bool{"authenticated": false})
}

func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, map[string]bool{"authenticated": s.session.Authenticated()})
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.api.GetStats(r.Context())
	if err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, stats)
}

func (s *Server) handleAnalytics(w http.ResponseWriter, r *http.Request) {
	agg := s.analytics.Current()
	if agg == nil {
		if err := s.analytics.RefreshCycle(r.Context()); err != nil {
			s.fail(w, err)
			return
		}
		agg = s.analytics.Current()
	}

	resp := map[string]any{"local": agg}
	// Backend-computed snapshot shown next to the local numbers; the
	// panel still renders when only the local side is available.
	if backendAgg, err := s.api.GetAnalytics(r.Context()); err == nil {
		resp["backend"] = backendAgg
	} else {
		s.logger.Warn("backend analytics unavailable", "error", err)
	}
	writeJSON(w, resp)
}

func (s *Server) handleUsers(w http.ResponseWriter, r *http.Request) {
	s.users.SetSearch(r.URL.Query().Get("search"))
	s.users.SetDateRange(dateRange(r))

	switch r.URL.Query().Get("action") {
	case "more":
		if err := s.users.LoadMore(r.Context()); err != nil {
			s.fail(w, err)
			return
		}
	default:
		if err := s.users.Refresh(r.Context()); err != nil {
			s.fail(w, err)
			return
		}
	}
	writeJSON(w, map[string]any{
		"users":   s.users.Visible(),
		"hasMore": s.users.CanLoadMore(),
	})
}

func (s *Server) handleUserWallet(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPut {
		http.Error(w, "PUT only", http.StatusMethodNotAllowed)
		return
	}
	id := strings.TrimSuffix(strings.TrimPrefix(r.URL.Path, "/api/users/"), "/wallet")
	if id == "" {
		http.Error(w, "missing user id", http.StatusBadRequest)
		return
	}
	var req struct {
		INR  decimal.Decimal `json:"inr"`
		USDT decimal.Decimal `json:"usdt"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return
	}
	if err := s.users.AdjustWallet(r.Context(), id, req.INR, req.USDT); err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, map[string]bool{"updated": true})
}

func (s *Server) fundingList(view *service.FundingView) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		view.SetDateRange(dateRange(r))
		view.SetTradeOnly(r.URL.Query().Get("tradeOnly") == "true")

		switch r.URL.Query().Get("action") {
		case "more":
			if err := view.LoadMore(r.Context()); err != nil {
				s.fail(w, err)
				return
			}
		default:
			if err := view.Refresh(r.Context()); err != nil {
				s.fail(w, err)
				return
			}
		}
		writeJSON(w, map[string]any{
			"requests": view.Visible(),
			"pending":  view.PendingCount(),
			"hasMore":  view.CanLoadMore(),
		})
	}
}

func (s *Server) fundingResolve(view *service.FundingView, prefix string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPut {
			http.Error(w, "PUT only", http.StatusMethodNotAllowed)
			return
		}
		id := strings.TrimPrefix(r.URL.Path, prefix)
		var req struct {
			Status     domain.Status `json:"status"`
			AdminNotes string        `json:"adminNotes"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}

		// Resolve against the record as currently listed, not blindly.
		var target *domain.FundRequest
		for _, fr := range view.Visible() {
			if fr.ID == id {
				target = &fr
				break
			}
		}
		if target == nil {
			writeError(w, http.StatusNotFound, &domain.PreconditionError{
				Resource: "request", ID: id, Reason: "not in the current list",
			})
			return
		}
		if err := view.Resolve(r.Context(), *target, req.Status, req.AdminNotes); err != nil {
			s.fail(w, err)
			return
		}
		writeJSON(w, map[string]bool{"resolved": true})
	}
}

func (s *Server) handleTransactions(w http.ResponseWriter, r *http.Request) {
	s.txs.SetDateRange(dateRange(r))
	switch r.URL.Query().Get("action") {
	case "more":
		if err := s.txs.LoadMore(r.Context()); err != nil {
			s.fail(w, err)
			return
		}
	default:
		if err := s.txs.Refresh(r.Context()); err != nil {
			s.fail(w, err)
			return
		}
	}
	writeJSON(w, map[string]any{
		"transactions": s.txs.Visible(),
		"summary":      s.txs.Summary(),
		"hasMore":      s.txs.CanLoadMore(),
	})
}

func (s *Server) handleKYCList(w http.ResponseWriter, r *http.Request) {
	if err := s.kyc.Refresh(r.Context()); err != nil {
		s.fail(w, err)
		return
	}
	writeJSON(w, map[string]any{
		"records": s.kyc.Records(),
		"pending": s.kyc.PendingCount(),
	})
}

func (s *Server) handleKYCDetail(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/api/kyc/")
	if id == "" {
		http.Error(w, "missing kyc id", http.StatusBadRequest)
		return
	}

	switch r.Method {
	case http.MethodGet:
		record, previews, err := s.kyc.Detail(r.Context(), id)
		if err != nil {
			s.fail(w, err)
			return
		}
		writeJSON(w, map[string]any{"record": record, "previews": previews})
	case http.MethodPut:
		var req struct {
			Status     domain.Status `json:"status"`
			AdminNotes string        `json:"adminNotes"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		var record *domain.KYCRecord
		for _, rec := range s.kyc.Records() {
			if rec.ID == id {
				record = &rec
				break
			}
		}
		if record == nil {
			writeError(w, http.StatusNotFound, &domain.PreconditionError{
				Resource: "kyc", ID: id, Reason: "not in the current list",
			})
			return
		}
		if err := s.kyc.Review(r.Context(), *record, req.Status, req.AdminNotes); err != nil {
			s.fail(w, err)
			return
		}
		writeJSON(w, map[string]bool{"reviewed": true})
	default:
		http.Error(w, "GET or PUT only", http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleSettings(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		settings, err := s.settings.Load(r.Context())
		if err != nil {
			s.fail(w, err)
			return
		}
		writeJSON(w, settings)
	case http.MethodPut:
		var settings domain.Settings
		if err := json.NewDecoder(r.Body).Decode(&settings); err != nil {
			http.Error(w, "invalid json", http.StatusBadRequest)
			return
		}
		if err := s.settings.Save(r.Context(), settings); err != nil {
			s.fail(w, err)
			return
		}
		writeJSON(w, map[string]bool{"saved": true})
	default:
		http.Error(w, "GET or PUT only", http.StatusMethodNotAllowed)
	}
}
