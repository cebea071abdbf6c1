// Package dashboard serves the stock sentiment dashboard page: one request,
// up to three sequential backend calls, one rendered view model.
package dashboard

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"stockpulse/internal/backend"
)

//go:embed templates/*.html
var templateFS embed.FS

const defaultSymbol = "AAPL"

var funcMap = template.FuncMap{
	// pct renders a 0-1 fraction as a percentage with one decimal.
	"pct": func(v float64) string {
		return fmt.Sprintf("%.1f%%", v*100)
	},
	"orNA": func(v *float64) string {
		if v == nil {
			return "N/A"
		}
		return strconv.FormatFloat(*v, 'f', -1, 64)
	},
	"countNA": func(v *int64) string {
		if v == nil {
			return "N/A"
		}
		return strconv.FormatInt(*v, 10)
	},
	"textNA": func(s string) string {
		if s == "" {
			return "N/A"
		}
		return s
	},
}

type Handler struct {
	backend *backend.Client
	tmpl    *template.Template
	log     *zap.Logger
}

func NewHandler(client *backend.Client, log *zap.Logger) *Handler {
	return &Handler{
		backend: client,
		tmpl:    template.Must(template.New("").Funcs(funcMap).ParseFS(templateFS, "templates/*.html")),
		log:     log,
	}
}

func (h *Handler) Routes(mux *http.ServeMux) {
	mux.HandleFunc("/", h.Dashboard)
	mux.HandleFunc("/healthz", h.Health)
}

// Dashboard renders the page. Backend failures render inline; the transport
// status stays 200 so the page itself communicates the failure.
func (h *Handler) Dashboard(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	symbol := strings.TrimSpace(r.URL.Query().Get("symbol"))
	if symbol == "" {
		symbol = defaultSymbol
	}
	userText := strings.TrimSpace(r.URL.Query().Get("user_text"))

	vm := h.buildViewModel(r.Context(), symbol, userText)

	name := "dashboard.html"
	if vm.Error != "" {
		name = "error.html"
	}
	if err := h.tmpl.ExecuteTemplate(w, name, vm); err != nil {
		h.log.Error("render failed", zap.String("template", name), zap.Error(err))
	}

	h.log.Info("dashboard served",
		zap.String("symbol", vm.Symbol),
		zap.Bool("ok", vm.Error == ""),
		zap.Int("news", len(vm.News)),
		zap.Duration("elapsed", time.Since(start)))
}

// buildViewModel runs the gated fetch sequence: stock first, then news, then
// the optional user-text analysis. A failed stock lookup short-circuits the
// rest; the page has nothing meaningful to show without it.
func (h *Handler) buildViewModel(ctx context.Context, symbol, userText string) ViewModel {
	vm := ViewModel{Symbol: symbol, UserText: userText}

	stock := h.backend.Get(ctx, "/stock/"+url.PathEscape(symbol))
	if !stock.OK() {
		vm.Error = stock.Err
		vm.ErrorBody = stock.RawBody
		return vm
	}
	// The backend reports its own lookup failures inside a 200 body.
	if msg := stock.Get("error"); msg.Exists() {
		vm.Error = msg.String()
		return vm
	}
	vm.Stock = snapshotFrom(stock)

	// A failed or malformed news response degrades to an empty list.
	vm.News = newsFrom(h.backend.Get(ctx, "/news/"+url.PathEscape(symbol)))

	if userText != "" {
		res := h.backend.Post(ctx, "/analyze_news", map[string]any{
			"text":   userText,
			"symbol": symbol,
		})
		vm.Analysis = analysisFrom(res)
	}
	return vm
}

// Health probes the backend's own /health endpoint through the same client.
// Like the page, it always answers 200 and reports degradation in the body.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	body := map[string]any{"status": "ok"}
	if res := h.backend.Get(r.Context(), "/health"); res.OK() {
		body["backend"] = res.Data
	} else {
		body["status"] = "degraded"
		body["backend_error"] = res.Err
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(body)
}
