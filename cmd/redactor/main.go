package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"

	"redact-relay/internal/app"
	"redact-relay/internal/config"
	"redact-relay/internal/httputil"
	"redact-relay/internal/metrics"
	"redact-relay/internal/redact"
)

type redactionRequest struct {
	Text *string `json:"text" validate:"required"`
}

type redactionResponse struct {
	RedactedText string `json:"redacted_text"`
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	deps, err := app.Build(ctx, config.ServiceRedactor)
	if err != nil {
		deps.Log.Error("failed to build dependencies", "err", err)
		os.Exit(1)
	}

	err = httputil.Serve(ctx, deps.Log, deps.Config.Addr(deps.Service), newRouter(deps))
	if cerr := deps.Close(); cerr != nil {
		deps.Log.Warn("failed to close cache", "err", cerr)
	}
	if err != nil {
		deps.Log.Error("server error", "err", err)
		os.Exit(1)
	}
}

func newRouter(deps app.Deps) *chi.Mux {
	r := httputil.NewRouter(deps.Log)

	r.Post("/redact", redactHandler(deps))
	r.Options("/redact", httputil.Preflight())
	r.Get("/healthz", httputil.HealthHandler(deps.Log))
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	return r
}

func redactHandler(deps app.Deps) http.HandlerFunc {
	redactor := redact.New(deps.LLM, deps.Config.LLMModel)

	return func(w http.ResponseWriter, r *http.Request) {
		var req redactionRequest
		if err := httputil.DecodeJSON(r, &req); err != nil {
			httputil.ValidationError(deps.Log, w, err)
			return
		}

		redacted, err := redactor.Redact(r.Context(), *req.Text)
		if err != nil {
			httputil.FailUpstream(deps.Log, w, r, err, deps.Config.RawErrorDetail)
			return
		}

		httputil.WriteJSON(w, http.StatusOK, redactionResponse{RedactedText: redacted})
	}
}
