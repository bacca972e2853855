package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"

	"redact-relay/internal/answer"
	"redact-relay/internal/app"
	"redact-relay/internal/config"
	"redact-relay/internal/httputil"
	"redact-relay/internal/metrics"
)

// queryRequest carries text that is expected, not verified, to be redacted.
type queryRequest struct {
	Text *string `json:"text" validate:"required"`
}

type queryResponse struct {
	ResponseText string `json:"response_text"`
}

// providerFailurePrefix leads the detail of every failed query.
const providerFailurePrefix = "Error in Groq API call"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	deps, err := app.Build(ctx, config.ServiceQuery)
	if err != nil {
		deps.Log.Error("failed to build dependencies", "err", err)
		os.Exit(1)
	}
	deps.Log.Info("query API initialized")

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

	r.Post("/query", queryHandler(deps))
	r.Options("/query", httputil.Preflight())
	r.Get("/healthz", httputil.HealthHandler(deps.Log))
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	return r
}

func queryHandler(deps app.Deps) http.HandlerFunc {
	answerer := answer.New(deps.LLM, deps.Config.LLMModel)

	return func(w http.ResponseWriter, r *http.Request) {
		var req queryRequest
		if err := httputil.DecodeJSON(r, &req); err != nil {
			httputil.ValidationError(deps.Log, w, err)
			return
		}

		text, err := answerer.Answer(r.Context(), *req.Text)
		if err != nil {
			httputil.FailUpstream(deps.Log, w, r, fmt.Errorf("%s: %w", providerFailurePrefix, err), deps.Config.RawErrorDetail)
			return
		}

		httputil.WriteJSON(w, http.StatusOK, queryResponse{ResponseText: text})
	}
}
