package llm

import (
	"context"
	"time"

	"redact-relay/internal/metrics"
)

type instrumentedClient struct {
	next    Client
	service string
}

// Instrument records call counts and latency of every provider call.
func Instrument(next Client, service string) Client {
	return &instrumentedClient{next: next, service: service}
}

func (c *instrumentedClient) Complete(ctx context.Context, messages []Message, p Params) (string, error) {
	start := time.Now()
	out, err := c.next.Complete(ctx, messages, p)
	metrics.ProviderDuration.WithLabelValues(c.service).Observe(time.Since(start).Seconds())
	outcome := metrics.OutcomeSuccess
	if err != nil {
		outcome = metrics.OutcomeError
	}
	metrics.ProviderCalls.WithLabelValues(c.service, outcome).Inc()
	return out, err
}
