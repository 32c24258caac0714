// Package transport wraps outbound HTTP so every request to the research
// tracker API carries the current credential and every rejection of that
// credential tears the session down.
package transport

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/research-tracker/dashboard/internal/api/metrics"
	"github.com/research-tracker/dashboard/internal/core/domain"
	"github.com/research-tracker/dashboard/internal/core/ports"
)

const HeaderRequestID = "X-Request-ID"

// Authenticated is an http.RoundTripper. It never blocks a request for lack
// of a token and never retries; on 401 it performs a single teardown and
// hands the response back untouched.
type Authenticated struct {
	base   http.RoundTripper
	creds  ports.CredentialSource
	events ports.SessionEventPublisher
	log    zerolog.Logger
	now    func() time.Time
}

// NewAuthenticated wraps base (http.DefaultTransport when nil).
func NewAuthenticated(
	base http.RoundTripper,
	creds ports.CredentialSource,
	events ports.SessionEventPublisher,
	log zerolog.Logger,
) *Authenticated {
	if base == nil {
		base = http.DefaultTransport
	}
	return &Authenticated{
		base:   base,
		creds:  creds,
		events: events,
		log:    log.With().Str("component", "transport").Logger(),
		now:    time.Now,
	}
}

// RoundTrip implements http.RoundTripper.
func (t *Authenticated) RoundTrip(req *http.Request) (*http.Response, error) {
	token := t.creds.Token()

	out := req.Clone(req.Context())
	if token != "" {
		out.Header.Set("Authorization", "Bearer "+token)
	}
	if out.Header.Get(HeaderRequestID) == "" {
		out.Header.Set(HeaderRequestID, uuid.NewString())
	}

	start := t.now()
	resp, err := t.base.RoundTrip(out)
	metrics.UpstreamRequestDuration.WithLabelValues(req.Method).Observe(t.now().Sub(start).Seconds())
	if err != nil {
		metrics.UpstreamRequestsTotal.WithLabelValues(req.Method, "error").Inc()
		return nil, err
	}
	metrics.UpstreamRequestsTotal.WithLabelValues(req.Method, strconv.Itoa(resp.StatusCode)).Inc()

	if resp.StatusCode == http.StatusUnauthorized {
		t.onRejected(out, token)
	}
	return resp, nil
}

func (t *Authenticated) onRejected(req *http.Request, token string) {
	cause := req.Method + " " + req.URL.Path
	// The caller may cancel its context as soon as it has the response; the
	// teardown must still reach storage.
	ctx := context.WithoutCancel(req.Context())
	if !t.creds.Invalidate(ctx, token) {
		t.log.Debug().
			Str("cause", cause).
			Bool("had_token", token != "").
			Msg("unauthorized response for a credential that is no longer current")
		return
	}

	t.log.Warn().
		Str("cause", cause).
		Str("request_id", req.Header.Get(HeaderRequestID)).
		Msg("credential rejected, session torn down")

	if t.events != nil {
		t.events.Publish(domain.SessionEvent{
			Kind:       domain.EventInvalidated,
			Cause:      cause,
			OccurredAt: t.now(),
		})
	}
}
