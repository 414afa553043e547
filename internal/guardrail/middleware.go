package guardrail

import (
	"bytes"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	"github.com/harborml/ragward/internal/config"
	"github.com/harborml/ragward/internal/telemetry"
)

// Gateway intercepts inbound requests, runs the enabled input checks over
// the request body, and blocks the request when the policy engine says so.
// Allowed requests are forwarded with the body replayed unchanged.
type Gateway struct {
	cfg      func() *config.GuardrailConfig
	checkers []Checker
	metrics  *telemetry.Metrics
}

// NewGateway creates the guardrail gateway. Checkers run in the order given.
func NewGateway(cfg func() *config.GuardrailConfig, checkers []Checker, metrics *telemetry.Metrics) *Gateway {
	return &Gateway{cfg: cfg, checkers: checkers, metrics: metrics}
}

type blockResponse struct {
	Error      string      `json:"error"`
	Mode       Mode        `json:"mode"`
	Violations []Violation `json:"violations"`
	Message    string      `json:"message"`
}

// Middleware returns the chi middleware enforcing the guardrail policy.
func (g *Gateway) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cfg := g.cfg()
		if cfg == nil || !cfg.Enabled || g.pathExempt(cfg, r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}

		if !mutatingMethod(r.Method) {
			next.ServeHTTP(w, r)
			return
		}

		body, err := io.ReadAll(r.Body)
		if err != nil {
			slog.Error("guardrail: failed to read request body", "error", err, "path", r.URL.Path)
			next.ServeHTTP(w, r)
			return
		}
		r.Body.Close()

		// The gateway owns the read; downstream handlers must see the
		// original body exactly as sent.
		r.Body = io.NopCloser(bytes.NewReader(body))

		if len(body) > 0 {
			decision := g.inspect(extractText(body))
			for _, v := range decision.Violations {
				if g.metrics != nil {
					g.metrics.RecordViolation(string(v.Kind), string(v.Severity))
				}
			}
			if len(decision.Violations) > 0 {
				slog.Warn("guardrail violations detected",
					"request_id", w.Header().Get("X-Request-ID"),
					"path", r.URL.Path,
					"mode", decision.Mode,
					"violations", len(decision.Violations),
					"blocked", decision.Blocked,
				)
			}
			if decision.Blocked {
				if g.metrics != nil {
					g.metrics.RecordBlocked(string(decision.Mode))
				}
				writeBlock(w, decision)
				return
			}
		}

		// Output-side checking is configured but is a passthrough: the
		// response is forwarded untouched. Buffering generated answers for
		// re-checking would change the latency model of the service.
		next.ServeHTTP(w, r)
	})
}

// inspect runs every enabled checker over the text and applies the policy.
func (g *Gateway) inspect(text string) Decision {
	var violations []Violation
	for _, c := range g.checkers {
		if !c.Enabled() {
			continue
		}
		res := c.Check(text)
		violations = append(violations, res.Violations...)
	}

	mode, ok := ParseMode(g.cfg().Mode)
	if !ok {
		mode = ModeModerate
	}
	return Decide(violations, mode)
}

func (g *Gateway) pathExempt(cfg *config.GuardrailConfig, path string) bool {
	for _, p := range cfg.ExemptPaths {
		if p == path {
			return true
		}
	}
	return false
}

func mutatingMethod(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch:
		return true
	}
	return false
}

// extractText turns a request body into the text blob the checkers see.
// JSON bodies have their leaves flattened; anything else is treated as
// plain text. Numbers are decoded as json.Number so their digits reach the
// checkers exactly as sent.
func extractText(body []byte) string {
	dec := json.NewDecoder(bytes.NewReader(body))
	dec.UseNumber()
	var decoded any
	if err := dec.Decode(&decoded); err != nil {
		return string(body)
	}
	return Flatten(decoded, DefaultFlattenDepth)
}

func writeBlock(w http.ResponseWriter, d Decision) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusBadRequest)
	violations := d.Violations
	if violations == nil {
		violations = []Violation{}
	}
	json.NewEncoder(w).Encode(blockResponse{
		Error:      "Request blocked by guardrails",
		Mode:       d.Mode,
		Violations: violations,
		Message:    "Your request was blocked due to safety policy violations.",
	})
}
