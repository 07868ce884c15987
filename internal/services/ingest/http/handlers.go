// Package http provides http transport for ingest
package http

import (
	stdhttp "net/http"

	phttp "bookmarkd/internal/platform/net/http"
	"bookmarkd/internal/platform/net/http/bind"
	"bookmarkd/internal/services/ingest/domain"
)

// Register mounts the submission endpoint on the given router
func Register(r phttp.Router, submit domain.SubmitPort) {
	h := &handlers{submit: submit}

	// accepted submissions answer 202 while work continues in the background
	r.Post("/bookmarks", phttp.Handle(h.postBookmark))
}

// RegisterMetrics mounts the counters endpoint, kept separate so the
// module can place it outside its version prefix
func RegisterMetrics(r phttp.Router, metrics domain.MetricsPort) {
	h := &handlers{metrics: metrics}
	phttp.GetJSON(r, "/metrics", h.getMetrics)
}

type handlers struct {
	submit  domain.SubmitPort
	metrics domain.MetricsPort
}

func (h *handlers) postBookmark(r *stdhttp.Request) phttp.Response {
	in, err := bind.ParseJSON[domain.Submission](r)
	if err != nil {
		return phttp.Error(err)
	}
	res, err := h.submit.Submit(r.Context(), in)
	if err != nil {
		return phttp.Error(err)
	}
	if res.Status == domain.SubmitDuplicate {
		return phttp.OK(res)
	}
	return phttp.Accepted(res)
}

func (h *handlers) getMetrics(r *stdhttp.Request) (any, error) {
	return h.metrics.Metrics(r.Context())
}
