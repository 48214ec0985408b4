package server

import "github.com/go-chi/chi/v5"

// SetupRoutes registers the API routes.
func SetupRoutes(router chi.Router, h *Handlers) {
	router.Get("/healthz", h.Health)

	router.Route("/v1", func(r chi.Router) {
		r.Get("/schema", h.Schema)
		r.Get("/hooks", h.ListHooks)
		r.Post("/infer", h.Infer)
		r.Post("/merge", h.Merge)

		if h.store != nil {
			r.Get("/runs", h.ListRuns)
			r.Get("/runs/{id}", h.GetRun)
			r.Get("/runs/{id}/matches", h.RunMatches)
		}
	})
}
