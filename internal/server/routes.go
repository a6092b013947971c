package server

import "net/http"

func NewMux(h *Handler) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/health", h.HandleHealth)
	mux.HandleFunc("POST /api/test", h.HandleTest)
	mux.HandleFunc("POST /api/plan", h.HandlePlan)
	mux.HandleFunc("POST /api/generate", h.HandleGenerate)
	mux.HandleFunc("GET /api/generate/stream", h.HandleGenerateStream)
	mux.HandleFunc("GET /api/runs", h.HandleListRuns)
	mux.HandleFunc("GET /api/runs/{id}", h.HandleGetRun)
	mux.HandleFunc("GET /api/runs/{id}/files", h.HandleRunFiles)

	return CORS(mux)
}
