package server

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"planforge/internal/plan"
	"planforge/internal/planner"
	"planforge/internal/runstore"
	"planforge/internal/scaffold"
	"planforge/internal/service"
)

const maxBodyBytes = 1 << 20

type Handler struct {
	svc *service.Service
	log *slog.Logger
}

func NewHandler(svc *service.Service, log *slog.Logger) *Handler {
	return &Handler{svc: svc, log: log}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type errorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
}

func writeError(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, errorResponse{Error: msg, Code: code})
}

func decodeBody(r *http.Request, dst any) error {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxBodyBytes))
	if err != nil {
		return err
	}
	if len(strings.TrimSpace(string(body))) == 0 {
		return nil
	}
	return json.Unmarshal(body, dst)
}

// statusFor maps service errors to an HTTP status and a short code.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, service.ErrInvalidProjectDir), errors.Is(err, planner.ErrEmptyRequirement):
		return http.StatusBadRequest, "invalid_argument"
	case errors.Is(err, scaffold.ErrPlanDir), errors.Is(err, plan.ErrNotFound), errors.Is(err, runstore.ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, plan.ErrInvalid):
		return http.StatusUnprocessableEntity, "invalid_plan"
	case errors.Is(err, service.ErrPlannerUnavailable):
		return http.StatusInternalServerError, "unavailable"
	default:
		return http.StatusInternalServerError, "internal"
	}
}

func (h *Handler) plannerStatus() string {
	if h.svc.PlannerReady() {
		return "initialized"
	}
	return "not_initialized"
}

func (h *Handler) HandleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":              "healthy",
		"message":             "AI Python Code Generator Backend is running",
		"planner_initialized": h.svc.PlannerReady(),
	})
}

func (h *Handler) HandleTest(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Message string `json:"message"`
	}
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_argument", err.Error())
		return
	}
	if req.Message == "" {
		req.Message = "No message provided"
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success":        true,
		"echo":           req.Message,
		"planner_status": h.plannerStatus(),
	})
}

type planRequest struct {
	Prompt string `json:"prompt"`
	Save   bool   `json:"save"`
}

type planResponse struct {
	Success    bool       `json:"success"`
	Plan       *plan.Plan `json:"plan"`
	ProjectDir string     `json:"project_dir,omitempty"`
}

func (h *Handler) HandlePlan(w http.ResponseWriter, r *http.Request) {
	if !h.svc.PlannerReady() {
		h.log.Error("plan requested but planner is not initialized")
		writeError(w, http.StatusInternalServerError, "unavailable",
			"Planner not initialized. Please check server logs and environment configuration.")
		return
	}
	var req planRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_argument", err.Error())
		return
	}
	if strings.TrimSpace(req.Prompt) == "" {
		writeError(w, http.StatusBadRequest, "invalid_argument", "Prompt is required")
		return
	}
	out, err := h.svc.Plan(r.Context(), req.Prompt, req.Save)
	if err != nil {
		h.log.Error("plan generation failed", "err", err)
		status, code := statusFor(err)
		if status == http.StatusNotFound || status == http.StatusUnprocessableEntity {
			status = http.StatusInternalServerError
		}
		writeError(w, status, code, "Failed to generate project plan: "+err.Error())
		return
	}
	writeJSON(w, http.StatusOK, planResponse{Success: true, Plan: out.Plan, ProjectDir: out.Dir})
}

type generateRequest struct {
	ProjectDir        string `json:"project_dir"`
	UseExistingFolder bool   `json:"use_existing_folder"`
}

type generateResponse struct {
	Success   bool               `json:"success"`
	RunID     string             `json:"run_id"`
	Root      string             `json:"root"`
	Files     []string           `json:"files"`
	Removed   []string           `json:"removed,omitempty"`
	Skipped   []scaffold.Skipped `json:"skipped,omitempty"`
	Anomalies []scaffold.Anomaly `json:"anomalies,omitempty"`
}

func newGenerateResponse(run *service.Run) generateResponse {
	resp := generateResponse{
		Success: run.Record.Success,
		RunID:   run.Record.ID,
		Root:    run.Record.Root,
		Files:   run.Record.Files,
		Removed: run.Record.Removed,
	}
	if run.Result != nil {
		resp.Skipped = run.Result.Skipped
		resp.Anomalies = run.Result.Anomalies
	}
	if resp.Files == nil {
		resp.Files = []string{}
	}
	return resp
}

func (h *Handler) HandleGenerate(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_argument", err.Error())
		return
	}
	run, err := h.svc.Generate(r.Context(), service.GenerateRequest{
		ProjectDir:        req.ProjectDir,
		UseExistingFolder: req.UseExistingFolder,
	}, nil)
	if err != nil {
		status, code := statusFor(err)
		writeError(w, status, code, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, newGenerateResponse(run))
}

func (h *Handler) HandleListRuns(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	runs, err := h.svc.Runs(r.Context(), limit)
	if err != nil {
		status, code := statusFor(err)
		writeError(w, status, code, err.Error())
		return
	}
	if runs == nil {
		runs = []runstore.Record{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"runs": runs})
}

func (h *Handler) HandleGetRun(w http.ResponseWriter, r *http.Request) {
	rec, err := h.svc.Run(r.Context(), r.PathValue("id"))
	if err != nil {
		status, code := statusFor(err)
		writeError(w, status, code, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (h *Handler) HandleRunFiles(w http.ResponseWriter, r *http.Request) {
	files, err := h.svc.RunFiles(r.Context(), r.PathValue("id"))
	if err != nil {
		status, code := statusFor(err)
		writeError(w, status, code, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"files": files})
}
