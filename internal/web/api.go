package web

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gym-infra/gameservers-dashboard/internal/aggregate"
	"github.com/gym-infra/gameservers-dashboard/internal/cluster"
	"github.com/gym-infra/gameservers-dashboard/pkg/model"
)

// apiError is the JSON error envelope.
type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type apiErrorResponse struct {
	Error apiError `json:"error"`
}

// scaleRequest is the PUT scale body.
type scaleRequest struct {
	Replicas int32 `json:"replicas"`
}

type podLogsResponse struct {
	Logs string `json:"logs"`
}

// defaultLogTailLines bounds a log fetch when the client sends no
// tail_lines parameter.
const defaultLogTailLines = 100

type gamesResponse struct {
	Games []model.GameNode `json:"games"`
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error("encode response", "error", err)
	}
}

func (s *Server) writeJSONError(w http.ResponseWriter, r *http.Request, err error) {
	status := httpStatusFor(err)
	s.logger.Error("request failed",
		"path", r.URL.Path,
		"status", status,
		"error", err,
		"request_id", RequestID(r.Context()),
	)
	s.writeJSON(w, status, apiErrorResponse{
		Error: apiError{Code: string(cluster.CodeOf(err)), Message: err.Error()},
	})
}

func (s *Server) handleAPIGames(w http.ResponseWriter, r *http.Request) {
	tree, err := s.buildTree(r)
	if err != nil {
		s.writeJSONError(w, r, err)
		return
	}
	if tree == nil {
		tree = []model.GameNode{}
	}
	s.writeJSON(w, http.StatusOK, gamesResponse{Games: tree})
}

func (s *Server) handleAPIGame(w http.ResponseWriter, r *http.Request) {
	tree, err := s.buildTree(r)
	if err != nil {
		s.writeJSONError(w, r, err)
		return
	}

	name := r.PathValue("name")
	game, ok := aggregate.FindGame(tree, name)
	if !ok {
		s.writeJSON(w, http.StatusNotFound, apiErrorResponse{
			Error: apiError{Code: string(cluster.ErrNotFound), Message: fmt.Sprintf("no game named %q", name)},
		})
		return
	}
	s.writeJSON(w, http.StatusOK, game)
}

func (s *Server) handleAPIDeployment(w http.ResponseWriter, r *http.Request) {
	detail, err := s.loadDetail(r)
	if err != nil {
		s.writeJSONError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, detail)
}

func (s *Server) handleAPIRestart(w http.ResponseWriter, r *http.Request) {
	acc, err := s.accessorFor(r)
	if err != nil {
		s.metrics.RestartsTotal.WithLabelValues("error").Inc()
		s.writeJSONError(w, r, err)
		return
	}

	namespace, name := r.PathValue("namespace"), r.PathValue("name")
	if err := acc.RestartDeployment(r.Context(), namespace, name); err != nil {
		s.metrics.RestartsTotal.WithLabelValues("error").Inc()
		s.writeJSONError(w, r, err)
		return
	}

	s.metrics.RestartsTotal.WithLabelValues("ok").Inc()
	s.logger.Info("rolling restart requested",
		"namespace", namespace,
		"deployment", name,
		"request_id", RequestID(r.Context()),
	)
	s.writeJSON(w, http.StatusAccepted, map[string]string{"status": "restarting"})
}

func (s *Server) handleAPIScale(w http.ResponseWriter, r *http.Request) {
	var req scaleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeJSON(w, http.StatusBadRequest, apiErrorResponse{
			Error: apiError{Code: "BAD_REQUEST", Message: "body must be {\"replicas\": <int>}"},
		})
		return
	}
	if req.Replicas < 0 {
		req.Replicas = 0
	}

	acc, err := s.accessorFor(r)
	if err != nil {
		s.metrics.ScalesTotal.WithLabelValues("error").Inc()
		s.writeJSONError(w, r, err)
		return
	}

	namespace, name := r.PathValue("namespace"), r.PathValue("name")
	if err := acc.ScaleDeployment(r.Context(), namespace, name, req.Replicas); err != nil {
		s.metrics.ScalesTotal.WithLabelValues("error").Inc()
		s.writeJSONError(w, r, err)
		return
	}

	s.metrics.ScalesTotal.WithLabelValues("ok").Inc()
	s.logger.Info("scale requested",
		"namespace", namespace,
		"deployment", name,
		"replicas", req.Replicas,
		"request_id", RequestID(r.Context()),
	)
	s.writeJSON(w, http.StatusAccepted, map[string]any{"status": "scaling", "replicas": req.Replicas})
}

func (s *Server) handleAPIPodLogs(w http.ResponseWriter, r *http.Request) {
	tailLines := int64(defaultLogTailLines)
	if v := r.URL.Query().Get("tail_lines"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil || n < 0 {
			s.writeJSON(w, http.StatusBadRequest, apiErrorResponse{
				Error: apiError{Code: "BAD_REQUEST", Message: "tail_lines must be a non-negative integer"},
			})
			return
		}
		tailLines = n
	}

	acc, err := s.accessorFor(r)
	if err != nil {
		s.writeJSONError(w, r, err)
		return
	}

	logs, err := acc.PodLogs(r.Context(), r.PathValue("namespace"), r.PathValue("name"),
		r.URL.Query().Get("container"), tailLines)
	if err != nil {
		s.writeJSONError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, podLogsResponse{Logs: logs})
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleReadyz(w http.ResponseWriter, _ *http.Request) {
	ready := s.readiness.IsReady()
	status := http.StatusOK
	if !ready {
		status = http.StatusServiceUnavailable
	}
	s.writeJSON(w, status, map[string]bool{"ready": ready})
}
