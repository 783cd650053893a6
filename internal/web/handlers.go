package web

import (
	"fmt"
	"html/template"
	"net/http"
	"time"

	"github.com/gym-infra/gameservers-dashboard/internal/aggregate"
	"github.com/gym-infra/gameservers-dashboard/internal/cluster"
	"github.com/gym-infra/gameservers-dashboard/pkg/model"
)

// templateFuncs are the formatting helpers available to all pages.
var templateFuncs = template.FuncMap{
	"cpu": func(cores float64) string {
		if cores == 0 {
			return "-"
		}
		if cores < 1 {
			return fmt.Sprintf("%dm", int64(cores*1000))
		}
		return fmt.Sprintf("%.2f", cores)
	},
	"mem": func(bytes int64) string {
		switch {
		case bytes == 0:
			return "-"
		case bytes >= 1<<30:
			return fmt.Sprintf("%.1fGi", float64(bytes)/(1<<30))
		case bytes >= 1<<20:
			return fmt.Sprintf("%.0fMi", float64(bytes)/(1<<20))
		default:
			return fmt.Sprintf("%dB", bytes)
		}
	},
	"reqCPU": func(containers []model.ContainerSpecInfo) float64 {
		var sum float64
		for _, c := range containers {
			sum += c.CPURequestCores
		}
		return sum
	},
	"reqMem": func(containers []model.ContainerSpecInfo) int64 {
		var sum int64
		for _, c := range containers {
			sum += c.MemoryRequestBytes
		}
		return sum
	},
	"usageCPU": func(containers []model.ContainerUsageInfo) string {
		var sum float64
		seen := false
		for _, c := range containers {
			if c.CPUUsageCores != nil {
				sum += *c.CPUUsageCores
				seen = true
			}
		}
		if !seen {
			return "-"
		}
		if sum < 1 {
			return fmt.Sprintf("%dm", int64(sum*1000))
		}
		return fmt.Sprintf("%.2f", sum)
	},
	"usageMem": func(containers []model.ContainerUsageInfo) string {
		var sum int64
		seen := false
		for _, c := range containers {
			if c.MemoryUsageBytes != nil {
				sum += *c.MemoryUsageBytes
				seen = true
			}
		}
		if !seen {
			return "-"
		}
		switch {
		case sum >= 1<<30:
			return fmt.Sprintf("%.1fGi", float64(sum)/(1<<30))
		case sum >= 1<<20:
			return fmt.Sprintf("%.0fMi", float64(sum)/(1<<20))
		default:
			return fmt.Sprintf("%dB", sum)
		}
	},
	"age": func(unixMilli int64) string {
		if unixMilli == 0 {
			return "-"
		}
		d := time.Since(time.UnixMilli(unixMilli))
		switch {
		case d >= 24*time.Hour:
			return fmt.Sprintf("%dd", int(d.Hours())/24)
		case d >= time.Hour:
			return fmt.Sprintf("%dh", int(d.Hours()))
		default:
			return fmt.Sprintf("%dm", int(d.Minutes()))
		}
	},
}

type indexData struct {
	Games []model.GameNode
}

type gameData struct {
	Game model.GameNode
}

type detailData struct {
	Detail model.DetailView
}

type errorData struct {
	Status  int
	Code    string
	Message string
}

// accessorFor resolves the cluster accessor for one request from its
// forwarded bearer token.
func (s *Server) accessorFor(r *http.Request) (Accessor, error) {
	return s.accessors(cluster.BearerFromRequest(r))
}

// buildTree lists deployments and aggregates them into the game tree.
func (s *Server) buildTree(r *http.Request) ([]model.GameNode, error) {
	acc, err := s.accessorFor(r)
	if err != nil {
		return nil, err
	}
	records, err := acc.ListDeployments(r.Context())
	if err != nil {
		return nil, err
	}

	start := time.Now()
	tree := aggregate.Aggregate(records)
	s.metrics.AggregateDuration.Observe(time.Since(start).Seconds())
	return tree, nil
}

func (s *Server) renderPage(w http.ResponseWriter, name string, data any) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.templates.ExecuteTemplate(w, name, data); err != nil {
		s.logger.Error("render failed", "template", name, "error", err)
	}
}

// renderError writes the error page with the status mapped from the
// cluster error. An empty cluster is not an error; only failed API calls
// reach here.
func (s *Server) renderError(w http.ResponseWriter, r *http.Request, err error) {
	status := httpStatusFor(err)
	s.logger.Error("request failed",
		"path", r.URL.Path,
		"status", status,
		"error", err,
		"request_id", RequestID(r.Context()),
	)
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	data := errorData{Status: status, Code: string(cluster.CodeOf(err)), Message: err.Error()}
	if terr := s.templates.ExecuteTemplate(w, "error.html", data); terr != nil {
		s.logger.Error("render failed", "template", "error.html", "error", terr)
	}
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	tree, err := s.buildTree(r)
	if err != nil {
		s.renderError(w, r, err)
		return
	}
	s.renderPage(w, "index.html", indexData{Games: tree})
}

func (s *Server) handleGamePage(w http.ResponseWriter, r *http.Request) {
	tree, err := s.buildTree(r)
	if err != nil {
		s.renderError(w, r, err)
		return
	}

	name := r.PathValue("name")
	game, ok := aggregate.FindGame(tree, name)
	if !ok {
		s.renderNotFound(w, fmt.Sprintf("no game named %q", name))
		return
	}
	s.renderPage(w, "game.html", gameData{Game: game})
}

func (s *Server) handleDetailPage(w http.ResponseWriter, r *http.Request) {
	detail, err := s.loadDetail(r)
	if err != nil {
		s.renderError(w, r, err)
		return
	}
	s.renderPage(w, "detail.html", detailData{Detail: detail})
}

// loadDetail fetches one deployment and its pods and projects the detail
// view. Shared by the HTML page and the JSON API.
func (s *Server) loadDetail(r *http.Request) (model.DetailView, error) {
	acc, err := s.accessorFor(r)
	if err != nil {
		return model.DetailView{}, err
	}

	rec, err := acc.GetDeployment(r.Context(), r.PathValue("namespace"), r.PathValue("name"))
	if err != nil {
		return model.DetailView{}, err
	}
	pods, err := acc.PodsForDeployment(r.Context(), rec)
	if err != nil {
		return model.DetailView{}, err
	}
	return aggregate.ProjectDetail(rec, pods), nil
}

func (s *Server) renderNotFound(w http.ResponseWriter, message string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusNotFound)
	data := errorData{Status: http.StatusNotFound, Code: string(cluster.ErrNotFound), Message: message}
	if err := s.templates.ExecuteTemplate(w, "error.html", data); err != nil {
		s.logger.Error("render failed", "template", "error.html", "error", err)
	}
}
