package ui

import (
	"context"
	"net/http"
	"strconv"

	"gopower/adapters/report"
	"gopower/domain/core"
	domain "gopower/domain/power"
	"gopower/internal/diagnostics"
	"gopower/internal/errors"
	"gopower/ports"

	"github.com/go-chi/chi/v5"
)

type solveResponse struct {
	ID     core.AnalysisID `json:"id,omitempty"`
	Result *domain.Result  `json:"result"`
}

type curveRequest struct {
	Base  domain.Params `json:"base"`
	Sweep string        `json:"sweep"`
	From  float64       `json:"from"`
	To    float64       `json:"to"`
	Steps int           `json:"steps"`
}

type diagnosticsRequest struct {
	Y              []float64   `json:"y"`
	X              [][]float64 `json:"x"`
	PredictorNames []string    `json:"predictor_names,omitempty"`
	NoIntercept    bool        `json:"no_intercept,omitempty"`
}

func (a *App) handleHealth(w http.ResponseWriter, r *http.Request) {
	a.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (a *App) handleSolve(w http.ResponseWriter, r *http.Request) {
	var spec domain.Spec
	if err := decodeJSON(w, r, &spec); err != nil {
		a.writeError(w, err, "")
		return
	}

	res, err := a.solver.Solve(r.Context(), spec)
	id := a.record(r.Context(), spec, res, err)
	if err != nil {
		a.writeError(w, err, id)
		return
	}
	a.writeJSON(w, http.StatusOK, solveResponse{ID: id, Result: res})
}

// record stores the outcome in the history. A failing history never fails the request.
func (a *App) record(ctx context.Context, spec domain.Spec, res *domain.Result, solveErr error) core.AnalysisID {
	rec := &ports.AnalysisRecord{Spec: spec, Result: res}
	if solveErr != nil {
		rec.Error = solveErr.Error()
	}
	if err := a.history.Save(ctx, rec); err != nil {
		a.logger.Warn("failed to record analysis", "error", err)
		return ""
	}
	return rec.ID
}

func (a *App) handleCurve(w http.ResponseWriter, r *http.Request) {
	var req curveRequest
	if err := decodeJSON(w, r, &req); err != nil {
		a.writeError(w, err, "")
		return
	}
	sweep, err := domain.ParseTarget(req.Sweep)
	if err != nil {
		a.writeError(w, errors.WithCode(errors.CodeInvalidInput, err), "")
		return
	}

	curve, err := a.solver.Curve(r.Context(), req.Base, sweep, req.From, req.To, req.Steps)
	if err != nil {
		a.writeError(w, err, "")
		return
	}
	a.writeJSON(w, http.StatusOK, curve)
}

func (a *App) handleDiagnostics(w http.ResponseWriter, r *http.Request) {
	var req diagnosticsRequest
	if err := decodeJSON(w, r, &req); err != nil {
		a.writeError(w, err, "")
		return
	}

	rep, err := a.analyzer.Analyze(req.Y, req.X, diagnostics.Options{
		NoIntercept:    req.NoIntercept,
		PredictorNames: req.PredictorNames,
	})
	if err != nil {
		a.writeError(w, err, "")
		return
	}
	a.writeJSON(w, http.StatusOK, rep)
}

func (a *App) handleListAnalyses(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			a.writeError(w, errors.InvalidInput("limit must be a positive integer"), "")
			return
		}
		limit = n
	}

	records, err := a.history.List(r.Context(), limit)
	if err != nil {
		a.writeError(w, errors.Wrap(err, "failed to list analyses"), "")
		return
	}
	a.writeJSON(w, http.StatusOK, records)
}

func (a *App) handleGetAnalysis(w http.ResponseWriter, r *http.Request) {
	rec, err := a.lookup(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		a.writeError(w, err, "")
		return
	}
	a.writeJSON(w, http.StatusOK, rec)
}

func (a *App) lookup(ctx context.Context, raw string) (*ports.AnalysisRecord, error) {
	id, err := core.ParseAnalysisID(raw)
	if err != nil {
		return nil, errors.WithCode(errors.CodeInvalidInput, err)
	}
	return a.history.Get(ctx, id)
}

// handleReport renders an HTML report either for a stored analysis (?id=)
// or for a spec given as query parameters (u, v, f2, sig_level, power).
func (a *App) handleReport(w http.ResponseWriter, r *http.Request) {
	var md string
	if raw := r.URL.Query().Get("id"); raw != "" {
		rec, err := a.lookup(r.Context(), raw)
		if err != nil {
			a.writeError(w, err, "")
			return
		}
		if rec.Result == nil {
			md = "## Power analysis\n\nThis analysis failed: " + rec.Error + "\n"
		} else {
			md = report.Markdown(rec.Result)
		}
	} else {
		spec, err := specFromQuery(r)
		if err != nil {
			a.writeError(w, err, "")
			return
		}
		res, err := a.solver.Solve(r.Context(), spec)
		if err != nil {
			a.writeError(w, err, "")
			return
		}
		md = report.Markdown(res)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write(report.HTML("Power analysis", md))
}

func specFromQuery(r *http.Request) (domain.Spec, error) {
	var spec domain.Spec
	fields := []struct {
		name string
		dst  **float64
	}{
		{"u", &spec.NumeratorDF},
		{"v", &spec.DenominatorDF},
		{"f2", &spec.EffectSize},
		{"sig_level", &spec.SignificanceLevel},
		{"power", &spec.Power},
	}
	for _, f := range fields {
		v, err := queryFloat(r, f.name)
		if err != nil {
			return spec, err
		}
		*f.dst = v
	}
	return spec, nil
}
