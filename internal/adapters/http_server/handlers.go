package httpserver

import (
	"bytes"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"review_analytics/internal/adapters/export"
	"review_analytics/internal/adapters/observability"
	"review_analytics/internal/app"
	"review_analytics/internal/domain"
)

// Handlers serves the analytics surface over one immutable Dataset. The
// dataset and dictionary are shared read-only; every request builds its own
// FilterSpec from query params, so there is no per-session state.
type Handlers struct{ DS domain.Dataset }

type problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })
	s.mux.Get("/v1/summary", h.summary)
	s.mux.Get("/v1/categories", h.categories)
	s.mux.Get("/v1/reviews", h.reviews)
	s.mux.Get("/v1/stats", h.stats)
	s.mux.Get("/v1/compare", h.compare)
	s.mux.Get("/v1/export.csv", h.exportCSV)
	s.mux.Get("/v1/export.xlsx", h.exportXLSX)
}

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(problem{Type: "about:blank", Title: title, Status: status, Detail: detail}); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

// calcETagAndBody marshals once and hashes once, returning both ETag and body.
func calcETagAndBody(v any) (string, []byte) {
	body, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal object for ETag/body")
		return "", nil
	}
	sum := sha1.Sum(body)
	etag := `W/"` + hex.EncodeToString(sum[:]) + `"`
	return etag, body
}

func writeJSON(w http.ResponseWriter, r *http.Request, v any) {
	etag, body := calcETagAndBody(v)
	if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
		w.Header().Set("ETag", etag)
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("ETag", etag)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Msg("failed to write response body")
	}
}

// ---- filter params → FilterSpec ----

// parseSpec builds the immutable FilterSpec for this request. Presets
// resolve against the dataset's max date, like the dashboard's relative
// ranges.
func (h *Handlers) parseSpec(r *http.Request) (domain.FilterSpec, error) {
	q := r.URL.Query()
	spec := domain.FilterSpec{Brand: q.Get("brand")}

	if from := q.Get("from"); from != "" {
		t, err := time.Parse("2006-01-02", from)
		if err != nil {
			return spec, fmt.Errorf("bad from date %q", from)
		}
		spec.Dates.Start = t.UTC()
	}
	if to := q.Get("to"); to != "" {
		t, err := time.Parse("2006-01-02", to)
		if err != nil {
			return spec, fmt.Errorf("bad to date %q", to)
		}
		spec.Dates.End = t.UTC()
	}
	if preset := q.Get("preset"); preset != "" {
		dr, err := h.resolvePreset(preset)
		if err != nil {
			return spec, err
		}
		spec.Dates = dr
	}

	if rs := q.Get("ratings"); rs != "" {
		for _, p := range strings.Split(rs, ",") {
			n, err := strconv.Atoi(strings.TrimSpace(p))
			if err != nil {
				return spec, fmt.Errorf("bad rating %q", p)
			}
			spec.Ratings = append(spec.Ratings, n)
		}
	}

	if cs := q.Get("categories"); cs != "" {
		for _, p := range strings.Split(cs, ",") {
			spec.Categories = append(spec.Categories, domain.Category(strings.TrimSpace(p)))
		}
	}
	spec.ShowAll = q.Get("show_all") == "true"

	return spec, spec.Validate()
}

func (h *Handlers) resolvePreset(preset string) (domain.DateRange, error) {
	min, max, ok := h.DS.Span()
	if !ok {
		return domain.DateRange{}, nil
	}
	switch preset {
	case "all":
		return domain.DateRange{Start: min, End: max}, nil
	case "last_6_months":
		return domain.DateRange{Start: max.AddDate(0, 0, -180), End: max}, nil
	case "last_12_months":
		return domain.DateRange{Start: max.AddDate(0, 0, -365), End: max}, nil
	}
	return domain.DateRange{}, fmt.Errorf("unknown preset %q", preset)
}

func parseSort(r *http.Request) domain.SortKey {
	q := r.URL.Query()
	key := domain.SortKey{Field: domain.SortByDate, Descending: true}
	if f := q.Get("sort"); f != "" {
		key.Field = domain.SortField(f)
	}
	if o := q.Get("order"); o == "asc" {
		key.Descending = false
	}
	return key
}

func parseColumns(r *http.Request) []string {
	cs := r.URL.Query().Get("columns")
	if cs == "" {
		return nil
	}
	var out []string
	for _, c := range strings.Split(cs, ",") {
		if c = strings.TrimSpace(c); c != "" {
			out = append(out, c)
		}
	}
	return out
}

// filteredSorted is the shared front half of reviews/export handlers.
func (h *Handlers) filteredSorted(r *http.Request) (domain.FilteredView, domain.FilterSpec, error) {
	spec, err := h.parseSpec(r)
	if err != nil {
		return nil, spec, err
	}
	view, err := app.Apply(h.DS, spec)
	if err != nil {
		return nil, spec, err
	}
	view, err = app.SortView(view, parseSort(r))
	return view, spec, err
}

// ---- endpoints ----

type summaryResponse struct {
	TotalReviews int      `json:"total_reviews"`
	Brands       []string `json:"brands"`
	MinDate      string   `json:"min_date,omitempty"`
	MaxDate      string   `json:"max_date,omitempty"`
}

func (h *Handlers) summary(w http.ResponseWriter, r *http.Request) {
	resp := summaryResponse{TotalReviews: len(h.DS), Brands: h.DS.Brands()}
	if min, max, ok := h.DS.Span(); ok {
		resp.MinDate = min.Format("2006-01-02")
		resp.MaxDate = max.Format("2006-01-02")
	}
	writeJSON(w, r, resp)
}

type categoryInfo struct {
	Name     domain.Category `json:"name"`
	Keywords []string        `json:"keywords"`
}

func (h *Handlers) categories(w http.ResponseWriter, r *http.Request) {
	var out []categoryInfo
	for _, c := range domain.Categories() {
		kws, _ := c.Keywords()
		out = append(out, categoryInfo{Name: c, Keywords: kws})
	}
	writeJSON(w, r, out)
}

type reviewsResponse struct {
	TotalCount   int        `json:"total_count"`
	DatasetCount int        `json:"dataset_count"`
	Filters      string     `json:"filters"`
	Header       []string   `json:"header"`
	Rows         [][]string `json:"rows"`
}

func (h *Handlers) reviews(w http.ResponseWriter, r *http.Request) {
	view, spec, err := h.filteredSorted(r)
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid Filter", err.Error())
		return
	}
	header, rows, err := export.Table(view, parseColumns(r))
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid Columns", err.Error())
		return
	}
	writeJSON(w, r, reviewsResponse{
		TotalCount:   len(view),
		DatasetCount: len(h.DS),
		Filters:      spec.Describe(),
		Header:       header,
		Rows:         rows,
	})
}

type statsResponse struct {
	domain.AggregateResult
	Categories []domain.CategoryStats `json:"categories,omitempty"`
	Filters    string                 `json:"filters"`
}

func (h *Handlers) stats(w http.ResponseWriter, r *http.Request) {
	spec, err := h.parseSpec(r)
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid Filter", err.Error())
		return
	}
	bucket := domain.BucketDaily
	if r.URL.Query().Get("bucket") == "monthly" {
		bucket = domain.BucketMonthly
	}

	view, err := app.Apply(h.DS, spec)
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid Filter", err.Error())
		return
	}
	resp := statsResponse{
		AggregateResult: app.Aggregate(view, bucket),
		Filters:         spec.Describe(),
	}
	resp.Categories, err = app.CategoryBreakdown(h.DS, spec)
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid Filter", err.Error())
		return
	}
	writeJSON(w, r, resp)
}

type compareResponse struct {
	A domain.BrandStats `json:"a"`
	B domain.BrandStats `json:"b"`
}

func (h *Handlers) compare(w http.ResponseWriter, r *http.Request) {
	a, b := r.URL.Query().Get("a"), r.URL.Query().Get("b")
	if a == "" || b == "" {
		writeProblem(w, http.StatusBadRequest, "Invalid Brands", "both a and b brand params are required")
		return
	}
	sa, sb, err := app.CompareBrands(h.DS, a, b)
	switch {
	case errors.Is(err, domain.ErrComparisonUnavailable):
		writeProblem(w, http.StatusConflict, "Comparison Unavailable", err.Error())
		return
	case errors.Is(err, domain.ErrBrandNotFound):
		writeProblem(w, http.StatusNotFound, "Brand Not Found", err.Error())
		return
	case err != nil:
		writeProblem(w, http.StatusInternalServerError, "Comparison Failed", err.Error())
		return
	}
	writeJSON(w, r, compareResponse{A: sa, B: sb})
}

func (h *Handlers) exportCSV(w http.ResponseWriter, r *http.Request) {
	view, spec, err := h.filteredSorted(r)
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid Filter", err.Error())
		return
	}
	var buf bytes.Buffer
	if err := export.WriteCSV(&buf, view, parseColumns(r)); err != nil {
		writeProblem(w, http.StatusBadRequest, "Export Failed", err.Error())
		return
	}
	observability.ObserveExport("csv")
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", "attachment; filename="+exportName(spec, "csv"))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(buf.Bytes()); err != nil {
		log.Error().Err(err).Msg("failed to write csv export")
	}
}

func (h *Handlers) exportXLSX(w http.ResponseWriter, r *http.Request) {
	view, spec, err := h.filteredSorted(r)
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid Filter", err.Error())
		return
	}
	var buf bytes.Buffer
	if err := export.WriteXLSX(&buf, view, parseColumns(r)); err != nil {
		writeProblem(w, http.StatusBadRequest, "Export Failed", err.Error())
		return
	}
	observability.ObserveExport("xlsx")
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", "attachment; filename="+exportName(spec, "xlsx"))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(buf.Bytes()); err != nil {
		log.Error().Err(err).Msg("failed to write xlsx export")
	}
}

// exportName mirrors the dashboard's download naming:
// <brand>_reviews_<categories|all>_<yyyymmdd>.<ext>
func exportName(spec domain.FilterSpec, ext string) string {
	brand := "all_brands"
	if spec.BrandActive() {
		brand = strings.ToLower(strings.ReplaceAll(spec.Brand, " ", "_"))
	}
	suffix := "all"
	if len(spec.Categories) > 0 {
		parts := make([]string, len(spec.Categories))
		for i, c := range spec.Categories {
			parts[i] = string(c)
		}
		suffix = strings.Join(parts, "_")
	}
	return fmt.Sprintf("%s_reviews_%s_%s.%s", brand, suffix, time.Now().Format("20060102"), ext)
}
