// internal/adapters/http_server/handlers.go
package httpserver

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"onsen_map/internal/app"
	"onsen_map/internal/domain"
)

type Handlers struct{ P *app.PageService }

type problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

type ryokanResponse struct {
	Ryokan *domain.Ryokan `json:"ryokan"`
}

type mapItemsResponse struct {
	Layer domain.MapLayer  `json:"layer"`
	Items []domain.MapItem `json:"items"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })
	s.mux.Route("/api", func(r chi.Router) {
		r.Get("/ryokans", h.home)
		r.Get("/ryokans/slug/{slug}", h.ryokanBySlug)
		r.Get("/ryokans/{id}", h.ryokan)
		r.Get("/map-items", h.mapItems)
	})
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

// writeJSON sends v with a weak ETag, answering 304 when the client already
// holds the same body. Draft previews are never stored by shared caches.
func writeJSON(w http.ResponseWriter, r *http.Request, v any, draft bool) {
	etag, body := calcETagAndBody(v)
	if body == nil {
		writeProblem(w, http.StatusInternalServerError, "Internal Server Error", "could not encode response")
		return
	}
	if draft {
		w.Header().Set("Cache-Control", "private, no-store")
	}
	w.Header().Set("ETag", etag)
	if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Str("route", routeOf(r)).Msg("failed to write body")
	}
}

func (h *Handlers) home(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filters, err := parseFilters(q)
	if err != nil {
		writeProblem(w, http.StatusBadRequest, "Invalid filter", err.Error())
		return
	}
	draftKey := q.Get("draftKey")
	out := h.P.LoadHome(r.Context(), app.HomeRequest{
		DraftKey: draftKey,
		Query:    strings.TrimSpace(q.Get("q")),
		Filters:  filters,
	})
	writeJSON(w, r, out, draftKey != "")
}

func (h *Handlers) ryokan(w http.ResponseWriter, r *http.Request) {
	draftKey := r.URL.Query().Get("draftKey")
	out := ryokanResponse{Ryokan: h.P.LoadRyokan(r.Context(), chi.URLParam(r, "id"), draftKey)}
	writeJSON(w, r, out, draftKey != "")
}

func (h *Handlers) ryokanBySlug(w http.ResponseWriter, r *http.Request) {
	draftKey := r.URL.Query().Get("draftKey")
	out := ryokanResponse{Ryokan: h.P.LoadRyokanBySlug(r.Context(), chi.URLParam(r, "slug"), draftKey)}
	writeJSON(w, r, out, draftKey != "")
}

func (h *Handlers) mapItems(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	layer := domain.ParseMapLayer(q.Get("layer"))
	draftKey := q.Get("draftKey")
	out := mapItemsResponse{Layer: layer, Items: h.P.LoadMapItems(r.Context(), layer, draftKey)}
	writeJSON(w, r, out, draftKey != "")
}

// ---- query parsing ----

type badParam struct{ name, reason string }

func (e badParam) Error() string { return e.name + " " + e.reason }

func parseFilters(q url.Values) (domain.RyokanFilters, error) {
	var f domain.RyokanFilters

	minS, maxS := q.Get("priceMin"), q.Get("priceMax")
	if minS != "" || maxS != "" {
		pr := domain.PriceRange{}
		var err error
		if pr.Min, err = atoiParam("priceMin", minS); err != nil {
			return f, err
		}
		if pr.Max, err = atoiParam("priceMax", maxS); err != nil {
			return f, err
		}
		if pr.Max > 0 && pr.Min > pr.Max {
			return f, badParam{"priceMin", "must not exceed priceMax"}
		}
		f.PriceRange = &pr
	}

	f.Facilities = splitList(q.Get("facilities"))
	f.Dining = splitList(q.Get("dining"))

	var err error
	if f.HasLanguageService, err = boolParam(q, "languageService"); err != nil {
		return f, err
	}
	if f.TattooFriendly, err = boolParam(q, "tattooFriendly"); err != nil {
		return f, err
	}
	if f.DailyUse, err = boolParam(q, "dailyUse"); err != nil {
		return f, err
	}
	return f, nil
}

func atoiParam(name, v string) (int, error) {
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, badParam{name, "must be a non-negative integer"}
	}
	return n, nil
}

func boolParam(q url.Values, name string) (bool, error) {
	v := q.Get(name)
	if v == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, badParam{name, "must be a boolean"}
	}
	return b, nil
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
