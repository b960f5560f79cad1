package wiki

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"
)

// Router builds the HTTP API for the service. Failure responses carry the
// taxonomy message under {"error"} with the mapped status code.
func Router(s *Service) chi.Router {
	r := chi.NewRouter()

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	r.Get("/api/search", func(w http.ResponseWriter, req *http.Request) {
		q := req.URL.Query().Get("q")
		if q == "" {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "q is required"})
			return
		}
		resp, err := s.Search(req.Context(), q, queryInt(req, "limit", 10))
		if err != nil {
			writeError(w, httpStatus(err), err)
			return
		}
		writeJSON(w, http.StatusOK, resp)
	})

	r.Get("/api/smart-search", func(w http.ResponseWriter, req *http.Request) {
		q := req.URL.Query().Get("q")
		if q == "" {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "q is required"})
			return
		}
		resp, err := s.SmartSearch(req.Context(), q, queryInt(req, "limit", 10))
		if err != nil {
			writeError(w, httpStatus(err), err)
			return
		}
		writeJSON(w, http.StatusOK, resp)
	})

	r.Get("/api/page/{title}", func(w http.ResponseWriter, req *http.Request) {
		resp, err := s.GetPageData(req.Context(), pageTitle(req))
		if err != nil {
			writeError(w, httpStatus(err), err)
			return
		}
		writeJSON(w, http.StatusOK, resp)
	})

	r.Get("/api/page/{title}/markdown", func(w http.ResponseWriter, req *http.Request) {
		resp, err := s.GetPageMarkdown(req.Context(), pageTitle(req))
		if err != nil {
			writeError(w, httpStatus(err), err)
			return
		}
		writeJSON(w, http.StatusOK, resp)
	})

	r.Get("/api/cache/stats", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, s.CacheStats())
	})

	r.Get("/api/history", func(w http.ResponseWriter, req *http.Request) {
		entries, err := s.FetchHistory(req.Context(), queryInt(req, "limit", 50))
		if err != nil {
			writeError(w, http.StatusInternalServerError, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{"entries": entries})
	})

	return r
}

// pageTitle reads the title path segment, tolerating percent-encoded spaces
// and underscores as word separators.
func pageTitle(req *http.Request) string {
	title := chi.URLParam(req, "title")
	if decoded, err := url.PathUnescape(title); err == nil {
		title = decoded
	}
	return title
}

func queryInt(req *http.Request, key string, def int) int {
	s := req.URL.Query().Get(key)
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, err error) {
	writeJSON(w, code, map[string]any{"success": false, "error": err.Error()})
}
