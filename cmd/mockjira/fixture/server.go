package fixture

import (
	"encoding/json"
	"net/http"
	"strconv"

	"flow-metrics/internal/jira"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"
)

// NewHandler serves issues from the Jira Cloud search endpoint. Any basic-auth
// pair is accepted; requests without one get a 401 like the real service.
func NewHandler(issues []jira.IssueDTO) http.Handler {
	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Get("/rest/api/3/search", func(w http.ResponseWriter, r *http.Request) {
		user, _, ok := r.BasicAuth()
		if !ok {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"errorMessages":["You are not authenticated."]}`))
			return
		}

		maxResults, _ := strconv.Atoi(r.URL.Query().Get("maxResults"))
		resp, err := Response(issues, maxResults)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		log.Info().
			Str("user", user).
			Str("jql", r.URL.Query().Get("jql")).
			Int("maxResults", maxResults).
			Int("returned", len(*resp.Issues)).
			Msg("Served mock search")

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	})
	return router
}
