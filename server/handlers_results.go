package server

import (
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	apperrors "github.com/waterloosec/student-portal/internal/errors"
	"github.com/waterloosec/student-portal/results"
)

type resultsResponse struct {
	Students []results.Student `json:"students"`
}

// ResultsHandler serves the full results dataset. The client is
// expected to already hold a session token; no server-side gate is
// applied here, matching the deployed behaviour.
func (s *Server) ResultsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		students, err := s.components.Results.List()
		if err != nil {
			// Opaque on purpose: dataset errors must not leak paths.
			log.Error().Err(err).Msg("loading results dataset")
			writeJSONError(w, http.StatusInternalServerError, "Failed to load results")
			return
		}
		writeJSON(w, http.StatusOK, resultsResponse{Students: students})
	}
}

type notFoundResponse struct {
	Success  bool     `json:"success"`
	Error    string   `json:"error"`
	Students []string `json:"students,omitempty"`
}

// MyResultsHandler computes the signed-in caller's result report from
// the bearer token's name claim: matched student, per-subject grades,
// total, average and class rank.
func (s *Server) MyResultsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		introspection, err := s.components.Inspector.Introspect(bearerToken(r))
		if err != nil || !introspection.Active {
			writeJSONError(w, http.StatusUnauthorized, "Authentication required")
			return
		}

		report, err := s.components.Matcher.ReportFor(introspection.Name)
		if err != nil {
			var notFound *results.NotFoundError
			switch {
			case apperrors.As(err, &notFound):
				resp := notFoundResponse{
					Success: false,
					Error:   "No results found for: " + notFound.Name,
				}
				// The dataset is non-sensitive, but only development
				// deployments list the known names to aid debugging.
				if s.env == "DEV" {
					resp.Students = notFound.KnownNames
				}
				writeJSON(w, http.StatusNotFound, resp)
			default:
				log.Error().Err(err).Msg("computing result report")
				writeJSONError(w, http.StatusInternalServerError, "Failed to load results")
			}
			return
		}

		writeJSON(w, http.StatusOK, report)
	}
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if after, ok := strings.CutPrefix(header, "Bearer "); ok {
		return after
	}
	return ""
}
