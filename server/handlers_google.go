package server

import (
	"encoding/json"
	"html/template"
	"net/http"

	"github.com/rs/zerolog/log"

	apperrors "github.com/waterloosec/student-portal/internal/errors"
	"github.com/waterloosec/student-portal/token"
)

// googleSuccessData feeds the post-login page that persists the session
// into client storage and moves on to the dashboard.
type googleSuccessData struct {
	UserJSON    string
	Token       string
	RedirectURL string
}

type googleErrorData struct {
	Message  string
	LoginURL string
}

// GoogleAuthHandler is the server-side OAuth callback: it exchanges the
// authorization code, verifies the resulting ID token and renders an
// HTML page that stores the session client-side. Exchange or
// verification failure renders a distinguishable error page - the user
// is never silently logged in.
func (s *Server) GoogleAuthHandler() http.HandlerFunc {
	successTmpl, err := ParseTemplate("google_success.html")
	if err != nil {
		panic("Failed to parse google success template: " + err.Error())
	}
	errorTmpl, err := ParseTemplate("google_error.html")
	if err != nil {
		panic("Failed to parse google error template: " + err.Error())
	}

	return func(w http.ResponseWriter, r *http.Request) {
		code := r.URL.Query().Get("code")
		if code == "" {
			http.Redirect(w, r, RouteLoginPage+"?error=no_auth_code", http.StatusFound)
			return
		}

		if s.components.GoogleBridge == nil {
			s.renderGoogleError(w, errorTmpl, http.StatusServiceUnavailable, "Google sign-in is not configured")
			return
		}

		result, err := s.components.GoogleBridge.Exchange(r.Context(), code)
		if err != nil {
			log.Error().Err(err).Msg("google auth failed")
			s.renderGoogleError(w, errorTmpl, statusForError(err), googleErrorMessage(err))
			return
		}

		profile := map[string]string{
			"name":        result.Identity.Name,
			"email":       result.Identity.Email,
			"loginMethod": string(token.LoginMethodGoogle),
		}
		profileJSON, err := json.Marshal(profile)
		if err != nil {
			s.renderGoogleError(w, errorTmpl, http.StatusInternalServerError, "Login failed")
			return
		}

		w.Header().Set("Content-Type", contentTypeHTML)
		_ = successTmpl.Execute(w, googleSuccessData{
			UserJSON:    string(profileJSON),
			Token:       result.Token,
			RedirectURL: RouteDashboard,
		})
	}
}

func (s *Server) renderGoogleError(w http.ResponseWriter, tmpl *template.Template, status int, message string) {
	w.Header().Set("Content-Type", contentTypeHTML)
	w.WriteHeader(status)
	_ = tmpl.Execute(w, googleErrorData{Message: message, LoginURL: RouteLoginPage})
}

func googleErrorMessage(err error) string {
	switch {
	case apperrors.Is(err, apperrors.ErrUpstreamProvider):
		return "Could not reach Google to complete sign-in"
	case apperrors.Is(err, apperrors.ErrAuthRejected):
		return "Google sign-in could not be verified"
	default:
		return "Login failed"
	}
}

type googleSignInRequest struct {
	Email string `json:"email"`
}

type googleSignInResponse struct {
	Success bool              `json:"success"`
	Token   string            `json:"token"`
	User    map[string]string `json:"user"`
}

// GoogleSignInHandler is the allow-list variant: the submitted email is
// accepted only if present in the fixed allow-list.
func (s *Server) GoogleSignInHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req googleSignInRequest
		if err := decodeJSON(r, &req); err != nil {
			writeJSONError(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		result, err := s.components.AllowlistBridge.SignIn(req.Email)
		if err != nil {
			message := "Login failed"
			switch {
			case apperrors.Is(err, apperrors.ErrValidation):
				message = "Email is required"
			case apperrors.Is(err, apperrors.ErrAuthRejected):
				message = "Email not registered in student portal"
			}
			writeJSONError(w, statusForError(err), message)
			return
		}

		writeJSON(w, http.StatusOK, googleSignInResponse{
			Success: true,
			Token:   result.Token,
			User: map[string]string{
				"name":        result.Identity.Name,
				"email":       result.Identity.Email,
				"loginMethod": string(token.LoginMethodGoogle),
			},
		})
	}
}
