package server

import (
	"net/http"
	"strings"
)

func (s *Server) initRoutes() {
	// OTP login
	s.RegisterRouteHandler("POST "+RouteSendOTP, ChainMiddleware(s.SendOTPHandler(), s.APIMiddleware()...))
	s.RegisterRouteHandler("POST "+RouteVerifyOTP, ChainMiddleware(s.VerifyOTPHandler(), s.APIMiddleware()...))

	// Google sign-in
	s.RegisterRouteFunc("GET "+RouteGoogleAuth, s.GoogleAuthHandler())
	s.RegisterRouteHandler("POST "+RouteGoogleSignIn, ChainMiddleware(s.GoogleSignInHandler(), s.APIMiddleware()...))

	// Results
	s.RegisterRouteHandler("GET "+RouteResults, ChainMiddleware(s.ResultsHandler(), s.APIMiddleware()...))
	s.RegisterRouteHandler("GET "+RouteMyResults, ChainMiddleware(s.MyResultsHandler(), s.APIMiddleware()...))

	// Preflight for the API routes above
	s.RegisterRouteHandler("OPTIONS /", ChainMiddleware(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}, s.APIMiddleware()...))

	s.RegisterRouteFunc("GET "+RouteHealth, s.HealthHandler())

	// Static pages
	s.RegisterRouteFunc("GET /", s.IndexHandler())
	s.RegisterRouteHandler("GET /{file}", ChainMiddleware(s.serveFileHandler(), s.HTMLMiddleware()...))
}

func (s *Server) serveFileHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		filePath := strings.TrimPrefix(r.URL.Path, "/")
		if filePath == "" {
			http.Error(w, "404 - Page Not Found", http.StatusNotFound)
			return
		}
		err := StreamFile(w, r, filePath)
		if err != nil {
			logError("GET", filePath, err.Error())
			http.Error(w, "404 - Page Not Found", http.StatusNotFound)
			return
		}
	}
}

// IndexHandler serves the dashboard page at the root path.
func (s *Server) IndexHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := StreamFile(w, r, "index.html"); err != nil {
			logError("GET", "/", err.Error())
			http.Error(w, "404 - Page Not Found", http.StatusNotFound)
		}
	}
}
