package server

import (
	"fmt"
	"log"
	"net/http"
	"strings"

	"github.com/waterloosec/student-portal/googleauth"
	"github.com/waterloosec/student-portal/internal/config"
	"github.com/waterloosec/student-portal/otp"
	"github.com/waterloosec/student-portal/results"
	"github.com/waterloosec/student-portal/token"
	"github.com/waterloosec/student-portal/users"
)

// Components are the portal's services, constructed once at startup and
// shared read-only across requests.
type Components struct {
	Issuer          *otp.Issuer
	Verifier        *otp.Verifier
	GoogleBridge    *googleauth.Bridge
	AllowlistBridge *googleauth.AllowlistBridge
	Matcher         *results.Matcher
	Results         results.Repo
	Users           users.Repo
	Inspector       *token.Inspector
}

type Server struct {
	env        string // Environment (e.g., "DEV", "production")
	mux        *http.ServeMux
	routes     []string
	fileServer http.Handler
	config     config.Config
	components Components
}

func New(cfg config.Config, components Components) (*Server, error) {
	if components.Issuer == nil || components.Verifier == nil {
		return nil, fmt.Errorf("[Server New] OTP issuer and verifier are required")
	}
	if components.Matcher == nil || components.Results == nil {
		return nil, fmt.Errorf("[Server New] results matcher and repo are required")
	}

	s := &Server{
		mux:        http.NewServeMux(),
		config:     cfg,
		components: components,
	}
	s.env = cfg.GetEnv()
	s.fileServer = FileServerHandler()

	s.initRoutes()
	s.logRoutes()

	return s, nil
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) RegisterRouteHandler(pattern string, handler http.Handler) {
	s.routes = append(s.routes, pattern)
	s.mux.Handle(pattern, handler)
}

func (s *Server) RegisterRouteFunc(pattern string, handler func(http.ResponseWriter, *http.Request)) {
	s.routes = append(s.routes, pattern)
	s.mux.HandleFunc(pattern, handler)
}

func (s *Server) logRoutes() {
	if s.env != "DEV" {
		return // Skip logging in non-development environments
	}
	for _, route := range s.routes {
		parts := strings.SplitN(route, " ", 2)

		if len(parts) > 1 {
			logRoute(parts[0], parts[1])
		} else {
			logRoute("", parts[0])
		}
	}
}

func logRoute(method, path string) {
	var displayMethod string
	paddedMethod := fmt.Sprintf(" %-7s", method)
	if color, ok := methodColors[method]; ok {
		displayMethod = color + paddedMethod + ResetColor
	} else {
		displayMethod = Gray + paddedMethod + ResetColor
	}
	log.Printf("[%-19s] %s\n", displayMethod, path)
}

func logError(method, path, error string) {
	var displayMethod string
	paddedMethod := fmt.Sprintf(" %-7s", method)
	if color, ok := methodColors[method]; ok {
		displayMethod = color + paddedMethod + ResetColor
	} else {
		displayMethod = Gray + paddedMethod + ResetColor
	}
	errorString := Red + error + ResetColor
	log.Printf("[%-19s] %s %s\n", displayMethod, path, errorString)
}

// Helper function to determine the scheme (http/https)
func getScheme(r *http.Request) string {
	if r.TLS != nil {
		return "https"
	}
	if scheme := r.Header.Get("X-Forwarded-Proto"); scheme != "" {
		return scheme
	}
	return "http"
}
