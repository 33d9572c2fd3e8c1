package server

// Route path constants
// All application routes are defined here to ensure consistency and prevent typos
const (
	// OTP login
	RouteSendOTP   = "/send-otp"
	RouteVerifyOTP = "/verify-otp"

	// Google sign-in
	RouteGoogleAuth   = "/google-auth"   // server-side OAuth callback
	RouteGoogleSignIn = "/google-signin" // allow-list variant

	// Results
	RouteResults   = "/results"
	RouteMyResults = "/my-results"

	// Service
	RouteHealth = "/healthz"

	// Pages
	RouteLoginPage = "/login.html"
	RouteDashboard = "/index.html"
)
