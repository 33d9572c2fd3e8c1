package server_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/waterloosec/student-portal/googleauth"
	"github.com/waterloosec/student-portal/internal/config"
	apperrors "github.com/waterloosec/student-portal/internal/errors"
	"github.com/waterloosec/student-portal/otp"
	"github.com/waterloosec/student-portal/results"
	fakeresultsrepo "github.com/waterloosec/student-portal/results/repofake"
	"github.com/waterloosec/student-portal/server"
	"github.com/waterloosec/student-portal/token"
	"github.com/waterloosec/student-portal/users"
	fakeuserrepo "github.com/waterloosec/student-portal/users/repofake"
)

const registeredPhone = "+18681234567"

type serverFixture struct {
	server      *server.Server
	resultsRepo *fakeresultsrepo.FakeResultsRepo
	tokens      *token.Creator
}

func setupServer(t *testing.T) *serverFixture {
	t.Helper()

	cfg := config.New()
	signer := token.NewHMACSigner(cfg.GetJWTSecret())
	tokenCreator := token.NewCreator(cfg, signer)

	userRepo := fakeuserrepo.NewFakeUserRepo(users.User{
		Name:  "Ann Smith",
		Phone: registeredPhone,
		Email: "ann@example.com",
	})
	resultsRepo := fakeresultsrepo.NewFakeResultsRepo(
		results.Student{Name: "Ann Smith", Scores: map[string]int{"math": 90, "sci": 70}},
		results.Student{Name: "Bo Jones", Scores: map[string]int{"math": 80, "sci": 80}},
	)

	srv, err := server.New(cfg, server.Components{
		Issuer:          otp.NewIssuer(nil),
		Verifier:        otp.NewVerifier(userRepo, tokenCreator, cfg),
		AllowlistBridge: googleauth.NewAllowlistBridge(googleauth.Allowlist{"ann@example.com": "Ann Smith"}, tokenCreator),
		Matcher:         results.NewMatcher(resultsRepo),
		Results:         resultsRepo,
		Users:           userRepo,
		Inspector:       token.NewInspector(signer),
	})
	require.NoError(t, err)

	return &serverFixture{
		server:      srv,
		resultsRepo: resultsRepo,
		tokens:      tokenCreator,
	}
}

func (f *serverFixture) do(t *testing.T, method, target, body string, header http.Header) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	rec := httptest.NewRecorder()
	f.server.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestSendOTPEndpoint(t *testing.T) {
	f := setupServer(t)

	t.Run("missing phone number", func(t *testing.T) {
		rec := f.do(t, http.MethodPost, "/send-otp", `{"phoneNumber": ""}`, nil)
		require.Equal(t, http.StatusBadRequest, rec.Code)

		body := decodeBody(t, rec)
		require.Equal(t, false, body["success"])
		require.Equal(t, "Phone number is required", body["error"])
	})

	t.Run("fallback returns the code", func(t *testing.T) {
		rec := f.do(t, http.MethodPost, "/send-otp", `{"phoneNumber": "+18680000000"}`, nil)
		require.Equal(t, http.StatusOK, rec.Code)

		body := decodeBody(t, rec)
		require.Equal(t, true, body["success"])
		require.Regexp(t, regexp.MustCompile(`^\d{6}$`), body["otp"])
	})

	t.Run("unknown static path", func(t *testing.T) {
		rec := f.do(t, http.MethodGet, "/no-such-page.html", "", nil)
		require.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestVerifyOTPEndpoint(t *testing.T) {
	t.Run("bad code length", func(t *testing.T) {
		f := setupServer(t)
		rec := f.do(t, http.MethodPost, "/verify-otp", `{"phoneNumber": "`+registeredPhone+`", "otp": "123"}`, nil)
		require.Equal(t, http.StatusBadRequest, rec.Code)
		require.Equal(t, "OTP must be 6 digits", decodeBody(t, rec)["error"])
	})

	t.Run("unregistered phone", func(t *testing.T) {
		f := setupServer(t)
		rec := f.do(t, http.MethodPost, "/verify-otp", `{"phoneNumber": "+15550000000", "otp": "123456"}`, nil)
		require.Equal(t, http.StatusNotFound, rec.Code)
		require.Contains(t, decodeBody(t, rec)["error"], "not registered")
	})

	t.Run("successful login returns token and profile", func(t *testing.T) {
		f := setupServer(t)
		rec := f.do(t, http.MethodPost, "/verify-otp", `{"phoneNumber": "`+registeredPhone+`", "otp": "123456"}`, nil)
		require.Equal(t, http.StatusOK, rec.Code)

		body := decodeBody(t, rec)
		require.Equal(t, true, body["success"])
		require.NotEmpty(t, body["token"])

		user := body["user"].(map[string]any)
		require.Equal(t, "Ann Smith", user["name"])
		require.Equal(t, registeredPhone, user["phone"])
	})

	t.Run("wrong code rejected outside development", func(t *testing.T) {
		t.Setenv("ENV", "production")
		f := setupServer(t)

		rec := f.do(t, http.MethodPost, "/verify-otp", `{"phoneNumber": "`+registeredPhone+`", "otp": "654321"}`, nil)
		require.Equal(t, http.StatusBadRequest, rec.Code)
		require.Equal(t, "Invalid or expired OTP", decodeBody(t, rec)["error"])
	})
}

func TestResultsEndpoint(t *testing.T) {
	t.Run("serves the full dataset", func(t *testing.T) {
		f := setupServer(t)
		rec := f.do(t, http.MethodGet, "/results", "", nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var body struct {
			Students []results.Student `json:"students"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		require.Len(t, body.Students, 2)
	})

	t.Run("dataset failure is opaque", func(t *testing.T) {
		f := setupServer(t)
		f.resultsRepo.FailWith(apperrors.Wrapf(apperrors.ErrDataLoad, "reading /secret/path/results.json"))

		rec := f.do(t, http.MethodGet, "/results", "", nil)
		require.Equal(t, http.StatusInternalServerError, rec.Code)
		require.Equal(t, "Failed to load results", decodeBody(t, rec)["error"])
		require.NotContains(t, rec.Body.String(), "/secret/path")
	})
}

func TestMyResultsEndpoint(t *testing.T) {
	signIn := func(t *testing.T, f *serverFixture, name string) string {
		t.Helper()
		signed, err := f.tokens.CreateSessionToken(token.Session{
			SubjectID:   "x@example.com",
			Name:        name,
			LoginMethod: token.LoginMethodGoogle,
		})
		require.NoError(t, err)
		return signed
	}

	t.Run("requires a bearer token", func(t *testing.T) {
		f := setupServer(t)
		rec := f.do(t, http.MethodGet, "/my-results", "", nil)
		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("case-mismatched name matches and computes the report", func(t *testing.T) {
		f := setupServer(t)
		header := http.Header{"Authorization": []string{"Bearer " + signIn(t, f, "ann smith")}}

		rec := f.do(t, http.MethodGet, "/my-results", "", header)
		require.Equal(t, http.StatusOK, rec.Code)

		var report results.Report
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &report))
		require.Equal(t, "Ann Smith", report.Name)
		require.Equal(t, 160, report.Total)
		require.Equal(t, 80, report.Average)
		require.Equal(t, 1, report.Rank)
		require.Equal(t, 2, report.ClassSize)
	})

	t.Run("unknown name lists known students in development", func(t *testing.T) {
		f := setupServer(t)
		header := http.Header{"Authorization": []string{"Bearer " + signIn(t, f, "Zara")}}

		rec := f.do(t, http.MethodGet, "/my-results", "", header)
		require.Equal(t, http.StatusNotFound, rec.Code)

		body := decodeBody(t, rec)
		require.Contains(t, body["error"], "Zara")
		require.ElementsMatch(t, []any{"Ann Smith", "Bo Jones"}, body["students"])
	})

	t.Run("unknown name stays terse outside development", func(t *testing.T) {
		t.Setenv("ENV", "production")
		f := setupServer(t)
		header := http.Header{"Authorization": []string{"Bearer " + signIn(t, f, "Zara")}}

		rec := f.do(t, http.MethodGet, "/my-results", "", header)
		require.Equal(t, http.StatusNotFound, rec.Code)
		require.NotContains(t, rec.Body.String(), "Ann Smith")
	})
}

func TestGoogleEndpoints(t *testing.T) {
	t.Run("allow-list sign-in succeeds for a registered email", func(t *testing.T) {
		f := setupServer(t)
		rec := f.do(t, http.MethodPost, "/google-signin", `{"email": "ann@example.com"}`, nil)
		require.Equal(t, http.StatusOK, rec.Code)

		body := decodeBody(t, rec)
		require.Equal(t, true, body["success"])
		require.NotEmpty(t, body["token"])

		user := body["user"].(map[string]any)
		require.Equal(t, "Ann Smith", user["name"])
		require.Equal(t, "google", user["loginMethod"])
	})

	t.Run("allow-list sign-in rejects an unknown email", func(t *testing.T) {
		f := setupServer(t)
		rec := f.do(t, http.MethodPost, "/google-signin", `{"email": "stranger@example.com"}`, nil)
		require.Equal(t, http.StatusBadRequest, rec.Code)
		require.Equal(t, "Email not registered in student portal", decodeBody(t, rec)["error"])
	})

	t.Run("callback without a code redirects to login", func(t *testing.T) {
		f := setupServer(t)
		rec := f.do(t, http.MethodGet, "/google-auth", "", nil)
		require.Equal(t, http.StatusFound, rec.Code)
		require.Equal(t, "/login.html?error=no_auth_code", rec.Header().Get("Location"))
	})

	t.Run("callback without a configured bridge renders an error page", func(t *testing.T) {
		f := setupServer(t)
		rec := f.do(t, http.MethodGet, "/google-auth?code=abc", "", nil)
		require.Equal(t, http.StatusServiceUnavailable, rec.Code)
		require.Contains(t, rec.Body.String(), "not configured")
		require.Contains(t, rec.Body.String(), "/login.html")
	})
}

func TestHealthEndpoint(t *testing.T) {
	f := setupServer(t)
	rec := f.do(t, http.MethodGet, "/healthz", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "ok", decodeBody(t, rec)["status"])
}

func TestCORSHeaders(t *testing.T) {
	f := setupServer(t)

	t.Run("preflight", func(t *testing.T) {
		header := http.Header{"Origin": []string{"http://localhost:5173"}}
		rec := f.do(t, http.MethodOptions, "/send-otp", "", header)
		require.Equal(t, http.StatusOK, rec.Code)
		require.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
		require.NotEmpty(t, rec.Header().Get("Access-Control-Allow-Methods"))
	})

	t.Run("actual request carries the allow-origin header", func(t *testing.T) {
		header := http.Header{"Origin": []string{"http://localhost:5173"}}
		rec := f.do(t, http.MethodGet, "/results", "", header)
		require.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	})
}
