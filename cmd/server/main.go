package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"
	"time"

	"github.com/common-nighthawk/go-figure"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"

	"github.com/waterloosec/student-portal/googleauth"
	"github.com/waterloosec/student-portal/internal/config"
	"github.com/waterloosec/student-portal/otp"
	"github.com/waterloosec/student-portal/results"
	"github.com/waterloosec/student-portal/server"
	"github.com/waterloosec/student-portal/token"
	"github.com/waterloosec/student-portal/users"
)

func main() {
	// Missing .env is fine; real deployments configure the environment
	// directly.
	_ = godotenv.Load()
	zlog.Logger = zlog.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	for {
		if err := run(); err != nil {
			log.Fatalf("Error running server: %s\n", err)
			time.Sleep(1 * time.Second)
		} else {
			break
		}
	}
	log.Printf("Server stopped\n")
}

func run() (returnError error) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Recovered from panic: %v\n", r)
			debug.PrintStack()
			returnError = errors.New("panic recovered")
		}
	}()

	c := config.New()
	displayAppname(c.GetAppName())

	srv, err := server.New(c, buildComponents(c))
	if err != nil {
		return fmt.Errorf("server.New: %w", err)
	}

	httpServer := &http.Server{Addr: c.GetPort(), Handler: srv}
	go listenAndServe(httpServer)
	waitForStopSignal()
	returnError = shutdown(httpServer)
	return returnError
}

// buildComponents wires the portal's services from the startup config.
// Everything here is constructed once and read-only afterwards.
func buildComponents(c config.Config) server.Components {
	signer := token.NewHMACSigner(c.GetJWTSecret())
	tokenCreator := token.NewCreator(c, signer)

	var sender otp.SMSSender
	if c.HasTwilioCredentials() {
		sender = otp.NewTwilioSender(c)
	} else {
		zlog.Warn().Msg("no Twilio credentials configured, OTPs will be returned to callers")
	}

	var googleBridge *googleauth.Bridge
	if c.GetGoogleClientID() != "" {
		googleBridge = googleauth.NewBridge(c, tokenCreator, c.GetBaseURL()+server.RouteGoogleAuth)
	}

	userRepo := users.NewJSONRepo(c.GetDataFolder())
	resultsRepo := results.NewJSONRepo(c.GetDataFolder())

	return server.Components{
		Issuer:          otp.NewIssuer(sender),
		Verifier:        otp.NewVerifier(userRepo, tokenCreator, c),
		GoogleBridge:    googleBridge,
		AllowlistBridge: googleauth.NewAllowlistBridge(googleauth.DefaultAllowlist(), tokenCreator),
		Matcher:         results.NewMatcher(resultsRepo),
		Results:         resultsRepo,
		Users:           userRepo,
		Inspector:       token.NewInspector(signer),
	}
}

func listenAndServe(server *http.Server) error {
	log.Printf("Server listening on %s\n", server.Addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server.ListenAndServe %w", err)
	}
	return nil
}

func waitForStopSignal() {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
}

func shutdown(server *http.Server) error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server.Shutdown: %w", err)
	}
	return nil
}

func displayAppname(appname string) {
	myFigure := figure.NewFigure(appname, "cybermedium", true)
	myFigure.Print()
	fmt.Println()
}
