// Kifulog forwards donation notification emails to a chat webhook and a
// Google Sheets ledger. It is meant to run from cron; every handled failure
// is logged and the process still exits 0.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"os/exec"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/gmail/v1"
	"google.golang.org/api/sheets/v4"

	"github.com/ymkw/kifulog/internal/auth"
	"github.com/ymkw/kifulog/internal/config"
	"github.com/ymkw/kifulog/internal/gservice"
	"github.com/ymkw/kifulog/internal/ledger"
	"github.com/ymkw/kifulog/internal/notify"
	"github.com/ymkw/kifulog/internal/relay"
	"github.com/ymkw/kifulog/internal/scanner"
)

func main() {
	httpAddr := flag.String("http-addr", "localhost:0", "OAuth callback listen addr")
	oauthTokenFile := flag.String("oauth-token-file", "./data/kifulog-token.json", "Path to cache google oauth token, empty to avoid storing")
	oauthURLParam := flag.String("oauth-url", "", "OAuth URL")
	envFileParam := flag.String("env-file", "", "Path to env file")
	configFileParam := flag.String("config", "", "Path to YAML config file")
	logFile := flag.String("log-file", "", "Path to log file (defaults to stdout)")

	flag.Parse()

	persistLogs := setupLogger(logFile)
	defer persistLogs()

	if *envFileParam != "" {
		if err := godotenv.Load(*envFileParam); err != nil {
			panic(fmt.Errorf("godotenv.Load failed: %w", err))
		}
	}

	cfg := mustLoadConfig(configFileParam)

	ln := mustListen(httpAddr)
	oauthCfg := mustCreateOauthCfg(ln.Addr().String(), oauthURLParam)

	tok, err := auth.NewToken(oauthCfg, *oauthTokenFile)
	if err != nil {
		panic(fmt.Errorf("auth.NewToken failed: %w", err))
	}

	defer func() {
		if err := tok.Persist(); err != nil {
			log.Println(fmt.Errorf("tok.Persist failed: %w", err))
		}
	}()

	stopHTTP := serveOauth(ln, tok)
	defer stopHTTP()

	if !waitAuthorized(tok, oauthCfg.RedirectURL) {
		return
	}

	ctx := context.Background()
	buildRelay(ctx, cfg, oauthCfg, tok).Run(ctx)
}

func buildRelay(ctx context.Context, cfg config.Config, oauthCfg *oauth2.Config, tok *auth.Token) *relay.Relay {
	gmailSvc := gservice.NewGmail(oauthCfg, tok)

	var notifier relay.Notifier
	if cfg.NotificationCapable() {
		notifier = notify.New(cfg.WebhookURL)
	}

	var recorder relay.Recorder
	if cfg.LedgerCapable() {
		rec := ledger.New(gservice.NewSheets(oauthCfg, tok), cfg.SpreadsheetID, cfg.SheetName)
		rec.EnsureHeaders(ctx)
		recorder = rec
	}

	return relay.New(scanner.New(gmailSvc), notifier, recorder, gmailSvc)
}

// waitAuthorized blocks until an OAuth token is available. On a first run it
// opens the browser for the consent flow; SIGINT/SIGTERM aborts the wait.
func waitAuthorized(tok *auth.Token, oauthURL string) bool {
	select {
	case <-tok.Authorized():
		return true
	default:
	}

	openBrowser(oauthURL)
	log.Println("Waiting for OAuth authorization...")

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGTERM, syscall.SIGINT)
	defer signal.Stop(shutdown)

	select {
	case <-tok.Authorized():
		return true
	case <-shutdown:
		log.Println("Shutdown signal received before authorization")
		return false
	}
}

func serveOauth(ln net.Listener, tok *auth.Token) func() {
	mux := http.NewServeMux()
	mux.Handle("/oauth", auth.NewHTTPHandler(tok))

	srv := &http.Server{Handler: mux}

	errCh := make(chan error, 1)
	go func() {
		defer close(errCh)

		log.Println("OAuth callback server on", ln.Addr().String())

		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			err = fmt.Errorf("srv.Serve failed: %w", err)
			log.Println(err)
			errCh <- err
		}
	}()

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			log.Println(fmt.Errorf("srv.Shutdown failed: %w", err))
		}

		<-errCh
	}
}

func mustLoadConfig(configFileParam *string) config.Config {
	if configFileParam != nil && *configFileParam != "" {
		cfg, err := config.LoadFromFile(*configFileParam)
		if err != nil {
			panic(fmt.Errorf("config.LoadFromFile failed: %w", err))
		}

		return cfg
	}

	return config.Load()
}

func mustListen(httpAddr *string) net.Listener {
	if httpAddr == nil {
		panic("-http-addr must be provided")
	}

	ln, err := net.Listen("tcp", *httpAddr)
	if err != nil {
		panic(fmt.Errorf("net.Listen failed: %w", err))
	}

	return ln
}

func mustCreateOauthCfg(lnAddr string, oauthURLParam *string) *oauth2.Config {
	oauthClientID := os.Getenv("OAUTH_GOOGLE_CLIENT_ID")
	oauthClientSec := os.Getenv("OAUTH_GOOGLE_CLIENT_SECRET")

	if oauthClientID == "" || oauthClientSec == "" {
		panic("Env variables OAUTH_GOOGLE_CLIENT_ID and OAUTH_GOOGLE_CLIENT_SECRET must be set")
	}

	oauthURL := fmt.Sprintf("http://%s/oauth", lnAddr)
	if oauthURLParam != nil && *oauthURLParam != "" {
		oauthURL = *oauthURLParam
	}

	return &oauth2.Config{
		ClientID:     oauthClientID,
		ClientSecret: oauthClientSec,
		RedirectURL:  oauthURL,
		Scopes:       []string{gmail.GmailModifyScope, sheets.SpreadsheetsScope},
		Endpoint:     google.Endpoint,
	}
}

func setupLogger(logFile *string) func() {
	if *logFile != "" {
		f, err := os.OpenFile(*logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			panic(fmt.Errorf("failed to open log file: %w", err))
		}
		log.SetOutput(f)

		return func() {
			if err := f.Close(); err != nil {
				log.Println(fmt.Errorf("f.Close failed: %w", err))
			}
		}
	}

	log.SetOutput(os.Stdout)

	return func() {}
}

func openBrowser(url string) {
	url = fmt.Sprintf("%s?redirect=1", url)
	var err error
	switch runtime.GOOS {
	case "linux":
		err = exec.Command("xdg-open", url).Start()
	case "windows":
		err = exec.Command("rundll32", "url.dll,FileProtocolHandler", url).Start()
	case "darwin":
		err = exec.Command("open", url).Start()
	default:
		err = fmt.Errorf("unsupported platform")
	}

	if err != nil {
		log.Printf("Could not open browser automatically: %v; please copy and open link in the browser: %s\n", err, url)
	}
}
