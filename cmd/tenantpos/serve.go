package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/riandyrn/otelchi"
	"github.com/spf13/cobra"

	"github.com/neomorfeo/tenantpos/internal/adapter/authn"
	"github.com/neomorfeo/tenantpos/internal/adapter/fsm"
	handler "github.com/neomorfeo/tenantpos/internal/adapter/http"
	"github.com/neomorfeo/tenantpos/internal/adapter/mail"
	oteladapter "github.com/neomorfeo/tenantpos/internal/adapter/otel"
	riveradapter "github.com/neomorfeo/tenantpos/internal/adapter/river"
	"github.com/neomorfeo/tenantpos/internal/adapter/sqlite"
	"github.com/neomorfeo/tenantpos/internal/app"
	"github.com/neomorfeo/tenantpos/internal/config"
	"github.com/neomorfeo/tenantpos/internal/domain"
	"github.com/neomorfeo/tenantpos/internal/logging"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API and the notice worker",
	RunE: func(cmd *cobra.Command, _ []string) error {
		specs, err := config.Load()
		if err != nil {
			return err
		}

		logger := logging.NewLogger(specs.LogLevel)
		defer logger.Sync() //nolint:errcheck

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		return run(ctx, specs, logger)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

// run wires every adapter and serves until ctx is cancelled.
func run(ctx context.Context, specs *config.EnvSpec, logger logging.LoggerInterface) error {
	providers, err := oteladapter.Setup(ctx, oteladapter.ConfigFromSpec(specs))
	if err != nil {
		return fmt.Errorf("otel: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := providers.Shutdown(shutdownCtx); err != nil {
			logger.Errorf("otel shutdown: %v", err)
		}
	}()

	// --- Adapters (out) ---
	db, err := oteladapter.OpenDB(specs.DatabasePath)
	if err != nil {
		return fmt.Errorf("database: %w", err)
	}
	defer db.Close()

	store, err := sqlite.NewFromDB(db)
	if err != nil {
		return fmt.Errorf("store: %w", err)
	}

	verifier, err := newVerifier(ctx, specs)
	if err != nil {
		return fmt.Errorf("credentials: %w", err)
	}

	riverClient, err := riveradapter.Setup(ctx, db, newNotifier(specs, logger), logger, specs.Workers)
	if err != nil {
		return fmt.Errorf("river: %w", err)
	}

	gateMetrics, err := oteladapter.NewGateMetrics()
	if err != nil {
		return fmt.Errorf("metrics: %w", err)
	}

	tenants := oteladapter.NewTracingTenants(store.Tenants)
	principals := oteladapter.NewTracingPrincipals(store.Principals)
	memberships := oteladapter.NewTracingMemberships(store.Memberships)
	products := oteladapter.NewTracingProducts(store.Products)
	publisher := oteladapter.NewTracingPublisher(riveradapter.NewPublisher(riverClient))

	// --- Application ---
	access := app.NewAccessService(
		app.NewIdentityResolver(verifier),
		app.NewMembershipResolver(memberships),
		app.NewStatusGate(tenants, gateMetrics),
		logger,
	)
	tenantSvc := app.NewTenantService(access, tenants, principals, memberships, publisher, fsm.New(), logger)
	catalogSvc := app.NewCatalogService(access, products, logger)

	// --- Adapters (in) ---
	router := chi.NewMux()
	router.Use(middleware.Recoverer)
	router.Use(middleware.RequestID)
	router.Use(otelchi.Middleware(specs.OtelServiceName, otelchi.WithChiRoutes(router)))

	api := humachi.New(router, huma.DefaultConfig("tenantpos", specs.OtelServiceVersion))
	handler.Register(api, handler.NewHandler(access, tenantSvc, catalogSvc, logger), specs.DebugEndpoints)
	if specs.DebugEndpoints {
		logger.Warnf("debug endpoints enabled; do not run this configuration in production")
	}

	// River is stopped explicitly below so in-flight notices can finish.
	if err := riverClient.Start(context.WithoutCancel(ctx)); err != nil {
		return fmt.Errorf("river start: %w", err)
	}

	srv := &http.Server{
		Addr:              ":" + strconv.Itoa(specs.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Infof("tenantpos listening on :%d", specs.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()
	logger.Security().SystemStartup()

	var runErr error
	select {
	case <-ctx.Done():
	case runErr = <-serveErr:
	}

	logger.Infof("shutting down...")
	logger.Security().SystemShutdown()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("http shutdown: %v", err)
	}
	if err := riverClient.Stop(shutdownCtx); err != nil {
		logger.Errorf("river stop: %v", err)
	}

	if runErr != nil {
		return fmt.Errorf("server: %w", runErr)
	}
	return nil
}

func newVerifier(ctx context.Context, specs *config.EnvSpec) (domain.CredentialVerifier, error) {
	if specs.UseOIDC() {
		v, err := authn.NewIDTokenVerifier(ctx, specs.OIDCIssuer, specs.OIDCJWKSURL)
		if err != nil {
			return nil, err
		}
		return authn.NewOIDCVerifier(v), nil
	}
	return authn.NewSessions(specs.SessionSecret, specs.SessionIssuer)
}

func newNotifier(specs *config.EnvSpec, logger logging.LoggerInterface) domain.Notifier {
	if !specs.MailEnabled() {
		return mail.NewLogNotifier(logger)
	}
	return mail.NewSMTPNotifier(mail.Config{
		Host:     specs.SMTPHost,
		Port:     specs.SMTPPort,
		Username: specs.SMTPUsername,
		Password: specs.SMTPPassword,
		From:     specs.SMTPFrom,
	})
}
