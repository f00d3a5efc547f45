package cmd

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/denmats/apihub/internal/app"
	"github.com/denmats/apihub/internal/config"
	"github.com/denmats/apihub/internal/server"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the dashboard backend",
	RunE:  runApp,
}

func init() {
	flags := runCmd.Flags()

	flags.Int("port", config.DefaultPort, "Port to run the server on")
	flags.String("host", config.DefaultHost, "Host to run the server on")
	flags.String("environment", "dev", "Environment configuration")
	flags.String("public-dir", "", "Path where static files should be served from")
	flags.String("db-dsn", config.DefaultSQLiteDSN, "Database DSN (connection URL or path)")
	flags.Bool("disable-summarizer", false, "Start without the README summarization endpoint")

	viper.BindPFlags(flags)

	// Hyphenated flags map to underscored config keys.
	viper.BindPFlag("public_dir", flags.Lookup("public-dir"))
	viper.BindPFlag("db.dsn", flags.Lookup("db-dsn"))
	viper.BindPFlag("disable_summarizer", flags.Lookup("disable-summarizer"))

	bindEnvs()
}

func bindEnvs() {
	// Core settings, DMATS_ prefixed. Example: DMATS_PORT
	viper.BindEnv("port")
	viper.BindEnv("host")
	viper.BindEnv("environment")
	viper.BindEnv("public_dir")

	viper.BindEnv("db.driver")
	viper.BindEnv("db.dsn")

	viper.BindEnv("keys.default_usage_limit")

	viper.BindEnv("auth.provider")
	viper.BindEnv("auth.session_secret")
	viper.BindEnv("auth.client_id")
	viper.BindEnv("auth.client_secret")
	viper.BindEnv("auth.redirect_url")
	viper.BindEnv("auth.issuer_url")

	// External API services (does NOT use DMATS_ prefix)
	viper.BindEnv("openai.api_key", "OPENAI_API_KEY")
	viper.BindEnv("openai.model", "OPENAI_MODEL")
}

func runApp(_ *cobra.Command, _ []string) error {
	a, err := createNewApp()
	if err != nil {
		return err
	}
	defer a.Close()

	srv, err := server.NewServer(a.Config())
	if err != nil {
		return err
	}
	srv.SetupRoutes(a)

	errc := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
	}()

	signalc := make(chan os.Signal, 1)
	signal.Notify(signalc, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errc:
		return err
	case <-signalc:
		if err := srv.Stop(a.Context()); err != nil {
			return err
		}
		return nil
	}
}

func createNewApp() (*app.App, error) {
	cfg := config.GetConfig()

	options := []app.OptionFunc{
		app.WithDBInitialization(),
		app.WithAuth(),
	}
	if !viper.GetBool("disable_summarizer") {
		options = append(options, app.WithSummarizer())
	}

	a, err := app.NewApp(cfg, options...)
	if err != nil {
		return nil, err
	}

	fmt.Printf("Listening on %s:%d\n", cfg.Host, cfg.Port)
	return a, nil
}
