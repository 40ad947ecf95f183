package main

import (
	"net/http"
	"time"

	"github.com/HavvokLab/solis-cloud/config"
	"github.com/HavvokLab/solis-cloud/exporter"
	"github.com/HavvokLab/solis-cloud/infra"
	"github.com/HavvokLab/solis-cloud/model"
	"github.com/HavvokLab/solis-cloud/pkg/logger"
	"github.com/HavvokLab/solis-cloud/repo"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

// credentialSource adds the config key pair to the stored credentials.
type credentialSource struct {
	repo     repo.SolisCredentialRepo
	fallback *model.SolisCredential
}

func (c credentialSource) FindAll() ([]model.SolisCredential, error) {
	credentials, err := c.repo.FindAll()
	if err != nil {
		return nil, err
	}
	if c.fallback != nil {
		credentials = append(credentials, *c.fallback)
	}
	return credentials, nil
}

func main() {
	logger.Init("exporter.log")
	cfg := config.GetConfig()
	logger.SetLevel(cfg.Log.Level)

	db, err := infra.NewGormDB(cfg.Database.Path)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open credential database")
	}

	source := credentialSource{
		repo:     repo.NewSolisCredentialRepo(db),
		fallback: infra.ConfigCredential(cfg.SolisCloud),
	}
	prometheus.MustRegister(exporter.NewSolisExporter(source, infra.SolisClientOptions(cfg.SolisCloud)...))

	mux := http.NewServeMux()
	mux.Handle(cfg.Exporter.MetricsPath, promhttp.Handler())
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	server := &http.Server{
		Addr:              cfg.Exporter.ListenAddress,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	log.Info().
		Str("listen_address", cfg.Exporter.ListenAddress).
		Str("metrics_path", cfg.Exporter.MetricsPath).
		Msg("starting solis exporter")
	if err := server.ListenAndServe(); err != nil {
		log.Fatal().Err(err).Msg("exporter stopped")
	}
}
