package main

import (
	"os"

	"github.com/HavvokLab/solis-cloud/collector"
	"github.com/HavvokLab/solis-cloud/config"
	"github.com/HavvokLab/solis-cloud/infra"
	"github.com/HavvokLab/solis-cloud/pkg/logger"
	"github.com/HavvokLab/solis-cloud/pkg/util"
	"github.com/rs/zerolog/log"
)

// One-shot collect with the configured key pair, printed as JSON.
func main() {
	logger.Init("solis.log")
	cfg := config.GetConfig()
	logger.SetLevel(cfg.Log.Level)

	credential := infra.ConfigCredential(cfg.SolisCloud)
	if credential == nil {
		log.Fatal().Msg("soliscloud.key_id and soliscloud.key_secret must be set")
	}

	snapshot, err := collector.NewSolisCollector(infra.SolisClientOptions(cfg.SolisCloud)...).Collect(credential)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to collect")
	}

	if err := util.FprintJSON(os.Stdout, snapshot.Documents()); err != nil {
		log.Fatal().Err(err).Msg("failed to print documents")
	}
}
