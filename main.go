package main

import (
	"flag"
	"os"

	"github.com/rs/zerolog/log"

	"github.com/rdwr-valentineg/sysdiag-battery/internal/config"
	"github.com/rdwr-valentineg/sysdiag-battery/internal/metrics"
	"github.com/rdwr-valentineg/sysdiag-battery/internal/report"
	"github.com/rdwr-valentineg/sysdiag-battery/internal/selector"
)

func main() {
	if err := config.InitConfig(); err != nil {
		flag.Usage()
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	InitLogger(config.GetLogLevelFlag())
	metrics.InitMetrics()

	log.Info().Str("archive", config.GetArchivePath()).Msg("Parsing sysdiagnose report")

	result, err := selector.FindLatest(selector.Config{
		ArchivePath: config.GetArchivePath(),
		TargetDir:   config.GetTargetDir(),
		Prefix:      config.GetPrefix(),
		TimeColumn:  config.GetTimeColumn(),
		CycleColumn: config.GetCycleColumn(),
		MaxColumns:  config.GetMaxColumns(),
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to extract battery cycle data")
	}

	metrics.LogSummary()

	if config.GetJSONOutput() {
		err = report.RenderJSON(os.Stdout, result)
	} else {
		err = report.RenderText(os.Stdout, result)
	}
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to write report")
	}
}
