package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/iwvelando/outlet-analytics/internal/config"
	"github.com/iwvelando/outlet-analytics/internal/dataset"
	"github.com/iwvelando/outlet-analytics/internal/logging"
	"github.com/iwvelando/outlet-analytics/internal/report"
	"github.com/iwvelando/outlet-analytics/pkg/constants"
	"github.com/iwvelando/outlet-analytics/pkg/output"
	"github.com/iwvelando/outlet-analytics/pkg/validation"
	"go.uber.org/zap"
)

func main() {
	configLocation := flag.String("config", constants.DefaultConfigFile, "path to configuration file")
	dataLocation := flag.String("data", "", "path to the dataset document (overrides data.path)")
	outputFormatFlag := flag.String("output-format", "", "type of output override: pretty, csv, json")
	logLevel := flag.String("log-level", "", "log level override (debug, info, warn, error)")
	asOf := flag.String("as-of", "", "reference date override (YYYY-MM-DD)")
	flag.Parse()

	conf, err := config.LoadConfiguration(*configLocation)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to load configuration at %s\", \"error\": \"%v\"}\n", *configLocation, err)
		os.Exit(1)
	}

	logger, err := logging.New(conf.Logging, *logLevel)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to initialize logger\", \"error\": \"%v\"}\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync()
	}()

	// CLI override takes precedence over config
	outputFormat := conf.Output.Format
	if *outputFormatFlag != "" {
		outputFormat = *outputFormatFlag
	}
	if outputFormat == "" {
		outputFormat = constants.OutputFormatPretty
	}
	if err := validation.ValidateOutputFormat(outputFormat); err != nil {
		logger.Fatal(err.Error(),
			zap.String("op", "main"),
		)
	}

	if *asOf != "" {
		conf.AsOf = *asOf
	}
	for _, warning := range conf.ValidateConfiguration() {
		logger.Warn("Configuration warning: "+warning,
			zap.String("op", "main"),
		)
	}

	dataPath := conf.Data.Path
	if *dataLocation != "" {
		dataPath = *dataLocation
	}
	if dataPath == "" {
		logger.Fatal("no dataset given; set data.path or pass -data",
			zap.String("op", "main"),
		)
	}

	collections, err := dataset.Load(dataPath)
	if err != nil {
		logger.Fatal("failed to load dataset",
			zap.String("op", "main"),
			zap.String("path", dataPath),
			zap.Error(err),
		)
	}
	if err := dataset.RequireRows(collections); err != nil {
		logger.Warn(err.Error(),
			zap.String("op", "main"),
			zap.String("path", dataPath),
		)
	}

	result := report.NewBuilder(logger).Build(collections, *conf)

	if err := output.Write(os.Stdout, outputFormat, result); err != nil {
		logger.Fatal("failed to write report",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}
}
