package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/iwvelando/adspend-optimizer/internal/allocator"
	"github.com/iwvelando/adspend-optimizer/internal/config"
	"github.com/iwvelando/adspend-optimizer/internal/server"
	"github.com/iwvelando/adspend-optimizer/pkg/constants"
	"github.com/iwvelando/adspend-optimizer/pkg/output"
	"github.com/iwvelando/adspend-optimizer/pkg/validation"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// initializeLogger creates a zap logger based on configuration and CLI override
func initializeLogger(loggingConfig config.LoggingConfig, logLevelOverride string) (*zap.Logger, error) {
	// Determine log level (CLI override takes precedence)
	level := loggingConfig.Level
	if logLevelOverride != "" {
		level = logLevelOverride
	}
	if level == "" {
		level = "info"
	}

	var zapLevel zapcore.Level
	switch level {
	case "debug":
		zapLevel = zapcore.DebugLevel
	case "info":
		zapLevel = zapcore.InfoLevel
	case "warn", "warning":
		zapLevel = zapcore.WarnLevel
	case "error":
		zapLevel = zapcore.ErrorLevel
	default:
		return nil, fmt.Errorf("invalid log level: %s", level)
	}

	format := loggingConfig.Format
	if format == "" {
		format = "json"
	}

	var cfg zap.Config
	switch format {
	case "console":
		cfg = zap.NewDevelopmentConfig()
		cfg.Level = zap.NewAtomicLevelAt(zapLevel)
	case "json":
		cfg = zap.NewProductionConfig()
		cfg.Level = zap.NewAtomicLevelAt(zapLevel)
	default:
		return nil, fmt.Errorf("invalid log format: %s", format)
	}

	if loggingConfig.OutputFile != "" {
		if dir := filepath.Dir(loggingConfig.OutputFile); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, fmt.Errorf("failed to create log directory %s: %v", dir, err)
			}
		}

		if file, err := os.OpenFile(loggingConfig.OutputFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644); err != nil {
			return nil, fmt.Errorf("failed to open log file %s: %v", loggingConfig.OutputFile, err)
		} else {
			_ = file.Close()
		}

		cfg.OutputPaths = []string{loggingConfig.OutputFile}
		cfg.ErrorOutputPaths = []string{loggingConfig.OutputFile}
	}

	return cfg.Build()
}

func main() {
	configLocation := flag.String("config", constants.DefaultConfigFile, "path to configuration file")
	outputFormatFlag := flag.String("output-format", "", "type of output override: pretty, csv")
	logLevel := flag.String("log-level", "", "log level override (debug, info, warn, error)")
	solverFlag := flag.String("solver", "", "solver backend override")
	serve := flag.Bool("serve", false, "start the optimize API server instead of running once")
	flag.Parse()

	conf, err := config.LoadConfiguration(*configLocation)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to load configuration at %s\", \"error\": \"%v\"}\n", *configLocation, err)
		os.Exit(1)
	}

	logger, err := initializeLogger(conf.Logging, *logLevel)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to initialize logging\", \"error\": \"%v\"}\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync()
	}()

	if *serve {
		e := server.New(conf.Server, logger)
		logger.Info("starting optimize API server",
			zap.String("op", "main"),
			zap.String("address", conf.Server.Address),
		)
		if err := e.Start(conf.Server.Address); err != nil {
			logger.Fatal("server stopped",
				zap.String("op", "main"),
				zap.Error(err),
			)
		}
		return
	}

	for _, warning := range validation.ValidateRequest(&conf.Request) {
		logger.Warn(warning, zap.String("op", "main"))
	}

	solverOverride := conf.Solver
	if *solverFlag != "" {
		solverOverride = *solverFlag
	}

	result, err := allocator.Optimize(logger, conf.Request, solverOverride)
	if err != nil {
		logger.Fatal("allocation failed",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}

	outputFormat := conf.Output.Format
	if *outputFormatFlag != "" {
		outputFormat = *outputFormatFlag
	}

	switch outputFormat {
	case constants.OutputFormatCSV:
		output.CsvFormat(os.Stdout, result)
	case constants.OutputFormatPretty, "":
		output.PrettyFormat(os.Stdout, result)
	default:
		logger.Fatal("invalid output format",
			zap.String("op", "main"),
			zap.String("format", outputFormat),
		)
	}
}
