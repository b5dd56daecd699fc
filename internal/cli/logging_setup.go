package cli

import (
	"github.com/spf13/cobra"

	"github.com/rshade/areasearch/internal/config"
	"github.com/rshade/areasearch/internal/logging"
)

// setupLogging configures logging from the loaded config and CLI flags and
// stores the logger and a trace ID in the command context.
func setupLogging(cmd *cobra.Command) logging.LogPathResult {
	loggingCfg := config.GetLoggingConfig()
	toFile := cmd.Annotations[annotationLogToFile] == "true"

	debug, _ := cmd.Flags().GetBool("debug")
	if debug {
		loggingCfg.Level = "debug"
		if !toFile {
			loggingCfg.Format = "console"
			loggingCfg.File = ""
		}
	}

	if toFile && loggingCfg.File == "" {
		if path, err := config.DefaultLogFile(); err == nil {
			loggingCfg.File = path
		}
	}

	// NewLoggerWithPath creates the log directory and falls back to
	// stderr when it cannot.
	result := logging.NewLoggerWithPath(loggingCfg.ToLoggingConfig())
	logger = logging.ComponentLogger(result.Logger, "cli")

	if result.UsingFile && !toFile {
		logging.PrintLogPathMessage(cmd.ErrOrStderr(), result.FilePath)
	} else if result.FallbackUsed {
		logging.PrintFallbackWarning(cmd.ErrOrStderr(), result.FallbackReason)
	}

	ctx := cmd.Context()
	traceID := logging.GetOrGenerateTraceID(ctx)
	ctx = logging.ContextWithTraceID(ctx, traceID)
	ctx = logger.WithContext(ctx)
	cmd.SetContext(ctx)

	logger.Info().Ctx(ctx).Str("command", cmd.Name()).Msg("command started")

	return result
}

// cleanupLogging closes the log file handle.
func cleanupLogging(cmd *cobra.Command, logResult *logging.LogPathResult) error {
	if logResult == nil {
		return nil
	}
	logger.Debug().Ctx(cmd.Context()).Str("command", cmd.Name()).Msg("command finished")
	return logResult.Close()
}
