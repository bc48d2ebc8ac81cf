package flags

import (
	"log/slog"

	"github.com/google/uuid"
	"github.com/miradot/intersight-example/api/clients"
	"github.com/miradot/intersight-example/common"
	"github.com/miradot/intersight-example/interfaces"
	"github.com/urfave/cli/v2"
)

func SetupLogger(cCtx *cli.Context) (log *slog.Logger) {
	logJSON := cCtx.Bool(LogJsonFlag.Name)
	logDebug := cCtx.Bool(LogDebugFlag.Name)
	logUID := cCtx.Bool(LogUidFlag.Name)
	logService := cCtx.String("log-service")

	logger := common.SetupLogger(&common.LoggingOpts{
		Debug:   logDebug,
		JSON:    logJSON,
		Service: logService,
		Version: common.Version,
		Output:  cCtx.App.ErrWriter,
	})

	if logUID {
		id := uuid.Must(uuid.NewRandom())
		logger = logger.With("uid", id.String())
	}
	return logger
}

// Not marked Required: a missing path is reported by the credential loader
// with its own instructions.
var PrivateKeyFileFlag = &cli.StringFlag{
	Name:    "private-key-file",
	EnvVars: []string{interfaces.PrivateKeyPathEnv},
	Usage:   "Path to the API private key (PEM)",
}

var PublicKeyFileFlag = &cli.StringFlag{
	Name:    "public-key-file",
	EnvVars: []string{interfaces.PublicKeyPathEnv},
	Usage:   "Path to the API public key (PEM) or API key ID file",
}

var BaseURLFlag = &cli.StringFlag{
	Name:    "base-url",
	EnvVars: []string{"INTERSIGHT_BASE_URL"},
	Value:   clients.DefaultBaseURL,
	Usage:   "API root to send requests to",
}

var RequestTimeoutFlag = &cli.DurationFlag{
	Name:  "request-timeout",
	Value: 0,
	Usage: "timeout for the API request, 0 waits indefinitely",
}

var LogJsonFlag = &cli.BoolFlag{
	Name:  "log-json",
	Value: false,
	Usage: "log in JSON format",
}
var LogDebugFlag = &cli.BoolFlag{
	Name:  "log-debug",
	Value: false,
	Usage: "log debug messages",
}
var LogUidFlag = &cli.BoolFlag{
	Name:  "log-uid",
	Value: false,
	Usage: "generate a uuid and add to all log messages",
}

var LogServiceFlagFn = func(service string) *cli.StringFlag {
	return &cli.StringFlag{
		Name:  "log-service",
		Value: service,
		Usage: "add 'service' tag to logs",
	}
}

var CommonFlags = []cli.Flag{
	LogJsonFlag,
	LogDebugFlag,
	LogUidFlag,
}
