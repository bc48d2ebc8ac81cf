package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/miradot/intersight-example/api"
	"github.com/miradot/intersight-example/cmd/flags"
	"github.com/miradot/intersight-example/httpserver"
	"github.com/miradot/intersight-example/inventory"
	"github.com/urfave/cli/v2"
)

var flagListenAddr *cli.StringFlag = &cli.StringFlag{
	Name:  "listen-addr",
	Value: "127.0.0.1:8080",
	Usage: "address to listen on for API",
}
var flagPubkeyFiles *cli.StringSliceFlag = &cli.StringSliceFlag{
	Name:     "public-key-file",
	Required: true,
	Usage:    "PEM public key allowed to sign requests. May be repeated",
}
var flagAssetsFile *cli.StringFlag = &cli.StringFlag{
	Name:  "assets-file",
	Usage: `JSON file {"Results": [...]} served as the physical summaries collection. Defaults to one sample server`,
}
var flagPprof *cli.BoolFlag = &cli.BoolFlag{
	Name:  "pprof",
	Value: false,
	Usage: "enable pprof debug endpoint",
}
var flagDrainSeconds *cli.Int64Flag = &cli.Int64Flag{
	Name:  "drain-seconds",
	Value: 0,
	Usage: "seconds to wait in drain HTTP request",
}

func main() {
	app := &cli.App{
		Name:  "mockserver",
		Usage: "Serve a signed-request-verifying stand-in for the Intersight API",
		Flags: append([]cli.Flag{
			flagListenAddr,
			flagPubkeyFiles,
			flagAssetsFile,
			flagPprof,
			flagDrainSeconds,
			flags.LogServiceFlagFn("mockserver"),
		}, flags.CommonFlags...),
		Action: func(cCtx *cli.Context) error {
			logger := flags.SetupLogger(cCtx)

			handler := httpserver.NewHandler(logger)
			for _, path := range cCtx.StringSlice(flagPubkeyFiles.Name) {
				pubkeyPEM, err := os.ReadFile(path)
				if err != nil {
					return err
				}
				keyID, err := handler.RegisterKey(pubkeyPEM)
				if err != nil {
					return err
				}
				logger.Info("registered key", "path", path, "keyId", keyID)
			}

			assets := httpserver.SampleAssets()
			if assetsFile := cCtx.String(flagAssetsFile.Name); assetsFile != "" {
				var err error
				assets, err = httpserver.LoadAssetsFile(assetsFile)
				if err != nil {
					return err
				}
			}
			handler.RegisterCollection(inventory.PhysicalSummariesPath, assets)

			srv := httpserver.New(&api.HTTPServerConfig{
				ListenAddr:               cCtx.String(flagListenAddr.Name),
				EnablePprof:              cCtx.Bool(flagPprof.Name),
				Log:                      logger,
				DrainDuration:            time.Duration(cCtx.Int64(flagDrainSeconds.Name)) * time.Second,
				GracefulShutdownDuration: 30 * time.Second,
				ReadTimeout:              60 * time.Second,
				WriteTimeout:             30 * time.Second,
			}, handler)

			exit := make(chan os.Signal, 1)
			signal.Notify(exit, os.Interrupt, syscall.SIGTERM)
			srv.RunInBackground()
			<-exit

			srv.Shutdown()
			return nil
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
