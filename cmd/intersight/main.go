package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/miradot/intersight-example/api/clients"
	"github.com/miradot/intersight-example/cmd/flags"
	"github.com/miradot/intersight-example/common"
	"github.com/miradot/intersight-example/credentials"
	"github.com/miradot/intersight-example/cryptoutils"
	"github.com/miradot/intersight-example/interfaces"
	"github.com/miradot/intersight-example/inventory"
	"github.com/urfave/cli/v2"
)

var flagResourcePath *cli.StringFlag = &cli.StringFlag{
	Name:  "resource-path",
	Value: inventory.PhysicalSummariesPath,
	Usage: "Collection to list, relative to the API root",
}
var flagQuery *cli.StringSliceFlag = &cli.StringSliceFlag{
	Name:  "query",
	Usage: "Query parameter as key=value, e.g. --query '$top=10'. May be repeated",
}

const usage string = `Lists the hardware claimed in Intersight.

Credentials are read from the files named by ` + interfaces.PrivateKeyPathEnv + ` and
` + interfaces.PublicKeyPathEnv + ` (or the matching flags).`

// summaryConfig is everything the summary command needs, resolved from flags
// and environment.
type summaryConfig struct {
	PrivateKeyPath string
	PublicKeyPath  string
	BaseURL        string
	ResourcePath   string
	QueryParams    map[string]string
	RequestTimeout time.Duration
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		os.Exit(report(os.Stderr, err))
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:           "intersight",
		Usage:          usage,
		Version:        common.Version,
		DefaultCommand: "summary",
		Flags: []cli.Flag{
			flags.LogJsonFlag,
			flags.LogDebugFlag,
			flags.LogUidFlag,
			flags.LogServiceFlagFn("intersight"),
		},
		Commands: []*cli.Command{
			&cli.Command{
				Name:  "summary",
				Usage: "Print a summary of each physical server",
				Flags: []cli.Flag{
					flags.PrivateKeyFileFlag,
					flags.PublicKeyFileFlag,
					flags.BaseURLFlag,
					flags.RequestTimeoutFlag,
					flagResourcePath,
					flagQuery,
				},
				Action: func(cCtx *cli.Context) error {
					log := flags.SetupLogger(cCtx)

					queryParams, err := parseQueryParams(cCtx.StringSlice(flagQuery.Name))
					if err != nil {
						return err
					}

					cfg := summaryConfig{
						PrivateKeyPath: cCtx.String(flags.PrivateKeyFileFlag.Name),
						PublicKeyPath:  cCtx.String(flags.PublicKeyFileFlag.Name),
						BaseURL:        cCtx.String(flags.BaseURLFlag.Name),
						ResourcePath:   cCtx.String(flagResourcePath.Name),
						QueryParams:    queryParams,
						RequestTimeout: cCtx.Duration(flags.RequestTimeoutFlag.Name),
					}

					return runSummary(cCtx.Context, cfg, cCtx.App.Writer, log)
				},
			},
			&cli.Command{
				Name:  "generate-keys",
				Usage: "Write a new P-256 key pair for use with the mock server",
				Flags: []cli.Flag{
					flags.PrivateKeyFileFlag,
					flags.PublicKeyFileFlag,
				},
				Action: func(cCtx *cli.Context) error {
					log := flags.SetupLogger(cCtx)
					return generateKeys(cCtx.String(flags.PrivateKeyFileFlag.Name), cCtx.String(flags.PublicKeyFileFlag.Name), log)
				},
			},
		},
	}
}

// runSummary loads the credentials, fetches the collection and prints it.
// Each stage only runs if the previous one succeeded.
func runSummary(ctx context.Context, cfg summaryConfig, out io.Writer, log *slog.Logger) error {
	creds, err := credentials.Load(cfg.PrivateKeyPath, cfg.PublicKeyPath, log)
	if err != nil {
		return err
	}

	client := clients.NewIntersightClient(cfg.BaseURL, creds, log, cfg.RequestTimeout)

	assets, err := inventory.FetchCollection(ctx, client, cfg.ResourcePath, cfg.QueryParams, log)
	if err != nil {
		return err
	}

	return inventory.Present(out, assets)
}

func generateKeys(privateKeyPath, publicKeyPath string, log *slog.Logger) error {
	if privateKeyPath == "" || publicKeyPath == "" {
		return &interfaces.Error{Kind: interfaces.KindMissingConfiguration}
	}

	pub, priv, err := cryptoutils.RandomP256Keypair()
	if err != nil {
		return fmt.Errorf("failed to generate ECDSA key: %w", err)
	}

	if err := writeNewFile(privateKeyPath, priv); err != nil {
		return err
	}
	if err := writeNewFile(publicKeyPath, pub); err != nil {
		return err
	}

	keyID, err := pub.Fingerprint()
	if err != nil {
		return err
	}
	log.Info("generated key pair", "privateKeyPath", privateKeyPath, "publicKeyPath", publicKeyPath, "keyId", keyID)
	return nil
}

// writeNewFile refuses to overwrite existing key material.
func writeNewFile(path string, data []byte) error {
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0600)
	if err != nil {
		return err
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func parseQueryParams(pairs []string) (map[string]string, error) {
	params := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid query parameter %q, expected key=value", pair)
		}
		params[key] = value
	}
	return params, nil
}

// report prints the operator-facing message for err and returns the exit
// status. Errors that indicate a bug are followed by their stack trace.
func report(w io.Writer, err error) int {
	var e *interfaces.Error
	if !errors.As(err, &e) {
		fmt.Fprintf(w, "error: %v\n", err)
		return 1
	}

	fmt.Fprintln(w, e.Message())
	if trace := e.Trace(); trace != "" {
		fmt.Fprintln(w, "Please raise an issue via github and supply the following stack trace:")
		fmt.Fprintln(w, trace)
	}
	return e.Kind.Status()
}
