// Command quiescent generates a static weblog from a directory of markdown
// posts.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"

	"github.com/jessevdk/go-flags"
	"github.com/sirupsen/logrus"
	"howett.net/quiescent/internal/config"
	"howett.net/quiescent/site"
)

type options struct {
	ConfigFiles []string `long:"config" short:"c" description:"A configuration file (.yml) to read; can be specified multiple times." default:"config.yml"`
	Bootstrap   bool     `long:"bootstrap" description:"Create a configuration file, starter templates and the posts and build directories, then exit."`
	Serve       string   `long:"serve" description:"After building, serve the output directory on this address." value-name:"ADDR"`
}

func main() {
	var opts options
	if _, err := flags.Parse(&opts); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	logger := logrus.StandardLogger()

	if opts.Bootstrap {
		if err := site.Bootstrap("."); err != nil {
			logger.Fatal(err)
		}
		logger.Info("bootstrapped; fill in config.yml and add posts")
		return
	}

	cfg, err := config.NewFileConfigurationService(opts.ConfigFiles).LoadConfiguration()
	if err != nil {
		logger.WithError(err).Fatal("an error occurred in initial configuration; try --bootstrap")
	}
	logger.SetLevel(cfg.Logging.Level.LogrusLevel())

	gen, err := site.New(cfg, site.FieldLoggingOption(logger))
	if err != nil {
		logger.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := gen.Build(ctx); err != nil {
		logger.WithError(err).Fatal("build failed")
	}
	logger.WithField("output", cfg.OutputDirectory).Info("built site")

	if opts.Serve == "" {
		return
	}

	server := &http.Server{
		Addr:    opts.Serve,
		Handler: gen.PreviewHandler(),
	}
	go func() {
		<-ctx.Done()
		server.Shutdown(context.Background())
	}()
	logger.WithField("addr", opts.Serve).Info("serving preview")
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatal(err)
	}
}
