// Package config assembles the editor from flags, environment variables and
// config file
package config

import (
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"flag"
	"fmt"
	"hash"
	"runtime"
	"strings"
	"time"

	"github.com/TheZeroSlave/zapsentry"
	"github.com/getsentry/sentry-go"
	"github.com/layerkit/layerkit"
	"github.com/layerkit/layerkit/metrics/prometheusmetrics"
	"github.com/layerkit/layerkit/params"
	"github.com/layerkit/layerkit/pipeline"
	"github.com/layerkit/layerkit/preview"
	"github.com/peterbourgon/ff/v3"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// Callback resolves the logger and debug flag once flag parsing completes
type Callback func() (logger *zap.Logger, isDebug bool)

// Option flag based config option that yields editor options
type Option func(fs *flag.FlagSet, cb Callback) layerkit.Option

// Do parses args into an App ready to Run
func Do(args []string, options ...Option) *App {
	// base options
	options = append(options, withFileStore, withProber)

	var (
		fs     = flag.NewFlagSet("layerkit", flag.ExitOnError)
		logger *zap.Logger
		err    error

		debug        = fs.Bool("debug", false, "Debug mode")
		version      = fs.Bool("version", false, "layerkit version")
		goMaxProcess = fs.Int("gomaxprocs", 0, "GOMAXPROCS")

		_ = fs.String("config", ".env", "Retrieve configuration from the given file")

		source = fs.String("source", "",
			"Source image path of the base composition")
		sourceWidth = fs.Int("source-width", 0,
			"Natural pixel width of the source image. Probed when not set")
		sourceHeight = fs.Int("source-height", 0,
			"Natural pixel height of the source image. Probed when not set")
		viewportWidth = fs.Int("viewport-width", 0,
			"Viewport pixel width that bounds adaptive dimensions")
		viewportHeight = fs.Int("viewport-height", 0,
			"Viewport pixel height that bounds adaptive dimensions")

		serviceURL = fs.String("service-url", "",
			"Remote image service endpoint for pipeline URLs")
		secret = fs.String("secret", "",
			"Secret key for signing pipeline URLs")
		signerType = fs.String("signer-type", "sha1",
			"Pipeline URL signature hasher type sha1, sha256 or sha512")
		signerTruncate = fs.Int("signer-truncate", 0,
			"Pipeline URL signature truncate at length")
		unsafe = fs.Bool("unsafe", false,
			"Unsafe pipeline URLs that do not require signature. Prone to URL tampering")
		accessToken = fs.String("access-token", "",
			"Access token appended to pipeline URLs")

		templateName = fs.String("template", "",
			"Template document name to load and apply on start")
		templateSavePath = fs.String("template-save-path", "/",
			"Store directory template documents are saved under")
		output = fs.String("output", "",
			"Write the rendered composition to the given file and exit")

		previewDebounce = fs.Duration("preview-debounce",
			time.Millisecond*300, "Debounce window before a preview fetch fires")
		previewTimeout = fs.Duration("preview-timeout",
			time.Second*20, "Timeout for a preview fetch")
		previewMaxSize = fs.Int("preview-max-allowed-size", 0,
			"Maximum allowed preview response size in bytes. Default unlimited")

		prometheusBind = fs.String("prometheus-bind", "",
			"Specify address and port to enable Prometheus metrics e.g. :5000, prom:7000")
		prometheusPath = fs.String("prometheus-path", "/metrics",
			"Prometheus metrics path")

		sentryDsn = fs.String("sentry-dsn", "",
			"Sentry DSN to report errors")
	)

	editorOptions, logger, isDebug := applyOptions(fs, func() (*zap.Logger, bool) {
		if err = ff.Parse(fs, args,
			ff.WithEnvVars(),
			ff.WithConfigFileFlag("config"),
			ff.WithIgnoreUndefined(true),
			ff.WithAllowMissingConfigFile(true),
			ff.WithConfigFileParser(ff.EnvParser),
		); err != nil {
			panic(err)
		}
		if *debug {
			if logger, err = zap.NewDevelopment(); err != nil {
				panic(err)
			}
		} else {
			if logger, err = zap.NewProduction(); err != nil {
				panic(err)
			}
		}
		if *sentryDsn != "" {
			logger = attachSentry(logger, *sentryDsn)
		}
		return logger, *debug
	}, options...)

	if *version {
		fmt.Println(layerkit.Version)
		return nil
	}

	if *goMaxProcess > 0 {
		logger.Debug("GOMAXPROCS", zap.Int("count", *goMaxProcess))
		runtime.GOMAXPROCS(*goMaxProcess)
	}

	app := &App{
		Source:           *source,
		Natural:          params.Dimensions{Width: *sourceWidth, Height: *sourceHeight},
		Template:         *templateName,
		TemplateSavePath: *templateSavePath,
		Output:           *output,
		Logger:           logger,
		Debug:            isDebug,
	}

	var collector *prometheusmetrics.Collector
	if *prometheusBind != "" {
		collector = prometheusmetrics.NewCollector(prometheus.DefaultRegisterer)
		host, port := splitBind(*prometheusBind)
		app.Metrics = prometheusmetrics.New(
			prometheusmetrics.WithHost(host),
			prometheusmetrics.WithPort(port),
			prometheusmetrics.WithPath(*prometheusPath),
			prometheusmetrics.WithLogger(logger),
		)
		editorOptions = append(editorOptions, layerkit.WithMetrics(collector))
	}

	fetcher := &preview.HTTPFetcher{MaxAllowedSize: *previewMaxSize}
	previewOptions := []preview.Option{
		preview.WithDebounce(*previewDebounce),
		preview.WithTimeout(*previewTimeout),
		preview.WithLogger(logger),
	}
	if collector != nil {
		previewOptions = append(previewOptions, preview.WithCollector(collector))
	}
	app.Preview = preview.New(fetcher, previewOptions...)
	app.Fetcher = fetcher

	editorOptions = append(editorOptions,
		layerkit.WithSigner(pipeline.NewHMACSigner(
			signerAlg(*signerType), *signerTruncate, *secret,
		)),
		layerkit.WithServiceURL(*serviceURL),
		layerkit.WithAccessToken(*accessToken),
		layerkit.WithUnsafe(*unsafe),
		layerkit.WithPreview(app.Preview),
		layerkit.WithLogger(logger),
		layerkit.WithDebug(isDebug),
	)
	if *viewportWidth > 0 || *viewportHeight > 0 {
		editorOptions = append(editorOptions, layerkit.WithViewport(params.Dimensions{
			Width:  *viewportWidth,
			Height: *viewportHeight,
		}))
	}
	app.Options = editorOptions
	return app
}

func applyOptions(
	fs *flag.FlagSet, cb Callback, options ...Option,
) (editorOptions []layerkit.Option, logger *zap.Logger, isDebug bool) {
	if len(options) == 0 {
		logger, isDebug = cb()
		return
	}
	var last = len(options) - 1
	var called bool
	if options[last] == nil {
		return applyOptions(fs, cb, options[:last]...)
	}
	editorOptions = append(editorOptions, options[last](fs, func() (*zap.Logger, bool) {
		editorOptions, logger, isDebug = applyOptions(fs, cb, options[:last]...)
		called = true
		return logger, isDebug
	}))
	if !called {
		var opts []layerkit.Option
		opts, logger, isDebug = applyOptions(fs, cb, options[:last]...)
		editorOptions = append(opts, editorOptions...)
		return editorOptions, logger, isDebug
	}
	return
}

func attachSentry(logger *zap.Logger, dsn string) *zap.Logger {
	client, err := sentry.NewClient(sentry.ClientOptions{Dsn: dsn})
	if err != nil {
		logger.Warn("sentry", zap.Error(err))
		return logger
	}
	core, err := zapsentry.NewCore(zapsentry.Configuration{
		Level: zap.ErrorLevel,
	}, zapsentry.NewSentryClientFromClient(client))
	if err != nil {
		logger.Warn("sentry", zap.Error(err))
		return logger
	}
	return zapsentry.AttachCoreToLogger(core, logger)
}

func signerAlg(name string) func() hash.Hash {
	switch strings.ToLower(name) {
	case "sha256":
		return sha256.New
	case "sha512":
		return sha512.New
	}
	return sha1.New
}
