package config

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/layerkit/layerkit"
	"github.com/layerkit/layerkit/metrics/prometheusmetrics"
	"github.com/layerkit/layerkit/params"
	"github.com/layerkit/layerkit/preview"
	"go.uber.org/zap"
)

// App an assembled editor session ready to run from the command line
type App struct {
	Source           string
	Natural          params.Dimensions
	Template         string
	TemplateSavePath string
	Output           string
	Logger           *zap.Logger
	Debug            bool
	Options          []layerkit.Option
	Preview          *preview.Controller
	Fetcher          *preview.HTTPFetcher
	Metrics          *prometheusmetrics.Server
}

// Run opens the editor session, applies the requested template and emits the
// pipeline URL, or the rendered composition when an output file is given
func (app *App) Run(ctx context.Context) error {
	if app.Source == "" {
		return layerkit.NewError("no source image given", layerkit.ErrInvalid.Code)
	}
	if app.Metrics != nil {
		app.Metrics.Run()
	}
	ed := layerkit.New(app.Source, app.Natural, app.Options...)
	defer ed.Close()

	if app.Natural.Width == 0 || app.Natural.Height == 0 {
		if ed.Prober == nil {
			return layerkit.NewError(
				"no source dimensions given and no prober configured",
				layerkit.ErrInvalid.Code)
		}
		dims, err := ed.Prober.Probe(ctx, app.Source)
		if err != nil {
			return layerkit.WrapError(err)
		}
		ed.SetNatural(dims)
		app.Logger.Debug("probed source",
			zap.String("source", app.Source),
			zap.Int("width", dims.Width), zap.Int("height", dims.Height))
	}

	if app.Template != "" {
		key := layerkit.TemplateKey(app.TemplateSavePath, app.Template)
		t, err := ed.LoadTemplate(ctx, key)
		if err != nil {
			return err
		}
		ed.ApplyTemplate(t)
		app.Logger.Info("template applied", zap.String("key", key))
	}

	url := ed.PipelineURL()
	if app.Output == "" {
		fmt.Println(url)
		return nil
	}
	data, err := app.Fetcher.Fetch(ctx, url)
	if err != nil {
		return layerkit.WrapError(err)
	}
	if err := os.WriteFile(app.Output, data, 0666); err != nil {
		return err
	}
	app.Logger.Info("composition written",
		zap.String("output", app.Output), zap.Int("bytes", len(data)))
	return nil
}

// splitBind splits a host:port bind string, host may be empty
func splitBind(bind string) (host string, port int) {
	if idx := strings.LastIndex(bind, ":"); idx > -1 {
		host = bind[:idx]
		port, _ = strconv.Atoi(bind[idx+1:])
		return
	}
	port, _ = strconv.Atoi(bind)
	return
}
