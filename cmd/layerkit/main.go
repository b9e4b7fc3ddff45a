package main

import (
	"context"
	"os"

	"github.com/layerkit/layerkit/config"
	"github.com/layerkit/layerkit/config/awsconfig"
	"github.com/layerkit/layerkit/config/gcloudconfig"
	"go.uber.org/zap"
)

func main() {
	app := config.Do(os.Args[1:],
		awsconfig.WithAWS,
		gcloudconfig.WithGCloud,
	)
	if app == nil {
		return
	}
	if err := app.Run(context.Background()); err != nil {
		app.Logger.Fatal("run", zap.Error(err))
	}
}
