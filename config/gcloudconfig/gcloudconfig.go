// Package gcloudconfig enables the Google Cloud Storage template store from
// flags
package gcloudconfig

import (
	"context"
	"flag"

	"cloud.google.com/go/storage"
	"github.com/layerkit/layerkit"
	"github.com/layerkit/layerkit/config"
	"github.com/layerkit/layerkit/storage/gcsstore"
)

// WithGCloud with Google Cloud Storage template store based config option
func WithGCloud(fs *flag.FlagSet, cb config.Callback) layerkit.Option {
	var (
		gcloudStoreBucket = fs.String("gcloud-store-bucket", "",
			"Bucket name for Google Cloud template store. Enable Google Cloud store only if this value present")
		gcloudStoreBaseDir = fs.String("gcloud-store-base-dir", "",
			"Base directory for Google Cloud template store")
		gcloudStorePathPrefix = fs.String("gcloud-store-path-prefix", "",
			"Base path prefix for Google Cloud template store")
		gcloudStoreACL = fs.String("gcloud-store-acl", "",
			"Upload ACL for Google Cloud template store")
		gcloudStoreExpiration = fs.Duration("gcloud-store-expiration", 0,
			"Google Cloud template store expiration duration e.g. 24h. Default no expiration")

		_, _ = cb()
	)
	return func(e *layerkit.Editor) {
		if *gcloudStoreBucket == "" {
			return
		}
		// Google cloud uses credentials from GOOGLE_APPLICATION_CREDENTIALS env file
		client, err := storage.NewClient(context.Background())
		if err != nil {
			panic(err)
		}
		e.Store = gcsstore.New(client, *gcloudStoreBucket,
			gcsstore.WithPathPrefix(*gcloudStorePathPrefix),
			gcsstore.WithBaseDir(*gcloudStoreBaseDir),
			gcsstore.WithACL(*gcloudStoreACL),
			gcsstore.WithExpiration(*gcloudStoreExpiration),
		)
	}
}
