package config

import (
	"flag"

	"github.com/layerkit/layerkit"
	"github.com/layerkit/layerkit/storage/filestore"
)

// withFileStore with file system template store based config option
func withFileStore(fs *flag.FlagSet, cb Callback) layerkit.Option {
	var (
		fileStoreBaseDir = fs.String("file-store-base-dir", "",
			"Base directory for file template store. Enable file store only if this value present")
		fileStorePathPrefix = fs.String("file-store-path-prefix", "",
			"Base path prefix for file template store")
		fileStoreMkdirPermission = fs.String("file-store-mkdir-permission", "0755",
			"File template store mkdir permission")
		fileStoreWritePermission = fs.String("file-store-write-permission", "0666",
			"File template store write permission")
		fileStoreExpiration = fs.Duration("file-store-expiration", 0,
			"File template store expiration duration e.g. 24h. Default no expiration")

		_, _ = cb()
	)
	return func(e *layerkit.Editor) {
		if *fileStoreBaseDir != "" {
			// activate file store only if base dir config presents
			e.Store = filestore.New(
				*fileStoreBaseDir,
				filestore.WithPathPrefix(*fileStorePathPrefix),
				filestore.WithMkdirPermission(*fileStoreMkdirPermission),
				filestore.WithWritePermission(*fileStoreWritePermission),
				filestore.WithExpiration(*fileStoreExpiration),
			)
		}
	}
}
