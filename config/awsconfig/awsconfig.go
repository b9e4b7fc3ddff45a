// Package awsconfig enables the S3 template store from flags
package awsconfig

import (
	"context"
	"flag"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/layerkit/layerkit"
	"github.com/layerkit/layerkit/config"
	"github.com/layerkit/layerkit/storage/s3store"
)

// WithAWS with S3 template store based config option
func WithAWS(fs *flag.FlagSet, cb config.Callback) layerkit.Option {
	var (
		awsRegion = fs.String("aws-region", "",
			"AWS Region. Required if using S3 store")
		awsAccessKeyID = fs.String("aws-access-key-id", "",
			"AWS Access Key ID. Required if using S3 store")
		awsSecretAccessKey = fs.String("aws-secret-access-key", "",
			"AWS Secret Access Key. Required if using S3 store")
		s3Endpoint = fs.String("s3-endpoint", "",
			"Optional S3 Endpoint to override default")
		s3ForcePathStyle = fs.Bool("s3-force-path-style", false,
			"S3 force the request to use path-style addressing s3.amazonaws.com/bucket/key, instead of bucket.s3.amazonaws.com/key")

		s3StoreBucket = fs.String("s3-store-bucket", "",
			"S3 Bucket for S3 template store. Enable S3 store only if this value present")
		s3StoreBaseDir = fs.String("s3-store-base-dir", "",
			"Base directory for S3 template store")
		s3StorePathPrefix = fs.String("s3-store-path-prefix", "",
			"Base path prefix for S3 template store")
		s3StoreACL = fs.String("s3-store-acl", "",
			"Upload ACL for S3 template store")
		s3StoreExpiration = fs.Duration("s3-store-expiration", 0,
			"S3 template store expiration duration e.g. 24h. Default no expiration")

		_, _ = cb()
	)
	return func(e *layerkit.Editor) {
		if *s3StoreBucket == "" {
			return
		}
		var loadOptions []func(*awsconfig.LoadOptions) error
		if *awsRegion != "" {
			loadOptions = append(loadOptions, awsconfig.WithRegion(*awsRegion))
		}
		if *awsAccessKeyID != "" && *awsSecretAccessKey != "" {
			loadOptions = append(loadOptions, awsconfig.WithCredentialsProvider(
				credentials.NewStaticCredentialsProvider(
					*awsAccessKeyID, *awsSecretAccessKey, ""),
			))
		}
		cfg, err := awsconfig.LoadDefaultConfig(context.Background(), loadOptions...)
		if err != nil {
			panic(err)
		}
		client := s3.NewFromConfig(cfg, func(o *s3.Options) {
			if *s3Endpoint != "" {
				o.BaseEndpoint = aws.String(*s3Endpoint)
			}
			o.UsePathStyle = *s3ForcePathStyle
		})
		e.Store = s3store.New(client, *s3StoreBucket,
			s3store.WithPathPrefix(*s3StorePathPrefix),
			s3store.WithBaseDir(*s3StoreBaseDir),
			s3store.WithACL(*s3StoreACL),
			s3store.WithExpiration(*s3StoreExpiration),
		)
	}
}
