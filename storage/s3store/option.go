package s3store

import (
	"strings"
	"time"
)

// Option S3Store option
type Option func(h *S3Store)

// WithBaseDir with bucket base directory option
func WithBaseDir(baseDir string) Option {
	return func(h *S3Store) {
		if baseDir != "" {
			baseDir = "/" + strings.Trim(baseDir, "/")
			h.BaseDir = baseDir
		}
	}
}

// WithPathPrefix with key prefix option
func WithPathPrefix(prefix string) Option {
	return func(h *S3Store) {
		if prefix != "" {
			prefix = "/" + strings.Trim(prefix, "/")
			if prefix != "/" {
				prefix += "/"
			}
			h.PathPrefix = prefix
		}
	}
}

// WithACL with S3 canned ACL option
func WithACL(acl string) Option {
	return func(h *S3Store) {
		if acl != "" {
			h.ACL = acl
		}
	}
}

// WithExpiration with document expiration option
func WithExpiration(exp time.Duration) Option {
	return func(h *S3Store) {
		if exp > 0 {
			h.Expiration = exp
		}
	}
}
