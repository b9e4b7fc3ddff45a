package gcsstore

import (
	"strings"
	"time"
)

// Option GCSStore option
type Option func(h *GCSStore)

// WithBaseDir with bucket base directory option
func WithBaseDir(baseDir string) Option {
	return func(h *GCSStore) {
		if baseDir != "" {
			h.BaseDir = strings.Trim(baseDir, "/")
		}
	}
}

// WithPathPrefix with key prefix option
func WithPathPrefix(prefix string) Option {
	return func(h *GCSStore) {
		if prefix != "" {
			prefix = "/" + strings.Trim(prefix, "/")
			if prefix != "/" {
				prefix += "/"
			}
			h.PathPrefix = prefix
		}
	}
}

// WithACL with predefined ACL option
func WithACL(acl string) Option {
	return func(h *GCSStore) {
		if acl != "" {
			h.ACL = acl
		}
	}
}

// WithExpiration with document expiration option
func WithExpiration(exp time.Duration) Option {
	return func(h *GCSStore) {
		if exp > 0 {
			h.Expiration = exp
		}
	}
}
