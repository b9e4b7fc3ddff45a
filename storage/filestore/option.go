package filestore

import (
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Option FileStore option
type Option func(h *FileStore)

// WithPathPrefix with key prefix option
func WithPathPrefix(prefix string) Option {
	return func(h *FileStore) {
		if prefix != "" {
			prefix = "/" + strings.Trim(prefix, "/")
			if prefix != "/" {
				prefix += "/"
			}
			h.PathPrefix = prefix
		}
	}
}

// WithBlacklist with key blacklist regexp option
func WithBlacklist(blacklist *regexp.Regexp) Option {
	return func(h *FileStore) {
		if blacklist != nil {
			h.Blacklists = append(h.Blacklists, blacklist)
		}
	}
}

// WithMkdirPermission with mkdir permission option
func WithMkdirPermission(perm string) Option {
	return func(h *FileStore) {
		if perm != "" {
			if fm, err := strconv.ParseUint(perm, 0, 32); err == nil {
				h.MkdirPermission = os.FileMode(fm)
			}
		}
	}
}

// WithWritePermission with file write permission option
func WithWritePermission(perm string) Option {
	return func(h *FileStore) {
		if perm != "" {
			if fm, err := strconv.ParseUint(perm, 0, 32); err == nil {
				h.WritePermission = os.FileMode(fm)
			}
		}
	}
}

// WithExpiration with document expiration option
func WithExpiration(exp time.Duration) Option {
	return func(h *FileStore) {
		if exp > 0 {
			h.Expiration = exp
		}
	}
}
