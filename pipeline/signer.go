package pipeline

import (
	"crypto/hmac"
	"crypto/sha1"
	"encoding/base64"
	"hash"
	"strings"
)

// Signer signs a pipeline path for the remote service
type Signer interface {
	Sign(path string) string
}

// NewDefaultSigner creates the default HMAC-SHA1 Signer
func NewDefaultSigner(secret string) Signer {
	return NewHMACSigner(sha1.New, 0, secret)
}

// NewHMACSigner creates a Signer with the given hash algorithm and an
// optional truncate length on the resulting signature
func NewHMACSigner(alg func() hash.Hash, truncate int, secret string) Signer {
	return &hmacSigner{alg: alg, truncate: truncate, secret: []byte(secret)}
}

type hmacSigner struct {
	alg      func() hash.Hash
	truncate int
	secret   []byte
}

func (s *hmacSigner) Sign(path string) string {
	h := hmac.New(s.alg, s.secret)
	h.Write([]byte(strings.TrimPrefix(path, "/")))
	sig := base64.URLEncoding.EncodeToString(h.Sum(nil))
	sig = strings.TrimRight(sig, "=")
	if s.truncate > 0 && len(sig) > s.truncate {
		sig = sig[:s.truncate]
	}
	return sig
}
