package config

import (
	"flag"

	"github.com/layerkit/layerkit"
	"github.com/layerkit/layerkit/probe"
)

// withProber with HTTP dimension prober based config option
func withProber(fs *flag.FlagSet, cb Callback) layerkit.Option {
	var (
		probeUserAgent = fs.String("probe-user-agent", "layerkit/"+layerkit.Version,
			"User-Agent header for dimension probe requests")
		probeCache = fs.Bool("probe-cache", true,
			"Cache probed dimensions until explicitly invalidated")

		_, _ = cb()
	)
	return func(e *layerkit.Editor) {
		if e.Prober != nil {
			return
		}
		var prober layerkit.Prober = &probe.HTTPProber{
			UserAgent: *probeUserAgent,
		}
		if *probeCache {
			prober = probe.NewCachedProber(prober)
		}
		e.Prober = prober
	}
}
