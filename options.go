package cdb64

// config gathers the construction-time knobs a Writer or Reader accepts:
// hasher type and memory-mapped reader enablement. There are no other
// configuration surfaces (no env vars, no on-disk config).
type config struct {
	newHasher HasherFactory
	useMmap   bool
}

func defaultConfig() config {
	return config{newHasher: NewDJB64Hasher}
}

// Option configures a Writer or Reader at construction time.
type Option func(*config)

// WithHasher selects the Hasher implementation a Writer or Reader uses.
// The zero value (not calling WithHasher) selects NewDJB64Hasher, matching
// the classical cdb hash. A Writer and the Reader that later opens its
// output must agree on the hasher; disagreement silently turns every
// lookup into a miss rather than failing loudly.
func WithHasher(newHasher HasherFactory) Option {
	return func(c *config) {
		c.newHasher = newHasher
	}
}

// WithMmap requests that Open memory-map the file instead of using
// positioned reads. It has no effect on Writer or on New (which is already
// bound to a caller-supplied source). The mapping is made with
// golang.org/x/sys/unix; there is no fallback for platforms without it.
func WithMmap() Option {
	return func(c *config) {
		c.useMmap = true
	}
}

func applyOptions(opts []Option) config {
	c := defaultConfig()
	for _, opt := range opts {
		opt(&c)
	}
	return c
}
