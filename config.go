package gokv

import "github.com/arvidsson/gokv/internal/hash"

// Config - Tunables for Open, wrapped in functional options so that new
// knobs (hash algorithm, sync policy) don't grow the constructor's
// signature.
type Config struct {
	truncate    bool
	alg         hash.Algorithm
	syncEveryOp bool
}

// Option - Configures a Store at Open time.
type Option func(*Config)

func defaultConfig() Config {
	return Config{
		truncate:    false,
		alg:         hash.FNV1a32{},
		syncEveryOp: true,
	}
}

// WithTruncate - Discards any existing file content and starts empty, even
// if the file already exists.
func WithTruncate() Option {
	return func(c *Config) {
		c.truncate = true
	}
}

// WithHashAlgorithm - Overrides the default FNV-1a-32 bucket selector.
// Files written with a non-default algorithm are only readable by a Store
// opened with the same algorithm.
func WithHashAlgorithm(alg hash.Algorithm) Option {
	return func(c *Config) {
		c.alg = alg
	}
}

// WithoutSyncEveryOp - Skips the fsync otherwise performed at the end of
// every mutating call. Faster, at the cost of the durability guarantee: a
// crash may lose recently completed operations.
func WithoutSyncEveryOp() Option {
	return func(c *Config) {
		c.syncEveryOp = false
	}
}
