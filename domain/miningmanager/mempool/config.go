package mempool

import (
	"time"
)

const (
	defaultMaximumMempoolSizeInBytes = 1_000_000_000
	defaultMaximumTransactionCount   = 1_000_000

	// defaultTransactionExpireInterval is how long a transaction may sit
	// in the mempool before the periodic prune discards it.
	defaultTransactionExpireInterval = 72 * time.Hour
)

// Config holds the mempool's capacity limits.
type Config struct {
	MaximumMempoolSizeInBytes int
	MaximumTransactionCount   int
	TransactionExpireInterval time.Duration
}

// DefaultConfig returns the default mempool configuration.
func DefaultConfig() *Config {
	return &Config{
		MaximumMempoolSizeInBytes: defaultMaximumMempoolSizeInBytes,
		MaximumTransactionCount:   defaultMaximumTransactionCount,
		TransactionExpireInterval: defaultTransactionExpireInterval,
	}
}
