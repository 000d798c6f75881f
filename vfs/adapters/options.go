package adapters

import (
	"github.com/go-kit/log"

	"github.com/youscentia/ydb-fsenv/vfs/storage"
)

const defaultMultiReadConcurrency = 8

type Option func(*options)

type options struct {
	logger               log.Logger
	multiReadConcurrency int
	handoffChecksumType  storage.ChecksumType
}

func defaultOptions() *options {
	return &options{
		logger:               log.NewNopLogger(),
		multiReadConcurrency: defaultMultiReadConcurrency,
	}
}

func WithLogger(logger log.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithMultiReadConcurrency bounds the number of ranges a BucketAdapter
// fetches at once for a single MultiRead. Values below 1 are ignored.
func WithMultiReadConcurrency(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.multiReadConcurrency = n
		}
	}
}

// WithHandoffChecksumType makes writable files verify hand-off checksums of
// type t when their FileOptions do not name a type themselves.
func WithHandoffChecksumType(t storage.ChecksumType) Option {
	return func(o *options) {
		o.handoffChecksumType = t
	}
}
