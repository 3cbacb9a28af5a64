package sqlitec

import "github.com/nsqlite/sqlitebind/internal/log"

// DefaultPostOpenQueries are executed on every new connection unless
// WithPostOpenQueries overrides them.
var DefaultPostOpenQueries = []string{
	"PRAGMA journal_mode = WAL;",
}

type openOptions struct {
	logger          log.Logger
	postOpenQueries []string
}

// Option configures Open.
type Option func(*openOptions)

// WithLogger sets the logger used by the connection and its statements.
func WithLogger(logger log.Logger) Option {
	return func(o *openOptions) {
		o.logger = logger
	}
}

// WithPostOpenQueries replaces the queries executed right after the
// connection is opened. Pass nil to run none.
func WithPostOpenQueries(queries []string) Option {
	return func(o *openOptions) {
		o.postOpenQueries = queries
	}
}

func newOpenOptions(opts []Option) openOptions {
	o := openOptions{
		logger:          log.Discard(),
		postOpenQueries: DefaultPostOpenQueries,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if !o.logger.IsInitialized() {
		o.logger = log.Discard()
	}
	return o
}
