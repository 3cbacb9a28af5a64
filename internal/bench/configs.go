package bench

import "github.com/nsqlite/sqlitebind/internal/config"

// benchmarksConfig holds the parameters of every benchmark.
type benchmarksConfig struct {
	writers  int
	readers  int
	inserts  int
	reads    int
	postOpen []string
}

func newBenchmarksConfig(conf config.Config) benchmarksConfig {
	return benchmarksConfig{
		writers:  conf.Bench.Writers,
		readers:  conf.Bench.Readers,
		inserts:  conf.Bench.Inserts,
		reads:    conf.Bench.Reads,
		postOpen: conf.Engine.PostOpen,
	}
}
