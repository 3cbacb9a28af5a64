package log

import "sort"

// KV is a set of key-value pairs attached to a log record.
type KV map[string]any

// Namespaces used across the project.
const (
	NsConn   = "conn"
	NsStmt   = "stmt"
	NsWAL    = "wal"
	NsDriver = "driver"
	NsShell  = "shell"
	NsBench  = "bench"
)

// kvToArgs flattens the first KV into slog arguments sorted by key so the
// output is stable. Any further KV is ignored.
func kvToArgs(keyVals ...KV) []any {
	args := []any{}
	if len(keyVals) == 0 {
		return args
	}

	kv := keyVals[0]
	keys := make([]string, 0, len(kv))
	for k := range kv {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		args = append(args, k, kv[k])
	}
	return args
}

// kvToArgsNs is kvToArgs with the namespace as the leading "ns" pair.
func kvToArgsNs(namespace string, keyVals ...KV) []any {
	return append([]any{"ns", namespace}, kvToArgs(keyVals...)...)
}
