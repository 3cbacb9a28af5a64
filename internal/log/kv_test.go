package log

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKvToArgs(t *testing.T) {
	t.Run("NoArgs", func(t *testing.T) {
		result := kvToArgs()
		assert.Equal(t, []any{}, result)
	})

	t.Run("OneArg", func(t *testing.T) {
		kv := KV{"key": "value"}
		result := kvToArgs(kv)
		assert.Equal(t, []any{"key", "value"}, result)
	})

	t.Run("MultipleArgs", func(t *testing.T) {
		kv1 := KV{"key1": "value1", "key2": "value2"}
		kv2 := KV{"key3": "value3"}
		result := kvToArgs(kv1, kv2)
		assert.Equal(t, []any{"key1", "value1", "key2", "value2"}, result)
	})

	t.Run("PickOnlyFirst", func(t *testing.T) {
		kv1 := KV{"key1": "value1"}
		kv2 := KV{"key2": "value2"}
		result := kvToArgs(kv1, kv2)
		assert.Equal(t, []any{"key1", "value1"}, result)
	})

	t.Run("Order", func(t *testing.T) {
		kv := KV{"z": "value1", "a": "value2"}
		result := kvToArgs(kv)
		assert.Equal(t, []any{"a", "value2", "z", "value1"}, result)
	})
}

func TestKvToArgsNs(t *testing.T) {
	t.Run("NoArgs", func(t *testing.T) {
		result := kvToArgsNs("namespace")
		assert.Equal(t, []any{"ns", "namespace"}, result)
	})

	t.Run("OneArg", func(t *testing.T) {
		kv := KV{"key": "value"}
		result := kvToArgsNs("namespace", kv)
		assert.Equal(t, []any{"ns", "namespace", "key", "value"}, result)
	})

	t.Run("MultipleArgs", func(t *testing.T) {
		kv1 := KV{"key1": "value1", "key2": "value2"}
		kv2 := KV{"key3": "value3"}
		result := kvToArgsNs("namespace", kv1, kv2)
		assert.Equal(t, []any{"ns", "namespace", "key1", "value1", "key2", "value2"}, result)
	})

	t.Run("PickOnlyFirst", func(t *testing.T) {
		kv1 := KV{"key1": "value1"}
		kv2 := KV{"key2": "value2"}
		result := kvToArgsNs("namespace", kv1, kv2)
		assert.Equal(t, []any{"ns", "namespace", "key1", "value1"}, result)
	})

	t.Run("Order", func(t *testing.T) {
		kv := KV{"z": "value1", "a": "value2"}
		result := kvToArgsNs("namespace", kv)
		assert.Equal(t, []any{"ns", "namespace", "a", "value2", "z", "value1"}, result)
	})

	t.Run("CheckpointRecord", func(t *testing.T) {
		kv := KV{"log": 12, "db": "main", "checkpointed": 12, "code": "SQLITE_OK"}
		result := kvToArgsNs(NsWAL, kv)
		assert.Equal(t, []any{
			"ns", "wal",
			"checkpointed", 12,
			"code", "SQLITE_OK",
			"db", "main",
			"log", 12,
		}, result)
	})

	t.Run("NilValueKept", func(t *testing.T) {
		result := kvToArgsNs(NsStmt, KV{"error": nil})
		assert.Equal(t, []any{"ns", "stmt", "error", nil}, result)
	})

	t.Run("NamespaceLeadsCallerKey", func(t *testing.T) {
		result := kvToArgsNs(NsConn, KV{"ns": "other"})
		assert.Equal(t, []any{"ns", "conn", "ns", "other"}, result)
	})

	t.Run("DistinctNamespaces", func(t *testing.T) {
		namespaces := []string{NsConn, NsStmt, NsWAL, NsDriver, NsShell, NsBench}
		seen := map[string]bool{}
		for _, ns := range namespaces {
			assert.False(t, seen[ns], "duplicate namespace %q", ns)
			seen[ns] = true
			assert.Equal(t, []any{"ns", ns}, kvToArgsNs(ns))
		}
	})
}
