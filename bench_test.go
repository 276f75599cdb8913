//go:build stress

package gokv

import (
	"fmt"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func newBenchmarkStore(b *testing.B, namePattern string) *Store {
	b.Helper()

	path := filepath.Join(b.TempDir(), namePattern)
	s, err := Open(path, 4096)
	require.NoError(b, err, "Open() must succeed for benchmark path")

	b.Cleanup(func() { _ = s.Close() })

	return s
}

func BenchmarkPut(b *testing.B) {
	s := newBenchmarkStore(b, "gokv-bench-put-*.db")
	value := []byte("value")

	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		key := []byte(fmt.Sprintf("key-%d", i))
		if err := s.Put(key, value); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkGet(b *testing.B) {
	s := newBenchmarkStore(b, "gokv-bench-get-*.db")

	const totalSeedKeys = 1000
	b.StopTimer()
	for i := 0; i < totalSeedKeys; i++ {
		key := []byte(fmt.Sprintf("key-%d", i))
		require.NoError(b, s.Put(key, []byte("value")))
	}
	b.StartTimer()

	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		key := []byte(fmt.Sprintf("key-%d", i%totalSeedKeys))
		if _, err := s.Get(key); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkAppend(b *testing.B) {
	s := newBenchmarkStore(b, "gokv-bench-append-*.db")
	key := []byte("list")
	value := []byte("value")

	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; i < b.N; i++ {
		if err := s.Append(key, value); err != nil {
			b.Fatal(err)
		}
	}
}
