// Package benchmarks provides performance benchmarks for the transition table.
package benchmarks

import (
	"fmt"
	"testing"

	"github.com/comalice/turingx/internal/core"
	"github.com/comalice/turingx/internal/primitives"
)

func BenchmarkTableLookup(b *testing.B) {
	for _, rules := range []int{10, 1000, 100000} {
		b.Run(fmt.Sprintf("rules=%d", rules), func(b *testing.B) {
			table := core.TableFromConfig(GenWideConfig(rules))
			read := primitives.Triple{primitives.Symbol(fmt.Sprintf("s%d", rules/2)), primitives.DefaultBlank, primitives.DefaultBlank}
			b.ReportAllocs()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				if _, ok := table.Lookup("scan", read); !ok {
					b.Fatal("lookup missed")
				}
			}
		})
	}
}

func BenchmarkTableFromConfig(b *testing.B) {
	cfg := GenWideConfig(1000)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = core.TableFromConfig(cfg)
	}
}

func BenchmarkComputeVersion(b *testing.B) {
	cfg := GenWideConfig(1000)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = primitives.ComputeVersion(&cfg)
	}
}
