// Package benchmarks provides benchmarks for the paced runtime.
package benchmarks

import (
	"context"
	"testing"
	"time"

	"github.com/comalice/turingx/internal/core"
	"github.com/comalice/turingx/realtime"
)

// BenchmarkPacerOverhead runs with a 1ns tick, so the cost is the pacer
// bookkeeping rather than waiting.
func BenchmarkPacerOverhead(b *testing.B) {
	cfg := ReferenceConfig()
	input := GenABCInput(20)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		e := core.NewEngine(cfg, input)
		p := realtime.NewPacer(e, realtime.Config{TickRate: time.Nanosecond, StepsPerTick: 64})
		if ok, err := p.Run(context.Background()); err != nil || !ok {
			b.Fatalf("Run() = %v, %v", ok, err)
		}
	}
}
