// Package realtime provides a tick-paced driver for the three-tape engine.
//
// Engine.Execute runs a machine to completion as fast as it can. A Pacer
// instead takes a fixed number of steps per tick, which makes a run
// watchable: attach a publisher (for example the WebSocket hub) or an
// observer and every step arrives at a steady rate.
//
// # Example Usage
//
//	e := core.NewEngine(cfg, tapes, core.WithPublisher(hub))
//	p := realtime.NewPacer(e, realtime.Config{
//		TickRate: 100 * time.Millisecond,
//		MaxSteps: 10000,
//	})
//	accepted, err := p.Run(ctx)
//
// # Guarantees
//
//   - Halted is checked before every step, so a halted machine is never
//     stepped by the pacer.
//   - The outcome is the same as Engine.ExecuteContext with the same bound;
//     only the timing differs.
//   - Stop and context cancellation leave the engine at the last completed
//     step.
package realtime
