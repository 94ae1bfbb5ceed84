package realtime

// processTick runs up to stepsPerTick steps. done reports that pacing should
// end, with err set when the step bound stopped it.
func (p *Pacer) processTick() (done bool, err error) {
	defer func() {
		p.mu.Lock()
		p.tickNum++
		p.mu.Unlock()
	}()

	for i := 0; i < p.stepsPerTick; i++ {
		// Halt is checked before stepping: Step itself never refuses.
		if p.engine.Halted() {
			return true, nil
		}
		p.mu.Lock()
		limited := p.maxSteps > 0 && p.steps >= p.maxSteps
		p.mu.Unlock()
		if limited {
			return true, p.limitErr()
		}

		p.engine.Step()

		p.mu.Lock()
		p.steps++
		p.mu.Unlock()
	}
	return p.engine.Halted(), nil
}
