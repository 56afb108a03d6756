package bootstrap

// Phase is a state of one orchestrator run.
type Phase int32

const (
	PhaseIdle Phase = iota
	PhaseConfigLoaded
	PhaseStrategyResolved
	PhaseConstructing
	PhaseInitializing
	PhaseRunning
	PhaseShuttingDown
	PhaseTerminated
)

var phaseNames = [...]string{
	PhaseIdle:             "idle",
	PhaseConfigLoaded:     "config_loaded",
	PhaseStrategyResolved: "strategy_resolved",
	PhaseConstructing:     "constructing",
	PhaseInitializing:     "initializing",
	PhaseRunning:          "running",
	PhaseShuttingDown:     "shutting_down",
	PhaseTerminated:       "terminated",
}

func (p Phase) String() string {
	if p < 0 || int(p) >= len(phaseNames) {
		return "unknown"
	}
	return phaseNames[p]
}
