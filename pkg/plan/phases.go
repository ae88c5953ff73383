package plan

// Phase is the explicit plan ordering. Steps execute in ascending phase
// order; the enumeration is the ordering contract, not array-append order.
type Phase int

const (
	PhaseEnv Phase = iota
	PhaseEngines
	PhasePorts
	PhaseDocker
	PhaseNode
	PhasePython
	PhaseChecks
)

// Phases returns every phase in execution order.
func Phases() []Phase {
	return []Phase{
		PhaseEnv,
		PhaseEngines,
		PhasePorts,
		PhaseDocker,
		PhaseNode,
		PhasePython,
		PhaseChecks,
	}
}

func (p Phase) String() string {
	switch p {
	case PhaseEnv:
		return "env"
	case PhaseEngines:
		return "engines"
	case PhasePorts:
		return "ports"
	case PhaseDocker:
		return "docker"
	case PhaseNode:
		return "node"
	case PhasePython:
		return "python"
	case PhaseChecks:
		return "checks"
	default:
		return "unknown"
	}
}
