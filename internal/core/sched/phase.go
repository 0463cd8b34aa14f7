package sched

import "fmt"

// Phase identifies one of the three fixed-order passes the host loop drives
// each frame: zero or more Fixed steps, one Standard pass, one Late pass.
type Phase int

const (
	PhaseStandard Phase = iota // variable-dt game logic
	PhaseFixed                 // fixed-step simulation
	PhaseLate                  // after standard: snapshots, UI, output

	phaseCount
)

func (p Phase) String() string {
	switch p {
	case PhaseStandard:
		return "standard"
	case PhaseFixed:
		return "fixed"
	case PhaseLate:
		return "late"
	}
	return fmt.Sprintf("phase(%d)", int(p))
}

// ParsePhase converts a config string ("standard", "fixed", "late") to a Phase.
func ParsePhase(s string) (Phase, error) {
	switch s {
	case "standard":
		return PhaseStandard, nil
	case "fixed":
		return PhaseFixed, nil
	case "late":
		return PhaseLate, nil
	}
	return 0, fmt.Errorf("unknown phase %q", s)
}
