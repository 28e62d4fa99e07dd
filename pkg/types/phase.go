package types

// Phase is a state of the update state machine.
type Phase int

const (
	PhasePreflight Phase = iota
	PhaseVersionCheck
	PhaseConfirmed
	PhaseBackingUp
	PhaseSyncing
	PhasePreserving
	PhaseWritingVersion
	PhaseVerifying
	PhaseCleaningUp
	PhaseRollingBack
	PhaseDone
	PhaseDoubleFault
)

var phaseNames = map[Phase]string{
	PhasePreflight:      "Preflight",
	PhaseVersionCheck:   "VersionCheck",
	PhaseConfirmed:      "Confirmed",
	PhaseBackingUp:      "BackingUp",
	PhaseSyncing:        "Syncing",
	PhasePreserving:     "Preserving",
	PhaseWritingVersion: "WritingVersion",
	PhaseVerifying:      "Verifying",
	PhaseCleaningUp:     "CleaningUp",
	PhaseRollingBack:    "RollingBack",
	PhaseDone:           "Done",
	PhaseDoubleFault:    "DoubleFault",
}

func (p Phase) String() string {
	if name, ok := phaseNames[p]; ok {
		return name
	}
	return "Unknown"
}

// IsTerminal reports whether no further transition leaves p.
func (p Phase) IsTerminal() bool {
	return p == PhaseDone || p == PhaseDoubleFault
}

// Mutating reports whether a failure in p must be rolled back.
func (p Phase) Mutating() bool {
	switch p {
	case PhaseSyncing, PhasePreserving, PhaseWritingVersion, PhaseVerifying:
		return true
	}
	return false
}
