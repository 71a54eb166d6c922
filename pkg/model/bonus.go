package model

type Bonus string

const (
	BonusDouble       Bonus = "2x"
	BonusBeatTeammate Bonus = "beat_teammate"
	BonusBothDrivers  Bonus = "both_drivers"
)

// TargetKind describes what kind of record a bonus may be attached to
type TargetKind int

const (
	TargetDriver TargetKind = 1 << iota
	TargetTeam
)

func (b Bonus) Valid() bool {
	switch b {
	case BonusDouble, BonusBeatTeammate, BonusBothDrivers:
		return true
	}
	return false
}

// Targets returns the kinds of targets the bonus is applicable for
func (b Bonus) Targets() TargetKind {
	switch b {
	case BonusDouble:
		return TargetDriver | TargetTeam
	case BonusBeatTeammate:
		return TargetDriver
	case BonusBothDrivers:
		return TargetTeam
	}
	return 0
}

func (b Bonus) AppliesTo(kind TargetKind) bool {
	return b.Targets()&kind != 0
}
