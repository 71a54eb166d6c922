package scoring

import (
	"slices"

	"github.com/mpapenbr/fantasyf1-service-go/pkg/model"
)

const (
	BeatTeammatePoints = 30
	BothDriversPoints  = 60
)

// Resolution is the outcome of applying pending bonuses to a target.
// Consumed lists the bonus instances to remove from the pending list.
type Resolution struct {
	Points   int
	Consumed []model.Bonus
}

// ResolveDriver applies the pending bonuses of a driver target.
// 2x doubles the placement points, beat_teammate adds a flat value afterwards
// when the driver finished ahead of its teammate. beat_teammate is consumed
// whether it scored or not.
//
//nolint:whitespace // editor/linter issue
func ResolveDriver(
	points int,
	driver string,
	pending []model.Bonus,
	p *Placement,
) Resolution {
	ret := Resolution{Points: points}
	if len(pending) == 0 {
		return ret
	}
	if slices.Contains(pending, model.BonusDouble) {
		ret.Points *= 2
		ret.Consumed = append(ret.Consumed, model.BonusDouble)
	}
	if slices.Contains(pending, model.BonusBeatTeammate) {
		if p.IsBestOfTeam(driver) {
			ret.Points += BeatTeammatePoints
		}
		ret.Consumed = append(ret.Consumed, model.BonusBeatTeammate)
	}
	return ret
}

// ResolveTeam applies the pending bonuses of a team target.
// both_drivers adds a flat value if exactly two team drivers took part in the race.
//
//nolint:whitespace // editor/linter issue
func ResolveTeam(
	points int,
	team string,
	pending []model.Bonus,
	p *Placement,
) Resolution {
	ret := Resolution{Points: points}
	if len(pending) == 0 {
		return ret
	}
	if slices.Contains(pending, model.BonusDouble) {
		ret.Points *= 2
		ret.Consumed = append(ret.Consumed, model.BonusDouble)
	}
	if slices.Contains(pending, model.BonusBothDrivers) {
		if p.TeamEntries(team) == 2 {
			ret.Points += BothDriversPoints
		}
		ret.Consumed = append(ret.Consumed, model.BonusBothDrivers)
	}
	return ret
}

// RemoveConsumed removes one instance per consumed bonus, keeping the order
// of the remaining entries.
func RemoveConsumed(pending, consumed []model.Bonus) []model.Bonus {
	ret := slices.Clone(pending)
	for _, c := range consumed {
		if idx := slices.Index(ret, c); idx != -1 {
			ret = slices.Delete(ret, idx, idx+1)
		}
	}
	return ret
}
