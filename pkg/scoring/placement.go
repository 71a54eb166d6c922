package scoring

import (
	"github.com/samber/lo"

	"github.com/mpapenbr/fantasyf1-service-go/pkg/model"
)

// PlacementTable holds the points per finishing position, index 0 is the winner
var PlacementTable = [...]int{25, 18, 15, 12, 10, 8, 6, 4, 2, 1}

// BasePoints returns the placement points for the standings index idx.
// Positions outside the table score 0.
func BasePoints(idx int) int {
	if idx < 0 || idx >= len(PlacementTable) {
		return 0
	}
	return PlacementTable[idx]
}

// Placement resolves placement and team points for the standings of a single race.
// It is read-only after creation and may be shared between goroutines.
type Placement struct {
	standings   []string
	position    map[string]int    // driver -> standings index
	teamOf      map[string]string // driver -> team
	teamPoints  map[string]int
	teamEntries map[string]int
	bestOfTeam  map[string]string // team -> best placed driver
}

func NewPlacement(standings []string, drivers []*model.Driver) *Placement {
	p := &Placement{
		standings: standings,
		position:  make(map[string]int, len(standings)),
		teamOf: lo.SliceToMap(drivers, func(d *model.Driver) (string, string) {
			return d.Name, d.Team
		}),
		teamPoints:  make(map[string]int),
		teamEntries: make(map[string]int),
		bestOfTeam:  make(map[string]string),
	}
	for idx, name := range standings {
		p.position[name] = idx
		team, ok := p.teamOf[name]
		if !ok {
			continue
		}
		p.teamPoints[team] += BasePoints(idx)
		p.teamEntries[team]++
		if _, ok := p.bestOfTeam[team]; !ok {
			p.bestOfTeam[team] = name
		}
	}
	return p
}

func (p *Placement) Standings() []string {
	return p.standings
}

// DriverPoints returns the placement points of the named driver, 0 if not classified
func (p *Placement) DriverPoints(driver string) int {
	idx, ok := p.position[driver]
	if !ok {
		return 0
	}
	return BasePoints(idx)
}

// TeamOf returns the team of driver
func (p *Placement) TeamOf(driver string) (string, bool) {
	team, ok := p.teamOf[driver]
	return team, ok
}

// TeamPoints is the sum of the placement points of all team drivers in this race
func (p *Placement) TeamPoints(team string) int {
	return p.teamPoints[team]
}

// TeamEntries returns how many drivers of team appear in the standings
func (p *Placement) TeamEntries(team string) int {
	return p.teamEntries[team]
}

// IsBestOfTeam reports whether driver finished ahead of all teammates
func (p *Placement) IsBestOfTeam(driver string) bool {
	team, ok := p.teamOf[driver]
	if !ok {
		return false
	}
	return p.bestOfTeam[team] == driver
}
