package model

import (
	"slices"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
)

const (
	MaxDrivers = 2 // max number of drivers owned by a user
	MaxTeams   = 2 // max number of teams owned by a user
)

var (
	DefaultInitialBudget = decimal.NewFromInt(100)
	DefaultBonusPrice    = decimal.NewFromInt(1)
)

type (
	Driver struct {
		Name               string          `json:"name" yaml:"name"`
		Team               string          `json:"team" yaml:"team"`
		Price              decimal.Decimal `json:"price" yaml:"price"`
		ChampionshipPoints int             `json:"championship_points" yaml:"-"`
	}

	Team struct {
		Name  string          `json:"name" yaml:"name"`
		Price decimal.Decimal `json:"price" yaml:"price"`
	}

	// Standings holds driver names in finishing order, index 0 is the winner
	Race struct {
		ID        uuid.UUID `json:"id"`
		Name      string    `json:"name"`
		Date      time.Time `json:"date"`
		Standings []string  `json:"standings"`
	}

	// Bonuses maps a target (driver or team name) to the pending bonus tags
	User struct {
		Username    string             `json:"username"`
		Drivers     []string           `json:"drivers"`
		Teams       []string           `json:"teams"`
		TotalPoints decimal.Decimal    `json:"total_points"`
		TotalBudget decimal.Decimal    `json:"total_budget"`
		Bonuses     map[string][]Bonus `json:"bonuses"`
	}
)

// OwnsDriver reports whether name is part of the users driver roster
func (u *User) OwnsDriver(name string) bool {
	return slices.Contains(u.Drivers, name)
}

// OwnsTeam reports whether name is part of the users team roster
func (u *User) OwnsTeam(name string) bool {
	return slices.Contains(u.Teams, name)
}

// PendingBonuses returns the pending tags for target.
// A missing target yields an empty list.
func (u *User) PendingBonuses(target string) []Bonus {
	if u.Bonuses == nil {
		return nil
	}
	return u.Bonuses[target]
}

// Clone returns a deep copy of the user
func (u *User) Clone() *User {
	ret := *u
	ret.Drivers = append([]string(nil), u.Drivers...)
	ret.Teams = append([]string(nil), u.Teams...)
	ret.Bonuses = make(map[string][]Bonus, len(u.Bonuses))
	for k, v := range u.Bonuses {
		ret.Bonuses[k] = append([]Bonus(nil), v...)
	}
	return &ret
}

// SettlementSummary describes the outcome of a settled race.
//
//nolint:tagliatelle // external API
type SettlementSummary struct {
	RaceID    uuid.UUID    `json:"race_id"`
	RaceName  string       `json:"race_name"`
	Date      time.Time    `json:"date"`
	Standings []string     `json:"standings"`
	Credits   []UserCredit `json:"credits"`
}

// UserCredit holds the points/budget a user gained by a single settlement
type UserCredit struct {
	Username string          `json:"username"`
	Points   decimal.Decimal `json:"points"`
	Consumed []Bonus         `json:"consumed,omitempty"`
}
