//nolint:funlen // ok for tests
package scoring

import (
	"errors"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mpapenbr/fantasyf1-service-go/pkg/model"
)

func TestSettle_OwnedDriverNoBonus(t *testing.T) {
	u := newUser("u1", []string{"B"}, nil, nil)
	res, err := Settle(sampleRace(), sampleDrivers(), []*model.User{u})
	require.NoError(t, err)

	assertDecimal(t, "1.8", res.Users[0].TotalPoints)
	assertDecimal(t, "101.8", res.Users[0].TotalBudget)
	assertDecimal(t, "1.8", res.Credits[0].Points)
	// input is not modified
	assertDecimal(t, "0", u.TotalPoints)
}

func TestSettle_OwnedTeamWithDouble(t *testing.T) {
	u := newUser("u1", nil, []string{"T"},
		map[string][]model.Bonus{"T": {model.BonusDouble}})
	res, err := Settle(sampleRace(), sampleDrivers(), []*model.User{u})
	require.NoError(t, err)

	assertDecimal(t, "4.3", res.Users[0].TotalPoints)
	assertDecimal(t, "104.3", res.Users[0].TotalBudget)
	assert.Empty(t, res.Users[0].PendingBonuses("T"))
	assert.Equal(t, []model.Bonus{model.BonusDouble}, u.PendingBonuses("T"))
}

func TestSettle_OwnedTeamCreditedOnce(t *testing.T) {
	u := newUser("u1", nil, []string{"T", "X"}, nil)
	res, err := Settle(sampleRace(), sampleDrivers(), []*model.User{u})
	require.NoError(t, err)
	// (43 + 2) / 20
	assertDecimal(t, "2.25", res.Users[0].TotalPoints)
}

func TestSettle_BeatTeammate(t *testing.T) {
	u := newUser("u1", []string{"D", "E"}, nil,
		map[string][]model.Bonus{
			"D": {model.BonusBeatTeammate},
			"E": {model.BonusBeatTeammate},
		})
	res, err := Settle(sampleRace(), sampleDrivers(), []*model.User{u})
	require.NoError(t, err)
	// D: (12+30)/10, E: 10/10
	assertDecimal(t, "5.2", res.Users[0].TotalPoints)
	assert.Empty(t, res.Users[0].Bonuses)
	assert.ElementsMatch(t,
		[]model.Bonus{model.BonusBeatTeammate, model.BonusBeatTeammate},
		res.Credits[0].Consumed)
}

func TestSettle_BothDrivers(t *testing.T) {
	u := newUser("u1", nil, []string{"T", "Y"},
		map[string][]model.Bonus{
			"T": {model.BonusBothDrivers, model.BonusDouble},
			"Y": {model.BonusBothDrivers},
		})
	res, err := Settle(sampleRace(), sampleDrivers(), []*model.User{u})
	require.NoError(t, err)
	// T: (43*2+60)/20 = 7.3, Y: 1/20 = 0.05
	assertDecimal(t, "7.35", res.Users[0].TotalPoints)
	assert.Empty(t, res.Users[0].Bonuses)
}

func TestSettle_DoubleOnlyOnce(t *testing.T) {
	u := newUser("u1", []string{"A"}, nil,
		map[string][]model.Bonus{"A": {model.BonusDouble}})
	drivers := sampleDrivers()
	first, err := Settle(sampleRace(), drivers, []*model.User{u})
	require.NoError(t, err)
	assertDecimal(t, "5", first.Users[0].TotalPoints)

	second, err := Settle(sampleRace(), first.Drivers, first.Users)
	require.NoError(t, err)
	assertDecimal(t, "7.5", second.Users[0].TotalPoints)
	assert.Equal(t, 50, second.Drivers[0].ChampionshipPoints)
}

func TestSettle_NotOwned(t *testing.T) {
	u := newUser("u1", nil, nil,
		map[string][]model.Bonus{"A": {model.BonusDouble}, "T": {model.BonusDouble}})
	res, err := Settle(sampleRace(), sampleDrivers(), []*model.User{u})
	require.NoError(t, err)
	assertDecimal(t, "0", res.Users[0].TotalPoints)
	assertDecimal(t, "100", res.Users[0].TotalBudget)
	assertDecimal(t, "0", res.Credits[0].Points)
	// bonuses are resolved independent of ownership
	assert.Empty(t, res.Users[0].Bonuses)
}

func TestSettle_UnrelatedBonusStaysPending(t *testing.T) {
	u := newUser("u1", []string{"A", "gone"}, []string{"oldteam"},
		map[string][]model.Bonus{
			"gone": {model.BonusDouble},
			"T":    {model.BonusBeatTeammate},
		})
	res, err := Settle(sampleRace(), sampleDrivers(), []*model.User{u})
	require.NoError(t, err)
	assertDecimal(t, "2.5", res.Users[0].TotalPoints)
	assert.Equal(t, map[string][]model.Bonus{
		"gone": {model.BonusDouble},
		"T":    {model.BonusBeatTeammate},
	}, res.Users[0].Bonuses)
}

func TestSettle_NilBonuses(t *testing.T) {
	u := newUser("u1", []string{"C"}, []string{"U"}, nil)
	res, err := Settle(sampleRace(), sampleDrivers(), []*model.User{u})
	require.NoError(t, err)
	// 15/10 + 23/20
	assertDecimal(t, "2.65", res.Users[0].TotalPoints)
}

func TestSettle_ChampionshipPoints(t *testing.T) {
	drivers := sampleDrivers()
	drivers[0].ChampionshipPoints = 10
	res, err := Settle(sampleRace(), drivers, nil)
	require.NoError(t, err)

	want := []int{35, 18, 15, 12, 10, 8, 6, 4, 2, 1, 0}
	for i := range want {
		assert.Equal(t, want[i], res.Drivers[i].ChampionshipPoints, res.Drivers[i].Name)
	}
	assert.Equal(t, 10, drivers[0].ChampionshipPoints)
}

func TestSettle_InvalidStandings(t *testing.T) {
	tests := []struct {
		name      string
		standings []string
	}{
		{name: "missing driver", standings: sampleStandings()[:10]},
		{name: "unknown driver", standings: append(sampleStandings(), "Z")},
		{name: "duplicate", standings: append(sampleStandings(), "A")},
		{name: "empty", standings: []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			drivers := sampleDrivers()
			u := newUser("u1", []string{"A"}, []string{"T"},
				map[string][]model.Bonus{"A": {model.BonusDouble}})
			race := sampleRace()
			race.Standings = tt.standings

			res, err := Settle(race, drivers, []*model.User{u})
			assert.Nil(t, res)
			assert.True(t, errors.Is(err, model.ErrInvalidStandings), err)
			assert.Equal(t, 0, drivers[0].ChampionshipPoints)
			assert.Equal(t, []model.Bonus{model.BonusDouble}, u.PendingBonuses("A"))
			assertDecimal(t, "0", u.TotalPoints)
		})
	}
}

func TestSettle_Parallel(t *testing.T) {
	users := make([]*model.User, 0)
	for i := 0; i < 50; i++ {
		drivers := []string{sampleStandings()[i%11]}
		teams := []string{[]string{"T", "U", "V", "W", "X", "Y"}[i%6]}
		bonuses := map[string][]model.Bonus{}
		if i%2 == 0 {
			bonuses[drivers[0]] = []model.Bonus{model.BonusDouble}
		}
		if i%3 == 0 {
			bonuses[teams[0]] = []model.Bonus{model.BonusBothDrivers}
		}
		users = append(users, newUser(fmt.Sprintf("user%d", i), drivers, teams, bonuses))
	}
	seq, err := Settle(sampleRace(), sampleDrivers(), users)
	require.NoError(t, err)
	par, err := NewSettler(WithParallelism(8)).Settle(sampleRace(), sampleDrivers(), users)
	require.NoError(t, err)
	unlimited, err := NewSettler(WithParallelism(0)).Settle(
		sampleRace(), sampleDrivers(), users)
	require.NoError(t, err)

	for i := range users {
		assert.Equal(t, seq.Users[i].Username, par.Users[i].Username)
		assert.True(t, seq.Users[i].TotalPoints.Equal(par.Users[i].TotalPoints))
		assert.True(t, seq.Users[i].TotalPoints.Equal(unlimited.Users[i].TotalPoints))
		assert.Equal(t, seq.Users[i].Bonuses, par.Users[i].Bonuses)
		assert.True(t, par.Users[i].TotalPoints.GreaterThanOrEqual(decimal.Zero))
	}
}
