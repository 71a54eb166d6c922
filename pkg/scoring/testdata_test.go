//nolint:thelper // ok for tests
package scoring

import (
	"testing"

	"github.com/gofrs/uuid/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/mpapenbr/fantasyf1-service-go/pkg/model"
)

// teams: T{A,B} U{C,F} V{D,E} W{G,H} X{I,K} Y{J}
func sampleDrivers() []*model.Driver {
	teams := map[string]string{
		"A": "T", "B": "T",
		"C": "U", "F": "U",
		"D": "V", "E": "V",
		"G": "W", "H": "W",
		"I": "X", "K": "X",
		"J": "Y",
	}
	ret := make([]*model.Driver, 0, len(teams))
	for _, name := range sampleStandings() {
		ret = append(ret, &model.Driver{
			Name:  name,
			Team:  teams[name],
			Price: decimal.NewFromInt(10),
		})
	}
	return ret
}

func sampleStandings() []string {
	return []string{"A", "B", "C", "D", "E", "F", "G", "H", "I", "J", "K"}
}

func sampleRace() *model.Race {
	return &model.Race{
		ID:        uuid.Must(uuid.NewV4()),
		Name:      "Testrace",
		Standings: sampleStandings(),
	}
}

func newUser(name string, drivers, teams []string, bonuses map[string][]model.Bonus) *model.User {
	return &model.User{
		Username:    name,
		Drivers:     drivers,
		Teams:       teams,
		TotalPoints: decimal.Zero,
		TotalBudget: decimal.NewFromInt(100),
		Bonuses:     bonuses,
	}
}

func assertDecimal(t *testing.T, want string, got decimal.Decimal) {
	assert.Truef(t, decimal.RequireFromString(want).Equal(got),
		"want %s, got %s", want, got.String())
}
