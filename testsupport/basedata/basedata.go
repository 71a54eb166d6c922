package basedata

import (
	"context"
	"log"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/mpapenbr/fantasyf1-service-go/pkg/model"
	"github.com/mpapenbr/fantasyf1-service-go/pkg/repository/postgres"
)

func TestTime() time.Time {
	t, _ := time.Parse(time.RFC3339, "2024-04-28T11:10:12Z")
	return t
}

// SampleTeams returns the teams used by SampleDrivers
func SampleTeams() []*model.Team {
	return []*model.Team{
		{Name: "Ferrari", Price: decimal.NewFromInt(20)},
		{Name: "McLaren", Price: decimal.NewFromInt(25)},
		{Name: "Williams", Price: decimal.NewFromInt(8)},
	}
}

// SampleDrivers returns drivers in the order of SampleStandings
func SampleDrivers() []*model.Driver {
	return []*model.Driver{
		{Name: "Norris", Team: "McLaren", Price: decimal.NewFromInt(30)},
		{Name: "Leclerc", Team: "Ferrari", Price: decimal.NewFromInt(28)},
		{Name: "Piastri", Team: "McLaren", Price: decimal.NewFromInt(25)},
		{Name: "Hamilton", Team: "Ferrari", Price: decimal.NewFromInt(27)},
		{Name: "Albon", Team: "Williams", Price: decimal.NewFromInt(10)},
		{Name: "Sainz", Team: "Williams", Price: decimal.NewFromInt(12)},
	}
}

func SampleStandings() []string {
	return []string{"Norris", "Leclerc", "Piastri", "Hamilton", "Albon", "Sainz"}
}

// CreateBaseData stores SampleTeams and SampleDrivers
func CreateBaseData(pool *pgxpool.Pool) {
	ctx := context.Background()
	repos := postgres.NewRepositories(pool)
	for _, t := range SampleTeams() {
		if err := repos.Team().Create(ctx, t); err != nil {
			log.Fatalf("CreateBaseData: %v\n", err)
		}
	}
	for _, d := range SampleDrivers() {
		if err := repos.Driver().Create(ctx, d); err != nil {
			log.Fatalf("CreateBaseData: %v\n", err)
		}
	}
}
