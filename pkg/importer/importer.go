package importer

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/ohler55/ojg/jp"
	"github.com/ohler55/ojg/oj"
)

// DefaultStandingsPath matches the results of an Ergast/Jolpica style race feed
const DefaultStandingsPath = "$.MRData.RaceTable.Races[0].Results[*].Driver.familyName"

var ErrNoStandings = errors.New("no standings found")

func StandingsFromFile(file, path string) ([]string, error) {
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, err
	}
	return Standings(string(data), path)
}

// Standings extracts the finishing order from jsonData. The path must select
// the driver names in finishing order, either as separate string values or as
// a single array of strings.
func Standings(jsonData, path string) ([]string, error) {
	if path == "" {
		path = DefaultStandingsPath
	}
	obj, err := oj.ParseString(jsonData)
	if err != nil {
		return nil, err
	}
	x, err := jp.ParseString(path)
	if err != nil {
		return nil, fmt.Errorf("invalid path %q: %w", path, err)
	}
	res := x.Get(obj)
	if len(res) == 1 {
		if list, ok := res[0].([]any); ok {
			res = list
		}
	}
	if len(res) == 0 {
		return nil, ErrNoStandings
	}
	ret := make([]string, 0, len(res))
	for i, v := range res {
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("entry %d: expected string, got %s", i, oj.JSON(v))
		}
		s = strings.TrimSpace(s)
		if s == "" {
			return nil, fmt.Errorf("entry %d: empty driver name", i)
		}
		ret = append(ret, s)
	}
	return ret, nil
}
