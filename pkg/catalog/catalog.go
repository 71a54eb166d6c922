package catalog

import (
	"bytes"
	_ "embed"
	"fmt"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"github.com/mpapenbr/fantasyf1-service-go/pkg/model"
)

//go:embed catalog.yml
var catalogData []byte

type (
	Entry struct {
		Name        model.Bonus     `json:"name" yaml:"name"`
		Description string          `json:"description" yaml:"description"`
		Targets     []string        `json:"targets" yaml:"targets"`
		Price       decimal.Decimal `json:"price" yaml:"-"`
	}
	Catalog struct {
		Bonuses []Entry `yaml:"bonuses"`
	}
)

// Load parses the embedded catalog. Every entry gets the given price.
func Load(price decimal.Decimal) (*Catalog, error) {
	return parse(catalogData, price)
}

func parse(data []byte, price decimal.Decimal) (*Catalog, error) {
	var ret Catalog
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&ret); err != nil {
		return nil, err
	}
	for i := range ret.Bonuses {
		e := &ret.Bonuses[i]
		if !e.Name.Valid() {
			return nil, fmt.Errorf("%w: %q", model.ErrUnknownBonus, e.Name)
		}
		e.Price = price
	}
	return &ret, nil
}

// Lookup returns the entry for the bonus tag
func (c *Catalog) Lookup(b model.Bonus) (*Entry, bool) {
	for i := range c.Bonuses {
		if c.Bonuses[i].Name == b {
			return &c.Bonuses[i], true
		}
	}
	return nil, false
}
