package seed

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed fixtures.yml
var defaultFixtures []byte

type Fixtures struct {
	Airports   map[string]string `yaml:"airports"`
	FlightDays int               `yaml:"flight_days"`
	Routes     []Route           `yaml:"routes"`
	Companies  []Company         `yaml:"companies"`
}

// Route is a daily scheduled flight. Departs is the local HH:MM.
type Route struct {
	Number      string `yaml:"number"`
	Carrier     string `yaml:"carrier"`
	From        string `yaml:"from"`
	To          string `yaml:"to"`
	Departs     string `yaml:"departs"`
	Minutes     int    `yaml:"minutes"`
	Class       string `yaml:"class"`
	Price       string `yaml:"price"`
	Connections int    `yaml:"connections"`
	Refundable  bool   `yaml:"refundable"`
	Changeable  bool   `yaml:"changeable"`
}

type Company struct {
	Name      string     `yaml:"name"`
	Tariff    string     `yaml:"tariff"`
	TopUp     string     `yaml:"top_up"`
	Users     []User     `yaml:"users"`
	Employees []Employee `yaml:"employees"`
}

type User struct {
	Name     string `yaml:"name"`
	Email    string `yaml:"email"`
	Password string `yaml:"password"`
	Role     string `yaml:"role"`
}

type Employee struct {
	Name       string     `yaml:"name"`
	Email      string     `yaml:"email"`
	Role       string     `yaml:"role"`
	Department string     `yaml:"department"`
	Documents  []Document `yaml:"documents"`
}

// Document expiry is relative to the seeding day; negative means already expired.
type Document struct {
	Type          string `yaml:"type"`
	Number        string `yaml:"number"`
	ExpiresInDays int    `yaml:"expires_in_days"`
}

// DefaultFixtures returns the demo data shipped with the binary.
func DefaultFixtures() (*Fixtures, error) {
	return ParseFixtures(defaultFixtures)
}

func ParseFixtures(data []byte) (*Fixtures, error) {
	var f Fixtures
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("parse fixtures: %w", err)
	}
	for _, r := range f.Routes {
		if _, ok := f.Airports[r.From]; !ok {
			return nil, fmt.Errorf("route %s: unknown airport %q", r.Number, r.From)
		}
		if _, ok := f.Airports[r.To]; !ok {
			return nil, fmt.Errorf("route %s: unknown airport %q", r.Number, r.To)
		}
		if r.Minutes <= 0 {
			return nil, fmt.Errorf("route %s: duration must be positive", r.Number)
		}
	}
	if f.FlightDays <= 0 {
		f.FlightDays = 14
	}
	return &f, nil
}
