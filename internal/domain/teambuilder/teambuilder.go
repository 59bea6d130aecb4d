// Package teambuilder suggests and prices project teams from a fixed role catalog
package teambuilder

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/honeycarbs/plugplayers/internal/domain"
)

//go:embed catalog.yaml
var defaultCatalog []byte

// Role is one hireable role with its weekly throughput and price
type Role struct {
	ID               string   `json:"id" yaml:"id"`
	Name             string   `json:"name" yaml:"name"`
	Skills           []string `json:"skills" yaml:"skills"`
	AvgWeeklyHours   int      `json:"avgWeeklyHours" yaml:"avgWeeklyHours"`
	CostPerHour      int      `json:"costPerHour" yaml:"costPerHour"`
	WorkUnitsPerWeek int      `json:"workUnitsPerWeek" yaml:"workUnitsPerWeek"`
}

// Option is a named alternative team
type Option struct {
	Name string              `json:"name" yaml:"name"`
	Team []domain.TeamMember `json:"team" yaml:"team"`
}

// Template is the default plan for one project category
type Template struct {
	Category    domain.ProjectCategory `yaml:"category"`
	WorkUnits   int                    `yaml:"workUnits"`
	Team        []domain.TeamMember    `yaml:"team"`
	Explanation string                 `yaml:"explanation"`
	Comparison  []Option               `yaml:"comparison"`
}

// Estimate is the time and money a team needs for a project
type Estimate struct {
	EstimatedWeeks int `json:"estimatedWeeks"`
	EstimatedCost  int `json:"estimatedCost"`
}

// Suggestion is the recommended team with its estimate and alternatives
type Suggestion struct {
	Team []domain.TeamMember `json:"team"`
	Estimate
	Explanation       string   `json:"explanation"`
	ComparisonOptions []Option `json:"comparisonOptions"`
}

// Catalog holds the roles and per-category templates
type Catalog struct {
	roles     map[string]Role
	order     []string
	templates map[domain.ProjectCategory]Template
}

type catalogFile struct {
	Roles     []Role     `yaml:"roles"`
	Templates []Template `yaml:"templates"`
}

// Default parses the built-in catalog
func Default() (*Catalog, error) {
	return Parse(defaultCatalog)
}

// Parse builds a Catalog from YAML
func Parse(data []byte) (*Catalog, error) {
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("teambuilder: parse catalog: %w", err)
	}

	c := &Catalog{
		roles:     make(map[string]Role, len(file.Roles)),
		templates: make(map[domain.ProjectCategory]Template, len(file.Templates)),
	}
	for _, r := range file.Roles {
		if _, dup := c.roles[r.ID]; dup {
			return nil, fmt.Errorf("teambuilder: duplicate role %q", r.ID)
		}
		c.roles[r.ID] = r
		c.order = append(c.order, r.ID)
	}
	for _, t := range file.Templates {
		if !t.Category.Valid() {
			return nil, fmt.Errorf("teambuilder: unknown category %q", t.Category)
		}
		for _, m := range t.Team {
			if _, ok := c.roles[m.RoleID]; !ok {
				return nil, fmt.Errorf("teambuilder: template %q uses unknown role %q", t.Category, m.RoleID)
			}
		}
		c.templates[t.Category] = t
	}
	return c, nil
}

// Roles lists the catalog roles in file order
func (c *Catalog) Roles() []Role {
	out := make([]Role, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.roles[id])
	}
	return out
}

// Suggest returns the template team for the project's category
func (c *Catalog) Suggest(project domain.ProjectDetails) (Suggestion, error) {
	t, ok := c.templates[project.Category]
	if !ok {
		return Suggestion{}, domain.Invalid("unknown project category %q", project.Category)
	}
	return Suggestion{
		Team:              append([]domain.TeamMember(nil), t.Team...),
		Estimate:          c.estimate(t.WorkUnits, t.Team),
		Explanation:       t.Explanation,
		ComparisonOptions: append([]Option(nil), t.Comparison...),
	}, nil
}

// Simulate prices a custom team against the category's workload. Unknown
// roles contribute nothing
func (c *Catalog) Simulate(team []domain.TeamMember, project domain.ProjectDetails) (Estimate, error) {
	t, ok := c.templates[project.Category]
	if !ok {
		return Estimate{}, domain.Invalid("unknown project category %q", project.Category)
	}
	return c.estimate(t.WorkUnits, team), nil
}

func (c *Catalog) estimate(workUnits int, team []domain.TeamMember) Estimate {
	var weeklyUnits, weeklyCost int
	for _, m := range team {
		r, ok := c.roles[m.RoleID]
		if !ok || m.Count <= 0 {
			continue
		}
		weeklyUnits += r.WorkUnitsPerWeek * m.Count
		weeklyCost += r.CostPerHour * r.AvgWeeklyHours * m.Count
	}
	if weeklyUnits == 0 {
		return Estimate{}
	}
	weeks := (workUnits + weeklyUnits - 1) / weeklyUnits
	return Estimate{EstimatedWeeks: weeks, EstimatedCost: weeks * weeklyCost}
}
