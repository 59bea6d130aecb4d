package teambuilder

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/honeycarbs/plugplayers/internal/domain"
)

func TestSuggest(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)

	tests := []struct {
		category domain.ProjectCategory
		weeks    int
		cost     int
		members  int
	}{
		// 200 units / (10+10+8) per week, weekly cost 3200+3400+1950
		{domain.CategorySaaS, 8, 8 * 8550, 3},
		// 180 / (10+10+6), weekly 3200+3400+1375
		{domain.CategoryECommerce, 7, 7 * 7975, 3},
		// 250 / (20+10+8), weekly 6400+3400+1950
		{domain.CategoryMobileApp, 7, 7 * 11750, 3},
		// 80 / (9+8), weekly 2450+1950
		{domain.CategoryMarketing, 5, 5 * 4400, 2},
	}
	for _, tt := range tests {
		t.Run(string(tt.category), func(t *testing.T) {
			s, err := c.Suggest(domain.ProjectDetails{Goal: "x", Category: tt.category})
			require.NoError(t, err)
			assert.Equal(t, tt.weeks, s.EstimatedWeeks)
			assert.Equal(t, tt.cost, s.EstimatedCost)
			assert.Len(t, s.Team, tt.members)
			assert.NotEmpty(t, s.Explanation)
			require.Len(t, s.ComparisonOptions, 3)
			assert.Equal(t, "MVP Starter", s.ComparisonOptions[0].Name)
			assert.Equal(t, "Fast-Track", s.ComparisonOptions[2].Name)
		})
	}
}

func TestSimulate(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)
	saas := domain.ProjectDetails{Category: domain.CategorySaaS}

	est, err := c.Simulate([]domain.TeamMember{{RoleID: "fe-dev", Count: 1}, {RoleID: "be-dev", Count: 1}}, saas)
	require.NoError(t, err)
	assert.Equal(t, Estimate{EstimatedWeeks: 10, EstimatedCost: 10 * 6600}, est)

	est, err = c.Simulate([]domain.TeamMember{{RoleID: "astronaut", Count: 3}}, saas)
	require.NoError(t, err)
	assert.Equal(t, Estimate{}, est, "no known roles means no estimate")

	est, err = c.Simulate(nil, saas)
	require.NoError(t, err)
	assert.Zero(t, est.EstimatedWeeks)

	_, err = c.Simulate(nil, domain.ProjectDetails{Category: "Biotech"})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = c.Suggest(domain.ProjectDetails{Category: "Biotech"})
	assert.ErrorIs(t, err, domain.ErrValidation)
}

func TestRolesKeepFileOrder(t *testing.T) {
	c, err := Default()
	require.NoError(t, err)

	roles := c.Roles()
	require.Len(t, roles, 5)
	assert.Equal(t, "fe-dev", roles[0].ID)
	assert.Equal(t, "marketing", roles[4].ID)
	assert.Equal(t, []string{"Figma", "Prototyping"}, roles[2].Skills)
}

func TestParseRejectsBadCatalog(t *testing.T) {
	_, err := Parse([]byte("roles: [{id: a}, {id: a}]"))
	assert.Error(t, err)

	_, err = Parse([]byte("templates: [{category: SaaS, team: [{roleId: ghost, count: 1}]}]"))
	assert.Error(t, err)

	_, err = Parse([]byte("templates: [{category: Biotech}]"))
	assert.Error(t, err)

	_, err = Parse([]byte("roles: {"))
	assert.Error(t, err)
}
