package guildconfig

import (
	"testing"

	"github.com/PancyStudios/PancyStoreGo/pkg/models"
	"github.com/stretchr/testify/assert"
)

func TestIsOwner(t *testing.T) {
	cfg := &models.GuildConfig{Owners: []models.FlexibleID{"10", "11"}}

	tests := []struct {
		name       string
		appOwner   string
		user       string
		guildOwner string
		want       bool
	}{
		{"global owner", "1", "1", "99", true},
		{"listed owner", "1", "11", "99", true},
		{"guild owner", "1", "99", "99", true},
		{"regular member", "1", "50", "99", false},
		{"no global owner configured", "", "", "", false},
		{"empty user", "", "", "99", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsOwner(tt.appOwner, cfg, tt.user, tt.guildOwner))
		})
	}

	assert.True(t, IsOwner("", nil, "99", "99"))
	assert.False(t, IsOwner("", nil, "10", "99"))
}

func TestIsStaff(t *testing.T) {
	noRole := &models.GuildConfig{}
	withRole := &models.GuildConfig{StaffRole: "500"}

	assert.False(t, IsStaff(noRole, []string{"500"}, true), "nobody is staff without a configured role")
	assert.False(t, IsStaff(nil, nil, true))
	assert.True(t, IsStaff(withRole, nil, true))
	assert.True(t, IsStaff(withRole, []string{"1", "500"}, false))
	assert.False(t, IsStaff(withRole, []string{"1", "2"}, false))
}
