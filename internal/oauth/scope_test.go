package oauth

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAllow(t *testing.T) {
	tests := []struct {
		name     string
		category Category
		granted  []Scope
		want     bool
	}{
		{"read with privacy scope", CategoryRead, []Scope{ScopeReadPrivacy}, true},
		{"read with member scope", CategoryRead, []Scope{ScopeReadMember}, true},
		{"read with write scope only", CategoryRead, []Scope{ScopeWrite}, false},
		{"write with write scope", CategoryWrite, []Scope{ScopeWrite}, true},
		{"write with read scopes", CategoryWrite, []Scope{ScopeReadPrivacy, ScopeReadMember}, false},
		{"cli with cli scope", CategoryCLI, []Scope{ScopeCLI}, true},
		{"cli without cli scope", CategoryCLI, []Scope{ScopeWrite}, false},
		{"mcp read with mcp read scope", CategoryMcpRead, []Scope{ScopeMcpReadPrivacy}, true},
		{"mcp read with mcp write scope", CategoryMcpRead, []Scope{ScopeMcpWrite}, true},
		{"mcp write with mcp read scope", CategoryMcpWrite, []Scope{ScopeMcpReadPrivacy}, true},
		{"mcp write with mcp write scope", CategoryMcpWrite, []Scope{ScopeMcpWrite}, true},
		{"mcp write with gedbas scope", CategoryMcpWrite, []Scope{ScopeMcpGedbas}, false},
		{"gedbas with gedbas scope", CategoryGedbas, []Scope{ScopeMcpGedbas}, true},
		{"gedbas with other mcp scopes", CategoryGedbas, []Scope{ScopeMcpReadPrivacy, ScopeMcpWrite}, false},
		{"unknown category denied", CategoryUnknown, AllScopes(), false},
		{"empty grant denied", CategoryRead, nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Allow(tt.category, tt.granted))
		})
	}
}

func TestDowngradeToAnonymous(t *testing.T) {
	tests := []struct {
		name     string
		category Category
		granted  []Scope
		want     bool
	}{
		{"privacy only downgrades", CategoryRead, []Scope{ScopeReadPrivacy}, true},
		{"member scope keeps identity", CategoryRead, []Scope{ScopeReadPrivacy, ScopeReadMember}, false},
		{"member only keeps identity", CategoryRead, []Scope{ScopeReadMember}, false},
		{"non-read category never downgrades", CategoryWrite, []Scope{ScopeReadPrivacy}, false},
		{"no read scopes at all", CategoryRead, []Scope{ScopeWrite}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DowngradeToAnonymous(tt.category, tt.granted))
		})
	}
}

func TestScopesFromStrings_DropsUnknown(t *testing.T) {
	scopes := ScopesFromStrings([]string{"write", "no-such-scope", "cli"})
	assert.Equal(t, []Scope{ScopeWrite, ScopeCLI}, scopes)
}
