package oauth

// Scope is a permission scope identifier. Scopes are immutable value
// objects drawn from a fixed catalog; equality is by identifier.
type Scope string

const (
	// ScopeReadPrivacy allows reading records at anonymous visibility.
	ScopeReadPrivacy Scope = "read-privacy"
	// ScopeReadMember allows reading records at member visibility.
	ScopeReadMember Scope = "read-member"
	// ScopeWrite allows creating and modifying records.
	ScopeWrite Scope = "write"
	// ScopeCLI allows executing console commands.
	ScopeCLI Scope = "cli"
	// ScopeMcpReadPrivacy allows calling read MCP tools.
	ScopeMcpReadPrivacy Scope = "mcp-read-privacy"
	// ScopeMcpWrite allows calling write MCP tools.
	ScopeMcpWrite Scope = "mcp-write"
	// ScopeMcpGedbas allows calling the GEDBAS MCP tools.
	ScopeMcpGedbas Scope = "mcp-gedbas"
)

// AllScopes returns the fixed scope catalog.
func AllScopes() []Scope {
	return []Scope{
		ScopeReadPrivacy,
		ScopeReadMember,
		ScopeWrite,
		ScopeCLI,
		ScopeMcpReadPrivacy,
		ScopeMcpWrite,
		ScopeMcpGedbas,
	}
}

// KnownScope reports whether s is in the scope catalog.
func KnownScope(s Scope) bool {
	for _, known := range AllScopes() {
		if s == known {
			return true
		}
	}
	return false
}

// ScopeStrings converts a scope set to its string identifiers.
func ScopeStrings(scopes []Scope) []string {
	out := make([]string, 0, len(scopes))
	for _, s := range scopes {
		out = append(out, string(s))
	}
	return out
}

// ScopesFromStrings converts string identifiers back to scopes. Unknown
// identifiers are dropped, mirroring the silent-drop rule for scope
// requests.
func ScopesFromStrings(ids []string) []Scope {
	out := make([]Scope, 0, len(ids))
	for _, id := range ids {
		if s := Scope(id); KnownScope(s) {
			out = append(out, s)
		}
	}
	return out
}

// Category classifies an operation for scope checking.
type Category int

const (
	// CategoryUnknown is the zero value; it never authorizes anything.
	CategoryUnknown Category = iota
	// CategoryRead covers the read-only record API operations.
	CategoryRead
	// CategoryWrite covers the mutating record API operations.
	CategoryWrite
	// CategoryCLI covers console command execution.
	CategoryCLI
	// CategoryMcpRead covers read-only MCP tools.
	CategoryMcpRead
	// CategoryMcpWrite covers mutating MCP tools.
	CategoryMcpWrite
	// CategoryGedbas covers the GEDBAS integration MCP tools.
	CategoryGedbas
)

func (c Category) String() string {
	switch c {
	case CategoryRead:
		return "read"
	case CategoryWrite:
		return "write"
	case CategoryCLI:
		return "cli"
	case CategoryMcpRead:
		return "mcp-read"
	case CategoryMcpWrite:
		return "mcp-write"
	case CategoryGedbas:
		return "gedbas"
	default:
		return "unknown"
	}
}

// requiredScopes maps each operation category to the scopes that authorize
// it. Any listed scope suffices. The MCP read and write categories share
// one required-scope set: any mcp scope other than gedbas authorizes any
// non-gedbas mcp tool. This collapse is a fixed contract, not an accident.
var requiredScopes = map[Category][]Scope{
	CategoryRead:     {ScopeReadPrivacy, ScopeReadMember},
	CategoryWrite:    {ScopeWrite},
	CategoryCLI:      {ScopeCLI},
	CategoryMcpRead:  {ScopeMcpReadPrivacy, ScopeMcpWrite},
	CategoryMcpWrite: {ScopeMcpReadPrivacy, ScopeMcpWrite},
	CategoryGedbas:   {ScopeMcpGedbas},
}

// Allow reports whether the granted scope set authorizes an operation of
// the given category. Unknown categories are always denied.
func Allow(category Category, granted []Scope) bool {
	required, ok := requiredScopes[category]
	if !ok {
		return false
	}
	for _, need := range required {
		for _, have := range granted {
			if need == have {
				return true
			}
		}
	}
	return false
}

// DowngradeToAnonymous reports whether the caller's effective identity
// must be forced to anonymous before the operation executes: the only
// granted read scope is read-privacy, so all downstream privacy filtering
// has to run at anonymous-level visibility. This is an identity downgrade,
// not a denial.
func DowngradeToAnonymous(category Category, granted []Scope) bool {
	if category != CategoryRead {
		return false
	}
	hasPrivacy := false
	for _, s := range granted {
		switch s {
		case ScopeReadMember:
			return false
		case ScopeReadPrivacy:
			hasPrivacy = true
		}
	}
	return hasPrivacy
}
