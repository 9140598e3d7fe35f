package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"lineage/internal/oauth"
)

// Record is a single genealogical record in the in-memory store.
type Record struct {
	Xref    string `json:"xref"`
	Type    string `json:"type"`
	Gedcom  string `json:"gedcom"`
	Private bool   `json:"private,omitempty"`
}

// MemoryStore is an in-process record store used in tests and local
// development. Private records are visible to member-level callers only:
// the effective identity travels in the request context, so a privacy
// downgrade upstream directly changes what this store returns.
type MemoryStore struct {
	mu      sync.RWMutex
	version string
	records map[string]map[string]*Record // tree -> xref -> record
	nextID  int
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore(version string) *MemoryStore {
	return &MemoryStore{
		version: version,
		records: map[string]map[string]*Record{},
		nextID:  1,
	}
}

// AddTree creates an empty tree. Adding an existing tree is a no-op.
func (m *MemoryStore) AddTree(tree string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.records[tree] == nil {
		m.records[tree] = map[string]*Record{}
	}
}

// Put inserts a record, creating the tree as needed.
func (m *MemoryStore) Put(tree string, rec *Record) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.records[tree] == nil {
		m.records[tree] = map[string]*Record{}
	}
	m.records[tree][rec.Xref] = rec
}

func (m *MemoryStore) Trees(ctx context.Context) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	names := make([]string, 0, len(m.records))
	for tree := range m.records {
		names = append(names, tree)
	}
	return marshal(map[string]any{"trees": names})
}

func (m *MemoryStore) Version(ctx context.Context) (string, error) {
	return marshal(map[string]any{"version": m.version})
}

func (m *MemoryStore) GetRecord(ctx context.Context, tree, xref, format string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rec, err := m.lookup(ctx, tree, xref)
	if err != nil {
		return "", err
	}
	if format == "gedcom" || format == "gedcom-record" {
		return rec.Gedcom, nil
	}
	return marshal(rec)
}

func (m *MemoryStore) Search(ctx context.Context, tree, query, format string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	records, ok := m.records[tree]
	if !ok {
		return "", NotFound(fmt.Sprintf("tree %s not found", tree))
	}

	member := !oauth.IdentityFromContext(ctx).Anonymous()
	var hits []*Record
	for _, rec := range records {
		if rec.Private && !member {
			continue
		}
		if strings.Contains(strings.ToLower(rec.Gedcom), strings.ToLower(query)) {
			hits = append(hits, rec)
		}
	}
	if hits == nil {
		hits = []*Record{}
	}
	return marshal(map[string]any{"matches": hits})
}

func (m *MemoryStore) ModifyRecord(ctx context.Context, tree, xref, gedcom string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	rec, err := m.lookup(ctx, tree, xref)
	if err != nil {
		return "", err
	}
	rec.Gedcom = gedcom
	return marshal(rec)
}

func (m *MemoryStore) CreateRecord(ctx context.Context, tree, recordType, gedcom string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.records[tree] == nil {
		return "", NotFound(fmt.Sprintf("tree %s not found", tree))
	}
	if recordType == "" {
		return "", BadRequest("record type must not be empty")
	}

	xref := fmt.Sprintf("X%d", m.nextID)
	m.nextID++
	m.records[tree][xref] = &Record{Xref: xref, Type: recordType, Gedcom: gedcom}
	return marshal(map[string]any{"xref": xref})
}

func (m *MemoryStore) Link(ctx context.Context, op, tree string, params map[string]string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.records[tree] == nil {
		return "", NotFound(fmt.Sprintf("tree %s not found", tree))
	}
	for _, xref := range []string{params["xref"], params["target"]} {
		if xref == "" {
			continue
		}
		if _, ok := m.records[tree][xref]; !ok {
			return "", NotFound(fmt.Sprintf("record %s not found in tree %s", xref, tree))
		}
	}
	return marshal(map[string]any{"op": op, "linked": true})
}

func (m *MemoryStore) RunCommand(ctx context.Context, command string) (string, error) {
	if command == "" {
		return "", BadRequest("command must not be empty")
	}
	// Console commands are stubbed in the in-memory store.
	return marshal(map[string]any{"command": command, "output": ""})
}

// lookup resolves a record honoring the caller's effective visibility.
// Private records do not exist for anonymous callers.
func (m *MemoryStore) lookup(ctx context.Context, tree, xref string) (*Record, error) {
	records, ok := m.records[tree]
	if !ok {
		return nil, NotFound(fmt.Sprintf("tree %s not found", tree))
	}
	rec, ok := records[xref]
	if !ok {
		return nil, NotFound(fmt.Sprintf("record %s not found in tree %s", xref, tree))
	}
	if rec.Private && oauth.IdentityFromContext(ctx).Anonymous() {
		return nil, NotFound(fmt.Sprintf("record %s not found in tree %s", xref, tree))
	}
	return rec, nil
}

func marshal(v any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("failed to serialize record store response: %w", err)
	}
	return string(data), nil
}

// MemoryGedbas is a canned GEDBAS implementation for tests and local
// development.
type MemoryGedbas struct {
	Persons map[string]string // id -> JSON person data
}

func (g *MemoryGedbas) SearchSimple(ctx context.Context, lastname, firstname, place string) (string, error) {
	if lastname == "" {
		return "", BadRequest("lastname must not be empty")
	}
	ids := make([]string, 0, len(g.Persons))
	for id := range g.Persons {
		ids = append(ids, id)
	}
	return marshal(map[string]any{"lastname": lastname, "ids": ids})
}

func (g *MemoryGedbas) PersonData(ctx context.Context, id string) (string, error) {
	data, ok := g.Persons[id]
	if !ok {
		return "", NotFound(fmt.Sprintf("person %s not found", id))
	}
	return data, nil
}
