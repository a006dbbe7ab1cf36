package plinth

// resolution is a memoized Resolution Table entry. An empty canonical name
// records a permanent miss.
type resolution struct {
	canonical string
}

func (r resolution) found() bool {
	return r.canonical != ""
}

// resolutionTable maps identifiers and aliases to canonical names. Entries
// are written once and never change for the container's lifetime.
type resolutionTable struct {
	entries map[string]resolution
}

func newResolutionTable() *resolutionTable {
	return &resolutionTable{entries: make(map[string]resolution)}
}

// bind records alias -> canonical. Only called while the container is
// initializing; later bindings for the same alias win.
func (t *resolutionTable) bind(alias, canonical string) {
	t.entries[alias] = resolution{canonical: canonical}
}

// lookup returns the memoized entry for id.
func (t *resolutionTable) lookup(id string) (resolution, bool) {
	r, ok := t.entries[id]
	return r, ok
}

// resolve returns the canonical name for id, consulting the catalog on the
// first lookup only. Misses are memoized too.
func (t *resolutionTable) resolve(id string, catalog *Catalog) (string, bool) {
	if r, ok := t.entries[id]; ok {
		return r.canonical, r.found()
	}

	if !catalog.Has(id) {
		t.entries[id] = resolution{}
		return "", false
	}

	t.entries[id] = resolution{canonical: id}

	return id, true
}

// componentStore caches built singletons by canonical name.
type componentStore struct {
	instances map[string]any
}

func newComponentStore() *componentStore {
	return &componentStore{instances: make(map[string]any)}
}

func (s *componentStore) get(name string) (any, bool) {
	v, ok := s.instances[name]
	return v, ok
}

func (s *componentStore) put(name string, instance any) {
	s.instances[name] = instance
}

// overrideTable holds argument overrides keyed by canonical name, alias, or
// "Type::method" call key.
type overrideTable struct {
	entries map[string]override
}

func newOverrideTable() *overrideTable {
	return &overrideTable{entries: make(map[string]override)}
}

func (t *overrideTable) set(key string, o override) {
	t.entries[key] = o
}

// lookup tries each key in order and returns the first override found.
func (t *overrideTable) lookup(keys ...string) (override, string, bool) {
	for _, k := range keys {
		if k == "" {
			continue
		}
		if o, ok := t.entries[k]; ok {
			return o, k, true
		}
	}

	return override{}, "", false
}
