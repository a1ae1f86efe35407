package crud

// Changeset collects column values for the payload keys of a request.
// Built without keys it accepts every field.
type Changeset struct {
	keys   map[string]bool
	values map[string]any
}

// NewChangeset returns a changeset limited to keys, or unrestricted when
// keys is empty.
func NewChangeset(keys ...string) *Changeset {
	cs := &Changeset{values: make(map[string]any)}
	if len(keys) > 0 {
		cs.keys = make(map[string]bool, len(keys))
		for _, k := range keys {
			cs.keys[k] = true
		}
	}
	return cs
}

// Wants reports whether the payload key was requested.
func (cs *Changeset) Wants(key string) bool {
	return cs.keys == nil || cs.keys[key]
}

// Set stores value under column when key was requested.
func (cs *Changeset) Set(key, column string, value any) *Changeset {
	if cs.Wants(key) {
		cs.values[column] = value
	}
	return cs
}

// Map returns the collected column → value pairs.
func (cs *Changeset) Map() map[string]any {
	return cs.values
}
