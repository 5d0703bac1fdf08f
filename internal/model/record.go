package model

// Record is an open-schema row: field names in declaration order mapped to
// scalar string values. Show rows are Records because the show table's
// columns are not fixed; iteration order is the order fields were set, which
// makes downstream scoring tie-breaks deterministic.
type Record struct {
	keys   []string
	values map[string]string
}

// NewRecord returns an empty record.
func NewRecord() *Record {
	return &Record{values: make(map[string]string)}
}

// Set adds or replaces a field. A new field is appended to the declaration
// order; replacing keeps the original position.
func (r *Record) Set(key, value string) {
	if _, ok := r.values[key]; !ok {
		r.keys = append(r.keys, key)
	}
	r.values[key] = value
}

// Get returns the value for key and whether the field exists.
func (r *Record) Get(key string) (string, bool) {
	v, ok := r.values[key]
	return v, ok
}

// Keys returns the field names in declaration order.
func (r *Record) Keys() []string {
	return r.keys
}

// Len returns the number of fields.
func (r *Record) Len() int {
	return len(r.keys)
}
