package record

import "strconv"

// The engine passes every field value through as text and never
// interprets value semantics; type conversion belongs to the consumer.
// These helpers coerce field values with a default instead of an
// error, so a malformed cell degrades to the default rather than
// aborting record construction.

// Int returns the named field parsed as an int, or defaultVal when the
// field is absent or not numeric.
func (r *Record) Int(name string, defaultVal int) int {
	v := r.Field(name)
	if v == "" {
		return defaultVal
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return defaultVal
	}
	return n
}

// Int64 returns the named field parsed as an int64, or defaultVal when
// the field is absent or not numeric.
func (r *Record) Int64(name string, defaultVal int64) int64 {
	v := r.Field(name)
	if v == "" {
		return defaultVal
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return defaultVal
	}
	return n
}

// Float returns the named field parsed as a float64, or defaultVal
// when the field is absent or not numeric.
func (r *Record) Float(name string, defaultVal float64) float64 {
	v := r.Field(name)
	if v == "" {
		return defaultVal
	}
	n, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return defaultVal
	}
	return n
}

// String returns the named field, or defaultVal when the field is
// absent or empty.
func (r *Record) String(name, defaultVal string) string {
	if v := r.Field(name); v != "" {
		return v
	}
	return defaultVal
}
