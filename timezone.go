package klinetime

import (
	"fmt"
	"time"
)

// TimezoneRef names a timezone either by its IANA identifier or by an already
// resolved *time.Location. The zero value is invalid; build one with TZ or
// TZLocation. References are resolved once, at construction of the value that
// carries them.
type TimezoneRef struct {
	name string
	loc  *time.Location
}

// TZ references a timezone by IANA name, e.g. "UTC" or "Europe/Madrid".
func TZ(name string) TimezoneRef {
	return TimezoneRef{name: name}
}

// TZLocation references an already resolved location.
func TZLocation(loc *time.Location) TimezoneRef {
	return TimezoneRef{loc: loc}
}

// Resolve returns the location the reference points at, loading named zones
// from the system's IANA timezone database. DST-aware offset lookup for any
// instant is delegated entirely to the resolved location.
func (r TimezoneRef) Resolve() (*time.Location, error) {
	if r.loc != nil {
		return r.loc, nil
	}
	if r.name == "" {
		return nil, fmt.Errorf("%w: empty reference", ErrInvalidTimezone)
	}
	loc, err := time.LoadLocation(r.name)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrInvalidTimezone, r.name, err)
	}
	return loc, nil
}
