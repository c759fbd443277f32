package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Duration is an elapsed race time. It is stored as whole seconds in the
// database so the store can ORDER BY it, and serialized as "H:MM:SS" on the
// wire (the format the mobile client renders directly).
type Duration time.Duration

// ParseDuration accepts "H:MM:SS", "HH:MM:SS" or "MM:SS".
func ParseDuration(s string) (Duration, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, fmt.Errorf("invalid duration %q, want H:MM:SS", s)
	}
	// Pad to three fields so "MM:SS" parses as zero hours.
	if len(parts) == 2 {
		parts = append([]string{"0"}, parts...)
	}

	var secs int64
	for _, p := range parts {
		n, err := strconv.ParseInt(p, 10, 64)
		if err != nil || n < 0 {
			return 0, fmt.Errorf("invalid duration %q, want H:MM:SS", s)
		}
		secs = secs*60 + n
	}
	return Duration(time.Duration(secs) * time.Second), nil
}

func (d Duration) String() string {
	secs := int64(time.Duration(d) / time.Second)
	return fmt.Sprintf("%d:%02d:%02d", secs/3600, secs/60%60, secs%60)
}

func (d Duration) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

func (d *Duration) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	parsed, err := ParseDuration(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Value stores the duration as whole seconds.
func (d Duration) Value() (driver.Value, error) {
	return int64(time.Duration(d) / time.Second), nil
}

func (d *Duration) Scan(src interface{}) error {
	switch v := src.(type) {
	case int64:
		*d = Duration(time.Duration(v) * time.Second)
		return nil
	case nil:
		*d = 0
		return nil
	default:
		return fmt.Errorf("cannot scan %T into Duration", src)
	}
}
