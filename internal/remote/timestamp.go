package remote

import (
	"encoding/json"
	"time"
)

// Timestamp adapts the heterogeneous timestamp representations a document
// backend may emit (RFC3339 string, epoch seconds, {seconds,nanos} object)
// into a single time.Time at the boundary. Past this type the core only ever
// sees time.Time. Malformed or missing values default to the current time
// rather than failing.
type Timestamp struct {
	time.Time
}

type secondsNanos struct {
	Seconds int64 `json:"seconds"`
	Nanos   int64 `json:"nanos"`
}

// UnmarshalJSON accepts the supported wire shapes in order of likelihood.
func (t *Timestamp) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		if parsed, perr := time.Parse(time.RFC3339Nano, s); perr == nil {
			t.Time = parsed
			return nil
		}
		t.Time = time.Now()
		return nil
	}

	var sn secondsNanos
	if err := json.Unmarshal(b, &sn); err == nil && sn.Seconds != 0 {
		t.Time = time.Unix(sn.Seconds, sn.Nanos)
		return nil
	}

	var epoch float64
	if err := json.Unmarshal(b, &epoch); err == nil && epoch != 0 {
		sec := int64(epoch)
		t.Time = time.Unix(sec, int64((epoch-float64(sec))*1e9))
		return nil
	}

	t.Time = time.Now()
	return nil
}

// MarshalJSON always emits RFC3339.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.Time.Format(time.RFC3339Nano))
}
