package httpapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/Freeeeeet/slotswap/internal/model"
)

// flexTime accepts an RFC 3339 string or epoch milliseconds.
type flexTime struct {
	time.Time
}

func (f *flexTime) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		f.Time = time.Time{}
		return nil
	}

	if len(data) > 0 && data[0] == '"' {
		var raw string
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}
		t, err := time.Parse(time.RFC3339Nano, raw)
		if err != nil {
			return fmt.Errorf("%w: %q is not an RFC 3339 time", model.ErrValidation, raw)
		}
		f.Time = t
		return nil
	}

	millis, err := strconv.ParseFloat(string(data), 64)
	if err != nil {
		return fmt.Errorf("%w: time must be an RFC 3339 string or epoch milliseconds", model.ErrValidation)
	}
	f.Time = time.UnixMilli(int64(millis)).UTC()
	return nil
}
