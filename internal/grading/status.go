package grading

import (
	"encoding/json"
	"fmt"
)

// Status classifies a submission. The numeric values are the status codes
// of the score record and must not change.
type Status int

const (
	OnTime  Status = 0
	Late    Status = 1
	Missing Status = 2
)

func (s Status) String() string {
	switch s {
	case OnTime:
		return "ON_TIME"
	case Late:
		return "LATE"
	case Missing:
		return "MISSING"
	}
	return fmt.Sprintf("Status(%d)", int(s))
}

// Code is the numeric status code written to the score record.
func (s Status) Code() int { return int(s) }

func (s Status) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// UnmarshalJSON accepts the status name or the numeric code.
func (s *Status) UnmarshalJSON(b []byte) error {
	var name string
	if err := json.Unmarshal(b, &name); err == nil {
		v, err := ParseStatus(name)
		if err != nil {
			return err
		}
		*s = v
		return nil
	}
	var code int
	if err := json.Unmarshal(b, &code); err != nil {
		return fmt.Errorf("status: %w", err)
	}
	if code < int(OnTime) || code > int(Missing) {
		return fmt.Errorf("unknown status code %d", code)
	}
	*s = Status(code)
	return nil
}

// ParseStatus accepts the names produced by String.
func ParseStatus(v string) (Status, error) {
	switch v {
	case "ON_TIME":
		return OnTime, nil
	case "LATE":
		return Late, nil
	case "MISSING":
		return Missing, nil
	}
	return 0, fmt.Errorf("unknown status %q", v)
}
