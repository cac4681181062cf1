package status

import (
	"encoding/json"
	"fmt"
)

// Status is the lifecycle state of a download task.
type Status int32

const (
	Downloading Status = iota
	Completed
	Cancelled
	Error
)

func (s Status) String() string {
	switch s {
	case Downloading:
		return "Downloading"
	case Completed:
		return "Completed"
	case Cancelled:
		return "Cancelled"
	case Error:
		return "Error"
	default:
		return fmt.Sprintf("Unknown(%d)", int32(s))
	}
}

// IsTerminal reports whether the status can no longer change.
func (s Status) IsTerminal() bool {
	return s == Completed || s == Cancelled || s == Error
}

// Parse converts the string form back into a Status.
func Parse(str string) (Status, error) {
	switch str {
	case "Downloading":
		return Downloading, nil
	case "Completed":
		return Completed, nil
	case "Cancelled":
		return Cancelled, nil
	case "Error":
		return Error, nil
	default:
		return 0, fmt.Errorf("unknown status %q", str)
	}
}

func (s Status) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *Status) UnmarshalJSON(b []byte) error {
	var str string
	if err := json.Unmarshal(b, &str); err != nil {
		return err
	}

	parsed, err := Parse(str)
	if err != nil {
		return err
	}

	*s = parsed

	return nil
}
