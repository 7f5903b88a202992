package checkout

type Status string

const (
	StatusIdle       Status = "IDLE"
	StatusValidating Status = "VALIDATING"
	StatusPersisting Status = "PERSISTING"
	StatusDeducting  Status = "DEDUCTING"
	StatusReceipted  Status = "RECEIPTED"
	StatusFailed     Status = "FAILED"
)

func (s Status) IsTerminal() bool {
	return s == StatusReceipted || s == StatusFailed
}

// String representation (for logging)
func (s Status) String() string {
	return string(s)
}
