package model

import "strings"

// Mode selects the scheduling discipline for a run.
type Mode string

const (
	ModeFCFS       Mode = "FCFS"
	ModeRoundRobin Mode = "ROUND_ROBIN"
)

// String returns the string representation of the mode.
func (m Mode) String() string {
	return string(m)
}

// DisplayName returns the human-readable name used in banners.
func (m Mode) DisplayName() string {
	switch m {
	case ModeFCFS:
		return "FCFS"
	case ModeRoundRobin:
		return "Round Robin"
	}
	return string(m)
}

// IsValid returns true if m is a recognized mode.
func (m Mode) IsValid() bool {
	return m == ModeFCFS || m == ModeRoundRobin
}

// NeedsQuantum returns true if the mode takes a time quantum.
func (m Mode) NeedsQuantum() bool {
	return m == ModeRoundRobin
}

// ParseMode converts a user-supplied selector into a Mode. Besides the
// canonical names it accepts the menu numbers of the interactive prompt:
// 1 selects Round Robin and 2 selects FCFS.
func ParseMode(s string) (Mode, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	key = strings.NewReplacer("_", "", "-", "", " ", "", ",", "").Replace(key)
	switch key {
	case "fcfs", "firstcomefirstserved", "firstcomefirstserve", "2":
		return ModeFCFS, nil
	case "rr", "roundrobin", "1":
		return ModeRoundRobin, nil
	}
	return "", &ConfigError{Kind: ErrInvalidMode, Field: "mode", Value: s, Message: "expected fcfs or round-robin"}
}
