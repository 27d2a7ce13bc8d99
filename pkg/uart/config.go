package uart

import (
	"fmt"
	"strconv"
	"strings"
)

// Parity selects the parity symbol appended after the data bits.
type Parity uint8

const (
	// ParityNone omits the parity symbol entirely.
	ParityNone Parity = iota
	// ParityOdd drives the XOR accumulation of the data bits.
	ParityOdd
	// ParityEven drives the complement of the XOR accumulation.
	ParityEven
)

// String returns the conventional single-letter parity code.
func (p Parity) String() string {
	switch p {
	case ParityNone:
		return "N"
	case ParityOdd:
		return "O"
	case ParityEven:
		return "E"
	}
	return fmt.Sprintf("Parity(%d)", uint8(p))
}

func (p Parity) enabled() bool {
	return p != ParityNone
}

const (
	// MinDataBits and MaxDataBits bound the data word width.
	MinDataBits = 5
	MaxDataBits = 9
	// MaxStopBits bounds the trailing idle symbols per frame.
	MaxStopBits = 2
	// MinRecommendedTicksPerBit is the smallest divisor at which the
	// receiver's half-period centering keeps a usable sampling margin.
	// Smaller divisors are accepted but drift-sensitive.
	MinRecommendedTicksPerBit = 50
	// DefaultSyncGuard is the number of consecutive low ticks required
	// before a falling edge commits as a start condition.
	DefaultSyncGuard = 10
)

// Config carries the framing and timing parameters of an engine.
// It is immutable after construction.
type Config struct {
	// DataBits is the data word width, 5 through 9.
	DataBits uint8
	// Parity selects the parity symbol, if any.
	Parity Parity
	// StopBits is the number of trailing high symbols, 1 or 2.
	StopBits uint8
	// TicksPerBit is the clock-ticks-per-baud divisor, at least 1.
	TicksPerBit uint32
	// SyncGuard is the start-condition debounce depth in ticks.
	// Zero selects DefaultSyncGuard.
	SyncGuard uint32
}

// Validate checks all fields are within range.
func (c Config) Validate() error {
	if c.DataBits < MinDataBits || c.DataBits > MaxDataBits {
		return &ConfigError{Field: "DataBits", Reason: fmt.Sprintf("%d not in %d..%d", c.DataBits, MinDataBits, MaxDataBits)}
	}
	if c.Parity > ParityEven {
		return &ConfigError{Field: "Parity", Reason: fmt.Sprintf("unknown value %d", c.Parity)}
	}
	if c.StopBits < 1 || c.StopBits > MaxStopBits {
		return &ConfigError{Field: "StopBits", Reason: fmt.Sprintf("%d not in 1..%d", c.StopBits, MaxStopBits)}
	}
	if c.TicksPerBit < 1 {
		return &ConfigError{Field: "TicksPerBit", Reason: "must be at least 1"}
	}
	return nil
}

// String renders the config in serial notation, e.g. "8N1@100".
func (c Config) String() string {
	return fmt.Sprintf("%d%s%d@%d", c.DataBits, c.Parity, c.StopBits, c.TicksPerBit)
}

// ParseConfig parses the serial notation produced by String, such as
// "8N1@100" or "9e2@50". SyncGuard is not part of the notation and is
// left at its default.
func ParseConfig(s string) (Config, error) {
	var cfg Config
	at := strings.IndexByte(s, '@')
	if at < 0 {
		return cfg, &ConfigError{Field: "TicksPerBit", Reason: `missing "@ticks" suffix`}
	}
	disc, rate := s[:at], s[at+1:]
	if len(disc) != 3 {
		return cfg, &ConfigError{Field: "DataBits", Reason: fmt.Sprintf("%q is not of the form 8N1", disc)}
	}
	if disc[0] < '0' || disc[0] > '9' {
		return cfg, &ConfigError{Field: "DataBits", Reason: fmt.Sprintf("%q is not a digit", disc[0])}
	}
	cfg.DataBits = disc[0] - '0'
	switch disc[1] {
	case 'N', 'n':
		cfg.Parity = ParityNone
	case 'O', 'o':
		cfg.Parity = ParityOdd
	case 'E', 'e':
		cfg.Parity = ParityEven
	default:
		return cfg, &ConfigError{Field: "Parity", Reason: fmt.Sprintf("%q is not one of N, O, E", disc[1])}
	}
	if disc[2] < '0' || disc[2] > '9' {
		return cfg, &ConfigError{Field: "StopBits", Reason: fmt.Sprintf("%q is not a digit", disc[2])}
	}
	cfg.StopBits = disc[2] - '0'
	tpb, err := strconv.ParseUint(rate, 10, 32)
	if err != nil {
		return cfg, &ConfigError{Field: "TicksPerBit", Reason: fmt.Sprintf("%q is not a tick count", rate)}
	}
	cfg.TicksPerBit = uint32(tpb)
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// withDefaults fills zero-valued optional fields.
func (c Config) withDefaults() Config {
	if c.SyncGuard == 0 {
		c.SyncGuard = DefaultSyncGuard
	}
	return c
}

// halfPeriod is the divisor for the receiver's start-bit centering.
func (c Config) halfPeriod() uint32 {
	if h := c.TicksPerBit / 2; h > 0 {
		return h
	}
	return 1
}

// dataMask keeps a word within DataBits.
func (c Config) dataMask() uint16 {
	return uint16(1)<<c.DataBits - 1
}
