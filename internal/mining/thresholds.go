package mining

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidConfiguration is wrapped by every threshold validation error.
var ErrInvalidConfiguration = errors.New("invalid mining configuration")

// ConfigError describes a threshold that is outside its documented range.
type ConfigError struct {
	Field  string
	Value  float64
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s: %s = %v %s", ErrInvalidConfiguration, e.Field, e.Value, e.Reason)
}

func (e *ConfigError) Unwrap() error {
	return ErrInvalidConfiguration
}

// Thresholds are the two user-facing knobs of a mining run.
//
// MinSupport has two modes. A value below 1 is a fraction of the number of
// transactions; a value of 1 or more is an absolute transaction count. Note
// that 1.0 therefore means "at least one transaction", not "every
// transaction". Pass the transaction count itself to require presence in
// every transaction.
type Thresholds struct {
	MinSupport    float64
	MinConfidence float64
}

// DefaultThresholds returns the thresholds used when nothing is configured.
func DefaultThresholds() Thresholds {
	return Thresholds{MinSupport: 0.2, MinConfidence: 0.6}
}

// Validate checks both thresholds.
func (t Thresholds) Validate() error {
	if err := ValidateMinSupport(t.MinSupport); err != nil {
		return err
	}
	return ValidateMinConfidence(t.MinConfidence)
}

// ValidateMinSupport rejects negative, NaN and infinite support values.
// Any finite non-negative value is accepted under the dual-mode rule.
func ValidateMinSupport(v float64) error {
	switch {
	case math.IsNaN(v) || math.IsInf(v, 0):
		return &ConfigError{Field: "min_support", Value: v, Reason: "is not a finite number"}
	case v < 0:
		return &ConfigError{Field: "min_support", Value: v, Reason: "must not be negative"}
	}
	return nil
}

// ValidateMinConfidence requires a value in [0, 1].
func ValidateMinConfidence(v float64) error {
	if math.IsNaN(v) || v < 0 || v > 1 {
		return &ConfigError{Field: "min_confidence", Value: v, Reason: "must be between 0 and 1"}
	}
	return nil
}

// IsRelativeSupport reports whether minSupport is read as a fraction.
func IsRelativeSupport(minSupport float64) bool {
	return minSupport < 1
}

// SupportThreshold returns the minimum transaction count an itemset needs,
// as a possibly fractional number, for the given database size.
func SupportThreshold(minSupport float64, numTransactions int) float64 {
	if IsRelativeSupport(minSupport) {
		return minSupport * float64(numTransactions)
	}
	return minSupport
}

// IsFrequent applies the dual-mode support rule to a support count.
func IsFrequent(count int, minSupport float64, numTransactions int) bool {
	return float64(count) >= SupportThreshold(minSupport, numTransactions)
}

// IsFrequent applies the dual-mode support rule using t.MinSupport.
func (t Thresholds) IsFrequent(count, numTransactions int) bool {
	return IsFrequent(count, t.MinSupport, numTransactions)
}
