// Package verification collects user facing problems found while checking or
// applying a change. A critical result blocks the commit of the change.
package verification

import (
	"fmt"
	"strings"

	"go.uber.org/multierr"
)

type Severity int

const (
	NonCritical Severity = iota
	Critical
)

func (s Severity) String() string {
	if s == Critical {
		return "critical"
	}
	return "noncritical"
}

func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Severity) UnmarshalText(text []byte) error {
	switch strings.ToLower(string(text)) {
	case "critical":
		*s = Critical
	case "noncritical", "non-critical", "":
		*s = NonCritical
	default:
		return fmt.Errorf("unknown severity %q", text)
	}
	return nil
}

// Result codes.
const (
	CodeParseError             = "ParseError"
	CodeDuplicateRoot          = "DuplicateRootError"
	CodeDuplicateCode          = "DuplicateCodeError"
	CodeInvalidAttribute       = "InvalidAttributeError"
	CodeReferentialIntegrity   = "ReferentialIntegrityError"
	CodeHasChildren            = "HasChildrenError"
	CodeTargetAlreadyExists    = "TargetAlreadyExistsError"
	CodeSourceNotFound         = "SourceNotFoundError"
	CodeForbiddenRename        = "ForbiddenRenameError"
	CodeSerialization          = "SerializationError"
	CodeConcurrentModification = "ConcurrentModificationError"
)

type Result struct {
	Context   string   `json:"context"`
	Message   string   `json:"message"`
	Severity  Severity `json:"severity"`
	Code      string   `json:"code,omitempty"`
	Retryable bool     `json:"retryable,omitempty"`
}

func (r Result) Error() string {
	if r.Context == "" {
		return r.Message
	}
	return r.Context + ": " + r.Message
}

// Results is the verification sink handed through an operation.
type Results []Result

func (r *Results) Add(context, message string, severity Severity) {
	*r = append(*r, Result{Context: context, Message: message, Severity: severity})
}

func (r *Results) AddResult(res Result) {
	*r = append(*r, res)
}

// Critical adds a critical result with a code.
func (r *Results) Critical(code, context, message string) {
	r.AddResult(Result{Context: context, Message: message, Severity: Critical, Code: code})
}

func (r Results) HasCriticalErrors() bool {
	for _, res := range r {
		if res.Severity == Critical {
			return true
		}
	}
	return false
}

func (r Results) IsEmptyOrOnlyNonCritical() bool {
	return !r.HasCriticalErrors()
}

// Retryable reports whether a transient infrastructure failure blocked the
// operation, in which case the caller may simply run it again.
func (r Results) Retryable() bool {
	for _, res := range r {
		if res.Retryable {
			return true
		}
	}
	return false
}

// HasCode reports whether any result carries code.
func (r Results) HasCode(code string) bool {
	for _, res := range r {
		if res.Code == code {
			return true
		}
	}
	return false
}

// Err combines the critical results into one error, or returns nil.
func (r Results) Err() error {
	var err error
	for _, res := range r {
		if res.Severity == Critical {
			err = multierr.Append(err, res)
		}
	}
	return err
}

// Retry builds the result for a transaction that failed because of a
// concurrent change.
func Retry(context string, err error) Result {
	return Result{
		Context:   context,
		Message:   "the data was changed by someone else, please try again: " + err.Error(),
		Severity:  Critical,
		Code:      CodeSerialization,
		Retryable: true,
	}
}
