package sim

import "fmt"

// ErrorKind classifies the failure modes surfaced by the core (§7).
type ErrorKind string

const (
	// ErrInvalidParameters marks config or distribution arguments that violate
	// their stated domain. Always surfaced at construction, before the event
	// loop starts.
	ErrInvalidParameters ErrorKind = "invalid_parameters"
	// ErrUnknownStrategy marks a strategy name absent from the registry.
	ErrUnknownStrategy ErrorKind = "unknown_strategy"
	// ErrUnknownDistribution marks a distribution type name absent from the registry.
	ErrUnknownDistribution ErrorKind = "unknown_distribution"
	// ErrUnknownMetric marks a collector name absent from the registry.
	ErrUnknownMetric ErrorKind = "unknown_metric"
	// ErrOutOfRange marks a quantile input outside [0,1] or a percentile outside [0,100].
	ErrOutOfRange ErrorKind = "out_of_range"
	// ErrPreconditionFailure marks a structural runtime violation, such as an
	// event timestamp regression.
	ErrPreconditionFailure ErrorKind = "precondition_failure"
)

// SimError wraps an ErrorKind with a human-readable message. The embedding
// collaborator (cmd/) exits non-zero when construction or Run reports an
// error of any kind; the core never swallows an error of any kind (§7).
type SimError struct {
	Kind ErrorKind
	Msg  string
}

func (e *SimError) Error() string {
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

// NewSimError constructs a SimError with a formatted message.
func NewSimError(kind ErrorKind, format string, args ...any) *SimError {
	return &SimError{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}
