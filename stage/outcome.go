// Package stage models the result of an optional pipeline stage.
package stage

// Outcome is either Skipped (with a reason) or Ran (with a value).
type Outcome[T any] struct {
	ran    bool
	value  T
	reason string
}

// Skipped builds the outcome of a stage that did not run.
func Skipped[T any](reason string) Outcome[T] {
	return Outcome[T]{reason: reason}
}

// Ran builds the outcome of a stage that ran and produced v.
func Ran[T any](v T) Outcome[T] {
	return Outcome[T]{ran: true, value: v}
}

// Get returns the value and whether the stage ran.
func (o Outcome[T]) Get() (T, bool) { return o.value, o.ran }

func (o Outcome[T]) Ran() bool { return o.ran }

// Reason is empty unless the stage was skipped.
func (o Outcome[T]) Reason() string { return o.reason }

// Record is the serializable summary of an outcome, as written to run-info.json.
type Record struct {
	Stage  string `json:"stage"`
	Status string `json:"status"`
	Reason string `json:"reason,omitempty"`
}

const (
	StatusRan     = "ran"
	StatusSkipped = "skipped"
)

// Summarize turns an outcome into a Record for the named stage.
func Summarize[T any](name string, o Outcome[T]) Record {
	if o.ran {
		return Record{Stage: name, Status: StatusRan}
	}
	return Record{Stage: name, Status: StatusSkipped, Reason: o.reason}
}
