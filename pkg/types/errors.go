// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "fmt"

// ConfigError reports an invalid or incomplete configuration: empty
// catalogs, a non-positive combination budget, bad criterion weights.
// It is fatal and surfaces before any execution.
type ConfigError struct {
	Msg string
}

func (e *ConfigError) Error() string {
	return "configuration error: " + e.Msg
}

// Configf builds a ConfigError with a formatted message.
func Configf(format string, args ...any) *ConfigError {
	return &ConfigError{Msg: fmt.Sprintf(format, args...)}
}

// InvocationError reports a model call that failed after exhausting
// retries. It is recoverable per combination: the scheduler records a
// failed result and continues.
type InvocationError struct {
	ModelID  string
	Attempts int
	Err      error
}

func (e *InvocationError) Error() string {
	return fmt.Sprintf("invoking %s failed after %d attempt(s): %v", e.ModelID, e.Attempts, e.Err)
}

func (e *InvocationError) Unwrap() error { return e.Err }

// ClusteringError reports an embedding or clustering failure. Callers
// degrade to keyword-overlap grouping rather than failing the pipeline.
type ClusteringError struct {
	Err error
}

func (e *ClusteringError) Error() string {
	return "clustering: " + e.Err.Error()
}

func (e *ClusteringError) Unwrap() error { return e.Err }

// StateIntegrityError reports a corrupt session document: a duplicate
// combination tuple or a dangling reference. It is fatal for the load
// operation that detected it and names the offending identifier.
type StateIntegrityError struct {
	ID     string
	Reason string
}

func (e *StateIntegrityError) Error() string {
	return fmt.Sprintf("state integrity: %s: %s", e.ID, e.Reason)
}
