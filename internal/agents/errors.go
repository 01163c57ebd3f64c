package agents

import "fmt"

// StageError reports a failed generation call for one stage.
type StageError struct {
	Stage string
	Model string
	Cause error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s stage failed (model %s): %v", e.Stage, e.Model, e.Cause)
}

func (e *StageError) Unwrap() error {
	return e.Cause
}
