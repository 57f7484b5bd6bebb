package dispatch

import (
	"fmt"

	"github.com/bornholm/montage/internal/core/model"
)

// Stage identifies a step of the per-task processing.
type Stage string

const (
	StageResolving  Stage = "resolving"
	StageDelivering Stage = "delivering"
	StageMarking    Stage = "marking"
)

// StageError is a non fatal, per-task failure.
type StageError struct {
	TaskID model.TaskID
	Stage  Stage
	Err    error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("task '%s': %s: %v", e.TaskID, e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}
