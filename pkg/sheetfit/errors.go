package sheetfit

import (
	"errors"
	"fmt"
)

// ErrFileNotFound indicates the input file does not exist.
var ErrFileNotFound = errors.New("file not found")

// ErrLoad indicates the workbook could not be read or converted.
var ErrLoad = errors.New("cannot load workbook")

// ErrBackup indicates the backup copy could not be created or verified.
var ErrBackup = errors.New("cannot back up workbook")

// ErrRebuild indicates a flagged sheet could not be reconstructed or swapped in.
var ErrRebuild = errors.New("cannot rebuild sheet")

// ErrSave indicates the repaired workbook could not be written.
var ErrSave = errors.New("cannot save workbook")

// Stage names a step of a repair run.
type Stage string

const (
	StageLoad    Stage = "load"
	StageProbe   Stage = "probe"
	StageBackup  Stage = "backup"
	StageRebuild Stage = "rebuild"
	StagePersist Stage = "persist"
)

// RepairError represents a workbook-level failure during a repair run.
type RepairError struct {
	Stage Stage
	Path  string
	// Kind is one of the package sentinel errors.
	Kind error
	Err  error
}

func (e *RepairError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s %s: %v", e.Stage, e.Path, e.Kind)
	}
	return fmt.Sprintf("%s %s: %v: %v", e.Stage, e.Path, e.Kind, e.Err)
}

// Is matches the sentinel kind.
func (e *RepairError) Is(target error) bool {
	return target == e.Kind
}

func (e *RepairError) Unwrap() error {
	return e.Err
}

// NewRepairError creates a new RepairError.
func NewRepairError(stage Stage, path string, kind, err error) *RepairError {
	return &RepairError{
		Stage: stage,
		Path:  path,
		Kind:  kind,
		Err:   err,
	}
}
