package dto

import (
	"errors"

	"github.com/aretw0/busybeaver/pkg/domain"
)

// Record is the persisted form of domain.Record.
type Record struct {
	Index      uint64              `json:"index"`
	State      string              `json:"state"`
	Outcome    string              `json:"outcome"`
	Steps      int                 `json:"steps"`
	Remaining  int                 `json:"remaining"`
	Tape       domain.TapeSnapshot `json:"tape"`
	Definition *Definition         `json:"definition,omitempty"`
	Error      string              `json:"error,omitempty"`
}

// FromRecord flattens a record.
func FromRecord(rec domain.Record) Record {
	out := Record{
		Index:     rec.Index,
		State:     string(rec.Result.Machine.State),
		Outcome:   string(rec.Result.Outcome),
		Steps:     rec.Result.Steps,
		Remaining: rec.Result.Remaining,
		Tape:      rec.Result.Machine.Tape.Snapshot(),
	}
	if rec.Result.Machine.Def != nil {
		def := FromDefinition(rec.Result.Machine.Def)
		out.Definition = &def
	}
	if rec.Err != nil {
		out.Error = rec.Err.Error()
	}
	return out
}

// ToDomain rebuilds the record. Errors come back as opaque messages.
func (r Record) ToDomain() (domain.Record, error) {
	rec := domain.Record{
		Index: r.Index,
		Result: domain.RunResult{
			Machine: domain.Machine{
				State: domain.State(r.State),
				Tape:  r.Tape.Restore(),
			},
			Remaining: r.Remaining,
			Steps:     r.Steps,
			Outcome:   domain.Outcome(r.Outcome),
		},
	}
	if r.Definition != nil {
		def, err := r.Definition.ToDomain()
		if err != nil {
			return domain.Record{}, err
		}
		rec.Result.Machine.Def = def
	}
	if r.Error != "" {
		rec.Err = errors.New(r.Error)
	}
	return rec, nil
}
