package commands

import (
	"errors"
)

// DeleteMoleculeCommand removes every node record of a previously
// loaded descriptor. Node identifiers are re-derived from the
// descriptor, so deletion works without reading the store first.
type DeleteMoleculeCommand struct {
	Descriptor string `json:"descriptor" validate:"required,max=500"`
	UserID     string `json:"user_id"`
}

// Validate validates the command
func (cmd DeleteMoleculeCommand) Validate() error {
	if cmd.Descriptor == "" {
		return errors.New("descriptor is required")
	}
	if len(cmd.Descriptor) > MaxDescriptorLength {
		return errors.New("descriptor exceeds maximum length")
	}
	return nil
}

// DeleteRecordCommand removes exactly one record by identifier.
type DeleteRecordCommand struct {
	RecordID string `json:"record_id" validate:"required"`
	UserID   string `json:"user_id"`
}

// Validate validates the command
func (cmd DeleteRecordCommand) Validate() error {
	if cmd.RecordID == "" {
		return errors.New("record ID is required")
	}
	return nil
}
