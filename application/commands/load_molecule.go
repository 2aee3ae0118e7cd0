package commands

import (
	"errors"
)

// LoadMoleculeCommand projects one descriptor into node/edge records
// and uploads them to the graph store.
type LoadMoleculeCommand struct {
	RunID      string `json:"run_id" validate:"required,uuid4"`
	Descriptor string `json:"descriptor" validate:"required,max=500"`
	UserID     string `json:"user_id"`
}

// Validate validates the command
func (cmd LoadMoleculeCommand) Validate() error {
	if cmd.RunID == "" {
		return errors.New("run ID is required")
	}
	if cmd.Descriptor == "" {
		return errors.New("descriptor is required")
	}
	if len(cmd.Descriptor) > MaxDescriptorLength {
		return errors.New("descriptor exceeds maximum length")
	}
	return nil
}

const MaxDescriptorLength = 500
