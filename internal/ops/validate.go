package ops

import (
	"github.com/hpungsan/scorelog/internal/config"
)

// ValidateInput contains parameters for the Validate operation.
type ValidateInput struct {
	Dir string // required
}

// GroupReport describes the validation state of one partition group.
type GroupReport struct {
	Core     string   `json:"core"`
	Files    []string `json:"files"`
	Problems []string `json:"problems,omitempty"`
}

// ValidateOutput contains the result of the Validate operation.
type ValidateOutput struct {
	Files  int           `json:"files"`
	Groups []GroupReport `json:"groups"`
	Valid  bool          `json:"valid"`
}

// Validate partitions a directory's log files and checks every group
// against the role schema without touching any file. All problems across
// all groups are reported together.
func Validate(cfg *config.Config, input ValidateInput) (*ValidateOutput, error) {
	groups, err := ScanGroups(input.Dir, cfg)
	if err != nil {
		return nil, err
	}

	roles := DefaultRoles()
	output := &ValidateOutput{Groups: make([]GroupReport, 0, len(groups)), Valid: true}

	for _, group := range groups {
		problems, err := ValidatePartition(group.Files, roles, cfg.NamePrefix)
		if err != nil {
			return nil, err
		}
		output.Files += len(group.Files)
		output.Groups = append(output.Groups, GroupReport{
			Core:     group.Core,
			Files:    group.Files,
			Problems: problems,
		})
		if len(problems) > 0 {
			output.Valid = false
		}
	}

	return output, nil
}
