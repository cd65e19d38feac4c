package ops

import (
	"database/sql"

	"github.com/hpungsan/scorelog/internal/db"
	"github.com/hpungsan/scorelog/internal/errors"
)

// Pagination limits
const (
	DefaultRunsLimit = 20
	MaxRunsLimit     = 100
)

// Pagination contains pagination metadata for list operations.
type Pagination struct {
	Limit   int  `json:"limit"`
	Offset  int  `json:"offset"`
	HasMore bool `json:"has_more"`
	Total   int  `json:"total"`
}

// RunsInput contains parameters for the Runs operation.
type RunsInput struct {
	NameCore string // optional filter by partition group core
	Limit    int    // default 20, max 100
	Offset   int
}

// RunsOutput contains the result of the Runs operation.
type RunsOutput struct {
	Runs       []*db.Run  `json:"runs"`
	Pagination Pagination `json:"pagination"`
}

// RunGetInput contains parameters for the RunGet operation.
type RunGetInput struct {
	ID string // required
}

// RunGet retrieves one recorded transfer by its ID.
func RunGet(database *sql.DB, input RunGetInput) (*db.Run, error) {
	if input.ID == "" {
		return nil, errors.NewInvalidRequest("id is required")
	}
	return db.GetRun(database, input.ID)
}

// Runs lists recorded transfers, most recent first.
func Runs(database *sql.DB, input RunsInput) (*RunsOutput, error) {
	limit := input.Limit
	if limit == 0 {
		limit = DefaultRunsLimit
	}
	if limit < 0 || limit > MaxRunsLimit {
		return nil, errors.NewInvalidRequest("limit must be between 1 and 100")
	}
	if input.Offset < 0 {
		return nil, errors.NewInvalidRequest("offset must not be negative")
	}

	runs, total, err := db.ListRuns(database, input.NameCore, limit, input.Offset)
	if err != nil {
		return nil, err
	}
	if runs == nil {
		runs = []*db.Run{}
	}

	return &RunsOutput{
		Runs: runs,
		Pagination: Pagination{
			Limit:   limit,
			Offset:  input.Offset,
			HasMore: input.Offset+len(runs) < total,
			Total:   total,
		},
	}, nil
}
