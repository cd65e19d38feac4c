package mcp

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/hpungsan/scorelog/internal/config"
	"github.com/hpungsan/scorelog/internal/errors"
	"github.com/hpungsan/scorelog/internal/ops"
)

// decode unmarshals tool-call arguments into one of the request types
// below, so path/dir/limit validation happens on typed fields rather than
// on the raw argument map.
func decode[T any](req mcp.CallToolRequest) (T, error) {
	var result T
	args := req.GetArguments()
	b, err := json.Marshal(args)
	if err != nil {
		return result, fmt.Errorf("marshal args: %w", err)
	}
	if err := json.Unmarshal(b, &result); err != nil {
		return result, fmt.Errorf("unmarshal args: %w", err)
	}
	return result, nil
}

// Handlers holds dependencies for MCP tool handlers.
type Handlers struct {
	db  *sql.DB
	cfg *config.Config
}

// NewHandlers creates a new Handlers instance.
func NewHandlers(db *sql.DB, cfg *config.Config) *Handlers {
	return &Handlers{db: db, cfg: cfg}
}

// Request types for each tool

// InspectRequest represents the arguments for log_inspect.
type InspectRequest struct {
	Path string `json:"path"`
}

// ValidateRequest represents the arguments for partition_validate.
type ValidateRequest struct {
	Dir string `json:"dir"`
}

// TransferRequest represents the arguments for marks_transfer.
type TransferRequest struct {
	Dir    string `json:"dir"`
	DryRun bool   `json:"dry_run,omitempty"`
}

// RunGetRequest represents the arguments for run_get.
type RunGetRequest struct {
	ID string `json:"id"`
}

// RunsRequest represents the arguments for run_list.
type RunsRequest struct {
	NameCore string `json:"name_core,omitempty"`
	Limit    int    `json:"limit,omitempty"`
	Offset   int    `json:"offset,omitempty"`
}

// Handler implementations

// HandleInspect handles the log_inspect tool call.
func (h *Handlers) HandleInspect(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[InspectRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}
	if input.Path == "" {
		return errorResult(errors.NewInvalidRequest("path is required")), nil
	}

	result, err := ops.Inspect(ops.InspectInput{Path: input.Path})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleValidate handles the partition_validate tool call.
func (h *Handlers) HandleValidate(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[ValidateRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.Validate(h.cfg, ops.ValidateInput{Dir: input.Dir})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleTransfer handles the marks_transfer tool call.
func (h *Handlers) HandleTransfer(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[TransferRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.Transfer(h.db, h.cfg, ops.TransferInput{
		Dir:    input.Dir,
		DryRun: input.DryRun,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleRunGet handles the run_get tool call.
func (h *Handlers) HandleRunGet(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[RunGetRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.RunGet(h.db, ops.RunGetInput{ID: input.ID})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// HandleRuns handles the run_list tool call.
func (h *Handlers) HandleRuns(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	input, err := decode[RunsRequest](req)
	if err != nil {
		return errorResult(errors.NewInvalidRequest(err.Error())), nil
	}

	result, err := ops.Runs(h.db, ops.RunsInput{
		NameCore: input.NameCore,
		Limit:    input.Limit,
		Offset:   input.Offset,
	})
	if err != nil {
		return errorResult(err), nil
	}

	return successResult(result)
}

// Result helpers

// errorResult creates an MCP error result from any error.
func errorResult(err error) *mcp.CallToolResult {
	var payload map[string]any

	if logErr, ok := err.(*errors.Error); ok {
		errorObj := map[string]any{
			"code":    logErr.Code,
			"message": logErr.Message,
			"status":  logErr.Status,
		}
		// Only include details for non-internal errors to avoid leaking
		// sensitive info like file paths or SQL errors
		if logErr.Code != errors.ErrInternal && logErr.Details != nil {
			errorObj["details"] = logErr.Details
		}
		payload = map[string]any{"error": errorObj}
	} else {
		payload = map[string]any{
			"error": map[string]any{
				"code":    "INTERNAL",
				"message": "an internal error occurred",
				"status":  500,
			},
		}
	}

	content, _ := json.Marshal(payload)
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.TextContent{Type: "text", Text: string(content)}},
		IsError: true,
	}
}

// successResult creates an MCP success result from any data.
func successResult(data any) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultJSON(data)
}
