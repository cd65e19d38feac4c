package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
)

var inspectToolDef = mcp.NewTool("log_inspect",
	mcp.WithDescription("Parse one scorevideo log file and report its shape: per-section line counts, behavior and mark counts, the first and last behaviors, and every mark."),
	mcp.WithString("path",
		mcp.Required(),
		mcp.Description("Path to the log file to inspect."),
	),
)

var validateToolDef = mcp.NewTool("partition_validate",
	mcp.WithDescription("Partition a directory's log files into per-subject-per-day groups and check every group against the file-role schema. Reports all problems without touching any file."),
	mcp.WithString("dir",
		mcp.Required(),
		mcp.Description("Directory containing the log files."),
	),
)

var transferToolDef = mcp.NewTool("marks_transfer",
	mcp.WithDescription("Transfer the lights-on event from each group's pre-scoring segment logs into its fully scored log as a negative-coordinate mark, rewriting the scored file in place. Validates every group before touching any file."),
	mcp.WithString("dir",
		mcp.Required(),
		mcp.Description("Directory containing the log files and the behavior list."),
	),
	mcp.WithBoolean("dry_run",
		mcp.Description("Compute the marks but do not rewrite files or record runs."),
	),
)

var runGetToolDef = mcp.NewTool("run_get",
	mcp.WithDescription("Retrieve one recorded mark transfer by its ID."),
	mcp.WithString("id",
		mcp.Required(),
		mcp.Description("ID of the run to retrieve."),
	),
)

var runsToolDef = mcp.NewTool("run_list",
	mcp.WithDescription("List recorded mark transfers, most recent first."),
	mcp.WithString("name_core",
		mcp.Description("Only list runs for this partition group core."),
	),
	mcp.WithNumber("limit",
		mcp.Description("Maximum number of runs to return (default 20, max 100)."),
	),
	mcp.WithNumber("offset",
		mcp.Description("Number of runs to skip."),
	),
)
