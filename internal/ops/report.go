package ops

import (
	"bytes"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/yuin/goldmark"

	"github.com/hpungsan/scorelog/internal/config"
	"github.com/hpungsan/scorelog/internal/errors"
)

// ReportInput contains parameters for the Report operation.
type ReportInput struct {
	Dir  string // required
	HTML bool   // render the markdown to HTML
}

// ReportOutput contains the result of the Report operation.
type ReportOutput struct {
	Markdown string `json:"markdown"`
	HTML     string `json:"html,omitempty"`
}

// Report renders a markdown summary of a directory's partition groups and
// their validation state, optionally converted to HTML.
func Report(cfg *config.Config, input ReportInput) (*ReportOutput, error) {
	validation, err := Validate(cfg, ValidateInput{Dir: input.Dir})
	if err != nil {
		return nil, err
	}

	var md strings.Builder
	fmt.Fprintf(&md, "# Log set report: %s\n\n", filepath.Base(input.Dir))
	fmt.Fprintf(&md, "Generated %s.\n\n", time.Now().UTC().Format("2006-01-02 15:04"))
	fmt.Fprintf(&md, "%d files in %d groups. ", validation.Files, len(validation.Groups))
	if validation.Valid {
		md.WriteString("All groups valid.\n")
	} else {
		md.WriteString("Validation problems found.\n")
	}

	for _, group := range validation.Groups {
		fmt.Fprintf(&md, "\n## %s\n\n", group.Core)
		for _, file := range group.Files {
			fmt.Fprintf(&md, "- `%s`\n", filepath.Base(file))
		}
		if len(group.Problems) > 0 {
			md.WriteString("\nProblems:\n\n")
			for _, problem := range group.Problems {
				fmt.Fprintf(&md, "- %s\n", problem)
			}
		}
	}

	output := &ReportOutput{Markdown: md.String()}
	if input.HTML {
		var buf bytes.Buffer
		if err := goldmark.Convert([]byte(output.Markdown), &buf); err != nil {
			return nil, errors.NewInternal(fmt.Errorf("failed to render report: %w", err))
		}
		output.HTML = buf.String()
	}

	return output, nil
}
