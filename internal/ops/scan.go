package ops

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/hpungsan/scorelog/internal/config"
	"github.com/hpungsan/scorelog/internal/errors"
)

// Group is one partition of a directory's log files: every file for the
// same subject on the same day.
type Group struct {
	Core  string   `json:"core"`
	Files []string `json:"files"` // full paths, directory order
}

// ScanGroups lists dir, keeps regular files whose names full-match the
// configured filename pattern (hidden files are skipped), and partitions
// them by shared name core.
func ScanGroups(dir string, cfg *config.Config) ([]Group, error) {
	if dir == "" {
		return nil, errors.NewInvalidRequest("dir is required")
	}

	re, err := regexp.Compile(`^(?:` + cfg.FilenamePattern + `)$`)
	if err != nil {
		return nil, errors.NewInvalidRequest(
			fmt.Sprintf("invalid filename pattern %q: %v", cfg.FilenamePattern, err))
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewNotFound(dir)
		}
		return nil, errors.NewInternal(fmt.Errorf("failed to list directory: %w", err))
	}

	var files []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, ".") {
			continue
		}
		if !re.MatchString(name) {
			continue
		}
		files = append(files, filepath.Join(dir, name))
	}

	partitions := EquivPartition(files, func(a, b string) bool {
		return NameCore(a, cfg.NamePrefix) == NameCore(b, cfg.NamePrefix)
	})

	groups := make([]Group, 0, len(partitions))
	for _, part := range partitions {
		groups = append(groups, Group{
			Core:  NameCore(part[0], cfg.NamePrefix),
			Files: part,
		})
	}

	return groups, nil
}

// ReadBehaviorList reads the aggressive/submissive behavior descriptions,
// one per line with trailing whitespace trimmed. Blank lines are dropped;
// an empty entry would otherwise match every behavior by containment.
func ReadBehaviorList(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewNotFound(path)
		}
		return nil, errors.NewInternal(fmt.Errorf("failed to open behavior list: %w", err))
	}
	defer file.Close()

	var behaviors []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), " \t\r")
		if line != "" {
			behaviors = append(behaviors, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.NewInternal(fmt.Errorf("failed to read behavior list: %w", err))
	}

	return behaviors, nil
}
