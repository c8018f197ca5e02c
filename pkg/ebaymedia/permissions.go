package ebaymedia

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"
)

// maxRepairErrors caps how many failure messages a report carries;
// the Failures counter keeps the full count.
const maxRepairErrors = 10

// RepairTree walks root and resets every directory to dirMode and
// every regular file to fileMode. Individual chmod failures are
// recorded in the report and the walk continues; only a missing root
// is returned as an error (wrapped ErrDirectoryMissing).
func RepairTree(root string, dirMode, fileMode fs.FileMode) (*RepairReport, error) {
	report := &RepairReport{StartedAt: time.Now().UTC()}

	if _, err := os.Stat(root); err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrDirectoryMissing, root)
		}
		return nil, fmt.Errorf("failed to stat media root: %w", err)
	}

	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			report.recordFailure(p, err)
			return nil
		}

		info, err := d.Info()
		if err != nil {
			report.recordFailure(p, err)
			return nil
		}

		switch {
		case d.IsDir():
			report.DirsChecked++
			if info.Mode().Perm() != dirMode {
				if err := os.Chmod(p, dirMode); err != nil {
					report.recordFailure(p, err)
					return nil
				}
				report.DirsFixed++
			}
		case info.Mode().IsRegular():
			report.FilesChecked++
			if info.Mode().Perm() != fileMode {
				if err := os.Chmod(p, fileMode); err != nil {
					report.recordFailure(p, err)
					return nil
				}
				report.FilesFixed++
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk media tree: %w", err)
	}

	report.FinishedAt = time.Now().UTC()
	return report, nil
}

func (r *RepairReport) recordFailure(path string, err error) {
	r.Failures++
	if len(r.Errors) < maxRepairErrors {
		r.Errors = append(r.Errors, fmt.Sprintf("%s: %v", path, err))
	}
}
