package source

import (
	"os"
	"path/filepath"
)

// DefaultFileName is the file produced by the churn notebook's cleaning step.
const DefaultFileName = "clean_data_after_eda.csv"

// Locate resolves the dataset file. An explicit path is used as is; otherwise
// data/<DefaultFileName> is searched for in dir and up to two parents,
// mirroring the notebook repository layout. It returns "" when nothing is found.
func Locate(explicit, dir string) string {
	if explicit != "" {
		return explicit
	}
	for i := 0; i < 3; i++ {
		candidate := filepath.Join(dir, "data", DefaultFileName)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	return ""
}

// Stat returns the tracking info for a dataset file.
func Stat(path string) (DiscoveredFile, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return DiscoveredFile{}, err
	}
	info, err := os.Stat(abs)
	if err != nil {
		return DiscoveredFile{}, &DataUnreadableError{Path: path, Err: err}
	}
	return DiscoveredFile{
		Path:      abs,
		MtimeNs:   info.ModTime().UnixNano(),
		SizeBytes: info.Size(),
	}, nil
}
