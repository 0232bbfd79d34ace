package files

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// FileInfo represents information about a discovered input file.
type FileInfo struct {
	// Path is the absolute or root-joined path used to open the file.
	Path string
	// Name is the bare filename.
	Name string
	// Station is the logical grouping the file's rows belong to,
	// derived from its directory path relative to the scan root.
	Station string
}

// Discovery provides recursive input-file discovery under a root directory.
type Discovery struct {
	root       string
	extensions map[string]bool
}

// NewDiscovery creates a new file discovery instance. Extensions are
// matched case-insensitively and must include the leading dot.
func NewDiscovery(root string, extensions []string) *Discovery {
	exts := make(map[string]bool, len(extensions))
	for _, ext := range extensions {
		exts[strings.ToLower(ext)] = true
	}
	return &Discovery{root: root, extensions: exts}
}

// Find walks the root recursively and returns every candidate input file
// in traversal order. Traversal order is not part of any correctness
// contract downstream; aggregation is order-independent. A missing or
// unreadable root is a fatal error.
func (d *Discovery) Find() ([]FileInfo, error) {
	info, err := os.Stat(d.root)
	if err != nil {
		return nil, fmt.Errorf("input directory %s: %w", d.root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("input path %s is not a directory", d.root)
	}

	var found []FileInfo
	err = filepath.WalkDir(d.root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if entry.IsDir() {
			return nil
		}

		name := entry.Name()
		// Excel holds a lock file with a ~$ prefix while a workbook is open
		if strings.HasPrefix(name, "~$") {
			return nil
		}
		if !d.extensions[strings.ToLower(filepath.Ext(name))] {
			return nil
		}

		station, err := StationID(d.root, path)
		if err != nil {
			return err
		}

		found = append(found, FileInfo{
			Path:    path,
			Name:    name,
			Station: station,
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan input directory %s: %w", d.root, err)
	}

	return found, nil
}

// StationID derives the station identifier for a file: its path relative
// to root with the filename dropped, segments joined with "/". A file
// sitting directly in root falls back to its filename without extension,
// so such files never share a station with anything else by accident.
func StationID(root, path string) (string, error) {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return "", fmt.Errorf("failed to relativize %s against %s: %w", path, root, err)
	}

	rel = filepath.ToSlash(rel)
	parts := strings.Split(rel, "/")
	if len(parts) > 1 {
		return strings.Join(parts[:len(parts)-1], "/"), nil
	}

	name := parts[0]
	return strings.TrimSuffix(name, filepath.Ext(name)), nil
}
