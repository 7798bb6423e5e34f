// Package seginfo names and discovers segment files on disk. A segment's
// filename is its zero-padded 9-digit id plus the ".bcdata" extension.
// ListSegmentIDs parses the id out of every matching filename and sorts the
// ids numerically, which is how the engine finds the active (highest-id)
// segment from a directory listing.
package seginfo

import (
	"fmt"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/iamNilotpal/ignitedb/pkg/filesys"
)

const extension = ".bcdata"

// GenerateName returns the filename for segment id, e.g. "000000007.bcdata".
func GenerateName(id uint32) string {
	return fmt.Sprintf("%09d%s", id, extension)
}

// ParseSegmentID extracts the numeric id from a segment filename or path.
func ParseSegmentID(path string) (uint32, error) {
	_, filename := filepath.Split(path)
	if !strings.HasSuffix(filename, extension) {
		return 0, fmt.Errorf("seginfo: %q does not have the %s extension", filename, extension)
	}

	idPart := strings.TrimSuffix(filename, extension)
	id, err := strconv.ParseUint(idPart, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("seginfo: failed to parse segment id from %q: %w", filename, err)
	}

	return uint32(id), nil
}

// ListSegmentIDs scans dataDir for "*.bcdata" files and returns their ids
// sorted ascending. An empty, non-error result means no segments exist yet
// — the bootstrap case the engine handles by creating segment 0.
func ListSegmentIDs(dataDir string) ([]uint32, error) {
	pattern := filepath.Join(dataDir, "*"+extension)
	matches, err := filesys.ReadDir(pattern)
	if err != nil {
		return nil, fmt.Errorf("seginfo: failed to list segment files in %s: %w", dataDir, err)
	}

	ids := make([]uint32, 0, len(matches))
	for _, match := range matches {
		id, err := ParseSegmentID(match)
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}

	slices.Sort(ids)
	return ids, nil
}
