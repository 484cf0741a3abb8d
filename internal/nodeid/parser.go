// internal/nodeid/parser.go
package nodeid

import (
	"fmt"
	"regexp"
	"strings"
)

// segmentRegex matches a single segment name, e.g. `Width` or `Output Image`.
var segmentRegex = regexp.MustCompile(`^[A-Za-z0-9_](?:[A-Za-z0-9_ -]*[A-Za-z0-9_])?$`)

// ValidName reports whether name can be used as a path segment.
func ValidName(name string) bool {
	return segmentRegex.MatchString(name)
}

// Parse creates a new Address by parsing a dotted or arrowed path.
func Parse(raw string) (*Address, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, fmt.Errorf("path cannot be empty")
	}

	addr := &Address{}
	for _, dotted := range strings.Split(raw, ".") {
		for _, segment := range strings.Split(dotted, ">") {
			segment = strings.TrimSpace(segment)
			if segment == "" {
				return nil, fmt.Errorf("path %q contains an empty segment", raw)
			}
			if !ValidName(segment) {
				return nil, fmt.Errorf("invalid path segment %q in %q", segment, raw)
			}
			addr.Path = append(addr.Path, segment)
		}
	}
	return addr, nil
}
