// Copyright 2020 lesismal. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package http1

import (
	"fmt"
	"strings"
)

// Version is an HTTP protocol version.
type Version struct {
	Major uint8
	Minor uint8
}

var (
	HTTP09 = Version{0, 9}
	HTTP10 = Version{1, 0}
	HTTP11 = Version{1, 1}
	HTTP20 = Version{2, 0}
	HTTP30 = Version{3, 0}
)

var knownVersions = [...]Version{HTTP09, HTTP10, HTTP11, HTTP20, HTTP30}

// Known reports whether v is one of the published HTTP versions.
func (v Version) Known() bool {
	for _, k := range knownVersions {
		if v == k {
			return true
		}
	}
	return false
}

// Less reports whether v is older than o.
func (v Version) Less(o Version) bool {
	if v.Major != o.Major {
		return v.Major < o.Major
	}
	return v.Minor < o.Minor
}

func (v Version) String() string {
	return fmt.Sprintf("HTTP/%d.%d", v.Major, v.Minor)
}

// parseVersion accepts exactly "HTTP/<digit>.<digit>".
func parseVersion(b []byte) (Version, bool) {
	if len(b) != 8 || string(b[:5]) != "HTTP/" || b[6] != '.' || !isDigit(b[5]) || !isDigit(b[7]) {
		return Version{}, false
	}
	return Version{Major: b[5] - '0', Minor: b[7] - '0'}, true
}

// MarshalText .
func (v Version) MarshalText() ([]byte, error) {
	return []byte(v.String()), nil
}

// UnmarshalText accepts "HTTP/1.1" or the bare "1.1".
func (v *Version) UnmarshalText(text []byte) error {
	s := strings.TrimSpace(string(text))
	if !strings.HasPrefix(s, "HTTP/") {
		s = "HTTP/" + s
	}
	parsed, ok := parseVersion([]byte(s))
	if !ok || !parsed.Known() {
		return fmt.Errorf("invalid http version %q", string(text))
	}
	*v = parsed
	return nil
}
