package model

import (
	"fmt"
	"strconv"
	"strings"
)

// PathSeparator delimits segments of a structural address into the
// applicant answer document.
const PathSeparator = "/"

// ApplicantRoot is the default root segment for applicant answers.
var ApplicantRoot = NewPath("applicant")

// Path is a slash-delimited structural address into an applicant's
// answer document. Segments may carry array markers for repeated
// entities: "children[]" is the generic enumerator-relative form and
// "children[2]" the instantiated form addressing one repeated entity.
type Path struct {
	segments []string
}

// NewPath parses a slash-delimited string into a Path. Empty segments
// are dropped, so "a//b" and "/a/b" both address a/b.
func NewPath(raw string) Path {
	parts := strings.Split(raw, PathSeparator)
	segments := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			segments = append(segments, p)
		}
	}
	return Path{segments: segments}
}

func (p Path) String() string {
	return strings.Join(p.segments, PathSeparator)
}

// Join appends one segment (itself possibly slash-delimited).
func (p Path) Join(segment string) Path {
	joined := make([]string, len(p.segments))
	copy(joined, p.segments)
	for _, s := range NewPath(segment).segments {
		joined = append(joined, s)
	}
	return Path{segments: joined}
}

// Segments returns a copy of the path's segments.
func (p Path) Segments() []string {
	out := make([]string, len(p.segments))
	copy(out, p.segments)
	return out
}

// Depth returns the number of segments.
func (p Path) Depth() int { return len(p.segments) }

// IsEmpty reports whether the path has no segments.
func (p Path) IsEmpty() bool { return len(p.segments) == 0 }

// Parent returns the path without its last segment.
func (p Path) Parent() Path {
	if len(p.segments) == 0 {
		return Path{}
	}
	return Path{segments: append([]string(nil), p.segments[:len(p.segments)-1]...)}
}

// LastSegment returns the final segment, or "" for an empty path.
func (p Path) LastSegment() string {
	if len(p.segments) == 0 {
		return ""
	}
	return p.segments[len(p.segments)-1]
}

// IsArrayElement reports whether the last segment addresses one element
// of a repeated-entity list, e.g. "children[2]".
func (p Path) IsArrayElement() bool {
	_, ok := parseArrayIndex(p.LastSegment())
	return ok
}

// ArrayIndex returns the index of the last segment's array marker.
func (p Path) ArrayIndex() (int, bool) {
	return parseArrayIndex(p.LastSegment())
}

// AtIndex replaces the array marker on the last segment with a concrete
// index, turning the generic form into the instantiated one.
func (p Path) AtIndex(i int) Path {
	if len(p.segments) == 0 {
		return p
	}
	segments := append([]string(nil), p.segments...)
	last := segments[len(segments)-1]
	segments[len(segments)-1] = fmt.Sprintf("%s[%d]", stripArrayMarker(last), i)
	return Path{segments: segments}
}

// WithoutArrayMarker strips any array marker from the last segment.
func (p Path) WithoutArrayMarker() Path {
	if len(p.segments) == 0 {
		return p
	}
	segments := append([]string(nil), p.segments...)
	segments[len(segments)-1] = stripArrayMarker(segments[len(segments)-1])
	return Path{segments: segments}
}

// Equal compares two paths segment by segment.
func (p Path) Equal(other Path) bool {
	if len(p.segments) != len(other.segments) {
		return false
	}
	for i, s := range p.segments {
		if other.segments[i] != s {
			return false
		}
	}
	return true
}

// ArraySegment marks a segment name as a repeated-entity list.
func ArraySegment(name string) string { return name + "[]" }

func stripArrayMarker(segment string) string {
	if i := strings.Index(segment, "["); i >= 0 {
		return segment[:i]
	}
	return segment
}

func parseArrayIndex(segment string) (int, bool) {
	open := strings.Index(segment, "[")
	if open < 0 || !strings.HasSuffix(segment, "]") {
		return 0, false
	}
	n, err := strconv.Atoi(segment[open+1 : len(segment)-1])
	if err != nil {
		return 0, false
	}
	return n, true
}
