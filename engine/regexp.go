// Package engine parses and runs patterns written in the Python/PCRE style
// dialect: named groups (?P<name>...), named back-references (?P=name),
// conditionals (?(name)yes|no) and lookarounds.
package engine

import "log/slog"

// Flags change how a compiled pattern matches.
type Flags uint

const (
	// IgnoreCase matches letters regardless of case.
	IgnoreCase Flags = 1 << iota
	// Multiline lets ^ and $ match at line boundaries.
	Multiline
	// DotAll lets . match a newline.
	DotAll
)

// Regexp is a compiled pattern. It is safe for concurrent use.
type Regexp struct {
	src        string
	flags      Flags
	root       node
	groupNames []string
}

// Compile parses src. Group references may point at groups defined later in
// the pattern.
func Compile(src string, flags Flags) (*Regexp, error) {
	p := newParser(src)
	root, err := p.parse()
	if err != nil {
		return nil, err
	}
	slog.Debug("pattern parsed", "pattern", src, "groups", p.groupCount)
	return &Regexp{src: src, flags: flags, root: root, groupNames: p.groupNames}, nil
}

// MustCompile is like Compile but panics if src cannot be parsed.
func MustCompile(src string, flags Flags) *Regexp {
	re, err := Compile(src, flags)
	if err != nil {
		panic(err)
	}
	return re
}

func (re *Regexp) String() string { return re.src }

// Flags returns the flags the pattern was compiled with.
func (re *Regexp) Flags() Flags { return re.flags }

// NumSubexp returns the number of capture groups.
func (re *Regexp) NumSubexp() int { return len(re.groupNames) }

// SubexpNames returns the group names indexed by group number; element 0
// stands for the whole match and unnamed groups are "".
func (re *Regexp) SubexpNames() []string {
	return append([]string{""}, re.groupNames...)
}

// SubexpIndex returns the number of the group with the given name, or -1.
func (re *Regexp) SubexpIndex(name string) int {
	for i, n := range re.groupNames {
		if n != "" && n == name {
			return i + 1
		}
	}
	return -1
}

// MatchString reports whether s contains a match.
func (re *Regexp) MatchString(s string) bool {
	_, ok := re.find([]rune(s))
	return ok
}

// FindStringIndex returns the byte offsets of the leftmost match, or nil.
func (re *Regexp) FindStringIndex(s string) []int {
	runes := []rune(s)
	res, ok := re.find(runes)
	if !ok {
		return nil
	}
	offsets := byteOffsets(s)
	return []int{offsets[res.caps[0].start], offsets[res.caps[0].end]}
}

// FindStringSubmatch returns the leftmost match followed by the text of
// every group; groups that did not take part in the match are "".
func (re *Regexp) FindStringSubmatch(s string) []string {
	runes := []rune(s)
	res, ok := re.find(runes)
	if !ok {
		return nil
	}
	out := make([]string, len(re.groupNames)+1)
	for i := range out {
		if sp, set := res.caps[i]; set {
			out[i] = string(runes[sp.start:sp.end])
		}
	}
	return out
}

// find tries every start offset and returns the first result in priority
// order. Group 0 of the result holds the overall match span.
func (re *Regexp) find(runes []rune) (matchRes, bool) {
	m := newMatcher(runes, re.flags)
	emptyCaps := make(captures)
	for start := 0; start <= len(runes); start++ {
		results := m.matchNode(re.root, start, emptyCaps)
		if len(results) > 0 {
			r := results[0]
			caps := make(captures, len(r.caps)+1)
			for k, v := range r.caps {
				caps[k] = v
			}
			caps[0] = span{start, r.pos}
			return matchRes{r.pos, caps}, true
		}
	}
	return matchRes{}, false
}

// byteOffsets maps rune indexes of s to byte offsets, plus one entry for
// the end of s.
func byteOffsets(s string) []int {
	offsets := make([]int, 0, len(s)+1)
	for i := range s {
		offsets = append(offsets, i)
	}
	return append(offsets, len(s))
}
