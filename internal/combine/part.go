package combine

import (
	"regexp"
	"sort"
	"strconv"
)

// partPattern matches multi-part demo filenames of the form
// "name-p<number>.dem". Anything else is a standalone single-part demo.
var partPattern = regexp.MustCompile(`^(.+)-p(\d+)\.dem$`)

// PartName is a filename split into its group base and part number.
type PartName struct {
	Base   string
	Number int
}

// ParsePartName splits filename into base and part number. ok is false when
// the filename does not follow the multi-part convention.
func ParsePartName(filename string) (PartName, bool) {
	m := partPattern.FindStringSubmatch(filename)
	if m == nil {
		return PartName{}, false
	}
	n, err := strconv.Atoi(m[2])
	if err != nil || n < 1 {
		return PartName{}, false
	}
	return PartName{Base: m[1], Number: n}, true
}

// Group is one upload group: either a single standalone file or every part
// of a multi-part recording, sorted by part number.
type Group struct {
	Base  string
	Files []string
}

// GroupParts buckets filenames into upload groups. Standalone files form
// single-file groups keyed by their own name; multi-part files group by base
// name with the files sorted by part number. Groups come back in first-seen
// order.
func GroupParts(filenames []string) []Group {
	type entry struct {
		files   []string
		numbers []int
		multi   bool
	}
	byBase := make(map[string]*entry)
	var order []string

	for _, f := range filenames {
		base, number, multi := f, 0, false
		if pn, ok := ParsePartName(f); ok {
			base, number, multi = pn.Base, pn.Number, true
		}
		e := byBase[base]
		if e == nil {
			e = &entry{multi: multi}
			byBase[base] = e
			order = append(order, base)
		}
		e.files = append(e.files, f)
		e.numbers = append(e.numbers, number)
	}

	groups := make([]Group, 0, len(order))
	for _, base := range order {
		e := byBase[base]
		if e.multi {
			sort.Sort(&byNumber{files: e.files, numbers: e.numbers})
		}
		groups = append(groups, Group{Base: base, Files: e.files})
	}
	return groups
}

type byNumber struct {
	files   []string
	numbers []int
}

func (s *byNumber) Len() int           { return len(s.files) }
func (s *byNumber) Less(i, j int) bool { return s.numbers[i] < s.numbers[j] }
func (s *byNumber) Swap(i, j int) {
	s.files[i], s.files[j] = s.files[j], s.files[i]
	s.numbers[i], s.numbers[j] = s.numbers[j], s.numbers[i]
}
