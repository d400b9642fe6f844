package utils

// A filter that matches strings. An empty filter matches everything.
type StringFilter struct {
	contents map[string]bool
}

func NewStringFilterFromSlice(slice []string) *StringFilter {
	contents := make(map[string]bool)
	for _, item := range slice {
		if item == "" {
			continue
		}
		contents[item] = true
	}

	return &StringFilter{contents}
}

func (f *StringFilter) Match(item string) bool {
	if len(f.contents) == 0 {
		return true
	}

	return f.contents[item]
}

func (f *StringFilter) MatchAny(items []string) bool {
	if len(f.contents) == 0 {
		return true
	}

	for _, item := range items {
		if f.Match(item) {
			return true
		}
	}

	return false
}
