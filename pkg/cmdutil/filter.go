package cmdutil

// BuildSelectorSet returns a set of non-empty selector strings for quick membership checks.
func BuildSelectorSet(selectors []string) map[string]struct{} {
	set := make(map[string]struct{}, len(selectors))
	for _, s := range selectors {
		if s == "" {
			continue
		}
		set[s] = struct{}{}
	}
	return set
}

// FilterItems keeps the items whose key is one of selectors, in their
// original order. It also returns the selectors that matched no item, so
// callers can reject typos. When no non-blank selector is given, items is
// returned unchanged.
func FilterItems[T any](items []T, selectors []string, key func(T) string) ([]T, []string) {
	set := BuildSelectorSet(selectors)
	if len(set) == 0 {
		return items, nil
	}
	matched := make(map[string]struct{}, len(set))
	result := make([]T, 0, len(items))
	for _, item := range items {
		k := key(item)
		if _, ok := set[k]; ok {
			result = append(result, item)
			matched[k] = struct{}{}
		}
	}
	var unknown []string
	for _, s := range selectors {
		if s == "" {
			continue
		}
		if _, ok := matched[s]; !ok {
			unknown = append(unknown, s)
		}
	}
	return result, unknown
}
