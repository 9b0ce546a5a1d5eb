package utils

// Set builds a membership set from s.
func Set[T comparable](s []T) map[T]struct{} {
	m := make(map[T]struct{}, len(s))

	for _, v := range s {
		m[v] = struct{}{}
	}

	return m
}

// Unique returns the elements of s without duplicates, keeping the order of first appearance.
// A nil slice stays nil.
//
// Examples:
//
//	Unique([]int{3, 1, 3, 2, 1}) => [3 1 2]
func Unique[T comparable](s []T) []T {
	if s == nil {
		return nil
	}

	seen := make(map[T]struct{}, len(s))
	result := make([]T, 0, len(s))
	for _, v := range s {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		result = append(result, v)
	}

	return result
}
