package utils

// Unique removes duplicates from items, keeping the first occurrence of each
// element in its original position.
func Unique[T comparable](items []T) []T {
	if items == nil {
		return nil
	}

	seen := make(map[T]struct{}, len(items))
	out := make([]T, 0, len(items))
	for _, item := range items {
		if _, dup := seen[item]; dup {
			continue
		}
		seen[item] = struct{}{}
		out = append(out, item)
	}
	return out
}
