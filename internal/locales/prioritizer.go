package locales

// Prioritize returns first followed by the remaining active languages in
// registry order, without duplicates. first is kept even when inactive.
func Prioritize(active []string, first string) []string {
	out := make([]string, 0, len(active)+1)
	seen := make(map[string]struct{}, len(active)+1)
	add := func(code string) {
		if code == "" {
			return
		}
		if _, ok := seen[code]; ok {
			return
		}
		seen[code] = struct{}{}
		out = append(out, code)
	}
	add(first)
	for _, code := range active {
		add(code)
	}
	return out
}
