package extract

// Merge deep-merges src into dst and returns dst. Keys whose values are
// nested fragments on both sides are merged recursively; anything else is
// replaced by the src value, with no type-compatibility check — a scalar
// happily overwrites a subtree and vice versa, the right-hand side wins.
func Merge(dst, src Fragment) Fragment {
	for key, value := range src {
		existing, present := dst[key]
		if present {
			dstMap, dstOK := existing.(Fragment)
			srcMap, srcOK := value.(Fragment)
			if dstOK && srcOK {
				dst[key] = Merge(dstMap, srcMap)
				continue
			}
		}
		dst[key] = value
	}
	return dst
}
