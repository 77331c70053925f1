package embedded

// Pure Go versions of the native column helpers, used when the helper
// library is not installed.

func fallbackStampNulls[T numeric](data []T, nulls []bool, null T) {
	for i := range data {
		if nulls[i] {
			data[i] = null
		}
	}
}
