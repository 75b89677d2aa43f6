package factory

// mergeOverrides folds every override map into one; later maps win.
// fabricator only reads the first map passed to Build.
func mergeOverrides(customData []map[string]any) map[string]any {
	merged := make(map[string]any)

	for _, data := range customData {
		for key, value := range data {
			merged[key] = value
		}
	}

	return merged
}
