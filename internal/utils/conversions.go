package utils

// Strings flattens an optional list of optional strings, dropping nil and blank entries.
// A nil list returns nil.
func Strings(list *[]*string) []string {
	if list == nil {
		return nil
	}
	stringSlice := make([]string, 0, len(*list))
	for _, v := range *list {
		if s := Value(v); s != "" {
			stringSlice = append(stringSlice, s)
		}
	}
	return stringSlice
}
