package storefront

import "strings"

// SplitList turns a comma separated form field into a list, dropping blank entries
func SplitList(value string) []string {
	list := []string{}
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); item != "" {
			list = append(list, item)
		}
	}
	return list
}

// JoinList is the inverse of SplitList for pre-filling forms
func JoinList(list []string) string {
	return strings.Join(list, ",")
}
