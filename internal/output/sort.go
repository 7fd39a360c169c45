// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package output

import (
	"sort"
	"strconv"
	"strings"
)

// SortDataset orders rows by a comma separated list of fields. A leading -
// sorts a field descending and a leading ! makes it case sensitive. Values
// that are numeric on both sides compare as numbers. The sort is stable, so
// rows equal on every field keep report order.
func SortDataset(resultSet []map[string]interface{}, spec string) {
	fields := strings.Split(spec, ",")

	sort.SliceStable(resultSet, func(one, two int) bool {
		for _, field := range fields {
			field = strings.TrimSpace(field)
			ascending := true
			if strings.HasPrefix(field, "-") {
				field = strings.TrimPrefix(field, "-")
				ascending = false
			}

			caseSensitive := false
			if strings.HasPrefix(field, "!") {
				field = strings.TrimPrefix(field, "!")
				caseSensitive = true
			}
			if field == "" {
				continue
			}

			oneStr := InterfaceToString(resultSet[one][field])
			twoStr := InterfaceToString(resultSet[two][field])

			oneNum, oneErr := strconv.ParseFloat(oneStr, 64)
			twoNum, twoErr := strconv.ParseFloat(twoStr, 64)
			if oneErr == nil && twoErr == nil {
				if oneNum != twoNum {
					return (oneNum < twoNum) == ascending
				}
				continue
			}

			if !caseSensitive {
				oneStr = strings.ToLower(oneStr)
				twoStr = strings.ToLower(twoStr)
			}
			if oneStr != twoStr {
				return (oneStr < twoStr) == ascending
			}
		}
		return false
	})
}
