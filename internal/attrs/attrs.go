// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package attrs

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/tfctl/bomctl/internal/log"
)

// Attr is one displayed column of a report row.
type Attr struct {
	// Key is the report column (or "status") the value is read from.
	Key string `yaml:"key" json:"Key"`
	// Include is false for columns kept only for filtering and sorting.
	Include bool `yaml:"include" json:"Include"`
	// OutputKey is the key in json/yaml output and the column title in text.
	OutputKey string `yaml:"outputKey" json:"OutputKey"`
	// TransformSpec is applied to the value before output.
	TransformSpec string `yaml:"transformSpec" json:"TransformSpec"`
}

var lengthRe = regexp.MustCompile(`-?\d+`)

// Transform applies the transform spec to a value. Only strings are
// transformed; anything else is returned unchanged.
//
// The spec letters are u (upper), l (lower) and c (thousands separators on
// numeric values). A signed number truncates: n keeps the first n runes, -n
// keeps both ends around "..". When letters or numbers repeat, the last one
// wins so an attr's own spec overrides a prepended global one.
func (a *Attr) Transform(value interface{}) interface{} {
	result, ok := value.(string)
	if !ok {
		log.Tracef("non-string value: value=%v", value)
		return value
	}
	if a.TransformSpec == "" {
		return result
	}

	if strings.ContainsAny(a.TransformSpec, "cC") {
		result = commafy(result)
	}

	lastL := strings.LastIndexAny(a.TransformSpec, "lL")
	lastU := strings.LastIndexAny(a.TransformSpec, "uU")
	switch {
	case lastL > lastU:
		result = strings.ToLower(result)
	case lastU > lastL:
		result = strings.ToUpper(result)
	}

	if match := lengthRe.FindAllString(a.TransformSpec, -1); len(match) != 0 {
		l, _ := strconv.Atoi(match[len(match)-1])
		result = truncate(result, l)
	}

	return result
}

// commafy formats each numeric half of a rendered change with thousands
// separators, e.g. "1200 ---> 1500" becomes "1,200 ---> 1,500".
func commafy(s string) string {
	parts := strings.Split(s, " ---> ")
	for i, p := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
			continue
		}
		parts[i] = humanize.Commaf(f)
	}
	return strings.Join(parts, " ---> ")
}

// truncate shortens s to abs(l) runes. A negative l keeps the head and tail
// joined by "..".
func truncate(s string, l int) string {
	r := []rune(s)
	abs := int(math.Abs(float64(l)))
	if abs == 0 || len(r) <= abs {
		return s
	}
	if l > 0 {
		return string(r[:abs])
	}
	keep := max(abs/2-1, 1)
	return string(r[:keep]) + ".." + string(r[len(r)-keep:])
}

// AttrList is the ordered set of displayed columns.
type AttrList []Attr

// Pseudo columns carried by every report row.
const (
	// StatusKey holds the row classification.
	StatusKey = "status"
	// ChangedKey lists the columns that differ. Hidden by default.
	ChangedKey = "changed"
)

// PseudoKeys returns the keys of the status and changed pseudo columns for a
// schema. A schema column of the same name keeps its name and the pseudo
// column gains leading underscores until it is unique.
func PseudoKeys(columns []string) (status, changed string) {
	taken := make(map[string]bool, len(columns)+1)
	for _, c := range columns {
		taken[c] = true
	}
	free := func(k string) string {
		for taken[k] {
			k = "_" + k
		}
		taken[k] = true
		return k
	}
	status = free(StatusKey)
	changed = free(ChangedKey)
	return status, changed
}

// FromColumns builds the default list: status first, then every column in
// schema order, then the hidden changed list.
func FromColumns(columns []string) AttrList {
	status, changed := PseudoKeys(columns)
	list := make(AttrList, 0, len(columns)+2)
	list = append(list, Attr{Key: status, OutputKey: status, Include: true})
	for _, c := range columns {
		list = append(list, Attr{Key: c, OutputKey: c, Include: true})
	}
	return append(list, Attr{Key: changed, OutputKey: changed})
}

// Status returns the output key of the status pseudo column, which
// FromColumns places first.
func (a AttrList) Status() string {
	if len(a) > 0 && strings.TrimLeft(a[0].Key, "_") == StatusKey {
		return a[0].OutputKey
	}
	return StatusKey
}

// Set parses a comma separated --attrs value and merges it into the list.
// Each spec is key[:title[:transform]]. A leading ! on the key hides the
// column; the key * carries a transform applied to every column.
func (a *AttrList) Set(value string) error {
	if value == "" || value == "*" {
		return nil
	}

	const (
		keyIdx = iota
		outputIdx
		transformIdx
	)

specloop:
	for _, spec := range strings.Split(value, ",") {
		if strings.TrimSpace(spec) == "" {
			continue
		}
		fields := strings.Split(spec, ":")

		attr := Attr{Include: true}
		attr.Key = strings.TrimSpace(fields[keyIdx])
		if strings.HasPrefix(attr.Key, "!") {
			attr.Include = false
			attr.Key = attr.Key[1:]
		}
		if attr.Key == "" {
			return fmt.Errorf("invalid attr spec: %q", spec)
		}
		if attr.Key == "*" {
			attr.Include = false
		}

		attr.OutputKey = attr.Key
		if len(fields) > outputIdx && strings.TrimSpace(fields[outputIdx]) != "" {
			attr.OutputKey = strings.TrimSpace(fields[outputIdx])
		}
		if len(fields) > transformIdx {
			attr.TransformSpec = strings.TrimSpace(fields[transformIdx])
		}
		log.Tracef("attr parsed: key=%s output=%s include=%v transform=%s",
			attr.Key, attr.OutputKey, attr.Include, attr.TransformSpec)

		// Respecifying a known column updates it in place.
		for i := range *a {
			if (*a)[i].Key == attr.Key || (*a)[i].OutputKey == attr.Key {
				(*a)[i].Include = attr.Include
				(*a)[i].OutputKey = attr.OutputKey
				(*a)[i].TransformSpec = attr.TransformSpec
				continue specloop
			}
		}

		*a = append(*a, attr)
	}

	return nil
}

// Only hides every column not named in keys. Status is always kept.
func (a AttrList) Only(keys []string) {
	if len(keys) == 0 {
		return
	}
	want := make(map[string]bool, len(keys))
	for _, k := range keys {
		want[k] = true
	}
	status := a.Status()
	for i := range a {
		if a[i].OutputKey != status && a[i].Key != "*" {
			a[i].Include = want[a[i].Key] || want[a[i].OutputKey]
		}
	}
}

// SetGlobalTransformSpec prepends the transform of the * attr, if any, to
// every attr's spec.
func (a *AttrList) SetGlobalTransformSpec() error {
	spec := ""
	for _, attr := range *a {
		if attr.Key == "*" {
			spec = attr.TransformSpec
			break
		}
	}
	if spec == "" {
		return nil
	}

	for i := range *a {
		if (*a)[i].Key == "*" {
			continue
		}
		(*a)[i].TransformSpec = spec + "," + (*a)[i].TransformSpec
	}
	log.Debugf("global spec prepended: spec=%s", spec)
	return nil
}

// Included returns the attrs that are displayed.
func (a AttrList) Included() AttrList {
	var out AttrList
	for _, attr := range a {
		if attr.Include {
			out = append(out, attr)
		}
	}
	return out
}

// String formats the list in --attrs syntax.
func (a *AttrList) String() string {
	result := make([]string, 0, len(*a))
	for _, attr := range *a {
		key := attr.Key
		if !attr.Include && key != "*" {
			key = "!" + key
		}
		result = append(result, fmt.Sprintf("%s:%s:%s", key, attr.OutputKey, attr.TransformSpec))
	}
	return strings.Join(result, ",")
}

// Type returns the flag type for use with the flag.Value interface.
func (a *AttrList) Type() string { return "list" }
