// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package filters

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/apex/log"
	"github.com/tidwall/gjson"

	"github.com/tfctl/bomctl/internal/attrs"
)

// EnvDelim overrides the "," separating filter expressions, for values that
// themselves contain commas.
const EnvDelim = "BOMCTL_FILTER_DELIM"

// filterRegex splits an expression into key, optional (negated) operator and
// target. Operators are one of = ^ ~ < > @ /.
var filterRegex = regexp.MustCompile(`^([^!=^~<>@/]*)(!?[=^~<>@/])?(.*)$`)

// Filter is a single parsed --filter expression.
type Filter struct {
	Key     string `yaml:"key" json:"Key"`
	Negate  bool   `yaml:"negate" json:"Negate"`
	Operand string `yaml:"operand" json:"Operand"`
	Value   string `yaml:"value" json:"Value"`
}

// BuildFilters parses a filter specification. Malformed expressions are
// logged and skipped.
func BuildFilters(spec string) []Filter {
	//nolint:prealloc
	var filters []Filter

	if spec == "" {
		return filters
	}

	delim := ","
	if d, ok := os.LookupEnv(EnvDelim); ok && d != "" {
		delim = d
	}

	for _, filterSpec := range strings.Split(spec, delim) {
		filterSpec = strings.TrimSpace(filterSpec)
		if filterSpec == "" {
			continue
		}

		parts := filterRegex.FindStringSubmatch(filterSpec)
		if parts == nil {
			log.Error("invalid filter: " + filterSpec)
			continue
		}

		key := strings.TrimSpace(parts[1])
		if key == "" {
			log.Error("invalid filter: empty key in " + filterSpec)
			continue
		}

		operand := parts[2]
		negate := strings.HasPrefix(operand, "!")
		operand = strings.TrimPrefix(operand, "!")

		filters = append(filters, Filter{
			Key:     key,
			Negate:  negate,
			Operand: operand,
			Value:   parts[3],
		})
	}

	return filters
}

// FilterDataset keeps the candidates matching every filter in spec and
// projects each onto attrs, keyed by OutputKey. Transforms are left to the
// caller.
func FilterDataset(candidates gjson.Result, attrs attrs.AttrList, spec string) []map[string]interface{} {
	//nolint:prealloc
	var filteredResults []map[string]interface{}

	filters := BuildFilters(spec)

	for _, candidate := range candidates.Array() {
		if !applyFilters(candidate, attrs, filters) {
			continue
		}

		result := make(map[string]interface{}, len(attrs))
		for _, attr := range attrs {
			if attr.Key == "*" {
				continue
			}
			result[attr.OutputKey] = field(candidate, attr.Key).Value()
		}
		filteredResults = append(filteredResults, result)
	}

	return filteredResults
}

// field reads a top level key verbatim. Column titles routinely hold dots,
// spaces and other gjson path syntax.
func field(candidate gjson.Result, key string) gjson.Result {
	return candidate.Get(gjson.Escape(key))
}

// applyFilters returns true if the candidate matches all filters. Unknown
// filter keys are reported and ignored.
func applyFilters(candidate gjson.Result, attrs attrs.AttrList, filters []Filter) bool {
	for _, filter := range filters {
		var key string
		for _, attr := range attrs {
			if attr.OutputKey == filter.Key || attr.Key == filter.Key {
				key = attr.Key
				break
			}
		}

		if key == "" {
			msg := fmt.Sprintf("filter key not found: %s", filter.Key)
			log.Error(msg)
			fmt.Fprintf(os.Stderr, "warning: %s\n", msg)
			continue
		}

		// A bare key only tests presence.
		value := field(candidate, key)
		if filter.Operand == "" {
			if value.Exists() && value.Type != gjson.Null && value.String() != "" {
				continue
			}
			return false
		}

		var ok bool
		switch value.Type {
		case gjson.Null:
			ok = checkStringOperand("", filter)
		case gjson.Number:
			ok = checkNumericOperand(value.Float(), filter)
		case gjson.JSON:
			ok = checkContainsOperand(value.Value(), filter)
		default:
			ok = checkTextValue(value.String(), filter)
		}

		if !ok {
			return false
		}
	}

	return true
}

// checkTextValue compares a rendered cell. Ordering against a numeric target
// only matches cells that are themselves numeric, so "ADDED ---> 1" is
// neither above nor below 5.
func checkTextValue(s string, filter Filter) bool {
	if filter.Operand != "<" && filter.Operand != ">" {
		return checkStringOperand(s, filter)
	}
	if _, err := strconv.ParseFloat(strings.TrimSpace(filter.Value), 64); err != nil {
		return checkStringOperand(s, filter)
	}
	num, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return false
	}
	return checkNumericOperand(num, filter)
}

// checkContainsOperand evaluates a membership filter (operand '@') against
// list or map values, such as the changed column list.
func checkContainsOperand(value interface{}, filter Filter) bool {
	switch val := value.(type) {
	case []any:
		for _, item := range val {
			if fmt.Sprint(item) == filter.Value {
				return !filter.Negate
			}
		}
		return filter.Negate
	case map[string]any:
		_, found := val[filter.Value]
		return found == !filter.Negate
	default:
		log.Error(fmt.Sprintf("unsupported type for contains filtering: %T", value))
		return false
	}
}

// checkNumericOperand compares numerically. Supported operands are =, > and
// <, each negatable.
func checkNumericOperand(value float64, filter Filter) bool {
	tgt, err := strconv.ParseFloat(strings.TrimSpace(filter.Value), 64)
	if err != nil {
		// Not a numeric target; compare as text instead.
		return checkStringOperand(strconv.FormatFloat(value, 'f', -1, 64), filter)
	}

	switch filter.Operand {
	case "=":
		return (value == tgt) == !filter.Negate
	case ">":
		return (value > tgt) == !filter.Negate
	case "<":
		return (value < tgt) == !filter.Negate
	default:
		return checkStringOperand(strconv.FormatFloat(value, 'f', -1, 64), filter)
	}
}

// checkStringOperand evaluates a string comparison. = is exact, ~ is case
// insensitive equality, ^ is prefix, @ is substring and / is a regex.
func checkStringOperand(value string, filter Filter) bool {
	switch filter.Operand {
	case "=":
		return (value == filter.Value) == !filter.Negate
	case "~":
		return strings.EqualFold(value, filter.Value) == !filter.Negate
	case "^":
		return strings.HasPrefix(value, filter.Value) == !filter.Negate
	case ">":
		return (value > filter.Value) == !filter.Negate
	case "<":
		return (value < filter.Value) == !filter.Negate
	case "@":
		return strings.Contains(value, filter.Value) == !filter.Negate
	case "/":
		matched, err := regexp.MatchString(filter.Value, value)
		if err != nil {
			log.Error("invalid regex: " + filter.Value)
			return false
		}
		return matched == !filter.Negate
	default:
		log.Error("unsupported filtering operand: " + filter.Operand)
		return false
	}
}
