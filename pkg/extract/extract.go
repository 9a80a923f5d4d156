// Package extract resolves named values from loosely-structured lists of
// name/value records, such as CloudFormation exports or the environment of a
// Batch job definition.
package extract

import (
	"strings"
)

// Record is a single name/value pair as returned by the remote API.
type Record struct {
	Name  string `json:"name" yaml:"name"`
	Value string `json:"value" yaml:"value"`
}

// Rule decides whether a record name matches a target key.
type Rule func(name, key string) bool

// ExportName matches when the record name contains "-" + key anywhere.
// Export names are usually "<stack>-<Key>", but the check is a plain
// substring test, so a key that is the tail of a longer key matches too.
func ExportName(name, key string) bool {
	return strings.Contains(name, "-"+key)
}

// EnvironmentName matches when both names are equal after lower-casing.
func EnvironmentName(name, key string) bool {
	return strings.ToLower(name) == strings.ToLower(key)
}

// Find is the single-key lookup: it returns the value of the first record, in
// the given order, whose name satisfies rule. The second return value is false
// when nothing matched. Resolve builds on Matches instead so it can report
// ambiguous keys.
func Find(records []Record, key string, rule Rule) (string, bool) {
	for _, r := range records {
		if rule(r.Name, key) {
			return r.Value, true
		}
	}
	return "", false
}

// Matches returns every record matching key, in the given order.
func Matches(records []Record, key string, rule Rule) []Record {
	var ret []Record
	for _, r := range records {
		if rule(r.Name, key) {
			ret = append(ret, r)
		}
	}
	return ret
}
