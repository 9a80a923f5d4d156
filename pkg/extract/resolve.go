package extract

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
)

// Target is a key to resolve together with the rule used to match it.
type Target struct {
	Key  string
	Rule Rule
}

// Values holds resolved values by target key. A Values returned by Resolve
// contains every requested key.
type Values map[string]string

// MissingKeysError is returned by Resolve when one or more targets have no
// matching record.
type MissingKeysError struct {
	Source string
	Keys   []string
}

func (e *MissingKeysError) Error() string {
	if e.Source == "" {
		return fmt.Sprintf("missing required keys: %s", strings.Join(e.Keys, ", "))
	}
	return fmt.Sprintf("missing required keys in %s: %s", e.Source, strings.Join(e.Keys, ", "))
}

// Resolve looks up every target in records. All targets are attempted so the
// error names every missing key at once, in target order.
func Resolve(source string, records []Record, targets ...Target) (Values, error) {
	values := make(Values, len(targets))
	var missing []string
	for _, t := range targets {
		matches := Matches(records, t.Key, t.Rule)
		if len(matches) == 0 {
			missing = append(missing, t.Key)
			continue
		}
		if len(matches) > 1 {
			names := make([]string, 0, len(matches))
			for _, m := range matches {
				names = append(names, m.Name)
			}
			log.Warn().Str("source", source).Str("key", t.Key).Strs("matches", names).
				Msg("several records match key, using the first")
		}
		log.Debug().Str("source", source).Str("key", t.Key).Str("record", matches[0].Name).Msg("resolved key")
		values[t.Key] = matches[0].Value
	}
	if len(missing) > 0 {
		return nil, &MissingKeysError{Source: source, Keys: missing}
	}
	return values, nil
}
