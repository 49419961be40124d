// Package migrations embeds the SurrealDB schema files so the server and
// the test harness apply the exact same definitions without guessing at
// filesystem paths.
package migrations

import (
	"embed"
	"fmt"
	"sort"
)

//go:embed *.surql
var files embed.FS

// Load returns the contents of every .surql file in lexical order.
func Load() ([]string, error) {
	entries, err := files.ReadDir(".")
	if err != nil {
		return nil, fmt.Errorf("reading embedded migrations: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	sort.Strings(names)

	out := make([]string, 0, len(names))
	for _, name := range names {
		content, err := files.ReadFile(name)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", name, err)
		}
		out = append(out, string(content))
	}
	return out, nil
}
