// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package secrets reads credentials that should stay out of the config file.
// Each regular file in the directory holds one value: the filename is the
// key and the trimmed contents are the value.
//
// Known keys: browser-ws-url (DevTools URL of a hosted browser, which
// usually embeds an access token).
package secrets

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Store maps secret names to values.
type Store map[string]string

// Load reads every file in dir. A missing directory yields an empty Store.
// Unreadable files are reported to warn and skipped.
func Load(dir string, warn io.Writer) (Store, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return Store{}, nil
		}
		return nil, fmt.Errorf("reading secrets directory %s: %w", dir, err)
	}

	s := make(Store)
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || strings.HasPrefix(name, ".") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			fmt.Fprintf(warn, "warning: could not read secret %s: %v\n", name, err)
			continue
		}
		if value := strings.TrimSpace(string(data)); value != "" {
			s[name] = value
		}
	}
	return s, nil
}

// Lookup returns override when it is set, otherwise the stored value for key.
func (s Store) Lookup(key, override string) string {
	if override != "" {
		return override
	}
	return s[key]
}

// Keys returns the stored key names in sorted order.
func (s Store) Keys() []string {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
