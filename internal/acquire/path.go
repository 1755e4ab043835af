// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package acquire

import (
	"fmt"
	"path/filepath"
	"strings"
)

// PDFPath returns <folder>/<identifier>.pdf. Identifiers are used verbatim,
// so a slash in an application number yields a nested directory. An
// identifier that would resolve outside folder is rejected.
func PDFPath(folder, identifier string) (string, error) {
	identifier = strings.TrimSpace(identifier)
	if identifier == "" {
		return "", fmt.Errorf("empty identifier")
	}
	root := filepath.Clean(folder)
	p := filepath.Join(root, identifier+".pdf")
	rel, err := filepath.Rel(root, p)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("identifier %q escapes output folder %s", identifier, folder)
	}
	return p, nil
}
