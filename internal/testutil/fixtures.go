package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// SchemaYAML describes a small flight-school target schema.
const SchemaYAML = `columns:
  - name: Name of Organisation
    synonyms: [Organisation Name, School Name]
  - name: Province
    allowed_values: [Gauteng, Western Cape, KwaZulu-Natal]
  - name: Website URL
    synonyms: [Website, URL]
    detection_hooks: [url_pattern]
`

// SchoolsCSV matches SchemaYAML by name, vocabulary and URL shape.
const SchoolsCSV = `Org Name,Region,Website,Notes
Acme Flight School,Gauteng,https://acme.example,call back
Sky High Aviation,Western Cape,www.skyhigh.co.za,
`

// WriteFile writes content to name under dir and returns the path.
func WriteFile(t testing.TB, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil {
		t.Fatalf("mkdir %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}
