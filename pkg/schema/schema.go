// Package schema loads canonical column descriptors from YAML files.
//
// A descriptor file lists the target columns in order:
//
//	columns:
//	  - name: Name of Organisation
//	    synonyms: [Organisation Name, School Name]
//	  - name: Province
//	    allowed_values: [Gauteng, Western Cape]
//	  - name: Website URL
//	    synonyms: [Website]
//	    detection_hooks: [url_pattern]
//
// Column order is significant: it breaks ties between equally scored matches.
package schema

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/IAmJonoBo/watercrawl-sub002/pkg/core"
)

// File is the decoded form of a descriptor file.
type File struct {
	Columns []core.Descriptor `yaml:"columns"`
}

// Load reads and validates a descriptor file.
func Load(path string) ([]core.Descriptor, error) {
	data, err := os.ReadFile(path) //nolint:gosec // G304: path is user-supplied configuration
	if err != nil {
		return nil, &LoadError{File: path, Message: fmt.Sprintf("failed to read file: %v", err)}
	}

	descriptors, err := Parse(data)
	if err != nil {
		var le *LoadError
		if errors.As(err, &le) {
			le.File = path
			return nil, le
		}
		return nil, err
	}
	return descriptors, nil
}

// Parse decodes and validates descriptor YAML. Unknown fields are rejected.
func Parse(data []byte) ([]core.Descriptor, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var f File
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, &LoadError{Message: "no columns defined"}
		}
		return nil, &LoadError{Message: fmt.Sprintf("invalid YAML: %v", err)}
	}

	if len(f.Columns) == 0 {
		return nil, &LoadError{Message: "no columns defined"}
	}

	if err := core.ValidateDescriptors(f.Columns); err != nil {
		return nil, &LoadError{Message: "invalid descriptors", Err: err}
	}

	return f.Columns, nil
}

// Marshal encodes descriptors in the file format Parse reads.
func Marshal(descriptors []core.Descriptor) ([]byte, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(File{Columns: descriptors}); err != nil {
		return nil, fmt.Errorf("failed to encode descriptors: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("failed to encode descriptors: %w", err)
	}
	return buf.Bytes(), nil
}

// LoadError reports a descriptor file that could not be loaded.
type LoadError struct {
	File    string
	Message string
	Err     error
}

func (e *LoadError) Error() string {
	file := e.File
	if file == "" {
		file = "<schema>"
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", file, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", file, e.Message)
}

func (e *LoadError) Unwrap() error {
	return e.Err
}
