package core

import (
	"errors"
	"fmt"
	"strings"
)

// HookID names a detection hook. Descriptors opt in to hooks by listing their IDs.
type HookID string

// Built-in detection hooks.
const (
	HookAllowedValues HookID = "allowed_values"
	HookEmailPattern  HookID = "email_pattern"
	HookURLPattern    HookID = "url_pattern"
	HookPhonePattern  HookID = "phone_pattern"
	HookNumericValues HookID = "numeric_values"
)

// Descriptor describes one canonical column of the target schema.
// Descriptors are owned by configuration and treated as read-only.
type Descriptor struct {
	Name           string   `json:"name" yaml:"name"`
	Synonyms       []string `json:"synonyms,omitempty" yaml:"synonyms"`
	AllowedValues  []string `json:"allowed_values,omitempty" yaml:"allowed_values"`
	DetectionHooks []HookID `json:"detection_hooks,omitempty" yaml:"detection_hooks"`
}

// Labels returns the canonical name followed by the synonyms, without repeats.
func (d *Descriptor) Labels() []string {
	labels := make([]string, 0, len(d.Synonyms)+1)
	seen := make(map[string]struct{}, len(d.Synonyms)+1)
	for _, l := range append([]string{d.Name}, d.Synonyms...) {
		if _, ok := seen[l]; ok {
			continue
		}
		seen[l] = struct{}{}
		labels = append(labels, l)
	}
	return labels
}

// HasAllowedValues reports whether the descriptor carries a controlled vocabulary.
func (d *Descriptor) HasAllowedValues() bool {
	return len(d.AllowedValues) > 0
}

// HasHook reports whether the descriptor explicitly lists the hook.
func (d *Descriptor) HasHook(id HookID) bool {
	for _, h := range d.DetectionHooks {
		if h == id {
			return true
		}
	}
	return false
}

// Names returns the descriptor names in order.
func Names(descriptors []Descriptor) []string {
	names := make([]string, len(descriptors))
	for i := range descriptors {
		names[i] = descriptors[i].Name
	}
	return names
}

// Sentinel errors for descriptor and frame validation.
var (
	ErrEmptyName       = errors.New("descriptor name is empty")
	ErrDuplicateName   = errors.New("duplicate descriptor name")
	ErrDuplicateColumn = errors.New("duplicate column name")
)

// DescriptorError reports a problem with a single descriptor in a set.
type DescriptorError struct {
	Index int
	Name  string
	Err   error
}

func (e *DescriptorError) Error() string {
	if e.Name == "" {
		return fmt.Sprintf("descriptor #%d: %v", e.Index+1, e.Err)
	}
	return fmt.Sprintf("descriptor #%d (%s): %v", e.Index+1, e.Name, e.Err)
}

// Unwrap returns the underlying sentinel.
func (e *DescriptorError) Unwrap() error {
	return e.Err
}

// ValidateDescriptors checks that every name is non-empty and unique.
// All problems are reported together.
func ValidateDescriptors(descriptors []Descriptor) error {
	var errs []error
	seen := make(map[string]int, len(descriptors))

	for i := range descriptors {
		name := descriptors[i].Name
		if strings.TrimSpace(name) == "" {
			errs = append(errs, &DescriptorError{Index: i, Err: ErrEmptyName})
			continue
		}
		if first, ok := seen[name]; ok {
			errs = append(errs, &DescriptorError{
				Index: i,
				Name:  name,
				Err:   fmt.Errorf("%w: first declared as descriptor #%d", ErrDuplicateName, first+1),
			})
			continue
		}
		seen[name] = i
	}

	return errors.Join(errs...)
}
