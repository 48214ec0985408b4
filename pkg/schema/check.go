package schema

import (
	"fmt"

	"github.com/IAmJonoBo/watercrawl-sub002/pkg/core"
)

// Warning is a non-fatal problem with a descriptor.
type Warning struct {
	Descriptor string `json:"descriptor"`
	Hook       string `json:"hook,omitempty"`
	Message    string `json:"message"`
}

func (w Warning) String() string {
	return fmt.Sprintf("%s: %s", w.Descriptor, w.Message)
}

// Check reports hooks that known does not recognise and allowed_values
// hooks declared without a vocabulary. Such hooks never fire.
func Check(descriptors []core.Descriptor, known func(core.HookID) bool) []Warning {
	var warnings []Warning

	for i := range descriptors {
		d := &descriptors[i]
		for _, id := range d.DetectionHooks {
			if known != nil && !known(id) {
				warnings = append(warnings, Warning{
					Descriptor: d.Name,
					Hook:       string(id),
					Message:    fmt.Sprintf("unknown detection hook %q is ignored", id),
				})
				continue
			}
			if id == core.HookAllowedValues && !d.HasAllowedValues() {
				warnings = append(warnings, Warning{
					Descriptor: d.Name,
					Hook:       string(id),
					Message:    "allowed_values hook declared without allowed values",
				})
			}
		}
	}

	return warnings
}
