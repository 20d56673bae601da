// Package domain contains the core data types of the assistant.
package domain

import "fmt"

// Intent is a named category of user request with trigger patterns and candidate replies.
type Intent struct {
	Name      string   `yaml:"name"`
	Patterns  []string `yaml:"patterns"`
	Responses []string `yaml:"responses"`
}

// Validate checks that the intent can be matched and answered.
func (i *Intent) Validate() error {
	if i.Name == "" {
		return fmt.Errorf("intent name cannot be empty")
	}
	if len(i.Patterns) == 0 {
		return fmt.Errorf("intent %q has no patterns", i.Name)
	}
	if len(i.Responses) == 0 {
		return fmt.Errorf("intent %q has no responses", i.Name)
	}
	return nil
}
