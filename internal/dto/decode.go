package dto

import (
	"fmt"

	"github.com/mitchellh/mapstructure"
)

// Decode maps a generic document (as produced by a YAML or JSON parser) onto out.
// Scalars are converted weakly, so an unquoted YAML 0 becomes the symbol "0".
// Unknown keys are rejected to catch typos early.
func Decode(input any, out any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		TagName:          "mapstructure",
		Result:           out,
	})
	if err != nil {
		return fmt.Errorf("failed to create decoder: %w", err)
	}
	if err := decoder.Decode(input); err != nil {
		return fmt.Errorf("failed to decode document: %w", err)
	}
	return nil
}
