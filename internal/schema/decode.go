package schema

import (
	"fmt"

	"github.com/go-viper/mapstructure/v2"

	"github.com/agentx-labs/plugx/internal/config"
)

// Decode copies a validated section into out, which must be a pointer to
// the struct the schema was reflected from.
func Decode(sec config.Section, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		Result:           out,
		WeaklyTypedInput: true,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	})
	if err != nil {
		return fmt.Errorf("creating decoder: %w", err)
	}
	if err := dec.Decode(sec.Dict()); err != nil {
		return fmt.Errorf("decoding configuration: %w", err)
	}
	return nil
}
