package util

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// ConvertConfig round-trips a broker config through YAML into output.
func ConvertConfig(rawBrokerConfig any, output any) error {
	yamlBytes, err := yaml.Marshal(rawBrokerConfig)
	if err != nil {
		return fmt.Errorf("marshal raw broker config: %w", err)
	}
	if err := yaml.Unmarshal(yamlBytes, output); err != nil {
		return fmt.Errorf("unmarshal to target config struct: %w", err)
	}
	return nil
}
