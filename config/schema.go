package config

import (
	"encoding/json"

	"github.com/invopop/jsonschema"
)

// GenerateSchema generates the base JSON Schema for the Chime configuration.
// It reflects the Config struct from types.go but excludes the 'Extensions'
// field, which holds unvalidated tool-specific sections.
func GenerateSchema() ([]byte, error) {
	r := &jsonschema.Reflector{
		// Unknown top-level fields land in Extensions, so the base schema
		// itself stays permissive about additional properties.
		AllowAdditionalProperties: true,
		// Expand struct references instead of using $ref for cleaner base schema.
		ExpandedStruct: true,
		// Use YAML field names for property names
		FieldNameTag: "yaml",
	}

	// Create a temporary struct that omits the Extensions field
	// so it's not included in the base schema.
	type BaseConfig struct {
		Version       string               `yaml:"version,omitempty" jsonschema:"description=Configuration version (e.g. '1.0')"`
		Broker        *BrokerConfig        `yaml:"broker,omitempty" jsonschema:"description=Embedded MQTT broker settings"`
		Bus           *BusConfig           `yaml:"bus,omitempty" jsonschema:"description=Event bus connection settings"`
		Notifications *NotificationsConfig `yaml:"notifications,omitempty" jsonschema:"description=Notification channel toggles"`
		History       *HistoryConfig       `yaml:"history,omitempty" jsonschema:"description=Notification history retention"`
		Tray          *TrayConfig          `yaml:"tray,omitempty" jsonschema:"description=System tray settings"`
		Sessions      *SessionsConfig      `yaml:"sessions,omitempty" jsonschema:"description=Session tracking settings"`
	}

	schema := r.Reflect(&BaseConfig{})
	schema.Title = "Chime Configuration"
	schema.Description = "Base schema for chime.yml properties."
	schema.Version = "http://json-schema.org/draft-07/schema#"

	return json.MarshalIndent(schema, "", "  ")
}
