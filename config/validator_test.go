package config

import (
	"strings"
	"testing"
)

func TestGenerateSchema(t *testing.T) {
	data, err := GenerateSchema()
	if err != nil {
		t.Fatal(err)
	}

	schema := string(data)
	for _, property := range []string{"broker", "bus", "notifications", "history", "tray", "sessions"} {
		if !strings.Contains(schema, `"`+property+`"`) {
			t.Errorf("Expected schema to contain property %q", property)
		}
	}
	if !strings.Contains(schema, "draft-07") {
		t.Error("Expected schema to declare draft-07")
	}
}

func TestSchemaValidation(t *testing.T) {
	validator, err := NewSchemaValidator()
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name      string
		config    map[string]interface{}
		wantError bool
	}{
		{
			name: "valid config",
			config: map[string]interface{}{
				"version": "1",
				"bus": map[string]interface{}{
					"url":        "tcp://127.0.0.1:1883",
					"queue_size": 64,
				},
			},
			wantError: false,
		},
		{
			name: "wrong type for url",
			config: map[string]interface{}{
				"bus": map[string]interface{}{
					"url": 1883,
				},
			},
			wantError: true,
		},
		{
			name: "wrong type for toast",
			config: map[string]interface{}{
				"notifications": map[string]interface{}{
					"toast": "yes please",
				},
			},
			wantError: true,
		},
		{
			name: "wrong type for limit",
			config: map[string]interface{}{
				"history": map[string]interface{}{
					"limit": "many",
				},
			},
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validator.Validate(tt.config)
			if tt.wantError && err == nil {
				t.Error("Expected validation error, got none")
			}
			if !tt.wantError && err != nil {
				t.Errorf("Expected no error, got: %v", err)
			}
		})
	}
}

func TestValidateLoadedConfig(t *testing.T) {
	validator, err := NewSchemaValidator()
	if err != nil {
		t.Fatal(err)
	}

	cfg := Default()
	if err := validator.Validate(cfg); err != nil {
		t.Errorf("Default config should validate cleanly: %v", err)
	}
}
