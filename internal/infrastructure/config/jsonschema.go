package config

import (
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/invopop/jsonschema"
)

// SchemaID is the $id of the generated schema.
const SchemaID = "https://github.com/bnema/promptcast/config.schema.json"

// GenerateSchema returns the JSON schema of the configuration file.
func GenerateSchema() ([]byte, error) {
	r := &jsonschema.Reflector{
		// Every key has a default, so none is required.
		RequiredFromJSONSchemaTags: true,
		DoNotReference:             true,
	}
	schema := r.Reflect(&Config{})
	schema.ID = SchemaID
	schema.Title = "promptcast configuration"
	schema.Description = "Menus, actions and daemon settings for promptcast"

	data, err := json.MarshalIndent(schema, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal schema: %w", err)
	}
	return append(data, '\n'), nil
}

// GenerateSchemaFile writes config.schema.json next to the config file
// and returns its path.
func GenerateSchemaFile(configFile string) (string, error) {
	data, err := GenerateSchema()
	if err != nil {
		return "", err
	}
	schemaFile := filepath.Join(filepath.Dir(configFile), schemaName)
	if err := writeFileAtomic(schemaFile, data); err != nil {
		return "", err
	}
	return schemaFile, nil
}
