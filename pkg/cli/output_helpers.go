package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// Output file names mirror the artifact kinds served by the API.
const (
	fileDBObjects          = "db_objects.json"
	fileInformaticaObjects = "informatica_objects.json"
	fileColumnLineage      = "column_lineage.json"
	fileXMLSchema          = "xml_schema.json"
	fileDTD                = "powrmart_custom.dtd"
)

// envOr returns the environment value for key, or fallback when unset.
// Flag defaults use it so the CLI honors the same variables as the server.
func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// writeArtifact writes one artifact body into dir, creating dir if needed.
func writeArtifact(dir, name string, body []byte) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output dir %s: %w", dir, err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, body, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// marshalJSON renders v the way every JSON artifact is written.
func marshalJSON(v any) ([]byte, error) {
	body, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(body, '\n'), nil
}
