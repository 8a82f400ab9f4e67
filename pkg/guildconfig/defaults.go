package guildconfig

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/PancyStudios/PancyStoreGo/pkg/database"
	"github.com/PancyStudios/PancyStoreGo/pkg/logger"
	"github.com/PancyStudios/PancyStoreGo/pkg/models"
	"github.com/goccy/go-json"
	"github.com/tidwall/jsonc"
)

// LoadDefaults reads the process-wide defaults file. Comments and trailing
// commas are tolerated. A missing file is created with the built-in values.
// A legacy flat mfa_prices table in the file is migrated in memory only.
func LoadDefaults(path string) (*models.AppDefaults, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		defaults := models.BuiltinDefaults()
		if err := SaveDefaults(path, defaults); err != nil {
			return nil, err
		}
		logger.Warn(fmt.Sprintf("No existía %s, se creó con los valores por defecto", path), "Config")
		return defaults, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading defaults %s: %w", path, err)
	}

	raw := jsonc.ToJSON(data)
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, fmt.Errorf("parsing defaults %s: %w", path, err)
	}
	if section, ok := fields["defaults"]; ok {
		if migrated, changed, err := migratePartition(section); err != nil {
			logger.Warn(fmt.Sprintf("mfa_prices por defecto en formato antiguo no migrable: %v", err), "Config")
		} else if changed {
			fields["defaults"] = migrated
			logger.Info("mfa_prices por defecto migrado a {buy, sell}", "Config")
		}
	}
	if raw, err = json.Marshal(fields); err != nil {
		return nil, fmt.Errorf("re-encoding defaults %s: %w", path, err)
	}

	defaults := models.BuiltinDefaults()
	// Sections missing from the file keep their built-in values.
	if err := json.Unmarshal(raw, defaults); err != nil {
		return nil, fmt.Errorf("decoding defaults %s: %w", path, err)
	}
	return defaults, nil
}

// SaveDefaults writes the defaults file atomically as indented JSON.
func SaveDefaults(path string, defaults *models.AppDefaults) error {
	data, err := json.MarshalIndent(defaults, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding defaults: %w", err)
	}
	if err := database.WriteFileAtomic(path, append(data, '\n')); err != nil {
		return fmt.Errorf("writing defaults %s: %w", path, err)
	}
	return nil
}
