package accounts

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"jordanella.com/blum-go/internal/logging"
)

// isYAML reports whether a file should be decoded as YAML. Everything else is JSON.
func isYAML(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

// ReadAccountFile parses and validates a single account file.
// Any failure wraps ErrConfigInvalid except a missing file, which returns the os error.
func ReadAccountFile(path string) (*AccountConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	account := NewAccountConfig()
	if isYAML(path) {
		err = yaml.Unmarshal(data, account)
	} else {
		err = json.Unmarshal(data, account)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigInvalid, err)
	}

	if err := account.Validate(); err != nil {
		return nil, err
	}

	account.FileName = filepath.Base(path)
	account.FilePath = path
	return account, nil
}

// LoadFromDirectory reads every account file in directory, in file name order.
// Files that are unreadable, unparseable or incomplete are skipped with a warning.
// A missing directory, or a path that is not a directory, yields no accounts
// and no error.
func LoadFromDirectory(directory string, logger *logging.Logger) ([]*AccountConfig, error) {
	if logger == nil {
		logger = logging.Nop()
	}

	info, err := os.Stat(directory)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []*AccountConfig{}, nil
		}
		return nil, fmt.Errorf("failed to read accounts directory: %w", err)
	}
	if !info.IsDir() {
		logger.WarnWithContext("Accounts path is not a directory", map[string]interface{}{
			"path": directory,
		})
		return []*AccountConfig{}, nil
	}

	files, err := os.ReadDir(directory)
	if err != nil {
		return nil, fmt.Errorf("failed to read accounts directory: %w", err)
	}

	accounts := make([]*AccountConfig, 0, len(files))
	for _, file := range files {
		if file.IsDir() {
			continue
		}

		account, err := ReadAccountFile(filepath.Join(directory, file.Name()))
		if err != nil {
			logger.WarnWithContext("Skipping account file", map[string]interface{}{
				"file":   file.Name(),
				"reason": err.Error(),
			})
			continue
		}

		accounts = append(accounts, account)
	}

	return accounts, nil
}

// SaveAccount writes an account file. The format follows the file extension.
func SaveAccount(directory, filename string, account *AccountConfig) error {
	if err := account.Validate(); err != nil {
		return err
	}

	if err := os.MkdirAll(directory, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	var (
		data []byte
		err  error
	)
	if isYAML(filename) {
		data, err = yaml.Marshal(account)
	} else {
		data, err = json.MarshalIndent(account, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("failed to encode account: %w", err)
	}

	filePath := filepath.Join(directory, filename)
	if err := os.WriteFile(filePath, data, 0600); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}

	return nil
}
