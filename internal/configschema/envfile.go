package configschema

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"
)

// EnvFileName is the project-local file holding DDDMAKER_* overrides.
const EnvFileName = ".dddmaker.env"

// envPrefix marks the variables the configuration reads.
const envPrefix = "DDDMAKER_"

// LoadEnvFile loads environment variables from a .env style file.
//
// The file format supports:
//   - KEY=value lines, optionally prefixed with "export "
//   - Comments starting with #
//   - Empty lines
//   - Quoted values (single or double quotes)
//   - Variable references are not expanded
//
// Parameters:
//   - path: Path to the file
//
// Returns:
//   - map[string]string: Variables as key-value pairs
//   - error: File read or parse error if any
func LoadEnvFile(path string) (map[string]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open env file: %w", err)
	}
	defer file.Close()

	envMap := make(map[string]string)
	scanner := bufio.NewScanner(file)
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		line = strings.TrimPrefix(line, "export ")

		key, value, ok := strings.Cut(line, "=")
		if !ok {
			return nil, fmt.Errorf("invalid line %d in %s: expected KEY=value", lineNum, path)
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)

		if len(value) >= 2 {
			if (value[0] == '"' && value[len(value)-1] == '"') ||
				(value[0] == '\'' && value[len(value)-1] == '\'') {
				value = value[1 : len(value)-1]
			}
		}

		envMap[key] = value
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("error reading env file %s: %w", path, err)
	}
	return envMap, nil
}

// Environment returns the DDDMAKER_* variables from envFile overlaid with the
// process environment, which takes precedence. A missing envFile is not an error.
//
// Parameters:
//   - envFile: Optional env file path; empty skips the file
//
// Returns:
//   - map[string]string: Merged variables
//   - error: Parse error in envFile
func Environment(envFile string) (map[string]string, error) {
	env := make(map[string]string)

	if envFile != "" {
		fromFile, err := LoadEnvFile(envFile)
		switch {
		case err == nil:
			for k, v := range fromFile {
				if strings.HasPrefix(k, envPrefix) {
					env[k] = v
				}
			}
		case !errors.Is(err, os.ErrNotExist):
			return nil, err
		}
	}

	for k, v := range environSnapshot() {
		env[k] = v
	}
	return env, nil
}
