package cli

import (
	"fmt"
	"strings"

	"github.com/joho/godotenv"
)

// collectEnv builds the explicit environment from --env flags and an
// optional dotenv file, flags winning over the file. Returns nil when
// neither is supplied, which means the child inherits the ambient
// environment.
func collectEnv(pairs []string, envFile string) (map[string]string, error) {
	if len(pairs) == 0 && envFile == "" {
		return nil, nil
	}

	env := make(map[string]string)
	if envFile != "" {
		fileEnv, err := godotenv.Read(envFile)
		if err != nil {
			return nil, fmt.Errorf("load env file %q: %w", envFile, err)
		}
		for k, v := range fileEnv {
			env[k] = v
		}
	}
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid env entry %q (expected KEY=VALUE)", pair)
		}
		env[key] = value
	}
	return env, nil
}
