package plinth

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"runtime"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/xraph/go-utils/errs"
)

// EnvFile is the dotenv file read from the setup file's directory.
const EnvFile = ".env"

// envRef matches ${NAME} references. A bare $ is left as written.
var envRef = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)\}`)

// LoadConfig reads a YAML setup file. ${VAR} references are expanded from
// the process environment, overlaid by an optional .env file next to it.
//
// Example:
//
//	# plinth.yaml
//	main_file: cmd/app/main.go
//	version: ${APP_VERSION}
//	bindings:
//	  mailer: example.com/app/mail.Mailer
//	modules:
//	  init:
//	    10: [mailer@Start]
func LoadConfig(path string) (Config, error) {
	var cfg Config

	raw, err := os.ReadFile(path)
	if err != nil {
		return cfg, errs.NewError(CodeConfiguration, "failed to read setup file", err).
			WithContext("path", path).(*errs.Error)
	}

	env, err := readEnv(filepath.Join(filepath.Dir(path), EnvFile))
	if err != nil {
		return cfg, err
	}

	expanded := expandEnv(string(raw), env)

	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return cfg, errs.NewError(CodeConfiguration, "failed to parse setup file", err).
			WithContext("path", path).(*errs.Error)
	}

	return cfg, nil
}

// NewFromFile loads the setup file at path and builds a container from it.
// An empty main_file falls back to the caller's source file.
func NewFromFile(path string, opts ...Option) (*Container, error) {
	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, err
	}

	if cfg.Main == "" {
		if _, file, _, ok := runtime.Caller(1); ok {
			cfg.Main = file
		}
	}

	return New(cfg, opts...)
}

func readEnv(path string) (map[string]string, error) {
	env, err := godotenv.Read(path)
	if errors.Is(err, fs.ErrNotExist) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, errs.NewError(CodeConfiguration, "failed to read env file", err).
			WithContext("path", path).(*errs.Error)
	}

	return env, nil
}

// expandEnv replaces ${NAME} references in s, preferring env over the
// process environment.
func expandEnv(s string, env map[string]string) string {
	return envRef.ReplaceAllStringFunc(s, func(ref string) string {
		key := ref[2 : len(ref)-1]
		if v, ok := env[key]; ok {
			return v
		}
		return os.Getenv(key)
	})
}
