package config

import (
	"github.com/kkyr/fig"
)

const EnvPrefix = "NEWSCAST"

// LoadConfig loads a configuration file into the given struct.
// The path param specifies a custom path to the configuration file.
// Reads and puts environment variables with the prefix NEWSCAST_.
// Params from the config should be in uppercase separated with _.
func LoadConfig(config interface{}, path string) error {
	dirs := []string{path}
	if path == "" {
		dirs = append(dirs, ".", "configs", "../../configs")
	}
	return fig.Load(config, fig.Dirs(dirs...), fig.UseEnv(EnvPrefix))
}
