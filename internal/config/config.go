// Package config reads the CLI settings from the environment and an
// optional .env file.
package config

type Config struct {
	Log   LogConfig   `env-prefix:"NOTEBOX_LOG_"`
	Store StoreConfig `env-prefix:"NOTEBOX_"`
}

type LogConfig struct {
	Level  string `env:"LEVEL" env-default:"info"`
	Pretty bool   `env:"PRETTY" env-default:"false"`
}

type StoreConfig struct {
	Seed         string `env:"SEED"`
	EventBuffer  int    `env:"EVENT_BUFFER" env-default:"100"`
	LabelCascade bool   `env:"LABEL_CASCADE" env-default:"false"`
	ReadOnly     bool   `env:"READ_ONLY" env-default:"false"`
}
