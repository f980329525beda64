package config

import (
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Addr          string `envconfig:"ADDR" default:"127.0.0.1:3000"`
	DatabasePath  string `envconfig:"DATABASE_PATH" default:"studenthub.db"`
	QuestionsPath string `envconfig:"QUESTIONS_PATH" default:"data/questions.json"`
	UploadsDir    string `envconfig:"UPLOADS_DIR" default:"public/images"`
}

func Load() (Config, error) {
	var cfg Config
	err := envconfig.Process("", &cfg)
	return cfg, err
}
