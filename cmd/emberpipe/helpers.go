package main

import (
	"fmt"
	"log/slog"
	"os"

	"emberpipe/internal/config"
	"emberpipe/internal/logging"
)

func buildLogger(cfg *config.Config) (*slog.Logger, error) {
	return logging.New(logging.Options{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	})
}

// readAudioFile loads the audio track named on the command line.
func readAudioFile(arg string) ([]byte, error) {
	path, err := config.ExpandPath(arg)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read audio file: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("audio file %s is empty", path)
	}
	return data, nil
}
