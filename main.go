package main

import (
	"os"

	"scriptgo/cmd"
	"scriptgo/infrastructure/logger"
)

func recoverPanic() {
	if err := recover(); err != nil {
		logger.GetLogger().WithField("error", err).Error("Application panic recovered")
		os.Exit(2)
	}
}

func main() {
	defer recoverPanic()
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
