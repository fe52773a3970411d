package main

import (
	"curse-update-proxy/cmd"
	"curse-update-proxy/logger"

	_ "go.uber.org/automaxprocs"
)

func main() {
	defer logger.Sync() // Ensure logs are flushed on exit
	cmd.Execute()
}
