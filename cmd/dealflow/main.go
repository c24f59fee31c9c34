// main is the entry point of the dealflow CLI.
package main

import (
	"github.com/huangsam/dealflow/cmd"
	"github.com/huangsam/dealflow/internal/contract"
	"github.com/huangsam/dealflow/internal/iocache"
)

func main() {
	cmd.SetCacheManager(iocache.Manager)
	defer iocache.CloseCaching()
	defer func() {
		if err := cmd.StopProfiling(); err != nil {
			contract.LogWarn("Failed to stop profiling", err)
		}
	}()

	if err := cmd.Execute(); err != nil {
		contract.LogFatal("Command failed", err)
	}
}
