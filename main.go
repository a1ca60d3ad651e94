package main

import (
	"flag"
	"fmt"
	"os"

	"ptt/internal/di"
	"ptt/internal/structures"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the configuration file")
	debug := flag.Bool("debug", false, "log to console at debug level")
	flag.Parse()

	_, err := di.InitApp(&structures.CliFlags{
		ConfigPath: *configPath,
		DebugMode:  *debug,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "ptt: %s\n", err)
		os.Exit(1)
	}
}
