package main

import (
	"os"

	"drawbridge/cmd"
	"drawbridge/internal/buildinfo"
	"drawbridge/internal/launch"
)

func main() {
	// Verify the common pool before anything can pin its factory.
	launch.EnsurePoolFactoryCorrect()

	cmd.SetVersion(buildinfo.EffectiveVersion())
	os.Exit(launch.Run(os.Args[1:], cmd.Execute))
}
