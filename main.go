package main

import (
	"tstbuild/cmd"
)

// version is set by the build process via ldflags
var version = "dev"

func main() {
	cmd.SetVersion(version)
	cmd.Execute()
}
