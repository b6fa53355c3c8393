package main

import (
	"runtime/debug"

	"github.com/GiGurra/boa/pkg/boa"
	"github.com/gigurra/midnight/cmd/palette"
	"github.com/gigurra/midnight/cmd/play"
	"github.com/spf13/cobra"
)

func main() {
	boa.CmdT[boa.NoParams]{
		Use:     "midnight",
		Short:   "A cover-tinted terminal music player",
		Version: appVersion(),
		SubCmds: []*cobra.Command{
			play.Cmd(),
			palette.Cmd(),
		},
	}.Run()
}

func appVersion() string {
	bi, hasBuildInfo := debug.ReadBuildInfo()
	if !hasBuildInfo {
		return "unknown-(no build info)"
	}

	versionString := bi.Main.Version
	if versionString == "" {
		versionString = "unknown-(no version)"
	}

	return versionString
}
