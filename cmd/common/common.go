// Package common holds what the midnight sub commands share: boa param
// enrichment, environment lookup and per-user directories.
package common

import "github.com/GiGurra/boa/pkg/boa"

// AppName names the binary, its cache directory and its env prefix.
const AppName = "midnight"

const envPrefix = "MIDNIGHT_"

// EnvKey returns the environment variable read for a setting, e.g.
// EnvKey("VOLUME") is MIDNIGHT_VOLUME.
func EnvKey(name string) string {
	return envPrefix + name
}

func DefaultParamEnricher() boa.ParamEnricher {
	return boa.ParamEnricherCombine(
		boa.ParamEnricherBool,
		boa.ParamEnricherName,
		boa.ParamEnricherShort,
	)
}
