// Package pdf compiles a rendered submission document into PDF bytes by
// driving a headless Chromium over the DevTools protocol.
package pdf

import (
	"os"
	"strings"
)

// Environment variables consulted when selecting a profile.
const (
	envExecutable = "FORMPIPE_CHROMIUM_PATH"
	envProfile    = "FORMPIPE_RENDER_PROFILE"
)

// Profile describes how the rendering engine process is launched. It is
// resolved once at startup; callers never branch on the deployment
// environment at compile time.
type Profile struct {
	// ExecutablePath locates the Chromium binary. Empty means the
	// launcher's default resolution (local development).
	ExecutablePath string
	// Flags are extra process flags, "--name" or "--name=value".
	Flags []string
	// ViewportWidth/Height set the page viewport before printing.
	ViewportWidth  int
	ViewportHeight int
}

// LocalProfile launches with minimal sandboxing flags and default
// executable resolution, suitable for development machines.
func LocalProfile() Profile {
	return Profile{
		Flags:          []string{"--no-sandbox", "--disable-setuid-sandbox"},
		ViewportWidth:  1280,
		ViewportHeight: 800,
	}
}

// CloudProfile launches an environment-supplied binary with the
// locked-down flag set restricted execution environments require.
func CloudProfile(executable string) Profile {
	return Profile{
		ExecutablePath: executable,
		Flags: []string{
			"--no-sandbox",
			"--disable-setuid-sandbox",
			"--disable-dev-shm-usage",
			"--disable-gpu",
			"--no-zygote",
			"--single-process",
		},
		ViewportWidth:  1280,
		ViewportHeight: 800,
	}
}

// ProfileFromEnv selects the deployment profile: the cloud profile when
// FORMPIPE_RENDER_PROFILE=cloud or an explicit executable path is set,
// the local profile otherwise.
func ProfileFromEnv() Profile {
	executable := strings.TrimSpace(os.Getenv(envExecutable))
	mode := strings.ToLower(strings.TrimSpace(os.Getenv(envProfile)))
	if mode == "cloud" || executable != "" {
		return CloudProfile(executable)
	}
	return LocalProfile()
}
