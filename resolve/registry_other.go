//go:build !windows

package resolve

// registryInstallRoot has no registry to consult off Windows; the
// GAC_32/GAC_64 fallback paths in frameworkGACRootsForGOOS are also
// Windows-only, so this resolver contributes nothing on other platforms.
func registryInstallRoot() (string, bool) {
	return "", false
}
