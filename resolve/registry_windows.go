//go:build windows

package resolve

import "golang.org/x/sys/windows/registry"

// registryInstallRoot consults SOFTWARE\Microsoft\.NETFramework's
// InstallRoot value (§4.5 expansion), the canonical way the .NET Framework
// installer records where per-version runtime directories live.
func registryInstallRoot() (string, bool) {
	k, err := registry.OpenKey(registry.LOCAL_MACHINE, `SOFTWARE\Microsoft\.NETFramework`, registry.QUERY_VALUE)
	if err != nil {
		return "", false
	}
	defer k.Close()

	v, _, err := k.GetStringValue("InstallRoot")
	if err != nil || v == "" {
		return "", false
	}
	return v, true
}
