package runtimectx

import (
	"strconv"
	"strings"

	"github.com/saferwall/clrmeta/identity"
	"github.com/saferwall/clrmeta/metadata"
)

// AssemblyReferenceSource supplies the raw AssemblyRef table contents the
// §4.6 prober's step 2 walks. The core's object model does not retain a
// flat assembly-reference list of its own (references surface only as the
// scopes embedded in individual TypeReferences, §3) since the raw table is
// a PE/metadata-reader concern (§1, §6); this collaborator is the same
// shape as CustomAttributeSource for the same reason.
type AssemblyReferenceSource interface {
	AssemblyReferences(asm *metadata.AssemblyDefinition) []identity.Identity
}

// corlibFamily maps a known corlib name to its runtime family, per §4.6's
// mapping table.
func corlibFamily(id identity.Identity) (TargetRuntime, bool) {
	switch string(id.Name) {
	case "mscorlib":
		return TargetRuntime{Family: FamilyNetFramework, Version: id.Version}, true
	case "netstandard":
		return TargetRuntime{Family: FamilyNetStandard, Version: id.Version}, true
	case "System.Private.CoreLib":
		if id.Version.Major >= 5 {
			return TargetRuntime{Family: FamilyNetCoreApp, Version: identity.Version{Major: id.Version.Major, Minor: id.Version.Minor}}, true
		}
		return TargetRuntime{Family: FamilyNetCoreApp, Version: identity.Version{Major: 1}}, true
	case "System.Runtime":
		return systemRuntimeTarget(id.Version), true
	}
	if id.Version.Major >= 5 {
		return TargetRuntime{Family: FamilyNetCoreApp, Version: identity.Version{Major: id.Version.Major, Minor: id.Version.Minor}}, true
	}
	return TargetRuntime{}, false
}

// systemRuntimeQuadrant is one entry of the System.Runtime version-to-
// standard-version table; systemRuntimeTarget picks the highest entry at
// or below the observed version.
type systemRuntimeQuadrant struct {
	atOrBelow identity.Version
	target    TargetRuntime
}

var systemRuntimeQuadrants = []systemRuntimeQuadrant{
	{identity.Version{Major: 4, Minor: 1, Build: 0}, TargetRuntime{Family: FamilyNetStandard, Version: identity.Version{Major: 1}}},
	{identity.Version{Major: 4, Minor: 1, Build: 2}, TargetRuntime{Family: FamilyNetStandard, Version: identity.Version{Major: 1, Minor: 6}}},
	{identity.Version{Major: 4, Minor: 2, Build: 1}, TargetRuntime{Family: FamilyNetStandard, Version: identity.Version{Major: 2}}},
	{identity.Version{Major: 4, Minor: 2, Build: 2}, TargetRuntime{Family: FamilyNetStandard, Version: identity.Version{Major: 2, Minor: 1}}},
}

func systemRuntimeTarget(v identity.Version) TargetRuntime {
	best := TargetRuntime{Family: FamilyNetStandard, Version: identity.Version{Major: 1}}
	for _, q := range systemRuntimeQuadrants {
		if v.Compare(q.atOrBelow) >= 0 {
			best = q.target
		}
	}
	return best
}

// higherVersionThan reports whether candidate's version outranks current,
// per §4.6's "never return a lower version than previously found".
func higherVersionThan(candidate, current TargetRuntime) bool {
	return candidate.Version.Compare(current.Version) > 0
}

// familyRank orders families from least to most specific, so step 3's
// TargetFrameworkAttribute can supersede a weaker family guess from step 2.
func familyRank(f Family) int {
	switch f {
	case FamilyNetFramework:
		return 0
	case FamilyNetStandard:
		return 1
	case FamilyNetCoreApp:
		return 2
	default:
		return -1
	}
}

// ProbeTargetRuntime implements §4.6: produces a best-guess runtime
// identity for asm. refs and the context's configured CustomAttributes
// collaborator are both optional; a nil refs or an absent
// TargetFrameworkAttribute simply skips that step.
func (c *Context) ProbeTargetRuntime(asm *metadata.AssemblyDefinition, refs AssemblyReferenceSource) TargetRuntime {
	best, have := corlibFamily(asm.Identity)

	if refs != nil {
		for _, ref := range refs.AssemblyReferences(asm) {
			candidate, ok := corlibFamily(ref)
			if !ok {
				continue
			}
			if !have || higherVersionThan(candidate, best) {
				best, have = candidate, true
			}
		}
	}

	if c.caSource != nil {
		if moniker, ok := c.caSource.TargetFrameworkMoniker(asm); ok {
			if parsed, ok := parseFrameworkMoniker(moniker); ok {
				switch {
				case !have:
					best, have = parsed, true
				case parsed.Family == best.Family:
					if higherVersionThan(parsed, best) {
						best = parsed
					}
				case familyRank(parsed.Family) > familyRank(best.Family):
					// A System.Runtime reference version alone cannot
					// distinguish a netstandard-targeting build from a
					// netcoreapp build that unifies the same BCL assembly
					// version (e.g. 4.2.1.0 is shared by netstandard2.0 and
					// netcoreapp 3.x); the attribute is authoritative
					// whenever it names an equal-or-more-specific family.
					best = parsed
				}
			}
		}
	}

	if !have {
		return DefaultNetFramework40
	}
	return best
}

// parseFrameworkMoniker parses a TargetFrameworkAttribute argument such as
// ".NETFramework,Version=v4.7.2", ".NETStandard,Version=v2.0" or
// ".NETCoreApp,Version=v3.1" into a TargetRuntime.
func parseFrameworkMoniker(moniker string) (TargetRuntime, bool) {
	parts := strings.SplitN(moniker, ",", 2)
	if len(parts) != 2 {
		return TargetRuntime{}, false
	}
	var family Family
	switch parts[0] {
	case ".NETFramework":
		family = FamilyNetFramework
	case ".NETStandard":
		family = FamilyNetStandard
	case ".NETCoreApp":
		family = FamilyNetCoreApp
	default:
		return TargetRuntime{}, false
	}
	versionPart := strings.TrimPrefix(strings.TrimSpace(parts[1]), "Version=v")
	version, ok := parseVersionComponents(versionPart)
	if !ok {
		return TargetRuntime{}, false
	}
	return TargetRuntime{Family: family, Version: version}, true
}

func parseVersionComponents(s string) (identity.Version, bool) {
	fields := strings.Split(s, ".")
	if len(fields) == 0 || len(fields) > 4 {
		return identity.Version{}, false
	}
	var nums [4]uint16
	for i, f := range fields {
		n, err := strconv.ParseUint(f, 10, 16)
		if err != nil {
			return identity.Version{}, false
		}
		nums[i] = uint16(n)
	}
	return identity.Version{Major: nums[0], Minor: nums[1], Build: nums[2], Revision: nums[3]}, true
}
