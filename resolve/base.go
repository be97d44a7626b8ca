package resolve

import (
	"path/filepath"

	"github.com/saferwall/clrmeta/clrerr"
	"github.com/saferwall/clrmeta/identity"
	"github.com/saferwall/clrmeta/metadata"
)

// DirectoryProbingResolver is the §4.5 "directory-probing base": an
// ordered search list of (1) the origin module's own directory, (2) a
// configured working directory, (3) caller-provided extra directories.
// Within each directory it tries the culture-specific subdirectory first
// (when the reference names one), then the culture-neutral directory
// itself, and for each candidate directory tries "{name}.dll" then
// "{name}.exe" — exactly the probing order §4.5 lists.
type DirectoryProbingResolver struct {
	FileService FileService
	Reader      AssemblyReader
	WorkingDir  string
	ExtraDirs   []string
}

// NewDirectoryProbingResolver builds a resolver searching workingDir and
// extraDirs in addition to whatever originDir a caller passes to Resolve.
func NewDirectoryProbingResolver(fs FileService, reader AssemblyReader, workingDir string, extraDirs []string) *DirectoryProbingResolver {
	return &DirectoryProbingResolver{FileService: fs, Reader: reader, WorkingDir: workingDir, ExtraDirs: extraDirs}
}

// SearchDirectories returns the ordered candidate directory list for a
// given originDir, exposed so the Framework/Core resolvers can prepend
// their own runtime directories ahead of it.
func (r *DirectoryProbingResolver) SearchDirectories(originDir string) []string {
	var dirs []string
	if originDir != "" {
		dirs = append(dirs, originDir)
	}
	if r.WorkingDir != "" {
		dirs = append(dirs, r.WorkingDir)
	}
	dirs = append(dirs, r.ExtraDirs...)
	return dirs
}

// Resolve implements AssemblyResolver.
func (r *DirectoryProbingResolver) Resolve(ref identity.Identity, originDir string) clrerr.Result[*metadata.AssemblyDefinition] {
	return r.resolveIn(ref, r.SearchDirectories(originDir))
}

// resolveIn probes dirs in order; Framework/Core resolvers reuse this once
// they've built their own runtime-specific directory list.
func (r *DirectoryProbingResolver) resolveIn(ref identity.Identity, dirs []string) clrerr.Result[*metadata.AssemblyDefinition] {
	for _, dir := range dirs {
		for _, candidateDir := range cultureSubdirectories(ref, dir) {
			for _, filename := range []string{string(ref.Name) + ".dll", string(ref.Name) + ".exe"} {
				path := filepath.Join(candidateDir, filename)
				rs, size, err := r.FileService.Open(path)
				if err != nil {
					continue
				}
				def, err := r.Reader.ReadAssembly(rs, size)
				if err != nil {
					return clrerr.Fail[*metadata.AssemblyDefinition](clrerr.AssemblyBadImage)
				}
				return clrerr.Ok(def)
			}
		}
	}
	return clrerr.Fail[*metadata.AssemblyDefinition](clrerr.AssemblyNotFound)
}

// cultureSubdirectories returns [dir/culture, dir] when ref names a
// non-empty culture, or just [dir] for a culture-neutral reference.
func cultureSubdirectories(ref identity.Identity, dir string) []string {
	if ref.Culture.Valid() && ref.Culture.Value() != "" {
		return []string{filepath.Join(dir, string(ref.Culture.Value())), dir}
	}
	return []string{dir}
}
