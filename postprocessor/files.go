package postprocessor

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"go.viam.com/robotpost/program"
)

// FileNamer is implemented by post processors whose controllers expect particular file names.
type FileNamer interface {
	// FileNames returns one name per file of code, indexed like code.
	FileNames(p *program.Program, code program.Code) [][]string
}

// FileNames returns the file names pp wants for code, or "{program}_{group}_{file:000}.txt".
func FileNames(pp program.PostProcessor, p *program.Program, code program.Code) [][]string {
	if namer, ok := pp.(FileNamer); ok {
		return namer.FileNames(p, code)
	}
	names := make([][]string, len(code))
	for g, files := range code {
		for f := range files {
			names[g] = append(names[g], fmt.Sprintf("%s_%d_%03d.txt", p.Name, g, f))
		}
	}
	return names
}

// Save writes every file of code into dir and returns the written paths. Files sharing a name
// are concatenated in order. A nil file failed to generate: no path it contributes to is
// written. A file that fails to write does not stop the others.
func Save(dir string, pp program.PostProcessor, p *program.Program, code program.Code) ([]string, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, errors.Wrapf(err, "creating %q", dir)
	}
	names := FileNames(pp, p, code)
	var (
		order    []string
		contents = map[string][]string{}
		missing  = map[string]bool{}
		errs     error
	)
	for g, files := range code {
		for f, lines := range files {
			if g >= len(names) || f >= len(names[g]) {
				errs = multierr.Append(errs, errors.Errorf("no file name for group %d file %d", g, f))
				continue
			}
			path := filepath.Join(dir, names[g][f])
			if _, ok := contents[path]; !ok {
				order = append(order, path)
			}
			contents[path] = append(contents[path], lines...)
			if lines == nil {
				missing[path] = true
			}
		}
	}

	paths := make([]string, 0, len(order))
	for _, path := range order {
		if missing[path] {
			continue
		}
		content := strings.Join(contents[path], "\n") + "\n"
		if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
			errs = multierr.Append(errs, errors.Wrapf(err, "writing %q", path))
			continue
		}
		paths = append(paths, path)
	}
	return paths, errs
}
