package pkg

import (
	"io"
	"os"
	"path/filepath"

	"github.com/mattn/go-isatty"
	"github.com/rotisserie/eris"
)

// ErrRootNotFound is returned by FindProjectRoot if no parent contains the marker
var ErrRootNotFound = eris.New("Project root not found")

// FindProjectRoot walks from start towards the filesystem root and returns the first directory
// containing marker.
func FindProjectRoot(start, marker string) (string, error) {
	mypath, err := filepath.Abs(start)
	if err != nil {
		return "", eris.Wrapf(err, "Failed to resolve %s", start)
	}

	for {
		markerPath := filepath.Join(mypath, marker)
		_, err := os.Stat(markerPath)
		if err == nil {
			return mypath, nil
		}

		if !eris.Is(err, os.ErrNotExist) {
			return "", eris.Wrap(err, "Error ocurred while searching for project root")
		}

		nextPath := filepath.Dir(mypath)
		if mypath == nextPath {
			break
		}
		mypath = nextPath
	}

	return "", eris.Wrapf(ErrRootNotFound, "no %s found above %s", marker, start)
}

// IsTerminal reports whether w is a terminal. Colored output is only written to terminals.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}

	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
