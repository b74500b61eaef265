package ledger

import (
	"os"
	"path/filepath"

	"github.com/weresobayes/zentrydb/internal/kinderr"
)

// Install creates dataDir and the five empty record files (and their
// as-yet-unwritten index files) if none of them already exist. It is a
// direct port of the original install::create_data_files, minus the
// JSONL shadow files: those are dropped here as non-essential debug
// artifacts with no role in load.
func Install(dataDir string) error {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return kinderr.Wrap(kinderr.Io, "create data directory "+dataDir, err)
	}

	families := []string{accountsFile, transactionsFile, entriesFile, systemsFile, conversionGraphsFile}
	paths := make([]string, 0, len(families)*2)
	for _, family := range families {
		paths = append(paths, filepath.Join(dataDir, family+".bin"), filepath.Join(dataDir, family+".idx"))
	}

	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			// At least one expected file already exists: treat the
			// directory as already installed and leave it untouched.
			return nil
		} else if !os.IsNotExist(err) {
			return kinderr.Wrap(kinderr.Io, "stat "+p, err)
		}
	}

	for _, p := range paths {
		f, err := os.Create(p)
		if err != nil {
			return kinderr.Wrap(kinderr.Io, "create "+p, err)
		}
		if err := f.Close(); err != nil {
			return kinderr.Wrap(kinderr.Io, "close "+p, err)
		}
	}
	return nil
}
