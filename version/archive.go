package version

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"io/fs"
)

const (
	ModInfoEntry  = "mcmod.info"
	ModsTomlEntry = "META-INF/mods.toml"
	ManifestEntry = "META-INF/MANIFEST.MF"
)

type strategy struct {
	entry   string
	extract func([]byte) (string, bool, error)
}

// strategies are tried in order, the first present entry that yields a version wins.
var strategies = []strategy{
	{ModInfoEntry, func(b []byte) (string, bool, error) {
		v, ok := FromModInfo(b)
		return v, ok, nil
	}},
	{ModsTomlEntry, FromModsToml},
	{ManifestEntry, FromManifest},
}

// InspectArchive reads the mod version out of the metadata files of a jar.
// Data that is not a zip archive is an error; an archive without usable
// metadata yields no version.
func InspectArchive(data []byte) (string, bool, error) {
	r, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", false, fmt.Errorf("invalid jar archive: %w", err)
	}

	for _, s := range strategies {
		content, err := fs.ReadFile(r, s.entry)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return "", false, fmt.Errorf("reading %s: %w", s.entry, err)
		}

		v, ok, err := s.extract(content)
		if err != nil {
			return "", false, fmt.Errorf("parsing %s: %w", s.entry, err)
		}
		if ok {
			return v, true, nil
		}
	}
	return "", false, nil
}
