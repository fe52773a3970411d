// Package version extracts a mod's own version string from a jar filename or
// from the metadata files packaged inside the jar.
package version

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// fileName must end with {modVersion}.jar, eg. magicfeather-1.15.2-2.2.3.jar
var fileNameVersion = regexp.MustCompile(`([^-]+)\.jar$`)

// FromFilename returns the run of non-hyphen characters right before a trailing ".jar".
func FromFilename(fileName string) (string, bool) {
	m := fileNameVersion.FindStringSubmatch(fileName)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// FromModInfo reads the version of the first mod declared in a legacy mcmod.info document.
// Anything that isn't a non-empty JSON array whose first element is an object yields no version.
func FromModInfo(data []byte) (string, bool) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var mods []json.RawMessage
	if err := dec.Decode(&mods); err != nil || len(mods) == 0 {
		return "", false
	}

	var first map[string]any
	dec = json.NewDecoder(bytes.NewReader(mods[0]))
	dec.UseNumber()
	if err := dec.Decode(&first); err != nil || first == nil {
		return "", false
	}

	return scalarString(first["version"])
}

// FromModsToml reads the version of the first [[mods]] table of a META-INF/mods.toml.
// Unresolved build placeholders such as "${file.jarVersion}" count as no version.
// A document that is not valid TOML is an error.
func FromModsToml(data []byte) (string, bool, error) {
	var doc map[string]any
	if err := toml.Unmarshal(data, &doc); err != nil {
		return "", false, fmt.Errorf("invalid mods.toml: %w", err)
	}

	mods, ok := doc["mods"].([]any)
	if !ok || len(mods) == 0 {
		return "", false, nil
	}
	first, ok := mods[0].(map[string]any)
	if !ok {
		return "", false, nil
	}

	v, ok := first["version"].(string)
	if !ok || strings.HasPrefix(v, "${") {
		return "", false, nil
	}
	return v, true, nil
}

// FromManifest returns Implementation-Version from the main section of a META-INF/MANIFEST.MF.
func FromManifest(data []byte) (string, bool, error) {
	mf, err := ParseManifest(data)
	if err != nil {
		return "", false, err
	}
	v, ok := mf.Main["Implementation-Version"]
	return v, ok, nil
}

func scalarString(v any) (string, bool) {
	switch t := v.(type) {
	case string:
		return t, true
	case json.Number:
		return t.String(), true
	case bool:
		if t {
			return "true", true
		}
		return "false", true
	default:
		return "", false
	}
}
