package version

import (
	"archive/zip"
	"bytes"
	"testing"
)

func buildJar(t *testing.T, entries map[string]string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for name, content := range entries {
		w, err := zw.Create(name)
		if err != nil {
			t.Fatalf("Failed to create zip entry %s: %v", name, err)
		}
		if _, err := w.Write([]byte(content)); err != nil {
			t.Fatalf("Failed to write zip entry %s: %v", name, err)
		}
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("Failed to close zip writer: %v", err)
	}
	return buf.Bytes()
}

const (
	testModInfo  = `[{"modid":"feather","version":"1.0.0"}]`
	testModsToml = "[[mods]]\nmodId=\"feather\"\nversion=\"2.0.0\"\n"
	testManifest = "Manifest-Version: 1.0\nImplementation-Version: 3.0.0\n"
)

func TestInspectArchivePriority(t *testing.T) {
	tests := []struct {
		name    string
		entries map[string]string
		want    string
		wantOK  bool
	}{
		{
			"mcmod.info first",
			map[string]string{ModInfoEntry: testModInfo, ModsTomlEntry: testModsToml, ManifestEntry: testManifest},
			"1.0.0", true,
		},
		{
			"mods.toml when no mcmod.info",
			map[string]string{ModsTomlEntry: testModsToml, ManifestEntry: testManifest},
			"2.0.0", true,
		},
		{
			"falls through unusable mcmod.info",
			map[string]string{ModInfoEntry: `{"modList":[]}`, ModsTomlEntry: testModsToml},
			"2.0.0", true,
		},
		{
			"falls through placeholder to manifest",
			map[string]string{ModsTomlEntry: `mods = [{version = "${file.jarVersion}"}]`, ManifestEntry: testManifest},
			"3.0.0", true,
		},
		{
			"manifest only",
			map[string]string{ManifestEntry: testManifest},
			"3.0.0", true,
		},
		{
			"no metadata",
			map[string]string{"com/example/Feather.class": "cafebabe"},
			"", false,
		},
		{
			"manifest without version",
			map[string]string{ManifestEntry: "Manifest-Version: 1.0\n"},
			"", false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok, err := InspectArchive(buildJar(t, tt.entries))
			if err != nil {
				t.Fatalf("InspectArchive() unexpected error: %v", err)
			}
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("InspectArchive() = (%q, %v), want (%q, %v)", got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestInspectArchiveNotAZip(t *testing.T) {
	if _, _, err := InspectArchive([]byte("definitely not a jar")); err == nil {
		t.Error("Expected an error for bytes that are not a zip archive")
	}
}

func TestInspectArchiveCorruptMetadata(t *testing.T) {
	jar := buildJar(t, map[string]string{ManifestEntry: "this is not a manifest\n"})
	if _, _, err := InspectArchive(jar); err == nil {
		t.Error("Expected an error for a malformed manifest")
	}
}
