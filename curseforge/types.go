package curseforge

import "time"

const (
	GameSlugMinecraft = "minecraft"
	CategoryPathMods  = "mods"
)

// ReleaseType is the quality tier of a file; a lower value is more stable.
type ReleaseType int

const (
	Release ReleaseType = 1
	Beta    ReleaseType = 2
	Alpha   ReleaseType = 3
)

func (r ReleaseType) String() string {
	switch r {
	case Release:
		return "release"
	case Beta:
		return "beta"
	case Alpha:
		return "alpha"
	default:
		return "unknown"
	}
}

// Author is one of a mod's listed authors; the first one is the primary author.
type Author struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// CategorySection classifies a mod inside its game (mods, modpacks, texture packs...).
type CategorySection struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	Path string `json:"path"`
}

// Mod is an addon record (simplified).
type Mod struct {
	ID              int             `json:"id"`
	Name            string          `json:"name"`
	Authors         []Author        `json:"authors"`
	WebsiteURL      string          `json:"websiteUrl"`
	GameSlug        string          `json:"gameSlug"`
	CategorySection CategorySection `json:"categorySection"`
}

// PrimaryAuthor returns the first listed author's name, or "" when none is listed.
func (m Mod) PrimaryAuthor() string {
	if len(m.Authors) == 0 {
		return ""
	}
	return m.Authors[0].Name
}

// IsMinecraftMod reports whether the addon is classified as a Minecraft mod.
func (m Mod) IsMinecraftMod() bool {
	return m.GameSlug == GameSlugMinecraft && m.CategorySection.Path == CategoryPathMods
}

// File is one published release artifact of a mod.
// GameVersion mixes game versions with loader tags such as "Forge" or "Fabric".
type File struct {
	ID          int         `json:"id"`
	DisplayName string      `json:"displayName"`
	FileName    string      `json:"fileName"`
	FileDate    time.Time   `json:"fileDate"`
	ReleaseType ReleaseType `json:"releaseType"`
	DownloadURL string      `json:"downloadUrl"`
	GameVersion []string    `json:"gameVersion"`
}
