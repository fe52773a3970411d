// Package promos turns a mod's file listing into per game version changelogs
// and latest / recommended promotions.
package promos

import (
	"context"
	"fmt"
	"regexp"
	"sync"
	"time"

	"curse-update-proxy/curseforge"
	"curse-update-proxy/version"

	"golang.org/x/sync/errgroup"
)

const maxConcurrentResolutions = 4

// skip tags like "Forge" or "Fabric"
var gameVersionTag = regexp.MustCompile(`^[0-9.]+$`)

// Resolver finds the version of a file whose name does not carry one.
type Resolver interface {
	Resolve(ctx context.Context, downloadURL string) (string, bool, error)
}

// Selection is the file chosen for one game version.
type Selection struct {
	FileID      int
	DownloadURL string
	Date        time.Time
	ReleaseType curseforge.ReleaseType
	Version     string
	Resolved    bool
}

// Result is the aggregation of one mod's files.
type Result struct {
	Homepage    string
	Latest      map[string]*Selection
	Recommended map[string]*Selection
	// Changelog maps game version -> mod version -> changelog link.
	Changelog map[string]map[string]string
	// Promos maps "{gameVersion}-latest" / "{gameVersion}-recommended" to a mod version.
	Promos map[string]string
}

// Aggregator selects promotions from a file listing. With a nil Resolver only
// files whose name ends in "-{version}.jar" take part.
type Aggregator struct {
	Resolver Resolver
}

// ChangelogLink is the changelog entry for one file.
func ChangelogLink(homepage string, fileID int) string {
	return fmt.Sprintf("View the changelog on CurseForge: %s/files/%d", homepage, fileID)
}

// Aggregate picks, for every game version, the latest and the latest
// recommended file, then resolves their versions.
//
// Both picks use a running comparison where a later visited file wins ties.
// The recommended pick replaces the incumbent only when the incumbent's
// release type is >= the candidate's AND the incumbent is not newer, so an
// older release can lose to a newer beta seen earlier.
func (a *Aggregator) Aggregate(ctx context.Context, homepage string, files []curseforge.File) (*Result, error) {
	latest := map[string]*Selection{}
	recommended := map[string]*Selection{}

	for i := range files {
		f := &files[i]

		modVersion, ok := version.FromFilename(f.FileName)
		if !ok && a.Resolver == nil {
			continue
		}

		for _, gameVersion := range f.GameVersion {
			if !gameVersionTag.MatchString(gameVersion) {
				continue
			}

			if inc := latest[gameVersion]; inc == nil || !inc.Date.After(f.FileDate) {
				latest[gameVersion] = newSelection(f, modVersion, ok)
			}

			// 1 = release, 2 = beta, 3 = alpha
			if inc := recommended[gameVersion]; inc == nil ||
				(inc.ReleaseType >= f.ReleaseType && !inc.Date.After(f.FileDate)) {
				recommended[gameVersion] = newSelection(f, modVersion, ok)
			}
		}
	}

	if err := a.resolvePending(ctx, latest, recommended); err != nil {
		return nil, err
	}

	res := &Result{
		Homepage:    homepage,
		Latest:      latest,
		Recommended: recommended,
		Changelog:   map[string]map[string]string{},
		Promos:      map[string]string{},
	}
	res.promote(latest, "latest")
	res.promote(recommended, "recommended")
	return res, nil
}

func newSelection(f *curseforge.File, modVersion string, resolved bool) *Selection {
	return &Selection{
		FileID:      f.ID,
		DownloadURL: f.DownloadURL,
		Date:        f.FileDate,
		ReleaseType: f.ReleaseType,
		Version:     modVersion,
		Resolved:    resolved,
	}
}

func (r *Result) promote(selections map[string]*Selection, kind string) {
	for gameVersion, s := range selections {
		if !s.Resolved {
			continue
		}
		r.Promos[gameVersion+"-"+kind] = s.Version

		entries := r.Changelog[gameVersion]
		if entries == nil {
			entries = map[string]string{}
			r.Changelog[gameVersion] = entries
		}
		entries[s.Version] = ChangelogLink(r.Homepage, s.FileID)
	}
}

// resolvePending looks up, concurrently and once per download URL, the
// version of every selected file whose name did not carry one.
func (a *Aggregator) resolvePending(ctx context.Context, groups ...map[string]*Selection) error {
	pending := map[string][]*Selection{}
	for _, group := range groups {
		for _, s := range group {
			if !s.Resolved {
				pending[s.DownloadURL] = append(pending[s.DownloadURL], s)
			}
		}
	}
	if len(pending) == 0 {
		return nil
	}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentResolutions)

	for url, selections := range pending {
		url, selections := url, selections
		g.Go(func() error {
			v, found, err := a.Resolver.Resolve(gctx, url)
			if err != nil {
				return fmt.Errorf("resolving version of %s: %w", url, err)
			}
			mu.Lock()
			defer mu.Unlock()
			for _, s := range selections {
				s.Version, s.Resolved = v, found
			}
			return nil
		})
	}
	return g.Wait()
}
