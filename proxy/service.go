// Package proxy builds the update document for one mod.
package proxy

import (
	"context"
	"errors"
	"fmt"

	"curse-update-proxy/curseforge"
	"curse-update-proxy/promos"

	"go.uber.org/zap"
)

var (
	// ErrModNotFound covers both a mod the API doesn't know and a mod that is
	// not a Minecraft mod, so callers can't tell the two apart.
	ErrModNotFound = errors.New("mod not found for game minecraft")
	// ErrUnauthorized is returned when the mod's primary author isn't the allowed one.
	ErrUnauthorized = errors.New("mod author is not allowed")
)

// ModSource is the subset of the CurseForge API the proxy consumes.
type ModSource interface {
	GetMod(ctx context.Context, modID int) (*curseforge.Mod, error)
	GetFiles(ctx context.Context, modID int) ([]curseforge.File, error)
}

// Service validates a mod and aggregates its files.
type Service struct {
	Mods       ModSource
	Aggregator *promos.Aggregator
	// AllowedAuthor restricts the service to mods whose primary author has this name.
	// Empty means unrestricted.
	AllowedAuthor string
	Log           *zap.SugaredLogger
}

// Build fetches modID and its files and returns the aggregated promotions.
func (s *Service) Build(ctx context.Context, modID int) (*promos.Result, error) {
	log := s.Log.With(zap.Int("mod_id", modID))

	mod, err := s.Mods.GetMod(ctx, modID)
	if errors.Is(err, curseforge.ErrModNotFound) {
		log.Infow("Mod not found upstream")
		return nil, ErrModNotFound
	}
	if err != nil {
		return nil, err
	}

	if !mod.IsMinecraftMod() {
		log.Infow("Rejecting mod outside minecraft/mods",
			zap.String("game", mod.GameSlug),
			zap.String("category", mod.CategorySection.Path),
		)
		return nil, ErrModNotFound
	}

	if s.AllowedAuthor != "" && mod.PrimaryAuthor() != s.AllowedAuthor {
		log.Infow("Rejecting mod from author outside the allow-list", zap.String("author", mod.PrimaryAuthor()))
		return nil, ErrUnauthorized
	}

	files, err := s.Mods.GetFiles(ctx, modID)
	if err != nil {
		return nil, err
	}

	res, err := s.Aggregator.Aggregate(ctx, mod.WebsiteURL, files)
	if err != nil {
		return nil, fmt.Errorf("aggregating files of mod %d: %w", modID, err)
	}

	log.Debugw("Aggregated mod files",
		zap.Int("files", len(files)),
		zap.Int("promos", len(res.Promos)),
	)
	return res, nil
}

// Document shapes a result as the update JSON: game versions sit at the top
// level next to "homepage" and "promos".
func Document(res *promos.Result) map[string]any {
	doc := make(map[string]any, len(res.Changelog)+2)
	for gameVersion, entries := range res.Changelog {
		doc[gameVersion] = entries
	}
	doc["homepage"] = res.Homepage
	doc["promos"] = res.Promos
	return doc
}
