// Package model provides the data structures shared by the relictum packages:
// library entries, add-on records, catalog entries, download tasks and
// integrity results.
package model

import (
	"fmt"
	"strings"

	"github.com/glorpus-work/relictum/pkg/errors"
)

// Game describes one supported client generation.
type Game struct {
	ID string `json:"id"`
	// Name is the display name.
	Name string `json:"name"`
	// Version is the client build the generation ships with.
	Version string `json:"version"`
	// CatalogPath is the listing path on the add-on catalog site.
	CatalogPath string `json:"catalog_path"`
	// CatalogVersion is the version label attached to catalog entries.
	CatalogVersion string `json:"catalog_version"`
	// Tokens mark a download link as belonging to this generation.
	Tokens []string `json:"tokens"`
}

// Known game identifiers. They double as catalog categories.
const (
	GameClassic = "classic"
	GameTBC     = "tbc"
	GameWotLK   = "wotlk"
)

var games = []Game{
	{
		ID:             GameClassic,
		Name:           "Classic (1.12.1)",
		Version:        "1.12.1",
		CatalogPath:    "vanilla-addons/",
		CatalogVersion: "1.12.1",
		Tokens:         []string{"vanilla", "1.12"},
	},
	{
		ID:             GameTBC,
		Name:           "Burning Crusade (2.4.3)",
		Version:        "2.4.3",
		CatalogPath:    "tbc-addons/",
		CatalogVersion: "2.4.3",
		Tokens:         []string{"tbc", "2.4.3"},
	},
	{
		ID:             GameWotLK,
		Name:           "Lich King (3.3.5a)",
		Version:        "3.3.5a",
		CatalogPath:    "wotlk-addons/",
		CatalogVersion: "3.3.5",
		Tokens:         []string{"wotlk"},
	},
}

// Games returns the supported client generations in release order.
func Games() []Game {
	out := make([]Game, len(games))
	copy(out, games)
	return out
}

// LookupGame finds a game by id, case-insensitively.
func LookupGame(id string) (Game, error) {
	id = strings.ToLower(strings.TrimSpace(id))
	for _, g := range games {
		if g.ID == id {
			return g, nil
		}
	}
	return Game{}, fmt.Errorf("%q: %w (expected one of %s)", id, errors.ErrGameNotFound, strings.Join(GameIDs(), ", "))
}

// GameIDs lists the known game identifiers.
func GameIDs() []string {
	ids := make([]string, 0, len(games))
	for _, g := range games {
		ids = append(ids, g.ID)
	}
	return ids
}
