// Package tiles resolves the map base layer the frontend should use.
package tiles

import "github.com/conflictwatch/casemap/internal/config"

// Style describes a map base layer: either a Mapbox style plus access
// token, or a public tile URL template with no customization.
type Style struct {
	Provider string `json:"provider"`
	StyleURL string `json:"style_url,omitempty"`
	TileURL  string `json:"tile_url,omitempty"`
	Token    string `json:"token,omitempty"`
}

const (
	mapboxStyleURL = "mapbox://styles/mapbox/light-v10"
	osmTileURL     = "https://{s}.tile.openstreetmap.org/{z}/{x}/{y}.png"
)

// StyleFor returns the Mapbox style when a token is available, or the
// public OpenStreetMap tile template otherwise.
func StyleFor(token string) Style {
	if token != "" {
		return Style{Provider: "mapbox", StyleURL: mapboxStyleURL, Token: token}
	}
	return Style{Provider: "osm", TileURL: osmTileURL}
}

// StyleFromConfig resolves the style from the configured credential.
func StyleFromConfig(cfg *config.Config) Style {
	return StyleFor(cfg.MapboxToken)
}
