package model

// AddonRecord describes one installed add-on folder.
// FolderName is the on-disk identity; Modules holds sibling folders grouped
// under it for display.
type AddonRecord struct {
	FolderName string        `json:"folder_name"`
	Title      string        `json:"title"`
	Author     string        `json:"author,omitempty"`
	Version    string        `json:"version,omitempty"`
	DetailURL  string        `json:"detail_url,omitempty"`
	Modules    []AddonRecord `json:"modules,omitempty"`
}

// CatalogEntry is one add-on card scraped from the catalog listing.
type CatalogEntry struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	ImageURL    string `json:"image_url,omitempty"`
	DetailURL   string `json:"detail_url"`
	GameVersion string `json:"game_version"`
}
