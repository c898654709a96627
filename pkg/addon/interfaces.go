//go:generate mockgen -destination=mocks/addon.go . URLResolver

package addon

import "context"

// URLResolver turns a catalog detail page into a package link.
type URLResolver interface {
	ResolveDownloadURL(ctx context.Context, detailURL, category string) (string, error)
}
