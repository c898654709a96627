//go:generate mockgen -destination=mocks/archive.go . Strategy,Runner,StrategySource

package archive

import "context"

// Strategy extracts one archive into a destination directory. Extract blocks
// until the archive is fully written.
type Strategy interface {
	Name() string
	Extract(ctx context.Context, archivePath, destDir string) error
}

// Runner executes an external tool and returns its combined output.
type Runner interface {
	Run(name string, args ...string) ([]byte, error)
}

// StrategySource picks the Strategy for an archive kind.
type StrategySource interface {
	StrategyFor(kind Kind) Strategy
}
