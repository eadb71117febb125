package publish

import (
	"context"

	"github.com/3-lines-studio/genfig/internal/usecase"
)

// Multi publishes to every destination in order and stops at the first error.
type Multi []usecase.Publisher

func (m Multi) Publish(ctx context.Context, figureName string, files []string) error {
	for _, p := range m {
		if err := p.Publish(ctx, figureName, files); err != nil {
			return err
		}
	}
	return nil
}
