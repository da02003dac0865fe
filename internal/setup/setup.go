package setup

import (
	"context"
	"fmt"

	"vigil/internal/config"
)

// Run writes a commented starter config, backing up any existing file first.
func Run(ctx context.Context) error {
	path, err := config.WriteStarterConfig()
	if err != nil {
		return err
	}
	fmt.Printf("Starter config written to %s\n", path)
	fmt.Println("Edit the keywords, feeds and locations, then run './vigil fetch'.")
	return nil
}
