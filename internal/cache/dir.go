package cache

import (
	"fmt"
	"os"
	"path/filepath"
)

// cacheDir resolves the disk cache directory, defaulting to the user cache dir
func cacheDir(configured string) (string, error) {
	if configured != "" {
		return configured, nil
	}
	base, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("find user cache dir: %w", err)
	}
	return filepath.Join(base, "claimcheck"), nil
}
