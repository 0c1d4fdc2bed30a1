package profile

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/bytedance/sonic"

	"github.com/kmowery/weightline/internal/core/model"
)

const FileName = "profile.json"

// Load reads the account profile from the data directory. A missing file
// is not an error: the tool degrades to the no-history boundary. A file
// that exists but cannot be parsed is reported so the caller can log it
// before degrading the same way.
func Load(dataDir string) (*model.Profile, error) {
	path := filepath.Join(dataDir, FileName)

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read profile: %w", err)
	}

	var p model.Profile
	if err := sonic.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("failed to parse profile %s: %w", path, err)
	}

	return &p, nil
}
