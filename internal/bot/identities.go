package bot

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
)

// DefaultIdentitiesPath is where the simulator looks for bot profiles.
const DefaultIdentitiesPath = "data/bot_identities.json"

type BotIdentity struct {
	Username    string `json:"username"`
	DisplayName string `json:"display_name"`
	Difficulty  string `json:"difficulty"` // "cautious", "standard", "bold", "smart"
}

var defaultIdentities = []BotIdentity{
	{Username: "bot_ada", DisplayName: "Ada", Difficulty: "standard"},
	{Username: "bot_bo", DisplayName: "Bo", Difficulty: "cautious"},
	{Username: "bot_cy", DisplayName: "Cy", Difficulty: "bold"},
	{Username: "bot_dee", DisplayName: "Dee", Difficulty: "smart"},
}

// LoadIdentities reads bot profiles from path. A missing file yields the
// built-in pool.
func LoadIdentities(path string) ([]BotIdentity, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return append([]BotIdentity(nil), defaultIdentities...), nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read bot identities: %w", err)
	}

	var identities []BotIdentity
	if err := json.Unmarshal(data, &identities); err != nil {
		return nil, fmt.Errorf("failed to unmarshal bot identities: %w", err)
	}
	if len(identities) == 0 {
		return nil, fmt.Errorf("bot identities file %s is empty", path)
	}
	for i, identity := range identities {
		if _, err := ParseLevel(identity.Difficulty); err != nil {
			return nil, fmt.Errorf("bot identity %d (%s): %w", i, identity.Username, err)
		}
	}
	return identities, nil
}

// IdentityAt returns an identity by index (mod pool size).
func IdentityAt(pool []BotIdentity, index int) BotIdentity {
	if len(pool) == 0 {
		return BotIdentity{
			Username:    fmt.Sprintf("bot-%d", index),
			DisplayName: fmt.Sprintf("AI Player %d", index),
			Difficulty:  BotLevelStandard.String(),
		}
	}
	return pool[index%len(pool)]
}
