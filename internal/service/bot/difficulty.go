package bot

import "strings"

// search depth for each named difficulty
var difficultyDepths = map[string]int{
	"easy":   1,
	"medium": 3,
	"hard":   5,
}

// DefaultDifficulty is used when a client does not ask for one.
const DefaultDifficulty = "hard"

// IsValidDifficulty reports whether name is a known difficulty.
func IsValidDifficulty(name string) bool {
	_, ok := difficultyDepths[strings.ToLower(name)]
	return ok
}

// DepthForDifficulty maps a difficulty name to a search depth. Unknown
// names get fallback, clamped to [1, MaxDepth].
func DepthForDifficulty(name string, fallback int) int {
	if depth, ok := difficultyDepths[strings.ToLower(name)]; ok {
		return depth
	}
	return ClampDepth(fallback)
}

// ClampDepth keeps a configured depth inside [1, MaxDepth].
func ClampDepth(depth int) int {
	if depth < 1 {
		return 1
	}
	if depth > MaxDepth {
		return MaxDepth
	}
	return depth
}
