package analyzer

import (
	"errors"
	"fmt"
	"strings"
)

var ErrInvalidSelect = errors.New("invalid selection")

// ParseSelects parses key=id pairs. A later pair for the same key wins.
func ParseSelects(pairs []string) (map[string]string, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	out := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		key, id, ok := strings.Cut(pair, "=")
		key, id = strings.TrimSpace(key), strings.TrimSpace(id)
		if !ok || key == "" || id == "" {
			return nil, fmt.Errorf("%w %q: want bucket=item", ErrInvalidSelect, pair)
		}
		out[key] = id
	}
	return out, nil
}
