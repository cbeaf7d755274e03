package crosstab

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/kai-do/fire-department-response-times-analysis/internal/utils"
)

// Cache is the serialized intermediate form of a Result, written so a table
// can be re-rendered without recomputation.
type Cache struct {
	SavedAt time.Time `json:"saved_at"`
	Source  string    `json:"source,omitempty"`
	Result  *Result   `json:"result"`
}

// WriteCache serializes the result as indented JSON using an atomic write.
func WriteCache(path string, res *Result, source string) error {
	data, err := utils.PrettyJSON(&Cache{SavedAt: time.Now(), Source: source, Result: res})
	if err != nil {
		return err
	}
	return utils.SafeWriteFile(path, data)
}

// ReadCache restores a previously written cache.
func ReadCache(path string) (*Cache, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read cache: %w", err)
	}
	var c Cache
	if err := json.Unmarshal(b, &c); err != nil {
		return nil, fmt.Errorf("parse cache: %w", err)
	}
	if c.Result == nil {
		return nil, errors.New("cache has no result")
	}
	for i := range c.Result.Rows {
		row := &c.Result.Rows[i]
		if len(row.Counts) != len(c.Result.Cols) || len(row.RelFreq) != len(c.Result.Cols) {
			return nil, fmt.Errorf("cache row %q does not match the column set", row.Key)
		}
	}
	return &c, nil
}
