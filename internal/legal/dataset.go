package legal

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
)

// Section is one entry of the IPC reference dataset.
type Section struct {
	Section     string `json:"section"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// sectionEntry is the value shape used by the map-form dataset, where the
// section number is the key.
type sectionEntry struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// LoadDataset reads the IPC dataset from path. Both supported layouts are
// accepted: a JSON list of sections, or a JSON object keyed by section number.
func LoadDataset(path string) ([]Section, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read legal dataset: %w", err)
	}

	var list []Section
	if err := json.Unmarshal(raw, &list); err == nil {
		return list, nil
	}

	var byNumber map[string]sectionEntry
	if err := json.Unmarshal(raw, &byNumber); err != nil {
		return nil, fmt.Errorf("unrecognized legal dataset format: %w", err)
	}

	sections := make([]Section, 0, len(byNumber))
	for num, entry := range byNumber {
		sections = append(sections, Section{
			Section:     num,
			Title:       entry.Title,
			Description: entry.Description,
		})
	}
	sort.Slice(sections, func(i, j int) bool {
		return sections[i].Section < sections[j].Section
	})
	return sections, nil
}
