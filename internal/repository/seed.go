package repository

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v2"

	"github.com/Shivanand-hulikatti/activity-board/internal/model"
)

//go:embed seeds/activities.yaml
var seedYAML []byte

// LoadSeed returns the activities a fresh store starts with.
func LoadSeed() (model.Snapshot, error) {
	return ParseSeed(seedYAML)
}

// ParseSeed decodes a YAML list of activities. Names must be unique.
func ParseSeed(data []byte) (model.Snapshot, error) {
	var list []model.NamedActivity
	if err := yaml.UnmarshalStrict(data, &list); err != nil {
		return nil, fmt.Errorf("parse seed: %w", err)
	}

	seen := make(map[string]struct{}, len(list))
	snap := make(model.Snapshot, 0, len(list))
	for _, na := range list {
		if na.Name == "" {
			return nil, fmt.Errorf("parse seed: activity without name")
		}
		if _, dup := seen[na.Name]; dup {
			return nil, fmt.Errorf("parse seed: duplicate activity %q", na.Name)
		}
		seen[na.Name] = struct{}{}
		if na.Participants == nil {
			na.Participants = []string{}
		}
		snap = append(snap, na)
	}
	return snap, nil
}
