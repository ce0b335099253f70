package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ecgf-team/roster-api/internal/app/growth"
	"github.com/ecgf-team/roster-api/internal/app/members"
)

// Policy holds the tunable business settings read from POLICY_FILE. Its sections decode
// straight into the matcher and search settings the services use.
type Policy struct {
	Mentoring growth.Matcher       `yaml:"mentoring"`
	Search    members.SearchConfig `yaml:"search"`
}

func DefaultPolicy() Policy {
	return Policy{
		Mentoring: growth.DefaultMatcher(),
		Search:    members.DefaultSearchConfig(),
	}
}

// LoadPolicy reads path over DefaultPolicy. An empty path yields the defaults.
func LoadPolicy(path string) (Policy, error) {
	if path == "" {
		return DefaultPolicy(), nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return Policy{}, fmt.Errorf("read policy: %w", err)
	}
	return ParsePolicy(b)
}

// ParsePolicy decodes YAML over DefaultPolicy. Keys left out keep their default; unknown keys fail.
func ParsePolicy(b []byte) (Policy, error) {
	p := DefaultPolicy()
	dec := yaml.NewDecoder(bytes.NewReader(b))
	dec.KnownFields(true)
	if err := dec.Decode(&p); err != nil && !errors.Is(err, io.EOF) {
		return Policy{}, fmt.Errorf("parse policy: %w", err)
	}
	if p.Mentoring.MinLevelGap < 1 || p.Mentoring.MinLevelGap > 4 {
		return Policy{}, fmt.Errorf("mentoring.minLevelGap must be between 1 and 4, got %d", p.Mentoring.MinLevelGap)
	}
	return p, nil
}
