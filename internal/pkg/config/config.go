// Package config loads the organization policy file. Process level settings
// (addresses, credentials) are parsed in cmd/api.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

const (
	DefaultTimezone        = "America/Guayaquil"
	DefaultLateCutoff      = "08:10"
	DefaultSummaryCacheTTL = 30 * time.Second
)

// Policy holds the organizational rules the attendance core depends on.
type Policy struct {
	Timezone        string        `yaml:"timezone"`
	LateCutoff      string        `yaml:"late_cutoff"`
	SummaryCacheTTL time.Duration `yaml:"summary_cache_ttl"`

	location *time.Location
	cutoff   time.Duration
}

// NewPolicy reads the policy file at path. A missing file yields the
// defaults.
func NewPolicy(path string) (*Policy, error) {
	var p Policy

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, errors.Wrap(err, "reading policy file")
	default:
		if err = yaml.Unmarshal(data, &p); err != nil {
			return nil, errors.Wrap(err, "decoding policy file")
		}
	}

	if err = p.init(); err != nil {
		return nil, err
	}

	return &p, nil
}

// DefaultPolicy is the policy used when no file is configured.
func DefaultPolicy() *Policy {
	p := Policy{}
	if err := p.init(); err != nil {
		panic(err)
	}
	return &p
}

func (p *Policy) init() error {
	if p.Timezone == "" {
		p.Timezone = DefaultTimezone
	}
	if p.LateCutoff == "" {
		p.LateCutoff = DefaultLateCutoff
	}
	if p.SummaryCacheTTL == 0 {
		p.SummaryCacheTTL = DefaultSummaryCacheTTL
	}

	loc, err := time.LoadLocation(p.Timezone)
	if err != nil {
		return errors.Wrapf(err, "loading timezone %q", p.Timezone)
	}
	p.location = loc

	cutoff, err := ParseClock(p.LateCutoff)
	if err != nil {
		return err
	}
	p.cutoff = cutoff

	return nil
}

// Location is the single organizational timezone.
func (p *Policy) Location() *time.Location {
	return p.location
}

// Cutoff is the late threshold as an offset from local midnight.
func (p *Policy) Cutoff() time.Duration {
	return p.cutoff
}

// ParseClock parses an "HH:MM" wall clock value.
func ParseClock(s string) (time.Duration, error) {
	parts := strings.Split(strings.TrimSpace(s), ":")
	if len(parts) != 2 {
		return 0, errors.Errorf("invalid clock value %q", s)
	}

	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 23 {
		return 0, errors.Errorf("invalid hour in %q", s)
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return 0, errors.Errorf("invalid minute in %q", s)
	}

	return time.Duration(h)*time.Hour + time.Duration(m)*time.Minute, nil
}
