package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// FeedOverride adjusts a single named feed. Zero values keep the feed's
// built-in setting.
type FeedOverride struct {
	Interval time.Duration `yaml:"interval"`
	Enabled  *bool         `yaml:"enabled"`
}

type feedsFile struct {
	Feeds map[string]FeedOverride `yaml:"feeds"`
}

// LoadFeeds reads FeedsFile, if set, into Feeds.
func (c *DashboardConfig) LoadFeeds() error {
	if c.FeedsFile == "" {
		return nil
	}
	raw, err := os.ReadFile(c.FeedsFile)
	if err != nil {
		return fmt.Errorf("failed to read feeds file: %w", err)
	}
	feeds, err := ParseFeeds(raw)
	if err != nil {
		return err
	}
	c.Feeds = feeds
	return nil
}

// ParseFeeds decodes a feeds document:
//
//	feeds:
//	  nodes:
//	    interval: 5s
//	  deployment_settings:
//	    enabled: false
func ParseFeeds(raw []byte) (map[string]FeedOverride, error) {
	var doc feedsFile
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse feeds file: %w", err)
	}
	for name, o := range doc.Feeds {
		if o.Interval < 0 {
			return nil, fmt.Errorf("feed %q: interval must not be negative", name)
		}
	}
	if doc.Feeds == nil {
		doc.Feeds = map[string]FeedOverride{}
	}
	return doc.Feeds, nil
}

// Override returns the override for name, if any.
func (c *DashboardConfig) Override(name string) (FeedOverride, bool) {
	o, ok := c.Feeds[name]
	return o, ok
}
