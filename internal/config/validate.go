package config

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateGenius(); err != nil {
		return err
	}
	if err := c.validateNormalize(); err != nil {
		return err
	}
	if err := c.validateBuild(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateGenius() error {
	if err := ensurePositiveMap(map[string]int{
		"genius.per_page":        c.Genius.PerPage,
		"genius.request_timeout": c.Genius.RequestTimeout,
		"genius.harvest_timeout": c.Genius.HarvestTimeout,
	}); err != nil {
		return err
	}
	if c.Genius.RequestsPerSecond <= 0 {
		return errors.New("genius.requests_per_second must be positive")
	}
	if c.Genius.ArtistID < 0 {
		return errors.New("genius.artist_id must be >= 0")
	}
	if !strings.HasPrefix(c.Genius.BaseURL, "http://") && !strings.HasPrefix(c.Genius.BaseURL, "https://") {
		return fmt.Errorf("genius.base_url must be an http(s) URL, got %q", c.Genius.BaseURL)
	}
	return nil
}

func (c *Config) validateNormalize() error {
	for _, phrase := range c.Normalize.Boilerplate {
		if _, err := regexp.Compile(phrase); err != nil {
			return fmt.Errorf("normalize.boilerplate: invalid pattern %q: %w", phrase, err)
		}
	}
	return nil
}

func (c *Config) validateBuild() error {
	if c.Build.Workers <= 0 {
		return errors.New("build.workers must be positive")
	}
	return nil
}

func ensurePositiveMap(values map[string]int) error {
	for key, value := range values {
		if value <= 0 {
			return fmt.Errorf("%s must be positive", key)
		}
	}
	return nil
}
