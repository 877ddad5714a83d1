package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/upb/travel-gateway/models"
	"github.com/upb/travel-gateway/services/providers"
	"gopkg.in/yaml.v3"
)

// chainFile is the YAML document referenced by CHAINS_FILE:
//
//	providers:
//	  overpass-fr:
//	    kind: overpass
//	    base_url: https://overpass.openstreetmap.fr/api/interpreter
//	    timeout: 20s
//	chains:
//	  poi: [overpass-fr, overpass]
type chainFile struct {
	Providers map[string]fileProvider `yaml:"providers"`
	Chains    map[string][]string     `yaml:"chains"`
}

type fileProvider struct {
	Kind         string   `yaml:"kind"`
	BaseURL      string   `yaml:"base_url"`
	Timeout      string   `yaml:"timeout"`
	RateLimitRPS *float64 `yaml:"rate_limit_rps"`
}

func (c *Config) loadChainFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read chain file: %w", err)
	}
	if err := c.applyChainFile(data); err != nil {
		return fmt.Errorf("chain file %s: %w", path, err)
	}
	return nil
}

// applyChainFile merges a chain document into c. Listed providers override
// the fields they set; a listed chain replaces the default order.
func (c *Config) applyChainFile(data []byte) error {
	var doc chainFile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("invalid YAML: %w", err)
	}

	for name, fp := range doc.Providers {
		p, exists := c.Providers[name]
		if fp.Kind != "" {
			p.Kind = providers.Kind(fp.Kind)
		} else if !exists {
			return fmt.Errorf("provider %s: kind is required", name)
		}
		if fp.BaseURL != "" {
			p.BaseURL = fp.BaseURL
		}
		if fp.Timeout != "" {
			d, err := time.ParseDuration(fp.Timeout)
			if err != nil {
				return fmt.Errorf("provider %s: invalid timeout %q", name, fp.Timeout)
			}
			p.Timeout = d
		}
		if fp.RateLimitRPS != nil {
			p.RateLimitRPS = *fp.RateLimitRPS
		}
		c.Providers[name] = p
	}

	for opName, names := range doc.Chains {
		op, ok := models.ParseOperation(opName)
		if !ok {
			return fmt.Errorf("chain for unknown operation %q", opName)
		}
		c.Chains[op] = append([]string(nil), names...)
	}
	return nil
}
