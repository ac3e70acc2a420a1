package model

import (
	"encoding/json"
	"fmt"
	"net/url"
	"os"
	"strings"
)

// Snapshot is the captured page context an extraction runs against
type Snapshot struct {
	URL            string `json:"url" validate:"required,url"`
	HTML           string `json:"html,omitempty"`
	Globals        *Bag   `json:"globals,omitempty"`
	LocalStorage   *Bag   `json:"localStorage,omitempty"`
	SessionStorage *Bag   `json:"sessionStorage,omitempty"`
	Cookies        string `json:"cookies,omitempty"`
}

// Host returns the hostname of the snapshot URL
func (s *Snapshot) Host() string {
	parsed, err := url.Parse(s.URL)
	if err != nil {
		return ""
	}
	return parsed.Hostname()
}

// Origin returns scheme://host[:port] of the snapshot URL
func (s *Snapshot) Origin() string {
	parsed, err := url.Parse(s.URL)
	if err != nil || parsed.Host == "" {
		return ""
	}
	return parsed.Scheme + "://" + parsed.Host
}

// Domain returns the two-label registry domain for the snapshot
func (s *Snapshot) Domain() string {
	return ExtractDomain(s.Host())
}

// ExtractDomain keeps the last two labels of a hostname
// (www.flipkart.com -> flipkart.com)
func ExtractDomain(hostname string) string {
	hostname = strings.TrimSuffix(strings.ToLower(hostname), ".")
	parts := strings.Split(hostname, ".")
	if len(parts) >= 2 {
		return strings.Join(parts[len(parts)-2:], ".")
	}
	return hostname
}

// LoadSnapshot reads a JSON snapshot from disk
func LoadSnapshot(path string) (*Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}
	return DecodeSnapshot(data)
}

// DecodeSnapshot decodes a JSON snapshot
func DecodeSnapshot(data []byte) (*Snapshot, error) {
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	if snap.URL == "" {
		return nil, fmt.Errorf("decode snapshot: url is required")
	}
	return &snap, nil
}
