package model

import (
	"encoding/json"
	"time"
)

// Style is a locally installed style.
type Style struct {
	ID          string    `json:"id" yaml:"id"`
	Name        string    `json:"name" yaml:"name"`
	UpdateURL   string    `json:"updateUrl" yaml:"update_url"`
	USOID       int64     `json:"usoId" yaml:"uso_id"`
	HasSettings bool      `json:"hasSettings" yaml:"has_settings"`
	Reason      string    `json:"reason,omitempty" yaml:"reason,omitempty"`
	InstalledAt time.Time `json:"installedAt" yaml:"installed_at"`
	// Source is the installable document as downloaded.
	Source string `json:"source,omitempty" yaml:"source,omitempty"`
}

// StyleDetail is the per-style detail document of the catalog.
type StyleDetail struct {
	ID            int64             `json:"id"`
	Name          string            `json:"name"`
	Description   string            `json:"description"`
	URL           string            `json:"url"`
	User          User              `json:"user"`
	Subcategory   string            `json:"subcategory"`
	StyleSettings []json.RawMessage `json:"style_settings"`
}

// StylePayload is the installable document served for a style.
type StylePayload struct {
	Name      string          `json:"name"`
	UpdateURL string          `json:"updateUrl"`
	Raw       json.RawMessage `json:"-"`
}
