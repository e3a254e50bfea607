package config

import (
	"encoding/json"
	"fmt"
	"io"
)

// Document is the JSON configuration produced by the options page, in
// either the menu layout or the legacy flat layout.
type Document struct {
	Version        int              `json:"version,omitempty"`
	Menus          []DocumentMenu   `json:"menus,omitempty"`
	Actions        []DocumentAction `json:"actions,omitempty"`
	GlobalSettings DocumentSettings `json:"globalSettings"`
}

// DocumentSettings holds globalSettings, including the keys the legacy
// layout kept there.
type DocumentSettings struct {
	GPTTitleMatch  string `json:"gptTitleMatch"`
	ClearContext   bool   `json:"clearContext"`
	CustomGPTURL   string `json:"customGptUrl,omitempty"`
	AutoSubmit     bool   `json:"autoSubmit,omitempty"`
	RunAllEnabled  bool   `json:"runAllEnabled,omitempty"`
	RunAllShortcut string `json:"runAllShortcut,omitempty"`
}

// DocumentMenu is one menu of the document.
type DocumentMenu struct {
	ID             string           `json:"id"`
	Name           string           `json:"name"`
	CustomGPTURL   string           `json:"customGptUrl"`
	AutoSubmit     bool             `json:"autoSubmit"`
	RunAllEnabled  bool             `json:"runAllEnabled"`
	RunAllShortcut string           `json:"runAllShortcut,omitempty"`
	Order          int              `json:"order"`
	Actions        []DocumentAction `json:"actions"`
}

// DocumentAction is one action of the document. A missing enabled flag
// means enabled.
type DocumentAction struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Prompt   string `json:"prompt"`
	Shortcut string `json:"shortcut,omitempty"`
	Enabled  *bool  `json:"enabled,omitempty"`
	Order    int    `json:"order"`
}

// ImportDocument replaces the menu layout of cfg with the document read
// from r, migrating the legacy layout. Other sections are kept.
func ImportDocument(cfg *Config, r io.Reader) (LegacyResult, error) {
	var doc Document
	dec := json.NewDecoder(r)
	if err := dec.Decode(&doc); err != nil {
		return LegacyNone, fmt.Errorf("decode configuration document: %w", err)
	}

	cfg.Version = doc.Version
	cfg.GlobalSettings = GlobalSettingsConfig(doc.GlobalSettings)
	cfg.Actions = documentActions(doc.Actions)
	cfg.Menus = make([]MenuConfig, 0, len(doc.Menus))
	for _, m := range doc.Menus {
		cfg.Menus = append(cfg.Menus, MenuConfig{
			ID:             m.ID,
			Name:           m.Name,
			CustomGPTURL:   m.CustomGPTURL,
			AutoSubmit:     m.AutoSubmit,
			RunAllEnabled:  m.RunAllEnabled,
			RunAllShortcut: m.RunAllShortcut,
			Order:          m.Order,
			Actions:        documentActions(m.Actions),
		})
	}
	return migrateLegacy(cfg), nil
}

func documentActions(actions []DocumentAction) []ActionConfig {
	if len(actions) == 0 {
		return nil
	}
	out := make([]ActionConfig, 0, len(actions))
	for _, a := range actions {
		if a.Enabled == nil {
			a.Enabled = enabled(true)
		}
		out = append(out, ActionConfig(a))
	}
	return out
}

// ExportDocument writes the menu layout of cfg as a current-shape document.
func ExportDocument(cfg *Config, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(cfg.Entity()); err != nil {
		return fmt.Errorf("encode configuration document: %w", err)
	}
	return nil
}
