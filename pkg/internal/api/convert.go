package api

import "go.lodestone.dev/lodestone/pkg/mods"

// StatusResponse is the response of the status endpoint.
type StatusResponse struct {
	Instance   string `json:"instance"`
	Version    string `json:"version"`
	Mods       int    `json:"mods"`
	Attached   bool   `json:"attached"`
	HookActive bool   `json:"hookActive"`
}

// ModsResponse is the response of the mod listing endpoint.
type ModsResponse struct {
	Mods []Mod `json:"mods"`
	// Duplicates lists mod names registered more than once.
	Duplicates []string `json:"duplicates,omitempty"`
}

// Mod is the JSON form of a registered mod.
type Mod struct {
	Name        string `json:"name"`
	DisplayName string `json:"displayName,omitempty"`
	Version     string `json:"version,omitempty"`
	Dir         string `json:"dir"`
	Patchers    bool   `json:"patchers"`
	Plugins     bool   `json:"plugins"`
}

// PathsResponse is the response of the payload paths endpoint.
type PathsResponse struct {
	Patchers []string `json:"patchers"`
	Plugins  []string `json:"plugins"`
}

// ResolveResponse is the response of the dependency resolve endpoint.
type ResolveResponse struct {
	Name     string `json:"name"`
	Path     string `json:"path,omitempty"`
	Resolved bool   `json:"resolved"`
}

// ErrorResponse is the JSON form of a request error.
type ErrorResponse struct {
	Error string `json:"error"`
}

func ModsToJSON(ds []*mods.Descriptor) []Mod {
	out := make([]Mod, 0, len(ds))
	for _, d := range ds {
		out = append(out, ModToJSON(d))
	}
	return out
}

func ModToJSON(d *mods.Descriptor) Mod {
	m := Mod{
		Name:     d.Name,
		Version:  d.Version(),
		Dir:      d.Dir,
		Patchers: d.HasPatchers(),
		Plugins:  d.HasPlugins(),
	}
	if name := d.DisplayName(); name != d.Name {
		m.DisplayName = name
	}
	return m
}
