package domain

// Persona is the guide character stamped into constructed steps.
type Persona struct {
	Name     string `json:"name" yaml:"name" mapstructure:"name"`
	AssetRef string `json:"asset_ref" yaml:"asset_ref" mapstructure:"asset_ref"`
}

// DefaultPersona is used until the user picks a guide.
var DefaultPersona = Persona{
	Name:     DefaultSpeakerName,
	AssetRef: "asset_tamashi_bublu",
}

// IsZero reports whether no field is set.
func (p Persona) IsZero() bool {
	return p.Name == "" && p.AssetRef == ""
}
