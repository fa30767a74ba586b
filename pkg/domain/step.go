package domain

// DefaultSpeakerName is the guide shown when no persona has been chosen.
const DefaultSpeakerName = "Bublu"

// Step is one message of a tutorial. Steps are values and are never mutated
// once loaded.
type Step struct {
	ID          string `json:"id" yaml:"id" mapstructure:"id"`
	SpeakerName string `json:"speaker_name,omitempty" yaml:"speaker_name,omitempty" mapstructure:"speaker_name"`
	Text        string `json:"text" yaml:"text" mapstructure:"text"`

	// AssetRef overrides the character image for this step. Empty means "use the persona's".
	AssetRef string `json:"asset_ref,omitempty" yaml:"asset_ref,omitempty" mapstructure:"asset_ref"`

	// Dismissible is informational: hosts may hide a close button, the store
	// never blocks Dismiss on it.
	Dismissible bool `json:"dismissible" yaml:"dismissible" mapstructure:"dismissible"`

	// NextStepID links to the following step. Empty marks a terminal step.
	NextStepID string `json:"next_step_id,omitempty" yaml:"next_step_id,omitempty" mapstructure:"next_step_id"`
}

// IsTerminal reports whether advancing from this step ends the tutorial.
func (s Step) IsTerminal() bool {
	return s.NextStepID == ""
}

// Tutorial is the authoring unit handed to a store: an ordered list of steps.
type Tutorial struct {
	ID    string `json:"id" yaml:"id" mapstructure:"id"`
	Title string `json:"title,omitempty" yaml:"title,omitempty" mapstructure:"title"`
	Steps []Step `json:"steps" yaml:"steps" mapstructure:"steps"`

	// StartStepID is optional; the first step is used when empty or unknown.
	StartStepID string `json:"start_step_id,omitempty" yaml:"start_step_id,omitempty" mapstructure:"start_step_id"`
}
