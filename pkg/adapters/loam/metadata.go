package loam

// StepMetadata is the frontmatter of one step document.
// It uses "mapstructure" tags to match standard Frontmatter/YAML keys.
type StepMetadata struct {
	// Tutorial groups steps. Defaults to the document's directory.
	Tutorial string `json:"tutorial" mapstructure:"tutorial"`
	// Title is read from the first step that sets it.
	Title string `json:"title" mapstructure:"title"`

	ID          string `json:"id" mapstructure:"id"`
	Next        string `json:"next" mapstructure:"next"`
	Speaker     string `json:"speaker" mapstructure:"speaker"`
	Asset       string `json:"asset" mapstructure:"asset"`
	Dismissible *bool  `json:"dismissible" mapstructure:"dismissible"`

	// Order positions the step inside its tutorial. Ties are broken by
	// document ID.
	Order int `json:"order" mapstructure:"order"`
	// Start marks the start step of the tutorial.
	Start bool `json:"start" mapstructure:"start"`
}
