package domain

// View is the read model a host renders: whether the guide is shown and
// which step it says.
type View struct {
	TutorialID string `json:"tutorial_id,omitempty"`
	Visible    bool   `json:"visible"`
	Step       *Step  `json:"step,omitempty"`
}

// StepID returns the ID of the resolved step, or "" when none.
func (v View) StepID() string {
	if v.Step == nil {
		return ""
	}
	return v.Step.ID
}
