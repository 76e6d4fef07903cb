package prismic

import (
	"strconv"
	"strings"
)

// Variation is one arm of an A/B experiment, served through its own ref.
type Variation struct {
	ID    string `json:"id"`
	Ref   string `json:"ref"`
	Label string `json:"label"`
}

// Experiment is an A/B test declared in the repository.
type Experiment struct {
	ID         string      `json:"id"`
	GoogleID   string      `json:"googleId"`
	Name       string      `json:"name"`
	Variations []Variation `json:"variations"`
}

// Experiments lists draft and running experiments.
type Experiments struct {
	Draft   []Experiment `json:"draft"`
	Running []Experiment `json:"running"`
}

// Current returns the first running experiment, or nil.
func (e *Experiments) Current() *Experiment {
	if e == nil || len(e.Running) == 0 {
		return nil
	}
	return &e.Running[0]
}

// RefFromCookie returns the ref of the variation named by an experiment
// cookie ("<googleId>%20<variation index>"), or "" when the cookie does not
// designate a running variation.
func (e *Experiments) RefFromCookie(cookie string) string {
	if e == nil {
		return ""
	}
	parts := strings.Split(strings.TrimSpace(cookie), "%20")
	if len(parts) < 2 {
		return ""
	}
	for _, exp := range e.Running {
		if exp.GoogleID != parts[0] {
			continue
		}
		idx, err := strconv.Atoi(parts[1])
		if err != nil || idx < 0 || idx >= len(exp.Variations) {
			return ""
		}
		return exp.Variations[idx].Ref
	}
	return ""
}
