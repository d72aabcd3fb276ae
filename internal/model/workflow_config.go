package model

import "strings"

// WorkflowConfig is a saved set of targeting parameters for the backend
// lead-generation job.  Domains, Locations and Designations are free-form
// tag lists.
type WorkflowConfig struct {
	WorkflowConfigID ID       `json:"workflow_config_id"`
	Domains          []string `json:"domains"`
	Locations        []string `json:"locations"`
	Designations     []string `json:"designations"`
	RunsAt           string   `json:"runs_at"`
	LeadsCount       int      `json:"leads_count"`
	CreatedAt        string   `json:"created_at,omitempty"`
}

// WorkflowConfigInput is the body for creating or updating a workflow
// configuration.  Tag lists are never sent as null.
type WorkflowConfigInput struct {
	Domains      []string `json:"domains"`
	Locations    []string `json:"locations"`
	Designations []string `json:"designations"`
	RunsAt       string   `json:"runs_at"`
	LeadsCount   int      `json:"leads_count"`
}

// Normalize rebuilds every tag list through AddTag so blank entries are
// dropped and nil lists become empty.
func (in WorkflowConfigInput) Normalize() WorkflowConfigInput {
	in.Domains = normalizeTags(in.Domains)
	in.Locations = normalizeTags(in.Locations)
	in.Designations = normalizeTags(in.Designations)
	if in.LeadsCount < 0 {
		in.LeadsCount = 0
	}
	return in
}

func normalizeTags(in []string) []string {
	out := []string{}
	for _, t := range in {
		out, _ = AddTag(out, t)
	}
	return out
}

// AddTag appends the trimmed item to tags.  Empty items are ignored and
// reported with ok=false.
func AddTag(tags []string, item string) (out []string, ok bool) {
	item = strings.TrimSpace(item)
	if item == "" {
		return tags, false
	}
	return append(tags, item), true
}

// RemoveTag removes the tag at index i.  Out of range indexes leave the
// list unchanged.
func RemoveTag(tags []string, i int) []string {
	if i < 0 || i >= len(tags) {
		return tags
	}
	out := make([]string, 0, len(tags)-1)
	out = append(out, tags[:i]...)
	return append(out, tags[i+1:]...)
}
