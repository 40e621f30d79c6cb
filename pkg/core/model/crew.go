package model

import "slices"

// CrewRoleCapability is what a crew declares it can cover for one role
type CrewRoleCapability struct {
	JobRoleID        string `json:"job_role_id"`
	Capacity         int    `json:"capacity"`
	ProficiencyLevel int    `json:"proficiency_level"`
}

// Crew is a named group of workers assigned together
type Crew struct {
	ID           string               `json:"id"`
	TeamID       string               `json:"team_id"`
	Name         string               `json:"name"`
	Active       bool                 `json:"active"`
	LeadWorkerID string               `json:"lead_worker_id,omitempty"`
	MemberIDs    []string             `json:"member_ids"`
	Capabilities []CrewRoleCapability `json:"capabilities"`
}

// Capability returns the crew's declared capability for a role
func (c Crew) Capability(jobRoleID string) (CrewRoleCapability, bool) {
	for _, capability := range c.Capabilities {
		if capability.JobRoleID == jobRoleID {
			return capability, true
		}
	}
	return CrewRoleCapability{}, false
}

// HasMember reports whether the worker belongs to the crew
func (c Crew) HasMember(workerID string) bool {
	return slices.Contains(c.MemberIDs, workerID)
}
