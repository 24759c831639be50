package models

// Project groups tasks under an owning manager. MemberIds always contains
// the owner and at least one admin.
type Project struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	OwnerID     string   `json:"ownerId"`
	MemberIDs   []string `json:"memberIds"`
}

func (p *Project) HasMember(userID string) bool {
	for _, id := range p.MemberIDs {
		if id == userID {
			return true
		}
	}
	return false
}
