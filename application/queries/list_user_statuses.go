package queries

import "ecnelisfly/domain/core/entities"

// ListUserStatusesQuery asks for the status of every identity-provider
// account
type ListUserStatusesQuery struct{}

// Validate validates the query
func (q ListUserStatusesQuery) Validate() error {
	return nil
}

// ListUserStatusesResult is the answer to ListUserStatusesQuery
type ListUserStatusesResult struct {
	Users []entities.IdentityUser `json:"users"`
	Count int                     `json:"count"`
}
