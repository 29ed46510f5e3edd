package model

import "time"

// AccessGrant is a standing permission allowing SharedWith to read the file
// identified by FileID. Grants are append-only: there is no uniqueness
// constraint on (file, grantee) and duplicates are harmless, since the read
// side only asks whether at least one matching row exists.
type AccessGrant struct {
	ID         string    `json:"id"`
	FileID     string    `json:"file_id"`
	SharedBy   string    `json:"shared_by"`
	SharedWith string    `json:"shared_with"`
	CreatedAt  time.Time `json:"created_at"`
}
