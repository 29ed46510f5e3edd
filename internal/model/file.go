package model

import "time"

// StoredFile is the metadata record for an encrypted file.
// File content is persisted only as an envelope (random IV prefix followed
// by ciphertext) in object storage under StoragePath; plaintext is never
// written anywhere. This is a pure domain model with no database-specific
// dependencies or tags.
type StoredFile struct {
	ID          string    `json:"id"`
	Filename    string    `json:"filename"`
	ContentType string    `json:"content_type"`
	Owner       string    `json:"owner"`
	StoragePath string    `json:"storage_path"`
	Size        int64     `json:"size"`
	CreatedAt   time.Time `json:"created_at"`
}

// SharedFile is a listing projection for files shared with an account.
// It carries who granted the access alongside the file metadata.
type SharedFile struct {
	ID          string    `json:"id"`
	Filename    string    `json:"filename"`
	ContentType string    `json:"content_type"`
	SharedBy    string    `json:"shared_by"`
	CreatedAt   time.Time `json:"created_at"`
}
