package model

// File stores uploaded resume and cover-letter content. When cloud storage
// is configured, Content is left empty and StorageObjectName points at the
// bucket object instead. Extension is kept so downloads can name the
// attachment.
type File struct {
	ID                int `gorm:"primaryKey"`
	Content           []byte
	Extension         string
	StorageObjectName *string
}
