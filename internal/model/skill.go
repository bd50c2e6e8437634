package model

// Skill is a catalogue entry that can be attached to job listings.
type Skill struct {
	ID       uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name     string `gorm:"type:text;unique;not null" json:"name"`
	Category string `gorm:"type:text" json:"category"`
	Level    string `gorm:"type:text" json:"level"`

	Jobs []Job `gorm:"many2many:job_skills" json:"-"`
}
