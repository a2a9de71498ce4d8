package database

import "time"

// Schema structs exist for AutoMigrate only. The enum checks mirror
// the validation rules so bad data cannot sneak past the model layer.

type User struct {
	ID          string `gorm:"type:uuid;primaryKey"`
	Name        string `gorm:"not null"`
	Email       string `gorm:"uniqueIndex;not null"`
	PhoneNumber int64  `gorm:"not null"`
	Address     string `gorm:"not null"`
	Role        string `gorm:"not null;check:role IN ('JobSeeker','Employer')"`

	// Niche tags only carry meaning for JobSeeker rows; Employer rows
	// leave them null.
	Niche1 *string
	Niche2 *string
	Niche3 *string

	Password    string `gorm:"not null"`
	ResumeID    *string
	ResumeURL   *string
	CoverLetter *string `gorm:"type:text"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

type Job struct {
	ID          string `gorm:"type:uuid;primaryKey"`
	Title       string `gorm:"not null"`
	JobType     string `gorm:"not null;check:job_type IN ('FullTime','PartTime')"`
	Location    string `gorm:"not null"`
	CompanyName string `gorm:"not null"`

	Introduction     string `gorm:"type:text"`
	Responsibilities string `gorm:"type:text"`
	Qualifications   string `gorm:"type:text"`
	Offers           string `gorm:"type:text"`
	Salary           string
	HiringMultiple   string `gorm:"not null;check:hiring_multiple IN ('Yes','No')"`

	WebsiteTitle *string
	WebsiteURL   *string

	Niche          string `gorm:"not null;index"`
	NewsletterSent bool   `gorm:"not null;default:false"`

	PostedBy string `gorm:"type:uuid;not null;index"`
	Poster   User   `gorm:"foreignKey:PostedBy"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

type Application struct {
	ID string `gorm:"type:uuid;primaryKey"`

	JobID       string `gorm:"type:uuid;not null;index"`
	JobSeekerID string `gorm:"type:uuid;not null;index"`
	EmployerID  string `gorm:"type:uuid;not null;index"`

	Job       Job  `gorm:"foreignKey:JobID"`
	JobSeeker User `gorm:"foreignKey:JobSeekerID"`
	Employer  User `gorm:"foreignKey:EmployerID"`

	// Snapshots taken at apply time; later profile edits do not change
	// a submitted application.
	JobTitle         string `gorm:"not null"`
	JobSeekerName    string `gorm:"not null"`
	JobSeekerEmail   string `gorm:"not null"`
	JobSeekerPhone   int64  `gorm:"not null"`
	JobSeekerAddress string
	CoverLetter      *string `gorm:"type:text"`
	ResumeID         *string
	ResumeURL        *string

	DeletedByJobSeeker bool `gorm:"not null;default:false"`
	DeletedByEmployer  bool `gorm:"not null;default:false"`

	CreatedAt time.Time
	UpdatedAt time.Time
}
