package models

import "time"

// Registration is a single team's submission for one event. Uploaded identity
// documents are hashed and discarded; only the digests are kept, so there are
// no file-path columns on this table.
type Registration struct {
	RegistrationID  string    `json:"registrationId" gorm:"primaryKey;type:varchar(36)"`
	Event           string    `json:"event" gorm:"type:varchar(100);index:idx_event_team,unique"`
	TeamName        string    `json:"teamName" gorm:"uniqueIndex;index:idx_event_team,unique;type:varchar(100)"`
	TeamLeaderName  string    `json:"teamLeaderName" gorm:"type:varchar(100)"`
	Email           string    `json:"email" gorm:"uniqueIndex;type:varchar(255)"`
	Mobile          string    `json:"mobile" gorm:"uniqueIndex;type:varchar(10)"`
	Gender          string    `json:"gender" gorm:"type:varchar(20)"`
	College         string    `json:"college" gorm:"type:varchar(200)"`
	Course          string    `json:"course" gorm:"type:varchar(100)"`
	Year            string    `json:"year" gorm:"type:varchar(20)"`
	RollNo          string    `json:"rollno" gorm:"type:varchar(50)"`
	Aadhar          string    `json:"aadhar" gorm:"uniqueIndex;type:varchar(12)"`
	TeamSize        int       `json:"teamSize" gorm:"check:team_size >= 1 AND team_size <= 4"`
	AadharImageHash string    `json:"-" gorm:"type:varchar(64);index"`
	CollegeIDHash   string    `json:"-" gorm:"type:varchar(64);index"`
	IsConfirmed     bool      `json:"isConfirmed" gorm:"default:false"`
	CreatedAt       time.Time `json:"createdAt"`
}
