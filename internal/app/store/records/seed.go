package records

import (
	"sync"

	"github.com/dalemusser/thinkedge/internal/app/system/passwords"
	"github.com/dalemusser/thinkedge/internal/domain/models"
)

// Seed account credentials. Exported so demo tooling and tests can log in.
const (
	SeedAdminEmail      = "admin@lms.com"
	SeedAdminPassword   = "admin123"
	SeedTeacherEmail    = "sarah@school.com"
	SeedTeacherPassword = "password123"
	SeedStudentEmail    = "alice@student.com"
	SeedStudentPassword = "password123"
)

var (
	seedHashesOnce sync.Once
	seedHashes     map[string]string
)

// seedPassword returns a stable hash of plain for the life of the process, so
// repeated default reads compare deep-equal.
func seedPassword(plain string) string {
	seedHashesOnce.Do(func() {
		seedHashes = make(map[string]string)
		for _, p := range []string{SeedAdminPassword, SeedTeacherPassword, SeedStudentPassword} {
			if _, ok := seedHashes[p]; ok {
				continue
			}
			h, err := passwords.Hash(p)
			if err != nil {
				// bcrypt only fails for passwords over 72 bytes.
				panic("records: hash seed password: " + err.Error())
			}
			seedHashes[p] = h
		}
	})
	return seedHashes[plain]
}

// DefaultUsers is the seeded user collection.
func DefaultUsers() []models.User {
	return []models.User{
		{
			ID: "1", Name: "Super Admin", Email: SeedAdminEmail,
			Password: seedPassword(SeedAdminPassword), Role: models.RoleAdmin,
			InstituteID: "1", IsApproved: true,
		},
		{
			ID: "2", Name: "Dr. Sarah Wilson", Email: SeedTeacherEmail,
			Password: seedPassword(SeedTeacherPassword), Role: models.RoleTeacher,
			InstituteID: "1", ClassName: "10th A", IsApproved: true,
		},
		{
			ID: "3", Name: "Alice Johnson", Email: SeedStudentEmail,
			Password: seedPassword(SeedStudentPassword), Role: models.RoleStudent,
			InstituteID: "1", ClassName: "10th A", IsApproved: true, ProgressCount: 0,
		},
	}
}

// DefaultInstitutes is the seeded institute collection.
func DefaultInstitutes() []models.Institute {
	return []models.Institute{
		{ID: "1", Name: "ThinkEdge Global Academy", Address: "Tech Park, Bangalore"},
	}
}

// DefaultClasses is the seeded class collection.
func DefaultClasses() []models.Class {
	return []models.Class{
		{ID: "1", Name: "10th A", InstituteID: "1", AcademicYear: "2023-24"},
		{ID: "2", Name: "11th A", InstituteID: "1", AcademicYear: "2023-24"},
	}
}

// DefaultContents is the seeded content collection.
func DefaultContents() []models.Content {
	return []models.Content{
		{
			ID: "c1", InstituteID: "1", ClassName: "10th A",
			Title: "01. Fundamentals of Physics", Type: models.ContentTypeVideo,
			URL: "https://www.youtube.com/embed/dQw4w9WgXcQ", Priority: 1,
		},
		{
			ID: "c2", InstituteID: "1", ClassName: "10th A",
			Title: "02. Detailed Research PDF", Type: models.ContentTypePDF,
			URL: "https://www.w3.org/WAI/ER/tests/xhtml/testfiles/resources/pdf/dummy.pdf", Priority: 2,
		},
	}
}

// DefaultAssessments is the seeded assessment collection.
func DefaultAssessments() []models.Assessment {
	return []models.Assessment{
		{
			ID:          "a1",
			Title:       "Mid-Year Science Assessment",
			Type:        models.AssessmentTypeStudent,
			InstituteID: "1",
			Questions: []models.Question{
				{ID: "q1", Text: "What is the SI unit of force?", Options: []string{"Newton", "Joule", "Pascal", "Watt"}, CorrectAnswer: 0},
				{ID: "q2", Text: "Which planet is known as the Red Planet?", Options: []string{"Venus", "Mars", "Jupiter", "Saturn"}, CorrectAnswer: 1},
			},
		},
	}
}

// DefaultNotifications is empty: the outbox starts clean.
func DefaultNotifications() []models.Notification {
	return []models.Notification{}
}

// DefaultRegistrations is the seeded institute registration queue.
func DefaultRegistrations() []models.InstituteRegistration {
	return []models.InstituteRegistration{
		{
			ID: "1", Name: "St. Mary High", Admin: "Jane Smith", Email: "jane@stmary.edu",
			Phone: "+1 555-1234", Address: "456 Chapel Road, NY",
			Status: models.RegistrationPending, Date: "2024-05-10",
		},
		{
			ID: "2", Name: "Bright Future Academy", Admin: "Robert Brown", Email: "robert@bright.edu",
			Phone: "+1 555-5678", Address: "789 Learning Way, CA",
			Status: models.RegistrationApproved, Date: "2024-05-08",
		},
	}
}
