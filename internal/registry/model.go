package registry

import (
	"fmt"
	"regexp"
	"time"

	"github.com/google/uuid"
)

var (
	isbnRe       = regexp.MustCompile(`^978\d{10}$`)
	courseCodeRe = regexp.MustCompile(`^[A-Z]{4}\d{4}$`)
)

const dateLayout = "2006-01-02"

type Semester string

const (
	SemesterFall   Semester = "Fall"
	SemesterSpring Semester = "Spring"
	SemesterSummer Semester = "Summer"
)

func validSemester(s Semester) bool {
	return s == SemesterFall || s == SemesterSpring || s == SemesterSummer
}

// Book is a registry holding of a single title.
type Book struct {
	ID              uuid.UUID `json:"id"`
	ISBN            string    `json:"isbn"`
	Title           string    `json:"title"`
	Author          string    `json:"author"`
	CoAuthors       []string  `json:"co_authors"`
	Publisher       string    `json:"publisher"`
	PublicationDate string    `json:"publication_date"`
	Edition         *int      `json:"edition,omitempty"`
	Pages           *int      `json:"pages,omitempty"`
	Price           *float64  `json:"price,omitempty"`
	Genre           *string   `json:"genre,omitempty"`
	Available       bool      `json:"available"`
}

func (b *Book) Validate() error {
	if !isbnRe.MatchString(b.ISBN) {
		return fmt.Errorf("isbn must be 978 followed by 10 digits")
	}
	if b.Title == "" || b.Author == "" || b.Publisher == "" {
		return fmt.Errorf("title, author and publisher are required")
	}
	if _, err := time.Parse(dateLayout, b.PublicationDate); err != nil {
		return fmt.Errorf("publication_date must be YYYY-MM-DD")
	}
	return nil
}

// BookUpdate carries a partial book change. Nil fields are left untouched.
type BookUpdate struct {
	Title           *string   `json:"title"`
	Author          *string   `json:"author"`
	CoAuthors       *[]string `json:"co_authors"`
	Publisher       *string   `json:"publisher"`
	PublicationDate *string   `json:"publication_date"`
	Edition         *int      `json:"edition"`
	Pages           *int      `json:"pages"`
	Price           *float64  `json:"price"`
	Genre           *string   `json:"genre"`
	Available       *bool     `json:"available"`
}

// Course is a single offering of a course in a given semester.
type Course struct {
	ID                uuid.UUID `json:"id"`
	CourseCode        string    `json:"course_code"`
	Title             string    `json:"title"`
	Description       *string   `json:"description,omitempty"`
	Instructor        string    `json:"instructor"`
	Credits           int       `json:"credits"`
	Semester          Semester  `json:"semester"`
	Year              int       `json:"year"`
	MaxEnrollment     *int      `json:"max_enrollment,omitempty"`
	CurrentEnrollment int       `json:"current_enrollment"`
	MeetingDays       []string  `json:"meeting_days"`
	StartTime         *string   `json:"start_time,omitempty"`
	EndTime           *string   `json:"end_time,omitempty"`
	Location          *string   `json:"location,omitempty"`
	Prerequisites     []string  `json:"prerequisites"`
	Active            bool      `json:"active"`
}

func (c *Course) Validate() error {
	if !courseCodeRe.MatchString(c.CourseCode) {
		return fmt.Errorf("course_code must be 4 uppercase letters followed by 4 digits")
	}
	if c.Title == "" || c.Instructor == "" {
		return fmt.Errorf("title and instructor are required")
	}
	if c.Credits < 1 || c.Credits > 6 {
		return fmt.Errorf("credits must be between 1 and 6")
	}
	if !validSemester(c.Semester) {
		return fmt.Errorf("semester must be Fall, Spring or Summer")
	}
	if c.Year < 2020 || c.Year > 2030 {
		return fmt.Errorf("year must be between 2020 and 2030")
	}
	if c.MaxEnrollment != nil && *c.MaxEnrollment < 1 {
		return fmt.Errorf("max_enrollment must be positive")
	}
	if c.CurrentEnrollment < 0 {
		return fmt.Errorf("current_enrollment must not be negative")
	}
	return nil
}

// CourseUpdate carries a partial course change. Nil fields are left untouched.
type CourseUpdate struct {
	Title             *string   `json:"title"`
	Description       *string   `json:"description"`
	Instructor        *string   `json:"instructor"`
	Credits           *int      `json:"credits"`
	Semester          *Semester `json:"semester"`
	Year              *int      `json:"year"`
	MaxEnrollment     *int      `json:"max_enrollment"`
	CurrentEnrollment *int      `json:"current_enrollment"`
	MeetingDays       *[]string `json:"meeting_days"`
	StartTime         *string   `json:"start_time"`
	EndTime           *string   `json:"end_time"`
	Location          *string   `json:"location"`
	Prerequisites     *[]string `json:"prerequisites"`
	Active            *bool     `json:"active"`
}

// Address is a postal address, stored standalone and embedded in persons.
type Address struct {
	ID         uuid.UUID `json:"id"`
	Street     string    `json:"street"`
	City       string    `json:"city"`
	State      *string   `json:"state,omitempty"`
	PostalCode *string   `json:"postal_code,omitempty"`
	Country    string    `json:"country"`
}

func (a *Address) Validate() error {
	if a.Street == "" || a.City == "" || a.Country == "" {
		return fmt.Errorf("street, city and country are required")
	}
	return nil
}

// AddressUpdate carries a partial address change.
type AddressUpdate struct {
	Street     *string `json:"street"`
	City       *string `json:"city"`
	State      *string `json:"state"`
	PostalCode *string `json:"postal_code"`
	Country    *string `json:"country"`
}

// Person is a directory entry keyed by university id.
type Person struct {
	ID        uuid.UUID `json:"id"`
	UNI       string    `json:"uni"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Email     string    `json:"email"`
	Phone     *string   `json:"phone,omitempty"`
	BirthDate string    `json:"birth_date"`
	Addresses []Address `json:"addresses"`
}

func (p *Person) Validate() error {
	if p.UNI == "" || p.FirstName == "" || p.LastName == "" || p.Email == "" {
		return fmt.Errorf("uni, first_name, last_name and email are required")
	}
	if _, err := time.Parse(dateLayout, p.BirthDate); err != nil {
		return fmt.Errorf("birth_date must be YYYY-MM-DD")
	}
	for i := range p.Addresses {
		if err := p.Addresses[i].Validate(); err != nil {
			return fmt.Errorf("addresses[%d]: %w", i, err)
		}
	}
	return nil
}

// PersonUpdate carries a partial person change.
type PersonUpdate struct {
	UNI       *string    `json:"uni"`
	FirstName *string    `json:"first_name"`
	LastName  *string    `json:"last_name"`
	Email     *string    `json:"email"`
	Phone     *string    `json:"phone"`
	BirthDate *string    `json:"birth_date"`
	Addresses *[]Address `json:"addresses"`
}
