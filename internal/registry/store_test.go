package registry

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
)

func testBook(isbn, title, author string) Book {
	return Book{
		ID:              uuid.New(),
		ISBN:            isbn,
		Title:           title,
		Author:          author,
		CoAuthors:       []string{},
		Publisher:       "Tech Publications",
		PublicationDate: "2023-01-15",
		Available:       true,
	}
}

func TestBookStoreCRUD(t *testing.T) {
	s := NewBookStore()
	b := s.Create(testBook("9781234567890", "Introduction to Databases", "Jane Smith"))

	got, ok := s.Get(b.ID)
	if !ok {
		t.Fatal("Get returned not found for created book")
	}
	if diff := cmp.Diff(b, got); diff != "" {
		t.Errorf("Get mismatch (-want +got):\n%s", diff)
	}

	newTitle := "Advanced Databases"
	updated, ok := s.Update(b.ID, BookUpdate{Title: &newTitle})
	if !ok {
		t.Fatal("Update returned not found")
	}
	if updated.Title != newTitle {
		t.Errorf("Title = %q, want %q", updated.Title, newTitle)
	}
	if updated.Author != b.Author {
		t.Errorf("Author changed by partial update: %q", updated.Author)
	}

	if !s.Delete(b.ID) {
		t.Error("Delete returned false for existing book")
	}
	if s.Delete(b.ID) {
		t.Error("Delete returned true for already deleted book")
	}
	if _, ok := s.Get(b.ID); ok {
		t.Error("Get found deleted book")
	}
}

func TestBookStoreListFilters(t *testing.T) {
	s := NewBookStore()
	db := s.Create(testBook("9781111111111", "Introduction to Databases", "Jane Smith"))
	s.Create(testBook("9782222222222", "Go in Practice", "Bob Jones"))
	unavailable := testBook("9783333333333", "Database Internals", "Alex Petrov")
	unavailable.Available = false
	s.Create(unavailable)

	if got := s.List(BookFilter{ISBN: "9781111111111"}); len(got) != 1 || got[0].ID != db.ID {
		t.Errorf("ISBN filter returned %d books", len(got))
	}

	// Title matches case-insensitive substrings.
	if got := s.List(BookFilter{Title: "database"}); len(got) != 2 {
		t.Errorf("Title filter returned %d books, want 2", len(got))
	}

	avail := true
	if got := s.List(BookFilter{Available: &avail}); len(got) != 2 {
		t.Errorf("Available filter returned %d books, want 2", len(got))
	}

	if got := s.List(BookFilter{Author: "petrov", Available: &avail}); len(got) != 0 {
		t.Errorf("combined filter returned %d books, want 0", len(got))
	}

	if got := s.List(BookFilter{}); len(got) != 3 {
		t.Errorf("empty filter returned %d books, want 3", len(got))
	}
}

func TestBookValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Book)
		wantErr bool
	}{
		{"valid", func(b *Book) {}, false},
		{"bad isbn prefix", func(b *Book) { b.ISBN = "9991234567890" }, true},
		{"short isbn", func(b *Book) { b.ISBN = "978123" }, true},
		{"missing title", func(b *Book) { b.Title = "" }, true},
		{"bad date", func(b *Book) { b.PublicationDate = "Jan 15, 2023" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := testBook("9781234567890", "T", "A")
			tt.mutate(&b)
			err := b.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func testCourse(code, title, instructor string, year int) Course {
	return Course{
		ID:            uuid.New(),
		CourseCode:    code,
		Title:         title,
		Instructor:    instructor,
		Credits:       3,
		Semester:      SemesterFall,
		Year:          year,
		MeetingDays:   []string{},
		Prerequisites: []string{},
		Active:        true,
	}
}

func TestCourseStoreListFilters(t *testing.T) {
	s := NewCourseStore()
	s.Create(testCourse("COMS4111", "Introduction to Databases", "Jane Smith", 2024))
	s.Create(testCourse("COMS4156", "Advanced Software Engineering", "Gail Kaiser", 2024))
	old := testCourse("COMS1004", "Intro to CS", "Adam Cannon", 2022)
	old.Active = false
	old.Semester = SemesterSpring
	s.Create(old)

	if got := s.List(CourseFilter{CourseCode: "COMS4111"}); len(got) != 1 {
		t.Errorf("CourseCode filter returned %d, want 1", len(got))
	}
	if got := s.List(CourseFilter{Instructor: "kaiser"}); len(got) != 1 {
		t.Errorf("Instructor filter returned %d, want 1", len(got))
	}
	if got := s.List(CourseFilter{Semester: "Spring"}); len(got) != 1 {
		t.Errorf("Semester filter returned %d, want 1", len(got))
	}
	year := 2024
	if got := s.List(CourseFilter{Year: &year}); len(got) != 2 {
		t.Errorf("Year filter returned %d, want 2", len(got))
	}
	active := true
	if got := s.List(CourseFilter{Active: &active}); len(got) != 2 {
		t.Errorf("Active filter returned %d, want 2", len(got))
	}
}

func TestCourseValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Course)
		wantErr bool
	}{
		{"valid", func(c *Course) {}, false},
		{"lowercase code", func(c *Course) { c.CourseCode = "coms4111" }, true},
		{"credits out of range", func(c *Course) { c.Credits = 7 }, true},
		{"bad semester", func(c *Course) { c.Semester = "Winter" }, true},
		{"year too early", func(c *Course) { c.Year = 2019 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := testCourse("COMS4111", "T", "I", 2024)
			tt.mutate(&c)
			err := c.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestAddressStoreRejectsDuplicateID(t *testing.T) {
	s := NewAddressStore()
	a := Address{ID: uuid.New(), Street: "116th St", City: "New York", Country: "USA"}

	if !s.Create(a) {
		t.Fatal("first Create returned false")
	}
	if s.Create(a) {
		t.Error("second Create with same id returned true")
	}
}

func TestPersonStoreNestedAddressFilter(t *testing.T) {
	s := NewPersonStore()
	s.Create(Person{
		ID: uuid.New(), UNI: "ab1234", FirstName: "Ada", LastName: "Lovelace",
		Email: "ada@example.com", BirthDate: "1990-12-10",
		Addresses: []Address{
			{ID: uuid.New(), Street: "1 Main", City: "London", Country: "UK"},
			{ID: uuid.New(), Street: "2 Side", City: "New York", Country: "USA"},
		},
	})
	s.Create(Person{
		ID: uuid.New(), UNI: "cd5678", FirstName: "Alan", LastName: "Turing",
		Email: "alan@example.com", BirthDate: "1992-06-23",
		Addresses: []Address{
			{ID: uuid.New(), Street: "3 Park", City: "Manchester", Country: "UK"},
		},
	})

	if got := s.List(PersonFilter{City: "New York"}); len(got) != 1 || got[0].UNI != "ab1234" {
		t.Errorf("City filter returned %d persons", len(got))
	}
	if got := s.List(PersonFilter{Country: "UK"}); len(got) != 2 {
		t.Errorf("Country filter returned %d persons, want 2", len(got))
	}
	if got := s.List(PersonFilter{UNI: "cd5678", Country: "UK"}); len(got) != 1 {
		t.Errorf("combined filter returned %d persons, want 1", len(got))
	}
	if got := s.List(PersonFilter{FirstName: "ada"}); len(got) != 0 {
		t.Errorf("FirstName matches exactly, got %d persons for lowercase query", len(got))
	}
}
