package registry

import (
	"strings"
	"sync"

	"github.com/google/uuid"
)

// Stores are plain in-memory maps guarded by an RWMutex. The registry is a
// directory service, not a system of record; contents live for the lifetime
// of the process.

type BookStore struct {
	mu    sync.RWMutex
	books map[uuid.UUID]Book
}

func NewBookStore() *BookStore {
	return &BookStore{books: make(map[uuid.UUID]Book)}
}

func (s *BookStore) Create(b Book) Book {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.books[b.ID] = b
	return b
}

func (s *BookStore) Get(id uuid.UUID) (Book, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.books[id]
	return b, ok
}

// BookFilter narrows List results. ISBN and Available match exactly, the
// text fields match as case-insensitive substrings.
type BookFilter struct {
	ISBN      string
	Title     string
	Author    string
	Publisher string
	Genre     string
	Available *bool
}

func (s *BookStore) List(f BookFilter) []Book {
	s.mu.RLock()
	defer s.mu.RUnlock()

	results := make([]Book, 0, len(s.books))
	for _, b := range s.books {
		if f.ISBN != "" && b.ISBN != f.ISBN {
			continue
		}
		if f.Title != "" && !containsFold(b.Title, f.Title) {
			continue
		}
		if f.Author != "" && !containsFold(b.Author, f.Author) {
			continue
		}
		if f.Publisher != "" && !containsFold(b.Publisher, f.Publisher) {
			continue
		}
		if f.Genre != "" && (b.Genre == nil || !containsFold(*b.Genre, f.Genre)) {
			continue
		}
		if f.Available != nil && b.Available != *f.Available {
			continue
		}
		results = append(results, b)
	}
	return results
}

func (s *BookStore) Update(id uuid.UUID, u BookUpdate) (Book, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, ok := s.books[id]
	if !ok {
		return Book{}, false
	}
	if u.Title != nil {
		b.Title = *u.Title
	}
	if u.Author != nil {
		b.Author = *u.Author
	}
	if u.CoAuthors != nil {
		b.CoAuthors = *u.CoAuthors
	}
	if u.Publisher != nil {
		b.Publisher = *u.Publisher
	}
	if u.PublicationDate != nil {
		b.PublicationDate = *u.PublicationDate
	}
	if u.Edition != nil {
		b.Edition = u.Edition
	}
	if u.Pages != nil {
		b.Pages = u.Pages
	}
	if u.Price != nil {
		b.Price = u.Price
	}
	if u.Genre != nil {
		b.Genre = u.Genre
	}
	if u.Available != nil {
		b.Available = *u.Available
	}
	s.books[id] = b
	return b, true
}

func (s *BookStore) Delete(id uuid.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.books[id]; !ok {
		return false
	}
	delete(s.books, id)
	return true
}

type CourseStore struct {
	mu      sync.RWMutex
	courses map[uuid.UUID]Course
}

func NewCourseStore() *CourseStore {
	return &CourseStore{courses: make(map[uuid.UUID]Course)}
}

func (s *CourseStore) Create(c Course) Course {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.courses[c.ID] = c
	return c
}

func (s *CourseStore) Get(id uuid.UUID) (Course, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.courses[id]
	return c, ok
}

// CourseFilter narrows List results. Title and Instructor match as
// case-insensitive substrings, everything else matches exactly.
type CourseFilter struct {
	CourseCode string
	Title      string
	Instructor string
	Semester   string
	Year       *int
	Credits    *int
	Active     *bool
}

func (s *CourseStore) List(f CourseFilter) []Course {
	s.mu.RLock()
	defer s.mu.RUnlock()

	results := make([]Course, 0, len(s.courses))
	for _, c := range s.courses {
		if f.CourseCode != "" && c.CourseCode != f.CourseCode {
			continue
		}
		if f.Title != "" && !containsFold(c.Title, f.Title) {
			continue
		}
		if f.Instructor != "" && !containsFold(c.Instructor, f.Instructor) {
			continue
		}
		if f.Semester != "" && string(c.Semester) != f.Semester {
			continue
		}
		if f.Year != nil && c.Year != *f.Year {
			continue
		}
		if f.Credits != nil && c.Credits != *f.Credits {
			continue
		}
		if f.Active != nil && c.Active != *f.Active {
			continue
		}
		results = append(results, c)
	}
	return results
}

func (s *CourseStore) Update(id uuid.UUID, u CourseUpdate) (Course, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.courses[id]
	if !ok {
		return Course{}, false
	}
	if u.Title != nil {
		c.Title = *u.Title
	}
	if u.Description != nil {
		c.Description = u.Description
	}
	if u.Instructor != nil {
		c.Instructor = *u.Instructor
	}
	if u.Credits != nil {
		c.Credits = *u.Credits
	}
	if u.Semester != nil {
		c.Semester = *u.Semester
	}
	if u.Year != nil {
		c.Year = *u.Year
	}
	if u.MaxEnrollment != nil {
		c.MaxEnrollment = u.MaxEnrollment
	}
	if u.CurrentEnrollment != nil {
		c.CurrentEnrollment = *u.CurrentEnrollment
	}
	if u.MeetingDays != nil {
		c.MeetingDays = *u.MeetingDays
	}
	if u.StartTime != nil {
		c.StartTime = u.StartTime
	}
	if u.EndTime != nil {
		c.EndTime = u.EndTime
	}
	if u.Location != nil {
		c.Location = u.Location
	}
	if u.Prerequisites != nil {
		c.Prerequisites = *u.Prerequisites
	}
	if u.Active != nil {
		c.Active = *u.Active
	}
	s.courses[id] = c
	return c, true
}

func (s *CourseStore) Delete(id uuid.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.courses[id]; !ok {
		return false
	}
	delete(s.courses, id)
	return true
}

type AddressStore struct {
	mu        sync.RWMutex
	addresses map[uuid.UUID]Address
}

func NewAddressStore() *AddressStore {
	return &AddressStore{addresses: make(map[uuid.UUID]Address)}
}

// Create stores an address under a caller-supplied id. Returns false when
// the id is already taken.
func (s *AddressStore) Create(a Address) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.addresses[a.ID]; exists {
		return false
	}
	s.addresses[a.ID] = a
	return true
}

func (s *AddressStore) Get(id uuid.UUID) (Address, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	a, ok := s.addresses[id]
	return a, ok
}

// AddressFilter narrows List results. All fields match exactly.
type AddressFilter struct {
	Street     string
	City       string
	State      string
	PostalCode string
	Country    string
}

func (s *AddressStore) List(f AddressFilter) []Address {
	s.mu.RLock()
	defer s.mu.RUnlock()

	results := make([]Address, 0, len(s.addresses))
	for _, a := range s.addresses {
		if f.Street != "" && a.Street != f.Street {
			continue
		}
		if f.City != "" && a.City != f.City {
			continue
		}
		if f.State != "" && (a.State == nil || *a.State != f.State) {
			continue
		}
		if f.PostalCode != "" && (a.PostalCode == nil || *a.PostalCode != f.PostalCode) {
			continue
		}
		if f.Country != "" && a.Country != f.Country {
			continue
		}
		results = append(results, a)
	}
	return results
}

func (s *AddressStore) Update(id uuid.UUID, u AddressUpdate) (Address, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.addresses[id]
	if !ok {
		return Address{}, false
	}
	if u.Street != nil {
		a.Street = *u.Street
	}
	if u.City != nil {
		a.City = *u.City
	}
	if u.State != nil {
		a.State = u.State
	}
	if u.PostalCode != nil {
		a.PostalCode = u.PostalCode
	}
	if u.Country != nil {
		a.Country = *u.Country
	}
	s.addresses[id] = a
	return a, true
}

type PersonStore struct {
	mu      sync.RWMutex
	persons map[uuid.UUID]Person
}

func NewPersonStore() *PersonStore {
	return &PersonStore{persons: make(map[uuid.UUID]Person)}
}

func (s *PersonStore) Create(p Person) Person {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.persons[p.ID] = p
	return p
}

func (s *PersonStore) Get(id uuid.UUID) (Person, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.persons[id]
	return p, ok
}

// PersonFilter narrows List results. All fields match exactly; City and
// Country match when at least one of the person's addresses matches.
type PersonFilter struct {
	UNI       string
	FirstName string
	LastName  string
	Email     string
	Phone     string
	BirthDate string
	City      string
	Country   string
}

func (s *PersonStore) List(f PersonFilter) []Person {
	s.mu.RLock()
	defer s.mu.RUnlock()

	results := make([]Person, 0, len(s.persons))
	for _, p := range s.persons {
		if f.UNI != "" && p.UNI != f.UNI {
			continue
		}
		if f.FirstName != "" && p.FirstName != f.FirstName {
			continue
		}
		if f.LastName != "" && p.LastName != f.LastName {
			continue
		}
		if f.Email != "" && p.Email != f.Email {
			continue
		}
		if f.Phone != "" && (p.Phone == nil || *p.Phone != f.Phone) {
			continue
		}
		if f.BirthDate != "" && p.BirthDate != f.BirthDate {
			continue
		}
		if f.City != "" && !anyAddress(p.Addresses, func(a Address) bool { return a.City == f.City }) {
			continue
		}
		if f.Country != "" && !anyAddress(p.Addresses, func(a Address) bool { return a.Country == f.Country }) {
			continue
		}
		results = append(results, p)
	}
	return results
}

func (s *PersonStore) Update(id uuid.UUID, u PersonUpdate) (Person, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.persons[id]
	if !ok {
		return Person{}, false
	}
	if u.UNI != nil {
		p.UNI = *u.UNI
	}
	if u.FirstName != nil {
		p.FirstName = *u.FirstName
	}
	if u.LastName != nil {
		p.LastName = *u.LastName
	}
	if u.Email != nil {
		p.Email = *u.Email
	}
	if u.Phone != nil {
		p.Phone = u.Phone
	}
	if u.BirthDate != nil {
		p.BirthDate = *u.BirthDate
	}
	if u.Addresses != nil {
		p.Addresses = *u.Addresses
	}
	s.persons[id] = p
	return p, true
}

func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

func anyAddress(addrs []Address, match func(Address) bool) bool {
	for _, a := range addrs {
		if match(a) {
			return true
		}
	}
	return false
}
