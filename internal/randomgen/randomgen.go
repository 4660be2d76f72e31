// Package randomgen produces synthetic contacts for seeding and for tests.
package randomgen

import (
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"gitlab.com/dirk.krummacker/contact-directory/internal/model"
)

// Birth dates are drawn from the 30 years before 2000.
var (
	earliestBirth = time.Date(1970, time.January, 1, 0, 0, 0, 0, time.UTC)
	latestBirth   = time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC)
)

// Generator creates contacts. Two generators with the same seed create the same contacts.
type Generator struct {
	faker *gofakeit.Faker
}

// New returns a generator. A seed of 0 picks a random seed.
func New(seed int64) *Generator {
	return &Generator{faker: gofakeit.New(seed)}
}

// Contact returns a contact with every field filled.
func (g *Generator) Contact(id int64) model.Contact {
	f := g.faker
	return model.Contact{
		Id:        id,
		FirstName: model.StringPtr(f.FirstName()),
		LastName:  model.StringPtr(f.LastName()),
		Dob:       model.StringPtr(f.DateRange(earliestBirth, latestBirth).Format("2006-01-02")),
		Email:     model.StringPtr(f.Email()),
		Phone:     model.StringPtr(f.Phone()),
		Address:   model.StringPtr(f.Street()),
		City:      model.StringPtr(f.City()),
		State:     model.StringPtr(f.State()),
		ZipCode:   model.StringPtr(f.Zip()),
	}
}

// Contacts returns n contacts with the ids first, first+1, ...
func (g *Generator) Contacts(first int64, n int) []model.Contact {
	contacts := make([]model.Contact, 0, n)
	for i := 0; i < n; i++ {
		contacts = append(contacts, g.Contact(first+int64(i)))
	}
	return contacts
}

// PickFirstName returns a random first name.
func PickFirstName() string {
	return gofakeit.FirstName()
}

// PickLastName returns a random last name.
func PickLastName() string {
	return gofakeit.LastName()
}
