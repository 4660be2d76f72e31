package randomgen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gitlab.com/dirk.krummacker/contact-directory/internal/model"
	"gitlab.com/dirk.krummacker/contact-directory/internal/validation"
)

func TestContacts(t *testing.T) {
	contacts := New(42).Contacts(1, 50)
	require.Len(t, contacts, 50)

	validate := validation.New()
	for i, c := range contacts {
		assert.Equal(t, int64(i+1), c.Id)
		for _, field := range model.Fields {
			assert.True(t, c.Has(field), "field %s of contact %d", field, c.Id)
		}
		assert.NoError(t, validate.Var(*c.Dob, "iso_date"))
		assert.NoError(t, validate.Var(*c.Phone, "contact_phone"))
		assert.GreaterOrEqual(t, *c.Dob, "1970-01-01")
		assert.LessOrEqual(t, *c.Dob, "2000-01-01")
	}
}

func TestSameSeedSameContacts(t *testing.T) {
	assert.Equal(t, New(7).Contacts(1, 5), New(7).Contacts(1, 5))
}

func TestPickNames(t *testing.T) {
	assert.NotEmpty(t, PickFirstName())
	assert.NotEmpty(t, PickLastName())
}
