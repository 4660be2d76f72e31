package model

// Contact is the data structure for a person in the directory.
// All fields with the exception of the Id field are optional, which lets a partial update tell a
// field that was not sent apart from a field that was sent empty.
type Contact struct {
	Id        int64   `json:"id"                  db:"id"`
	FirstName *string `json:"firstName,omitempty" db:"firstname" validate:"omitempty,max=255"`
	LastName  *string `json:"lastName,omitempty"  db:"lastname"  validate:"omitempty,max=255"`
	Dob       *string `json:"dob,omitempty"       db:"dob"       validate:"omitempty,iso_date"`
	Email     *string `json:"email,omitempty"     db:"email"     validate:"omitempty,contact_email"`
	Phone     *string `json:"phone,omitempty"     db:"phone"     validate:"omitempty,contact_phone"`
	Address   *string `json:"address,omitempty"   db:"address"   validate:"omitempty,max=255"`
	City      *string `json:"city,omitempty"      db:"city"      validate:"omitempty,max=255"`
	State     *string `json:"state,omitempty"     db:"state"     validate:"omitempty,max=255"`
	ZipCode   *string `json:"zipCode,omitempty"   db:"zipcode"   validate:"omitempty,max=32"`
}

// Field names as they appear in JSON and in query parameters.
const (
	FirstName = "firstName"
	LastName  = "lastName"
	Email     = "email"
	Phone     = "phone"
	Dob       = "dob"
	Address   = "address"
	City      = "city"
	State     = "state"
	ZipCode   = "zipCode"
)

// Fields lists every recognized contact field in display order.
var Fields = []string{FirstName, LastName, Email, Phone, Dob, Address, City, State, ZipCode}

// PrimaryFields are always shown in the search panel, SecondaryFields only on demand.
var (
	PrimaryFields   = []string{FirstName, LastName, Email, Phone}
	SecondaryFields = []string{Dob, Address, City, State, ZipCode}
)

// columns maps a field name to its database column.
var columns = map[string]string{
	"id":      "id",
	FirstName: "firstname",
	LastName:  "lastname",
	Email:     "email",
	Phone:     "phone",
	Dob:       "dob",
	Address:   "address",
	City:      "city",
	State:     "state",
	ZipCode:   "zipcode",
}

// Column returns the database column for a field name and whether the field is known. The id
// field is known as well.
func Column(field string) (string, bool) {
	col, ok := columns[field]
	return col, ok
}

// IsField returns true if the name is one of the editable contact fields.
func IsField(field string) bool {
	_, ok := columns[field]
	return ok && field != "id"
}

// ref returns the address of the struct field with the given name, or nil for unknown names.
func (c *Contact) ref(field string) **string {
	switch field {
	case FirstName:
		return &c.FirstName
	case LastName:
		return &c.LastName
	case Email:
		return &c.Email
	case Phone:
		return &c.Phone
	case Dob:
		return &c.Dob
	case Address:
		return &c.Address
	case City:
		return &c.City
	case State:
		return &c.State
	case ZipCode:
		return &c.ZipCode
	}
	return nil
}

// Get returns the value of a field. Absent fields and unknown names yield "".
func (c *Contact) Get(field string) string {
	p := c.ref(field)
	if p == nil || *p == nil {
		return ""
	}
	return **p
}

// Has reports whether a field is present on the contact.
func (c *Contact) Has(field string) bool {
	p := c.ref(field)
	return p != nil && *p != nil
}

// Set assigns a field value. It returns false for unknown field names.
func (c *Contact) Set(field string, value string) bool {
	p := c.ref(field)
	if p == nil {
		return false
	}
	*p = &value
	return true
}

// Merge copies every field that is present on other into c. The id is never touched.
func (c *Contact) Merge(other Contact) {
	for _, field := range Fields {
		if other.Has(field) {
			c.Set(field, other.Get(field))
		}
	}
}

// Clone returns a deep copy of the contact.
func (c Contact) Clone() Contact {
	clone := Contact{Id: c.Id}
	clone.Merge(c)
	return clone
}

// Diff returns a contact that carries the id of c and only those fields of changed whose value
// differs from c.
func (c Contact) Diff(changed Contact) Contact {
	patch := Contact{Id: c.Id}
	for _, field := range Fields {
		if changed.Has(field) && (!c.Has(field) || c.Get(field) != changed.Get(field)) {
			patch.Set(field, changed.Get(field))
		}
	}
	return patch
}

// IsEmpty reports whether no field apart from the id is present.
func (c Contact) IsEmpty() bool {
	for _, field := range Fields {
		if c.Has(field) {
			return false
		}
	}
	return true
}

// StringPtr returns a pointer to s.
func StringPtr(s string) *string {
	return &s
}
