// Package entity holds the schema registry the generic CRUD facade is
// instantiated over: one Schema per business entity instead of one
// hand-written screen per entity.
package entity

import "fmt"

type Kind string

const (
	KindUsers          Kind = "users"
	KindRoles          Kind = "roles"
	KindReservations   Kind = "reservations"
	KindCustomers      Kind = "customers"
	KindSuppliers      Kind = "suppliers"
	KindHotelContracts Kind = "hotel-contracts"
	KindBags           Kind = "bags"
	KindTransfers      Kind = "transfers"
	KindItineraries    Kind = "itineraries"
	KindGuideSchedules Kind = "guide-schedules"
)

type FieldType string

const (
	FieldString FieldType = "string"
	FieldNumber FieldType = "number"
	FieldBool   FieldType = "bool"
	FieldDate   FieldType = "date"
)

type Field struct {
	Name       string
	Type       FieldType
	Required   bool
	MaxLength  int
	Searchable bool
	Export     bool
	// Unique fields are checked against the local cache before a create
	// reaches the backend (e.g. duplicate usernames).
	Unique bool
}

type Schema struct {
	Kind    Kind
	Title   string
	Path    string
	Submenu string
	Fields  []Field
}

func (s Schema) Field(name string) (Field, bool) {
	for _, f := range s.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

func (s Schema) SearchableFields() []string {
	var names []string
	for _, f := range s.Fields {
		if f.Searchable {
			names = append(names, f.Name)
		}
	}
	return names
}

func (s Schema) ExportFields() []string {
	var names []string
	for _, f := range s.Fields {
		if f.Export {
			names = append(names, f.Name)
		}
	}
	return names
}

var registry = map[Kind]Schema{
	KindUsers: {
		Kind:    KindUsers,
		Title:   "Users",
		Path:    "/users",
		Submenu: "administration",
		Fields: []Field{
			{Name: "username", Type: FieldString, Required: true, MaxLength: 64, Searchable: true, Export: true, Unique: true},
			{Name: "fullName", Type: FieldString, Required: true, MaxLength: 128, Searchable: true, Export: true},
			{Name: "email", Type: FieldString, MaxLength: 254, Searchable: true, Export: true},
			{Name: "branch", Type: FieldString, MaxLength: 64, Export: true},
			{Name: "department", Type: FieldString, MaxLength: 64, Export: true},
			{Name: "role", Type: FieldString, Required: true, MaxLength: 64, Export: true},
			{Name: "active", Type: FieldBool},
		},
	},
	KindRoles: {
		Kind:    KindRoles,
		Title:   "Roles",
		Path:    "/roles",
		Submenu: "administration",
		Fields: []Field{
			{Name: "name", Type: FieldString, Required: true, MaxLength: 64, Searchable: true, Export: true, Unique: true},
			{Name: "description", Type: FieldString, MaxLength: 256, Searchable: true, Export: true},
		},
	},
	KindReservations: {
		Kind:    KindReservations,
		Title:   "Reservations",
		Path:    "/reservations",
		Submenu: "operations",
		Fields: []Field{
			{Name: "reference", Type: FieldString, Required: true, MaxLength: 32, Searchable: true, Export: true, Unique: true},
			{Name: "clientName", Type: FieldString, Required: true, MaxLength: 128, Searchable: true, Export: true},
			{Name: "destination", Type: FieldString, Required: true, MaxLength: 128, Searchable: true, Export: true},
			{Name: "hotel", Type: FieldString, MaxLength: 128, Searchable: true, Export: true},
			{Name: "checkIn", Type: FieldDate, Required: true, Export: true},
			{Name: "checkOut", Type: FieldDate, Required: true, Export: true},
			{Name: "pax", Type: FieldNumber, Export: true},
			{Name: "totalPrice", Type: FieldNumber, Export: true},
			{Name: "paid", Type: FieldBool, Export: true},
			{Name: "status", Type: FieldString, MaxLength: 32, Searchable: true, Export: true},
		},
	},
	KindCustomers: {
		Kind:    KindCustomers,
		Title:   "Customers",
		Path:    "/customers",
		Submenu: "sales",
		Fields: []Field{
			{Name: "name", Type: FieldString, Required: true, MaxLength: 128, Searchable: true, Export: true},
			{Name: "phone", Type: FieldString, MaxLength: 32, Searchable: true, Export: true},
			{Name: "email", Type: FieldString, MaxLength: 254, Searchable: true, Export: true},
			{Name: "nationality", Type: FieldString, MaxLength: 64, Export: true},
			{Name: "passportNo", Type: FieldString, MaxLength: 32, Export: true},
		},
	},
	KindSuppliers: {
		Kind:    KindSuppliers,
		Title:   "Suppliers",
		Path:    "/suppliers",
		Submenu: "contracting",
		Fields: []Field{
			{Name: "name", Type: FieldString, Required: true, MaxLength: 128, Searchable: true, Export: true},
			{Name: "serviceType", Type: FieldString, Required: true, MaxLength: 64, Searchable: true, Export: true},
			{Name: "city", Type: FieldString, MaxLength: 64, Searchable: true, Export: true},
			{Name: "contactPhone", Type: FieldString, MaxLength: 32, Export: true},
			{Name: "balance", Type: FieldNumber, Export: true},
		},
	},
	KindHotelContracts: {
		Kind:    KindHotelContracts,
		Title:   "Hotel Contracts",
		Path:    "/hotel-contracts",
		Submenu: "contracting",
		Fields: []Field{
			{Name: "hotelName", Type: FieldString, Required: true, MaxLength: 128, Searchable: true, Export: true},
			{Name: "city", Type: FieldString, MaxLength: 64, Searchable: true, Export: true},
			{Name: "roomType", Type: FieldString, MaxLength: 64, Export: true},
			{Name: "startDate", Type: FieldDate, Required: true, Export: true},
			{Name: "endDate", Type: FieldDate, Required: true, Export: true},
			{Name: "nightlyRate", Type: FieldNumber, Export: true},
			{Name: "allotment", Type: FieldNumber, Export: true},
		},
	},
	KindBags: {
		Kind:    KindBags,
		Title:   "Bags",
		Path:    "/bags",
		Submenu: "logistics",
		Fields: []Field{
			{Name: "tag", Type: FieldString, Required: true, MaxLength: 32, Searchable: true, Export: true, Unique: true},
			{Name: "reservationRef", Type: FieldString, MaxLength: 32, Searchable: true, Export: true},
			{Name: "weightKg", Type: FieldNumber, Export: true},
			{Name: "status", Type: FieldString, MaxLength: 32, Searchable: true, Export: true},
		},
	},
	KindTransfers: {
		Kind:    KindTransfers,
		Title:   "Airport Transfers",
		Path:    "/transfers",
		Submenu: "logistics",
		Fields: []Field{
			{Name: "reservationRef", Type: FieldString, Required: true, MaxLength: 32, Searchable: true, Export: true},
			{Name: "flightNo", Type: FieldString, MaxLength: 16, Searchable: true, Export: true},
			{Name: "direction", Type: FieldString, Required: true, MaxLength: 16, Export: true},
			{Name: "pickupTime", Type: FieldDate, Required: true, Export: true},
			{Name: "vehicle", Type: FieldString, MaxLength: 64, Export: true},
			{Name: "driverName", Type: FieldString, MaxLength: 128, Searchable: true, Export: true},
		},
	},
	KindItineraries: {
		Kind:    KindItineraries,
		Title:   "Itineraries",
		Path:    "/itineraries",
		Submenu: "operations",
		Fields: []Field{
			{Name: "reservationRef", Type: FieldString, Required: true, MaxLength: 32, Searchable: true, Export: true},
			{Name: "day", Type: FieldNumber, Required: true, Export: true},
			{Name: "title", Type: FieldString, Required: true, MaxLength: 128, Searchable: true, Export: true},
			{Name: "description", Type: FieldString, MaxLength: 1024, Export: true},
		},
	},
	KindGuideSchedules: {
		Kind:    KindGuideSchedules,
		Title:   "Tour Guide Schedules",
		Path:    "/guide-schedules",
		Submenu: "operations",
		Fields: []Field{
			{Name: "guideName", Type: FieldString, Required: true, MaxLength: 128, Searchable: true, Export: true},
			{Name: "date", Type: FieldDate, Required: true, Export: true},
			{Name: "reservationRef", Type: FieldString, MaxLength: 32, Searchable: true, Export: true},
			{Name: "language", Type: FieldString, MaxLength: 32, Export: true},
		},
	},
}

func Get(kind Kind) (Schema, error) {
	s, ok := registry[kind]
	if !ok {
		return Schema{}, fmt.Errorf("unknown entity kind %q", kind)
	}
	return s, nil
}

// All returns every registered schema in a stable order.
func All() []Schema {
	kinds := []Kind{
		KindUsers, KindRoles, KindReservations, KindCustomers, KindSuppliers,
		KindHotelContracts, KindBags, KindTransfers, KindItineraries, KindGuideSchedules,
	}
	schemas := make([]Schema, 0, len(kinds))
	for _, k := range kinds {
		schemas = append(schemas, registry[k])
	}
	return schemas
}
