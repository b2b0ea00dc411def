package models

// AppData is the full dataset, the unit of local and remote persistence
type AppData struct {
	Properties            []Property            `json:"properties"`
	Tenants               []Tenant              `json:"tenants"`
	Incomes               []Income              `json:"incomes"`
	Expenses              []Expense             `json:"expenses"`
	TransactionCategories []TransactionCategory `json:"transactionCategories"`
	MaintenanceRequests   []MaintenanceRequest  `json:"maintenanceRequests"`
	Appointments          []Appointment         `json:"appointments"`
}

// NewAppData returns an empty dataset with non-nil collections
func NewAppData() *AppData {
	d := &AppData{}
	d.Normalize()
	return d
}

// NewSeededAppData returns an empty dataset holding the default categories
func NewSeededAppData() *AppData {
	d := NewAppData()
	d.TransactionCategories = DefaultCategories()
	return d
}

// Normalize replaces nil collections with empty ones so they encode as [] instead of null
func (d *AppData) Normalize() {
	if d.Properties == nil {
		d.Properties = []Property{}
	}
	if d.Tenants == nil {
		d.Tenants = []Tenant{}
	}
	if d.Incomes == nil {
		d.Incomes = []Income{}
	}
	if d.Expenses == nil {
		d.Expenses = []Expense{}
	}
	if d.TransactionCategories == nil {
		d.TransactionCategories = []TransactionCategory{}
	}
	if d.MaintenanceRequests == nil {
		d.MaintenanceRequests = []MaintenanceRequest{}
	}
	if d.Appointments == nil {
		d.Appointments = []Appointment{}
	}
	for i := range d.Properties {
		if d.Properties[i].Deadlines == nil {
			d.Properties[i].Deadlines = []Deadline{}
		}
	}
}

// SeedCategories installs the default categories when none exist.
// It reports whether seeding happened.
func (d *AppData) SeedCategories() bool {
	if len(d.TransactionCategories) > 0 {
		return false
	}
	d.TransactionCategories = DefaultCategories()
	return true
}

// IsEmpty reports whether the dataset holds no user-entered records.
// Categories are not counted since every dataset is seeded with them.
func (d *AppData) IsEmpty() bool {
	return len(d.Properties) == 0 && len(d.Tenants) == 0 && len(d.Incomes) == 0 &&
		len(d.Expenses) == 0 && len(d.MaintenanceRequests) == 0 && len(d.Appointments) == 0
}

// Clone returns a deep copy that shares no slices with d
func (d *AppData) Clone() *AppData {
	c := &AppData{
		Properties:            append([]Property(nil), d.Properties...),
		Tenants:               append([]Tenant(nil), d.Tenants...),
		Incomes:               append([]Income(nil), d.Incomes...),
		Expenses:              append([]Expense(nil), d.Expenses...),
		TransactionCategories: append([]TransactionCategory(nil), d.TransactionCategories...),
		MaintenanceRequests:   append([]MaintenanceRequest(nil), d.MaintenanceRequests...),
		Appointments:          append([]Appointment(nil), d.Appointments...),
	}
	for i := range c.Properties {
		c.Properties[i].Deadlines = append([]Deadline(nil), c.Properties[i].Deadlines...)
	}
	c.Normalize()
	return c
}

// Property looks up a property by ID
func (d *AppData) Property(id string) (*Property, bool) {
	if id == "" {
		return nil, false
	}
	for i := range d.Properties {
		if d.Properties[i].ID == id {
			return &d.Properties[i], true
		}
	}
	return nil, false
}

// Tenant looks up a tenant by ID
func (d *AppData) Tenant(id string) (*Tenant, bool) {
	if id == "" {
		return nil, false
	}
	for i := range d.Tenants {
		if d.Tenants[i].ID == id {
			return &d.Tenants[i], true
		}
	}
	return nil, false
}

// Category looks up a transaction category by ID
func (d *AppData) Category(id string) (*TransactionCategory, bool) {
	if id == "" {
		return nil, false
	}
	for i := range d.TransactionCategories {
		if d.TransactionCategories[i].ID == id {
			return &d.TransactionCategories[i], true
		}
	}
	return nil, false
}

// DepositCategory returns the category marking security deposit payments, if any
func (d *AppData) DepositCategory() (*TransactionCategory, bool) {
	for i := range d.TransactionCategories {
		if d.TransactionCategories[i].IsSecurityDeposit() {
			return &d.TransactionCategories[i], true
		}
	}
	return nil, false
}
