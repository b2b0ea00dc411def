package models

import "strings"

// CategoryType separates income categories from expense categories
type CategoryType string

const (
	CategoryIncome  CategoryType = "income"
	CategoryExpense CategoryType = "expense"
)

// CategoryTag is a stable identifier for categories the ledger treats specially.
// Display names are user-editable, tags are not.
type CategoryTag string

const (
	TagRentPayment     CategoryTag = "rent_payment"
	TagLateFee         CategoryTag = "late_fee"
	TagParking         CategoryTag = "parking"
	TagLaundry         CategoryTag = "laundry"
	TagSecurityDeposit CategoryTag = "security_deposit"
	TagOtherIncome     CategoryTag = "other_income"
	TagRepairs         CategoryTag = "repairs"
	TagUtilities       CategoryTag = "utilities"
	TagTaxes           CategoryTag = "taxes"
	TagMortgage        CategoryTag = "mortgage"
	TagInsurance       CategoryTag = "insurance"
	TagManagement      CategoryTag = "management"
	TagDepositRefund   CategoryTag = "deposit_refund"
	TagLandscaping     CategoryTag = "landscaping"
	TagOtherExpense    CategoryTag = "other_expense"
)

// SecurityDepositName is the display name older snapshots use to mark the deposit category
const SecurityDepositName = "Security Deposit"

// TransactionCategory classifies incomes and expenses
type TransactionCategory struct {
	ID   string       `json:"id"`
	Name string       `json:"name"`
	Type CategoryType `json:"type"`
	Icon string       `json:"icon"`
	Tag  CategoryTag  `json:"tag,omitempty"`
}

// IsSecurityDeposit reports whether payments in this category are deposits rather than rent
func (c *TransactionCategory) IsSecurityDeposit() bool {
	if c.Tag != "" {
		return c.Tag == TagSecurityDeposit
	}
	return strings.EqualFold(strings.TrimSpace(c.Name), SecurityDepositName)
}

type categorySeed struct {
	name string
	typ  CategoryType
	icon string
	tag  CategoryTag
}

var defaultCategories = []categorySeed{
	{"Rent Payment", CategoryIncome, "house", TagRentPayment},
	{"Late Fee", CategoryIncome, "clock", TagLateFee},
	{"Parking", CategoryIncome, "car", TagParking},
	{"Laundry", CategoryIncome, "washer", TagLaundry},
	{SecurityDepositName, CategoryIncome, "lock", TagSecurityDeposit},
	{"Other Income", CategoryIncome, "plus", TagOtherIncome},
	{"Repairs", CategoryExpense, "wrench", TagRepairs},
	{"Utilities", CategoryExpense, "bolt", TagUtilities},
	{"Taxes", CategoryExpense, "receipt", TagTaxes},
	{"Mortgage", CategoryExpense, "bank", TagMortgage},
	{"Insurance", CategoryExpense, "shield", TagInsurance},
	{"Management", CategoryExpense, "briefcase", TagManagement},
	{"Deposit Refund", CategoryExpense, "arrow-uturn", TagDepositRefund},
	{"Landscaping", CategoryExpense, "leaf", TagLandscaping},
	{"Other Expense", CategoryExpense, "minus", TagOtherExpense},
}

// DefaultCategories returns a fresh copy of the seed category set with new IDs
func DefaultCategories() []TransactionCategory {
	out := make([]TransactionCategory, 0, len(defaultCategories))
	for _, s := range defaultCategories {
		out = append(out, TransactionCategory{
			ID:   NewID(),
			Name: s.name,
			Type: s.typ,
			Icon: s.icon,
			Tag:  s.tag,
		})
	}
	return out
}
