package models

const (
	AccountTypeAsset     = "Asset"
	AccountTypeLiability = "Liability"
	AccountTypeEquity    = "Equity"
	AccountTypeIncome    = "Income"
	AccountTypeExpense   = "Expense"
)

const (
	ValidCCAll     = "All"
	ValidCCLocal   = "Local"
	ValidCCForeign = "Foreign"
)

// Account is a node of the chart of accounts. Its place in a hierarchy is
// stored separately in AccountHierarchyDetail.
type Account struct {
	LedgerNumber         int    `json:"ledgerNumber" gorm:"primaryKey;autoIncrement:false"`
	AccountCode          string `json:"accountCode" gorm:"primaryKey;type:varchar(16)"`
	AccountType          string `json:"accountType" gorm:"type:varchar(16);not null"`
	DebitCreditIndicator bool   `json:"debitCreditIndicator" gorm:"not null"`
	AccountActiveFlag    bool   `json:"accountActiveFlag" gorm:"not null"`
	PostingStatus        bool   `json:"postingStatus" gorm:"not null"`
	ForeignCurrencyFlag  bool   `json:"foreignCurrencyFlag" gorm:"not null"`
	ForeignCurrencyCode  string `json:"foreignCurrencyCode" gorm:"type:varchar(8)"`
	ShortDesc            string `json:"shortDesc" gorm:"type:varchar(255)"`
	LongDesc             string `json:"longDesc" gorm:"type:varchar(255)"`
	LocalShortDesc       string `json:"localShortDesc" gorm:"type:varchar(255)"`
	LocalLongDesc        string `json:"localLongDesc" gorm:"type:varchar(255)"`
	ValidCCCombo         string `json:"validCcCombo" gorm:"column:valid_cc_combo;type:varchar(8)"`
	SystemAccountFlag    bool   `json:"systemAccountFlag" gorm:"not null"`
	ModificationID       string `json:"modificationId" gorm:"column:modification_id;type:varchar(36)"`
}

func (Account) TableName() string { return "a_account" }

// PropertyBankAccount marks an account as a bank account.
const PropertyBankAccount = "BANK ACCOUNT"

type AccountProperty struct {
	LedgerNumber  int    `json:"ledgerNumber" gorm:"primaryKey;autoIncrement:false"`
	AccountCode   string `json:"accountCode" gorm:"primaryKey;type:varchar(16)"`
	PropertyCode  string `json:"propertyCode" gorm:"primaryKey;type:varchar(32)"`
	PropertyValue string `json:"propertyValue" gorm:"type:varchar(255)"`
}

func (AccountProperty) TableName() string { return "a_account_property" }

type SuspenseAccount struct {
	LedgerNumber        int    `json:"ledgerNumber" gorm:"primaryKey;autoIncrement:false"`
	SuspenseAccountCode string `json:"suspenseAccountCode" gorm:"primaryKey;type:varchar(16)"`
}

func (SuspenseAccount) TableName() string { return "a_suspense_account" }
