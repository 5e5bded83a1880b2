package models

// DefaultHierarchy is the hierarchy every ledger is created with.
const DefaultHierarchy = "STANDARD"

type AccountHierarchy struct {
	LedgerNumber         int    `json:"ledgerNumber" gorm:"primaryKey;autoIncrement:false"`
	AccountHierarchyCode string `json:"accountHierarchyCode" gorm:"primaryKey;type:varchar(16)"`
	RootAccountCode      string `json:"rootAccountCode" gorm:"type:varchar(16);not null"`
}

func (AccountHierarchy) TableName() string { return "a_account_hierarchy" }

// AccountHierarchyDetail is one parent/child edge of a named hierarchy.
type AccountHierarchyDetail struct {
	LedgerNumber          int    `json:"ledgerNumber" gorm:"primaryKey;autoIncrement:false"`
	AccountHierarchyCode  string `json:"accountHierarchyCode" gorm:"primaryKey;type:varchar(16)"`
	ReportingAccountCode  string `json:"reportingAccountCode" gorm:"primaryKey;type:varchar(16)"`
	AccountCodeToReportTo string `json:"accountCodeToReportTo" gorm:"type:varchar(16);not null;index"`
	ReportOrder           int    `json:"reportOrder" gorm:"not null"`
}

func (AccountHierarchyDetail) TableName() string { return "a_account_hierarchy_detail" }
