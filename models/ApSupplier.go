package models

import "github.com/shopspring/decimal"

// ApSupplier holds supplier defaults. It is shared by all ledgers, so it has
// no ledger number.
type ApSupplier struct {
	PartnerKey         int64  `json:"partnerKey" gorm:"primaryKey;autoIncrement:false"`
	CurrencyCode       string `json:"currencyCode" gorm:"type:varchar(8)"`
	DefaultExpAccount  string `json:"defaultExpAccount" gorm:"type:varchar(16)"`
	DefaultApAccount   string `json:"defaultApAccount" gorm:"type:varchar(16)"`
	DefaultBankAccount string `json:"defaultBankAccount" gorm:"type:varchar(16)"`
	DefaultCostCentre  string `json:"defaultCostCentre" gorm:"type:varchar(16)"`
}

func (ApSupplier) TableName() string { return "a_ap_supplier" }

type ApDocumentDetail struct {
	LedgerNumber   int             `json:"ledgerNumber" gorm:"primaryKey;autoIncrement:false"`
	ApDocumentID   int             `json:"apDocumentId" gorm:"column:ap_document_id;primaryKey;autoIncrement:false"`
	DetailNumber   int             `json:"detailNumber" gorm:"primaryKey;autoIncrement:false"`
	AccountCode    string          `json:"accountCode" gorm:"type:varchar(16)"`
	CostCentreCode string          `json:"costCentreCode" gorm:"type:varchar(16)"`
	Amount         decimal.Decimal `json:"amount" gorm:"type:decimal(18,2);not null"`
	Narrative      string          `json:"narrative" gorm:"type:varchar(255)"`
}

func (ApDocumentDetail) TableName() string { return "a_ap_document_detail" }
