package models

// Ledger is one set of books. Account codes referenced from here are
// renamed together with the account.
type Ledger struct {
	LedgerNumber            int    `json:"ledgerNumber" gorm:"primaryKey;autoIncrement:false"`
	LedgerName              string `json:"ledgerName" gorm:"type:varchar(255);not null"`
	BaseCurrency            string `json:"baseCurrency" gorm:"type:varchar(8);not null"`
	ForexGainsLossesAccount string `json:"forexGainsLossesAccount" gorm:"type:varchar(16)"`
	RetEarningsAccount      string `json:"retEarningsAccount" gorm:"type:varchar(16)"`
	ModificationID          string `json:"modificationId" gorm:"column:modification_id;type:varchar(36)"`
}

func (Ledger) TableName() string { return "a_ledger" }
