package store

import "time"

// StatementKind declares how a statement encodes spending and therefore
// which sign-normalization rule the parser applies.
type StatementKind string

const (
	KindCreditCard  StatementKind = "credit_card"
	KindBankAccount StatementKind = "bank_account"
)

// User is identified by its (first, last) name pair.
type User struct {
	ID        uint   `gorm:"primaryKey"`
	FirstName string `gorm:"size:64;not null;index:idx_user_name"`
	LastName  string `gorm:"size:64;not null;index:idx_user_name"`
	CreatedAt time.Time

	Statements   []Statement   `gorm:"constraint:OnDelete:CASCADE"`
	Transactions []Transaction `gorm:"constraint:OnDelete:CASCADE"`
	Labels       []Label       `gorm:"constraint:OnDelete:CASCADE"`
	Comments     []Comment     `gorm:"constraint:OnDelete:CASCADE"`
}

// Statement is one uploaded document. Currency and AccountLast4 stay nil
// when page 1 carried neither.
type Statement struct {
	ID           uint          `gorm:"primaryKey"`
	Kind         StatementKind `gorm:"size:16;not null"`
	SourceName   string        `gorm:"size:255"`
	PageCount    int
	RawText      string
	Currency     *string `gorm:"size:8"`
	AccountLast4 *string `gorm:"size:4"`
	UserID       uint    `gorm:"index;not null"`
	CreatedAt    time.Time

	Transactions []Transaction `gorm:"constraint:OnDelete:CASCADE"`
}

// Label is the (category, place) pair shared by every transaction of a user
// whose cleaned description matches. Category is stored as text because the
// heuristic rules emit values outside the classifier's closed enumeration.
type Label struct {
	ID       uint    `gorm:"primaryKey"`
	Category string  `gorm:"size:32;not null"`
	Place    *string `gorm:"size:255"`
	UserID   uint    `gorm:"index;not null"`
}

// Transaction is one parsed line item. LabelID is nil until classified.
type Transaction struct {
	ID          uint      `gorm:"primaryKey"`
	Date        time.Time `gorm:"index;not null"`
	Description string    `gorm:"size:255;not null;index"`
	Amount      float64   `gorm:"not null"`
	UserID      uint      `gorm:"index;not null"`
	StatementID uint      `gorm:"index;not null"`
	LabelID     *uint     `gorm:"index"`

	Label *Label
}

// Comment is a free-text reflection, independent of the pipeline.
type Comment struct {
	ID     uint      `gorm:"primaryKey"`
	Title  string    `gorm:"size:255"`
	Date   time.Time `gorm:"not null"`
	Body   string
	UserID uint `gorm:"index;not null"`
}

// TransactionRow is the tabular view of a transaction joined with its label
// and statement metadata, as shown to the user for validation. The
// correction path diffs two slices of these rows.
type TransactionRow struct {
	TransactionID uint
	Date          time.Time
	Description   string
	Amount        float64
	Category      string
	Place         *string
	Kind          StatementKind
	Currency      *string
	AccountLast4  *string
}
