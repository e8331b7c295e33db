package domain

// CategoryKind restricts which transaction types a category can classify.
type CategoryKind string

const (
	CategoryIncome  CategoryKind = "income"
	CategoryExpense CategoryKind = "expense"
)

// Category classifies income and expense transactions. Owned by one user.
type Category struct {
	CategoryID string       `json:"categoryID" db:"category_id"`
	UserID     string       `json:"userID" db:"user_id"`
	Name       string       `json:"name" db:"name"`
	Kind       CategoryKind `json:"kind" db:"kind"`
	IsActive   bool         `json:"isActive" db:"is_active"`
	AuditFields
}
