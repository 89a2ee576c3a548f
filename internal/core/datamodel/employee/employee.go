package employee

import "time"

type Employee struct {
	ID         int64      `gorm:"primaryKey"`
	CompanyID  int64      `gorm:"column:company_id;not null;uniqueIndex:idx_employees_company_email"`
	Name       string     `gorm:"column:name;not null"`
	Email      string     `gorm:"column:email;not null;uniqueIndex:idx_employees_company_email"`
	Role       string     `gorm:"column:role"`
	Department string     `gorm:"column:department"`
	Documents  []Document `gorm:"foreignKey:EmployeeID;constraint:OnDelete:CASCADE"`
	Cards      []Card     `gorm:"foreignKey:EmployeeID;constraint:OnDelete:CASCADE"`
	CreatedAt  time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

func (Employee) TableName() string {
	return "employees"
}

type Document struct {
	ID             int64     `gorm:"primaryKey"`
	EmployeeID     int64     `gorm:"column:employee_id;index;not null"`
	Type           string    `gorm:"column:type;not null"`
	Number         string    `gorm:"column:number;not null"`
	ExpirationDate time.Time `gorm:"column:expiration_date;type:date;not null"`
	CreatedAt      time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (Document) TableName() string {
	return "employee_documents"
}

type Card struct {
	ID         int64     `gorm:"primaryKey"`
	EmployeeID int64     `gorm:"column:employee_id;index;not null"`
	Last4      string    `gorm:"column:last4;not null"`
	Holder     string    `gorm:"column:holder"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (Card) TableName() string {
	return "employee_cards"
}
