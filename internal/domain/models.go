package domain

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// Role of a user account
type Role string

const (
	RoleCustomer   Role = "customer"
	RoleAdmin      Role = "admin"
	RolePharmacist Role = "pharmacist"
)

// IsStaff reports whether the role may verify prescriptions and answer consultations
func (r Role) IsStaff() bool {
	return r == RoleAdmin || r == RolePharmacist
}

func (r Role) Valid() bool {
	return r == RoleCustomer || r.IsStaff()
}

// User is an account of a customer or a member of pharmacy staff
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:100;not null" json:"name"`
	Email     string    `gorm:"size:100;uniqueIndex;not null" json:"email"`
	Password  string    `gorm:"size:255;not null" json:"-"`
	Phone     string    `gorm:"size:20;not null" json:"phone"`
	Address   string    `gorm:"type:text" json:"address,omitempty"`
	Role      Role      `gorm:"size:20;not null;index" json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Medicine is a catalog entry
type Medicine struct {
	ID                   uint      `gorm:"primaryKey" json:"id"`
	Name                 string    `gorm:"size:200;not null;index" json:"name"`
	NameLower            string    `gorm:"size:200;index" json:"-"`
	Description          string    `gorm:"type:text" json:"description"`
	Price                float64   `gorm:"not null" json:"price"`
	Category             string    `gorm:"size:50;index" json:"category"`
	Manufacturer         string    `gorm:"size:100" json:"manufacturer"`
	Stock                int64     `gorm:"not null" json:"stock"`
	RequiresPrescription bool      `gorm:"not null" json:"requires_prescription"`
	ImageURL             string    `gorm:"size:500" json:"image_url"`
	IsFeatured           bool      `gorm:"not null;index" json:"is_featured"`
	CreatedAt            time.Time `json:"created_at"`
}

// SearchKey folds a medicine name or a search term for case-insensitive matching
func SearchKey(s string) string { return strings.ToLower(s) }

// BeforeSave keeps NameLower in step with Name on struct saves
func (m *Medicine) BeforeSave(*gorm.DB) error {
	m.NameLower = SearchKey(m.Name)
	return nil
}

// PrescriptionStatus тип статуса рецепта
type PrescriptionStatus string

const (
	PrescriptionPending    PrescriptionStatus = "pending"
	PrescriptionVerified   PrescriptionStatus = "verified"
	PrescriptionRejected   PrescriptionStatus = "rejected"
	PrescriptionProcessing PrescriptionStatus = "processing"
)

func (s PrescriptionStatus) Valid() bool {
	switch s {
	case PrescriptionPending, PrescriptionVerified, PrescriptionRejected, PrescriptionProcessing:
		return true
	}
	return false
}

// PrescriptionMedicine links a prescription to a prescribed medicine and quantity
type PrescriptionMedicine struct {
	PrescriptionID uint      `gorm:"primaryKey" json:"prescription_id"`
	MedicineID     uint      `gorm:"primaryKey" json:"medicine_id"`
	Quantity       int64     `gorm:"not null;default:1" json:"quantity"`
	Medicine       *Medicine `gorm:"foreignKey:MedicineID" json:"medicine,omitempty"`
}

// Prescription is an uploaded prescription image awaiting or past staff review
type Prescription struct {
	ID                uint                   `gorm:"primaryKey" json:"id"`
	UserID            uint                   `gorm:"not null;index" json:"user_id"`
	ImageURL          string                 `gorm:"size:500;not null" json:"image_url"`
	Status            PrescriptionStatus     `gorm:"size:20;not null" json:"status"`
	VerifiedBy        *uint                  `json:"verified_by"`
	VerificationNotes string                 `gorm:"type:text" json:"verification_notes"`
	Medicines         []PrescriptionMedicine `gorm:"foreignKey:PrescriptionID" json:"medicines"`
	CreatedAt         time.Time              `json:"created_at"`
	UpdatedAt         time.Time              `json:"updated_at"`
}

// OrderStatus тип статуса заказа
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusConfirmed  OrderStatus = "confirmed"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusProcessing,
		OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

type PaymentStatus string

const (
	PaymentPending PaymentStatus = "pending"
	PaymentPaid    PaymentStatus = "paid"
	PaymentFailed  PaymentStatus = "failed"
)

func (s PaymentStatus) Valid() bool {
	return s == PaymentPending || s == PaymentPaid || s == PaymentFailed
}

// OrderItem позиция в заказе. Price is the unit price at the moment the order was placed.
type OrderItem struct {
	ID         uint    `gorm:"primaryKey" json:"id"`
	OrderID    uint    `gorm:"not null;index" json:"order_id"`
	MedicineID uint    `gorm:"not null;index" json:"medicine_id"`
	Quantity   int64   `gorm:"not null" json:"quantity"`
	Price      float64 `gorm:"not null" json:"price"`
}

// Order сущность заказа
type Order struct {
	ID              uint          `gorm:"primaryKey" json:"id"`
	UserID          uint          `gorm:"not null;index" json:"user_id"`
	PrescriptionID  *uint         `json:"prescription_id"`
	TotalAmount     float64       `gorm:"not null" json:"total_amount"`
	Status          OrderStatus   `gorm:"size:20;not null" json:"status"`
	ShippingAddress string        `gorm:"type:text" json:"shipping_address"`
	PaymentStatus   PaymentStatus `gorm:"size:20;not null" json:"payment_status"`
	Items           []OrderItem   `gorm:"foreignKey:OrderID" json:"items"`
	CreatedAt       time.Time     `json:"created_at"`
	UpdatedAt       time.Time     `json:"updated_at"`
}

type ConsultationStatus string

const (
	ConsultationPending  ConsultationStatus = "pending"
	ConsultationAnswered ConsultationStatus = "answered"
	ConsultationClosed   ConsultationStatus = "closed"
)

const DefaultConsultationCategory = "general"

// Consultation is a customer question answered by staff
type Consultation struct {
	ID           uint               `gorm:"primaryKey" json:"id"`
	UserID       uint               `gorm:"not null;index" json:"user_id"`
	PharmacistID *uint              `json:"pharmacist_id"`
	Question     string             `gorm:"type:text;not null" json:"question"`
	Response     string             `gorm:"type:text" json:"response"`
	Status       ConsultationStatus `gorm:"size:20;not null" json:"status"`
	Category     string             `gorm:"size:50;not null" json:"category"`
	CreatedAt    time.Time          `json:"created_at"`
	UpdatedAt    time.Time          `json:"updated_at"`
}
