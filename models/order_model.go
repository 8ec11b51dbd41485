package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Stage is one step of the five-step order wizard. Forward progress is
// gated per stage; backward navigation is always allowed.
type Stage int

const (
	StageConfirm Stage = iota + 1
	StagePosition
	StageGarment
	StageShipping
	StagePayment
	// StageSubmitted is the terminal state reached after the backend
	// accepted the order. It is distinct from StagePayment.
	StageSubmitted
)

func (s Stage) String() string {
	switch s {
	case StageConfirm:
		return "confirm"
	case StagePosition:
		return "position"
	case StageGarment:
		return "garment"
	case StageShipping:
		return "shipping"
	case StagePayment:
		return "payment"
	case StageSubmitted:
		return "submitted"
	default:
		return "unknown"
	}
}

// Placement is the artwork's position and scale on the t-shirt.
// X and Y are percentages of the print area, Scale a percentage of its width.
type Placement struct {
	Anchor string  `json:"anchor" bson:"anchor"`
	X      float64 `json:"x" bson:"x"`
	Y      float64 `json:"y" bson:"y"`
	Scale  float64 `json:"scale" bson:"scale"`
}

// PriceBreakdown itemizes the order total. Every component is rounded to
// two decimals for display; Total is rounded from the unrounded sum.
type PriceBreakdown struct {
	BasePrice     float64 `json:"basePrice" bson:"basePrice"`
	PrintingPrice float64 `json:"printingPrice" bson:"printingPrice"`
	CourierCharge float64 `json:"courierCharge" bson:"courierCharge"`
	Subtotal      float64 `json:"subtotal" bson:"subtotal"`
	Profit        float64 `json:"profit" bson:"profit"`
	GST           float64 `json:"gst" bson:"gst"`
	Total         float64 `json:"total" bson:"total"`
}

// Customer holds the shipping details collected on stage four.
type Customer struct {
	Name         string `json:"name" bson:"name"`
	Email        string `json:"email" bson:"email"`
	MobileNumber string `json:"mobileNumber" bson:"mobileNumber"`
	Address1     string `json:"address1" bson:"address1"`
	Address2     string `json:"address2,omitempty" bson:"address2,omitempty"`
	Address3     string `json:"address3,omitempty" bson:"address3,omitempty"`
	Pincode      string `json:"pincode" bson:"pincode"`
	City         string `json:"city" bson:"city"`
	State        string `json:"state" bson:"state"`
	Country      string `json:"country" bson:"country"`
}

// OrderDraft is the order-in-progress, one per user, mutated only by the
// wizard transitions and discarded on successful submission.
type OrderDraft struct {
	ID               primitive.ObjectID `json:"id" bson:"_id"`
	UserID           primitive.ObjectID `json:"userId" bson:"userId"`
	Stage            Stage              `json:"stage" bson:"stage"`
	ArtworkRef       string             `json:"artworkRef,omitempty" bson:"artworkRef,omitempty"`
	Placement        Placement          `json:"placement" bson:"placement"`
	TshirtColor      string             `json:"tshirtColor,omitempty" bson:"tshirtColor,omitempty"`
	TshirtSize       string             `json:"tshirtSize,omitempty" bson:"tshirtSize,omitempty"`
	Customer         Customer           `json:"customer" bson:"customer"`
	Price            *PriceBreakdown    `json:"price,omitempty" bson:"price,omitempty"`
	PaymentConfirmed bool               `json:"paymentConfirmed" bson:"paymentConfirmed"`
	RazorpayID       string             `json:"razorpayId,omitempty" bson:"razorpayId,omitempty"`
	PaymentID        string             `json:"paymentId,omitempty" bson:"paymentId,omitempty"`
	CreatedAt        time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt        time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// Order is the persisted record of a successfully submitted order.
type Order struct {
	ID           primitive.ObjectID     `json:"id" bson:"_id"`
	UserID       primitive.ObjectID     `json:"userId" bson:"userId"`
	ArtworkRef   string                 `json:"artworkRef" bson:"artworkRef"`
	Placement    Placement              `json:"placement" bson:"placement"`
	TshirtColor  string                 `json:"tshirtColor" bson:"tshirtColor"`
	TshirtSize   string                 `json:"tshirtSize" bson:"tshirtSize"`
	Customer     Customer               `json:"customer" bson:"customer"`
	Price        PriceBreakdown         `json:"price" bson:"price"`
	FileResponse map[string]interface{} `json:"fileResponse" bson:"fileResponse"`
	Status       string                 `json:"status" bson:"status"` // processing, shipped, delivered, cancelled
	PaymentID    string                 `json:"paymentId,omitempty" bson:"paymentId,omitempty"`
	CreatedAt    time.Time              `json:"createdAt" bson:"createdAt"`
}
