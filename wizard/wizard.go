package wizard

import (
	"errors"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"tweeshirt-backend/models"
	"tweeshirt-backend/placement"
	"tweeshirt-backend/pricing"
)

// Stage-scoped validation failures. Every one of these blocks the
// transition and leaves the draft on its current stage; none of them is a
// network failure.
var (
	ErrStageMismatch       = errors.New("action does not match the current stage")
	ErrArtworkMissing      = errors.New("no design has been confirmed")
	ErrGarmentIncomplete   = errors.New("t-shirt color and size are required")
	ErrCustomerIncomplete  = errors.New("all required shipping details must be filled in")
	ErrPricingUnavailable  = errors.New("order price has not been computed")
	ErrPaymentNotConfirmed = errors.New("payment has not been confirmed")
	ErrAlreadySubmitted    = errors.New("order has already been submitted")
)

// NewDraft creates an empty draft on the Confirm stage with the default
// centered placement.
func NewDraft(userID primitive.ObjectID) models.OrderDraft {
	now := time.Now()
	return models.OrderDraft{
		ID:        primitive.NewObjectID(),
		UserID:    userID,
		Stage:     models.StageConfirm,
		Placement: placement.Default(),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// ConfirmDesign stores the artwork reference and advances Confirm → Position.
func ConfirmDesign(d models.OrderDraft, artworkRef string) (models.OrderDraft, error) {
	if d.Stage != models.StageConfirm {
		return d, stageErr(d)
	}
	if strings.TrimSpace(artworkRef) == "" {
		return d, ErrArtworkMissing
	}
	d.ArtworkRef = artworkRef
	d.Stage = models.StagePosition
	return touch(d), nil
}

// ConfirmPosition snapshots the placement into the draft and advances
// Position → Garment. The placement is normalized before it is stored so
// out-of-range coordinates never survive the stage exit.
func ConfirmPosition(d models.OrderDraft, p models.Placement) (models.OrderDraft, error) {
	if d.Stage != models.StagePosition {
		return d, stageErr(d)
	}
	if d.ArtworkRef == "" {
		return d, ErrArtworkMissing
	}
	d.Placement = placement.Normalize(p)
	d.Stage = models.StageGarment
	return touch(d), nil
}

// ConfirmGarment records color and size, computes the price, and advances
// Garment → Shipping. A size change always lands here, so the stored
// price can never be stale with respect to the size.
func ConfirmGarment(d models.OrderDraft, color, size string) (models.OrderDraft, error) {
	if d.Stage != models.StageGarment {
		return d, stageErr(d)
	}
	if strings.TrimSpace(color) == "" || strings.TrimSpace(size) == "" {
		return d, ErrGarmentIncomplete
	}
	d.TshirtColor = color
	d.TshirtSize = size
	price := pricing.Compute(size, d.Customer.Pincode)
	d.Price = &price
	d.Stage = models.StageShipping
	return touch(d), nil
}

// ConfirmShipping validates the customer details, refreshes the price
// (the pincode is now known), and advances Shipping → Payment.
func ConfirmShipping(d models.OrderDraft, customer models.Customer) (models.OrderDraft, error) {
	if d.Stage != models.StageShipping {
		return d, stageErr(d)
	}
	if !customerComplete(customer) {
		return d, ErrCustomerIncomplete
	}
	if d.TshirtSize == "" {
		return d, ErrPricingUnavailable
	}
	d.Customer = customer
	price := pricing.Compute(d.TshirtSize, customer.Pincode)
	d.Price = &price
	d.Stage = models.StagePayment
	return touch(d), nil
}

// ConfirmPayment records the user's explicit payment confirmation. It
// does not advance the stage; submission does that once the backend
// accepts the order.
func ConfirmPayment(d models.OrderDraft) (models.OrderDraft, error) {
	if d.Stage != models.StagePayment {
		return d, stageErr(d)
	}
	if d.Price == nil {
		return d, ErrPricingUnavailable
	}
	d.PaymentConfirmed = true
	return touch(d), nil
}

// CanSubmit reports whether the draft is eligible for the upload-and-
// submit sequence. It re-checks every earlier guard so a draft can never
// reach the backend with a hole in it.
func CanSubmit(d models.OrderDraft) error {
	switch {
	case d.Stage == models.StageSubmitted:
		return ErrAlreadySubmitted
	case d.Stage != models.StagePayment:
		return stageErr(d)
	case d.ArtworkRef == "":
		return ErrArtworkMissing
	case d.TshirtColor == "" || d.TshirtSize == "":
		return ErrGarmentIncomplete
	case !customerComplete(d.Customer):
		return ErrCustomerIncomplete
	case d.Price == nil:
		return ErrPricingUnavailable
	case !d.PaymentConfirmed:
		return ErrPaymentNotConfirmed
	}
	return nil
}

// MarkSubmitted moves the draft to the terminal state.
func MarkSubmitted(d models.OrderDraft) models.OrderDraft {
	d.Stage = models.StageSubmitted
	return touch(d)
}

// Back navigates one stage backward. It is never guarded. Re-entering
// Garment or Shipping invalidates the computed price, forcing a
// recomputation before Payment is reachable again; leaving Payment also
// drops the confirmation flag.
func Back(d models.OrderDraft) (models.OrderDraft, error) {
	if d.Stage == models.StageSubmitted {
		return d, ErrAlreadySubmitted
	}
	if d.Stage <= models.StageConfirm {
		return d, nil
	}
	if d.Stage == models.StagePayment {
		d.PaymentConfirmed = false
	}
	d.Stage--
	if d.Stage == models.StageGarment || d.Stage == models.StageShipping {
		d.Price = nil
	}
	return touch(d), nil
}

func customerComplete(c models.Customer) bool {
	required := []string{c.Name, c.Email, c.MobileNumber, c.Address1, c.Pincode, c.City, c.State, c.Country}
	for _, field := range required {
		if strings.TrimSpace(field) == "" {
			return false
		}
	}
	return true
}

func stageErr(d models.OrderDraft) error {
	if d.Stage == models.StageSubmitted {
		return ErrAlreadySubmitted
	}
	return ErrStageMismatch
}

func touch(d models.OrderDraft) models.OrderDraft {
	d.UpdatedAt = time.Now()
	return d
}
