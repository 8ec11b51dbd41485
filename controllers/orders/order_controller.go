package controllers

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/razorpay/razorpay-go"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"tweeshirt-backend/configs"
	"tweeshirt-backend/logging"
	"tweeshirt-backend/metrics"
	"tweeshirt-backend/models"
	"tweeshirt-backend/orderclient"
	"tweeshirt-backend/pagination"
	"tweeshirt-backend/pricing"
	"tweeshirt-backend/printrove"
	"tweeshirt-backend/responses"
	"tweeshirt-backend/wizard"
)

var draftCollection *mongo.Collection = configs.GetCollection(configs.DB, "drafts")
var orderCollection *mongo.Collection = configs.GetCollection(configs.DB, "orders")

var razorpayKeyID = configs.EnvRazorpayKeyId()
var razorpayKeySecret = configs.EnvRazorpayKeySecret()

var printroveClient = printrove.NewClient(configs.EnvPrintroveUploadURL(), configs.EnvPrintroveAPIKey())
var backendClient = orderclient.NewClient(configs.EnvOrderBackendURL())
var pipelineMetrics = metrics.NewPipelineMetrics()

func requireUserID(c *fiber.Ctx) (primitive.ObjectID, bool) {
	userId, ok := c.Locals("userId").(string)
	if !ok || userId == "" {
		c.Status(fiber.StatusUnauthorized).JSON(responses.UserResponse{
			Status:  fiber.StatusUnauthorized,
			Message: "User ID not found in token",
			Result:  nil,
		})
		return primitive.NilObjectID, false
	}
	userObjectID, err := primitive.ObjectIDFromHex(userId)
	if err != nil {
		c.Status(fiber.StatusBadRequest).JSON(responses.UserResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid user ID format",
			Result:  nil,
		})
		return primitive.NilObjectID, false
	}
	return userObjectID, true
}

func loadDraft(ctx context.Context, userID primitive.ObjectID) (models.OrderDraft, error) {
	var draft models.OrderDraft
	err := draftCollection.FindOne(ctx, bson.M{"userId": userID}).Decode(&draft)
	return draft, err
}

func saveDraft(ctx context.Context, draft models.OrderDraft) error {
	_, err := draftCollection.ReplaceOne(ctx, bson.M{"_id": draft.ID}, draft)
	return err
}

func wizardErrorStatus(err error) int {
	if errors.Is(err, wizard.ErrAlreadySubmitted) {
		return fiber.StatusConflict
	}
	return fiber.StatusBadRequest
}

// runTransition loads the caller's draft, applies one wizard transition,
// and persists the result. A failed guard keeps the stored draft exactly
// as it was.
func runTransition(c *fiber.Ctx, apply func(models.OrderDraft) (models.OrderDraft, error)) error {
	ctx, cancel := context.WithTimeout(c.Context(), 10*time.Second)
	defer cancel()

	userObjectID, ok := requireUserID(c)
	if !ok {
		return nil
	}

	draft, err := loadDraft(ctx, userObjectID)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return c.Status(fiber.StatusNotFound).JSON(responses.UserResponse{
				Status:  fiber.StatusNotFound,
				Message: "No order in progress, start a new one",
				Result:  nil,
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(responses.UserResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Error fetching order draft",
			Result:  nil,
		})
	}

	updated, err := apply(draft)
	if err != nil {
		return c.Status(wizardErrorStatus(err)).JSON(responses.UserResponse{
			Status:  wizardErrorStatus(err),
			Message: err.Error(),
			Result:  &fiber.Map{"stage": draft.Stage.String()},
		})
	}

	if err := saveDraft(ctx, updated); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(responses.UserResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Failed to save order draft",
			Result:  nil,
		})
	}

	return c.Status(fiber.StatusOK).JSON(responses.UserResponse{
		Status:  fiber.StatusOK,
		Message: "Stage updated",
		Result:  &fiber.Map{"draft": updated},
	})
}

// StartDraft creates a fresh draft for the user, replacing any order that
// was in progress.
func StartDraft(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 10*time.Second)
	defer cancel()

	userObjectID, ok := requireUserID(c)
	if !ok {
		return nil
	}

	draft := wizard.NewDraft(userObjectID)

	if _, err := draftCollection.DeleteMany(ctx, bson.M{"userId": userObjectID}); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(responses.UserResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Failed to discard previous draft",
			Result:  nil,
		})
	}
	if _, err := draftCollection.InsertOne(ctx, draft); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(responses.UserResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Failed to create order draft",
			Result:  nil,
		})
	}

	return c.Status(fiber.StatusOK).JSON(responses.UserResponse{
		Status:  fiber.StatusOK,
		Message: "Order draft created",
		Result:  &fiber.Map{"draft": draft},
	})
}

func GetDraft(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 10*time.Second)
	defer cancel()

	userObjectID, ok := requireUserID(c)
	if !ok {
		return nil
	}

	draft, err := loadDraft(ctx, userObjectID)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return c.Status(fiber.StatusNotFound).JSON(responses.UserResponse{
				Status:  fiber.StatusNotFound,
				Message: "No order in progress",
				Result:  nil,
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(responses.UserResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Error fetching order draft",
			Result:  nil,
		})
	}

	return c.Status(fiber.StatusOK).JSON(responses.UserResponse{
		Status:  fiber.StatusOK,
		Message: "Order draft fetched",
		Result:  &fiber.Map{"draft": draft},
	})
}

type ConfirmDesignRequest struct {
	Artwork string `json:"artwork" validate:"required"`
}

func ConfirmDesign(c *fiber.Ctx) error {
	var req ConfirmDesignRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(responses.UserResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid request body",
			Result:  nil,
		})
	}
	return runTransition(c, func(d models.OrderDraft) (models.OrderDraft, error) {
		return wizard.ConfirmDesign(d, req.Artwork)
	})
}

type ConfirmPositionRequest struct {
	Anchor string  `json:"anchor"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Scale  float64 `json:"scale"`
}

func ConfirmPosition(c *fiber.Ctx) error {
	var req ConfirmPositionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(responses.UserResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid request body",
			Result:  nil,
		})
	}
	return runTransition(c, func(d models.OrderDraft) (models.OrderDraft, error) {
		return wizard.ConfirmPosition(d, models.Placement{
			Anchor: req.Anchor,
			X:      req.X,
			Y:      req.Y,
			Scale:  req.Scale,
		})
	})
}

type ConfirmGarmentRequest struct {
	TshirtColor string `json:"tshirtColor" validate:"required"`
	TshirtSize  string `json:"tshirtSize" validate:"required"`
}

func ConfirmGarment(c *fiber.Ctx) error {
	var req ConfirmGarmentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(responses.UserResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid request body",
			Result:  nil,
		})
	}
	return runTransition(c, func(d models.OrderDraft) (models.OrderDraft, error) {
		return wizard.ConfirmGarment(d, req.TshirtColor, req.TshirtSize)
	})
}

func ConfirmShipping(c *fiber.Ctx) error {
	var req models.Customer
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(responses.UserResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid request body",
			Result:  nil,
		})
	}
	return runTransition(c, func(d models.OrderDraft) (models.OrderDraft, error) {
		return wizard.ConfirmShipping(d, req)
	})
}

func GoBack(c *fiber.Ctx) error {
	return runTransition(c, wizard.Back)
}

type ConfirmPaymentRequest struct {
	Confirmed bool `json:"confirmed"`
}

// ConfirmPayment records the user's explicit checkbox confirmation
// without a gateway payment, for flows where the charge is collected on
// delivery. VerifyPayment does the same after a Razorpay payment.
func ConfirmPayment(c *fiber.Ctx) error {
	var req ConfirmPaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(responses.UserResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid request body",
			Result:  nil,
		})
	}
	if !req.Confirmed {
		return c.Status(fiber.StatusBadRequest).JSON(responses.UserResponse{
			Status:  fiber.StatusBadRequest,
			Message: wizard.ErrPaymentNotConfirmed.Error(),
			Result:  nil,
		})
	}
	return runTransition(c, wizard.ConfirmPayment)
}

// CreatePayment opens a Razorpay order for the computed total. Only
// reachable from the Payment stage with a price present.
func CreatePayment(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 10*time.Second)
	defer cancel()

	userObjectID, ok := requireUserID(c)
	if !ok {
		return nil
	}

	draft, err := loadDraft(ctx, userObjectID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(responses.UserResponse{
			Status:  fiber.StatusNotFound,
			Message: "No order in progress",
			Result:  nil,
		})
	}

	if draft.Stage != models.StagePayment {
		return c.Status(fiber.StatusBadRequest).JSON(responses.UserResponse{
			Status:  fiber.StatusBadRequest,
			Message: wizard.ErrStageMismatch.Error(),
			Result:  &fiber.Map{"stage": draft.Stage.String()},
		})
	}
	if draft.Price == nil {
		return c.Status(fiber.StatusBadRequest).JSON(responses.UserResponse{
			Status:  fiber.StatusBadRequest,
			Message: wizard.ErrPricingUnavailable.Error(),
			Result:  nil,
		})
	}

	client := razorpay.NewClient(razorpayKeyID, razorpayKeySecret)

	// Razorpay wants the amount in the smallest currency unit, rounded,
	// not truncated: 14.57 * 100 is 1456.9999... in float64.
	data := map[string]interface{}{
		"amount":   pricing.Cents(draft.Price.Total),
		"currency": "USD",
		"receipt":  "receipt_" + uuid.NewString(),
	}

	razorpayOrder, err := client.Order.Create(data, nil)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(responses.UserResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Failed to create Razorpay order: " + err.Error(),
			Result:  nil,
		})
	}

	draft.RazorpayID = razorpayOrder["id"].(string)
	if err := saveDraft(ctx, draft); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(responses.UserResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Failed to save order draft",
			Result:  nil,
		})
	}

	return c.Status(fiber.StatusOK).JSON(responses.UserResponse{
		Status:  fiber.StatusOK,
		Message: "Payment created",
		Result: &fiber.Map{
			"razorpayId": razorpayOrder["id"],
			"amount":     razorpayOrder["amount"],
			"currency":   razorpayOrder["currency"],
			"key_id":     razorpayKeyID,
		},
	})
}

type VerifyPaymentRequest struct {
	PaymentID  string `json:"paymentId"`
	Signature  string `json:"signature"`
	RazorpayID string `json:"razorpayId"`
}

// VerifyPayment checks the Razorpay signature and records the user's
// explicit payment confirmation on the draft.
func VerifyPayment(c *fiber.Ctx) error {
	var req VerifyPaymentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(responses.UserResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid request body",
			Result:  nil,
		})
	}

	// HMAC SHA256 over "<razorpayId>|<paymentId>" with the key secret.
	// Compared in constant time so the check leaks nothing about how
	// much of a guessed signature matched.
	h := hmac.New(sha256.New, []byte(razorpayKeySecret))
	h.Write([]byte(req.RazorpayID + "|" + req.PaymentID))
	expected := []byte(hex.EncodeToString(h.Sum(nil)))

	if !hmac.Equal([]byte(req.Signature), expected) {
		return c.Status(fiber.StatusBadRequest).JSON(responses.UserResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid payment signature",
			Result:  nil,
		})
	}

	return runTransition(c, func(d models.OrderDraft) (models.OrderDraft, error) {
		if d.RazorpayID == "" || d.RazorpayID != req.RazorpayID {
			return d, errors.New("payment does not belong to this order")
		}
		updated, err := wizard.ConfirmPayment(d)
		if err != nil {
			return d, err
		}
		updated.PaymentID = req.PaymentID
		return updated, nil
	})
}

// SubmitOrder runs the submission sequence: guard, upload the design to
// the fulfillment partner, then post the merged payload to the order
// backend. The order is persisted and the draft discarded only after the
// backend accepts; any failure leaves the draft on the Payment stage for
// a user-initiated retry.
func SubmitOrder(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 90*time.Second)
	defer cancel()

	userObjectID, ok := requireUserID(c)
	if !ok {
		return nil
	}

	draft, err := loadDraft(ctx, userObjectID)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(responses.UserResponse{
			Status:  fiber.StatusNotFound,
			Message: "No order in progress",
			Result:  nil,
		})
	}

	if err := wizard.CanSubmit(draft); err != nil {
		return c.Status(wizardErrorStatus(err)).JSON(responses.UserResponse{
			Status:  wizardErrorStatus(err),
			Message: err.Error(),
			Result:  &fiber.Map{"stage": draft.Stage.String()},
		})
	}

	// Snapshot what is being uploaded. If the user restarts the order or
	// swaps the design while the upload is running, the partner result
	// belongs to this snapshot, not to whatever draft exists afterwards.
	draftID := draft.ID
	artworkRef := draft.ArtworkRef

	started := time.Now()
	fileResponse, err := printroveClient.Upload(ctx, artworkRef)
	if err != nil {
		pipelineMetrics.DesignUploads.WithLabelValues("error").Inc()
		logging.Log(logging.Fields{
			Service:    "order-pipeline",
			UserID:     userObjectID.Hex(),
			DraftID:    draft.ID.Hex(),
			Step:       "design_upload",
			Status:     "error",
			DurationMS: time.Since(started).Milliseconds(),
			Message:    err.Error(),
		})
		return c.Status(fiber.StatusBadGateway).JSON(responses.UserResponse{
			Status:  fiber.StatusBadGateway,
			Message: err.Error(),
			Result:  nil,
		})
	}
	pipelineMetrics.DesignUploads.WithLabelValues("success").Inc()
	logging.Log(logging.Fields{
		Service:    "order-pipeline",
		UserID:     userObjectID.Hex(),
		DraftID:    draft.ID.Hex(),
		Step:       "design_upload",
		Status:     "success",
		DurationMS: time.Since(started).Milliseconds(),
	})

	// The upload may have taken a while. The result is only good for the
	// exact draft and artwork it was made for: a replaced draft, a
	// swapped design, or a draft that fell off the Payment stage all
	// discard it.
	draft, err = loadDraft(ctx, userObjectID)
	if err != nil || draft.ID != draftID || draft.ArtworkRef != artworkRef || wizard.CanSubmit(draft) != nil {
		return c.Status(fiber.StatusConflict).JSON(responses.UserResponse{
			Status:  fiber.StatusConflict,
			Message: "Order changed while uploading, please review and submit again",
			Result:  nil,
		})
	}

	payload := orderclient.Payload{
		Customer:       draft.Customer,
		TshirtColor:    draft.TshirtColor,
		TshirtSize:     draft.TshirtSize,
		ImagePosition:  draft.Placement.Anchor,
		PositionCoords: orderclient.Coords{X: draft.Placement.X, Y: draft.Placement.Y},
		ImageSize:      draft.Placement.Scale,
		File:           draft.ArtworkRef,
		FileResponse:   fileResponse,
	}

	started = time.Now()
	conf, err := backendClient.Submit(ctx, draft.ID.Hex(), payload)
	if err != nil {
		status := fiber.StatusBadGateway
		if errors.Is(err, orderclient.ErrSubmissionInFlight) {
			status = fiber.StatusConflict
		}
		pipelineMetrics.OrderSubmissions.WithLabelValues("error").Inc()
		logging.Log(logging.Fields{
			Service:    "order-pipeline",
			UserID:     userObjectID.Hex(),
			DraftID:    draft.ID.Hex(),
			Step:       "backend_submit",
			Status:     "error",
			DurationMS: time.Since(started).Milliseconds(),
			Message:    err.Error(),
		})
		return c.Status(status).JSON(responses.UserResponse{
			Status:  status,
			Message: err.Error(),
			Result:  nil,
		})
	}
	pipelineMetrics.OrderSubmissions.WithLabelValues("success").Inc()

	order := models.Order{
		ID:           primitive.NewObjectID(),
		UserID:       userObjectID,
		ArtworkRef:   draft.ArtworkRef,
		Placement:    draft.Placement,
		TshirtColor:  draft.TshirtColor,
		TshirtSize:   draft.TshirtSize,
		Customer:     draft.Customer,
		Price:        *draft.Price,
		FileResponse: fileResponse,
		Status:       "processing",
		PaymentID:    draft.PaymentID,
		CreatedAt:    time.Now(),
	}

	if _, err := orderCollection.InsertOne(ctx, order); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(responses.UserResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Order was accepted but could not be recorded",
			Result:  nil,
		})
	}

	// Terminal state: the draft is done and removed.
	if _, err := draftCollection.DeleteOne(ctx, bson.M{"_id": draft.ID}); err != nil {
		// The order is already placed; a leftover draft is cleaned up on
		// the next StartDraft.
	}

	logging.Log(logging.Fields{
		Service:    "order-pipeline",
		UserID:     userObjectID.Hex(),
		DraftID:    draft.ID.Hex(),
		OrderID:    order.ID.Hex(),
		Step:       "backend_submit",
		Status:     "success",
		DurationMS: time.Since(started).Milliseconds(),
	})

	return c.Status(fiber.StatusOK).JSON(responses.UserResponse{
		Status:  fiber.StatusOK,
		Message: "Order placed successfully",
		Result: &fiber.Map{
			"orderId":        order.ID.Hex(),
			"backendOrderId": conf.OrderID,
			"stage":          models.StageSubmitted.String(),
		},
	})
}

func GetOrders(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 10*time.Second)
	defer cancel()

	userObjectID, ok := requireUserID(c)
	if !ok {
		return nil
	}

	status := c.Query("status", "") // Optional status filter
	page, limit := pagination.Parse(c.Query("page", "1"), c.Query("limit", "10"))
	skip := (page - 1) * limit

	filter := bson.M{"userId": userObjectID}
	if status != "" {
		filter["status"] = status
	}

	totalOrders, err := orderCollection.CountDocuments(ctx, filter)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(responses.UserResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Failed to count orders",
			Result:  nil,
		})
	}

	cursor, err := orderCollection.Find(ctx, filter, &options.FindOptions{
		Skip:  &skip,
		Limit: &limit,
	})
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(responses.UserResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Failed to fetch orders",
			Result:  nil,
		})
	}
	defer cursor.Close(ctx)

	var orders []fiber.Map
	for cursor.Next(ctx) {
		var order models.Order
		if err := cursor.Decode(&order); err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(responses.UserResponse{
				Status:  fiber.StatusInternalServerError,
				Message: "Failed to decode order",
				Result:  nil,
			})
		}

		orders = append(orders, fiber.Map{
			"id":          order.ID.Hex(),
			"tshirtColor": order.TshirtColor,
			"tshirtSize":  order.TshirtSize,
			"status":      order.Status,
			"total":       order.Price.Total,
			"createdAt":   order.CreatedAt,
		})
	}

	if err := cursor.Err(); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(responses.UserResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Cursor error",
			Result:  nil,
		})
	}

	totalPages := pagination.TotalPages(totalOrders, limit)

	return c.Status(fiber.StatusOK).JSON(responses.UserResponse{
		Status:  fiber.StatusOK,
		Message: "Orders fetched successfully",
		Result: &fiber.Map{
			"orders":      orders,
			"currentPage": page,
			"totalPages":  totalPages,
			"totalOrders": totalOrders,
		},
	})
}

func GetOrderById(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 10*time.Second)
	defer cancel()

	userObjectID, ok := requireUserID(c)
	if !ok {
		return nil
	}

	orderId := c.Query("id")
	if orderId == "" {
		return c.Status(fiber.StatusBadRequest).JSON(responses.UserResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Order ID is required",
			Result:  nil,
		})
	}

	orderObjectID, err := primitive.ObjectIDFromHex(orderId)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(responses.UserResponse{
			Status:  fiber.StatusBadRequest,
			Message: "Invalid order ID format",
			Result:  nil,
		})
	}

	var order models.Order
	err = orderCollection.FindOne(ctx, bson.M{"_id": orderObjectID, "userId": userObjectID}).Decode(&order)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return c.Status(fiber.StatusNotFound).JSON(responses.UserResponse{
				Status:  fiber.StatusNotFound,
				Message: "Order not found",
				Result:  nil,
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(responses.UserResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Failed to fetch order",
			Result:  nil,
		})
	}

	return c.Status(fiber.StatusOK).JSON(responses.UserResponse{
		Status:  fiber.StatusOK,
		Message: "Order fetched successfully",
		Result: &fiber.Map{
			"order": order,
		},
	})
}
