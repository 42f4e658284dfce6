package controller

import (
	"github.com/Tusharjain-19/split-payment/internal/dto"
	"github.com/Tusharjain-19/split-payment/internal/pkg/apperrors"
	"github.com/Tusharjain-19/split-payment/internal/pkg/serverutils"
	"github.com/Tusharjain-19/split-payment/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IPaymentController interface {
	RegisterRoutes(r fiber.Router)
	CreateSplit(ctx *fiber.Ctx) error
	VerifyPayment(ctx *fiber.Ctx) error
	PaymentFailed(ctx *fiber.Ctx) error
	GetStatus(ctx *fiber.Ctx) error
	GetHistory(ctx *fiber.Ctx) error
}

type paymentController struct {
	service service.IPaymentService
}

func NewPaymentController(service service.IPaymentService) IPaymentController {
	return &paymentController{service: service}
}

func (c *paymentController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/payment")
	h.Post("/create", c.CreateSplit)
	h.Post("/verify", c.VerifyPayment)
	h.Post("/failed", c.PaymentFailed)
	h.Get("/status/:id", c.GetStatus)
	h.Get("/history", c.GetHistory)
}

func (c *paymentController) CreateSplit(ctx *fiber.Ctx) error {
	var req dto.CreateSplitRequest
	if err := ctx.BodyParser(&req); err != nil {
		return apperrors.NewValidation("invalid request body")
	}
	if err := serverutils.ValidateRequest(&req); err != nil {
		return err
	}

	res, err := c.service.CreateSplitPayment(ctx.Context(), &req)
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Split payment created", res))
}

func (c *paymentController) VerifyPayment(ctx *fiber.Ctx) error {
	var req dto.VerifyPaymentRequest
	if err := ctx.BodyParser(&req); err != nil {
		return apperrors.NewValidation("invalid request body")
	}
	if err := serverutils.ValidateRequest(&req); err != nil {
		return err
	}

	if err := c.service.VerifyPayment(ctx.Context(), &req); err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Payment verified", nil))
}

func (c *paymentController) PaymentFailed(ctx *fiber.Ctx) error {
	var req dto.PaymentFailureRequest
	if err := ctx.BodyParser(&req); err != nil {
		return apperrors.NewValidation("invalid request body")
	}
	if err := serverutils.ValidateRequest(&req); err != nil {
		return err
	}

	if err := c.service.HandlePaymentFailure(ctx.Context(), &req); err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Payment failure recorded", nil))
}

func (c *paymentController) GetStatus(ctx *fiber.Ctx) error {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return apperrors.NewValidation("invalid master transaction id")
	}

	res, err := c.service.GetPaymentStatus(ctx.Context(), id)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success fetching payment status", res))
}

func (c *paymentController) GetHistory(ctx *fiber.Ctx) error {
	res, err := c.service.GetTransactionHistory(ctx.Context())
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success fetching transaction history", res))
}
