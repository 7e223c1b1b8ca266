package pos

import (
	"errors"
	"fmt"
	"time"

	"pos-backend/internal/audit"
	"pos-backend/internal/auth"
	"pos-backend/internal/businessday"
	"pos-backend/internal/config"
	"pos-backend/internal/database"
	"pos-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type CartLineResponse struct {
	ID         uint   `json:"id"`
	Kind       string `json:"kind"`
	MenuItemID *uint  `json:"menu_item_id,omitempty"`
	Name       string `json:"name"`
	UnitPrice  int64  `json:"unit_price"`
	Quantity   int    `json:"quantity"`
	Subtotal   int64  `json:"subtotal"`
}

type CartResponse struct {
	ID            uint               `json:"id"`
	Status        models.CartStatus  `json:"status"`
	CustomerName  string             `json:"customer_name,omitempty"`
	CustomerPhone string             `json:"customer_phone,omitempty"`
	Lines         []CartLineResponse `json:"lines"`
	Subtotal      int64              `json:"subtotal"`
	BusinessDate  string             `json:"business_date"`
	CreatedAt     time.Time          `json:"created_at"`
}

func toCartResponse(cart *models.Cart) CartResponse {
	res := CartResponse{
		ID:            cart.ID,
		Status:        cart.Status,
		CustomerName:  cart.CustomerName,
		CustomerPhone: cart.CustomerPhone,
		Lines:         make([]CartLineResponse, 0, len(cart.Lines)),
		BusinessDate:  businessday.Label(cart.CreatedAt),
		CreatedAt:     cart.CreatedAt,
	}
	for _, l := range cart.Lines {
		unit := l.UnitPrice()
		sub := unit * int64(l.Quantity)
		res.Subtotal += sub
		res.Lines = append(res.Lines, CartLineResponse{
			ID:         l.ID,
			Kind:       string(l.Kind),
			MenuItemID: l.MenuItemID,
			Name:       l.DisplayName(),
			UnitPrice:  unit,
			Quantity:   l.Quantity,
			Subtotal:   sub,
		})
	}
	return res
}

type SaleItemResponse struct {
	Name      string `json:"name"`
	Quantity  int    `json:"quantity"`
	UnitPrice int64  `json:"unit_price"`
	Subtotal  int64  `json:"subtotal"`
}

type SaleResponse struct {
	ID            uint                 `json:"id"`
	BillNo        string               `json:"bill_no"`
	Subtotal      int64                `json:"subtotal"`
	Discount      int64                `json:"discount"`
	Total         int64                `json:"total"`
	PaymentMethod models.PaymentMethod `json:"payment_method"`
	TxnRef        string               `json:"txn_ref,omitempty"`
	CustomerName  string               `json:"customer_name"`
	CustomerPhone string               `json:"customer_phone"`
	StaffID       uint                 `json:"staff_id"`
	BusinessDate  string               `json:"business_date"`
	Status        models.SaleStatus    `json:"status"`
	Items         []SaleItemResponse   `json:"items"`
	CreatedAt     time.Time            `json:"created_at"`
}

func toSaleResponse(sale *models.Sale) SaleResponse {
	res := SaleResponse{
		ID:            sale.ID,
		BillNo:        sale.BillNo,
		Subtotal:      sale.Subtotal,
		Discount:      sale.Discount,
		Total:         sale.Total,
		PaymentMethod: sale.PaymentMethod,
		TxnRef:        sale.TxnRef,
		CustomerName:  sale.CustomerName,
		CustomerPhone: sale.CustomerPhone,
		StaffID:       sale.StaffID,
		BusinessDate:  sale.BusinessDate,
		Status:        sale.Status,
		Items:         make([]SaleItemResponse, 0, len(sale.Items)),
		CreatedAt:     sale.CreatedAt,
	}
	for _, it := range sale.Items {
		res.Items = append(res.Items, SaleItemResponse{
			Name:      it.Name,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
			Subtotal:  it.Subtotal,
		})
	}
	return res
}

// httpError maps the core error kinds onto HTTP statuses so callers can tell
// "fix your input" (400) from "gone" (404) from "terminal for this cart /
// retry" (409).
func httpError(err error) error {
	switch {
	case errors.Is(err, ErrValidation), errors.Is(err, ErrEmptyCart):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	case errors.Is(err, ErrNotFound):
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	case errors.Is(err, ErrInvalidState), errors.Is(err, ErrExpired), errors.Is(err, ErrConflict):
		return fiber.NewError(fiber.StatusConflict, err.Error())
	}
	return err
}

// POST /api/carts
func CreateCartHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		staffID, err := auth.CurrentUserID(c)
		if err != nil {
			return err
		}

		cart, err := CreateCart(database.DB, &staffID)
		if err != nil {
			return httpError(err)
		}
		return c.Status(fiber.StatusCreated).JSON(toCartResponse(cart))
	}
}

// GET /api/carts/:id
func GetCartHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		cartID, err := c.ParamsInt("id")
		if err != nil || cartID < 1 {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid cart id")
		}

		cart, err := GetCart(database.DB, uint(cartID))
		if err != nil {
			return httpError(err)
		}
		return c.JSON(toCartResponse(cart))
	}
}

type AddLineRequest struct {
	MenuItemID *uint  `json:"menu_item_id"` // catalog line
	Name       string `json:"name"`         // custom line
	Price      *int64 `json:"price"`        // custom line, minor units
	Quantity   int    `json:"quantity"`     // defaults to 1
}

// POST /api/carts/:id/lines
func AddLineHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		cartID, err := c.ParamsInt("id")
		if err != nil || cartID < 1 {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid cart id")
		}

		var body AddLineRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		var target LineTarget
		switch {
		case body.MenuItemID != nil:
			target = CatalogTarget{MenuItemID: *body.MenuItemID}
		case body.Price != nil:
			target = CustomTarget{Name: body.Name, Price: *body.Price}
		default:
			return fiber.NewError(fiber.StatusBadRequest, "Either menu_item_id or name+price is required")
		}

		if err := AddLine(database.DB, uint(cartID), target, body.Quantity); err != nil {
			return httpError(err)
		}

		cart, err := GetCart(database.DB, uint(cartID))
		if err != nil {
			return httpError(err)
		}
		return c.JSON(toCartResponse(cart))
	}
}

// DELETE /api/carts/:id/lines/:lineID?quantity=1
func RemoveLineHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		cartID, err := c.ParamsInt("id")
		if err != nil || cartID < 1 {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid cart id")
		}
		lineID, err := c.ParamsInt("lineID")
		if err != nil || lineID < 1 {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid line id")
		}
		qty := c.QueryInt("quantity", 1)

		if err := RemoveLine(database.DB, uint(cartID), uint(lineID), qty); err != nil {
			return httpError(err)
		}

		cart, err := GetCart(database.DB, uint(cartID))
		if err != nil {
			return httpError(err)
		}
		return c.JSON(toCartResponse(cart))
	}
}

type HoldRequest struct {
	CustomerName  string `json:"customer_name"`
	CustomerPhone string `json:"customer_phone"`
}

// POST /api/carts/:id/hold
func HoldHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		cartID, err := c.ParamsInt("id")
		if err != nil || cartID < 1 {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid cart id")
		}

		var body HoldRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		if err := Hold(database.DB, uint(cartID), body.CustomerName, body.CustomerPhone); err != nil {
			return httpError(err)
		}

		cart, err := GetCart(database.DB, uint(cartID))
		if err != nil {
			return httpError(err)
		}
		return c.JSON(toCartResponse(cart))
	}
}

// GET /api/carts/held
func ListHeldHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		held, err := ListHeld(database.DB, time.Now())
		if err != nil {
			return httpError(err)
		}

		res := make([]CartResponse, 0, len(held))
		for i := range held {
			res = append(res, toCartResponse(&held[i]))
		}
		return c.JSON(res)
	}
}

// POST /api/carts/:id/resume
func ResumeHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		cartID, err := c.ParamsInt("id")
		if err != nil || cartID < 1 {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid cart id")
		}

		if err := Resume(database.DB, uint(cartID), time.Now()); err != nil {
			return httpError(err)
		}

		cart, err := GetCart(database.DB, uint(cartID))
		if err != nil {
			return httpError(err)
		}
		return c.JSON(toCartResponse(cart))
	}
}

// POST /api/admin/carts/:id/override-resume
func OverrideResumeHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		cartID, err := c.ParamsInt("id")
		if err != nil || cartID < 1 {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid cart id")
		}

		if err := AdminOverrideResume(database.DB, uint(cartID)); err != nil {
			return httpError(err)
		}

		cart, err := GetCart(database.DB, uint(cartID))
		if err != nil {
			return httpError(err)
		}

		if userID, uerr := auth.CurrentUserID(c); uerr == nil {
			_ = audit.WriteLog(audit.LogOptions{
				UserID:      userID,
				UserName:    auth.CurrentUsername(c),
				EntityType:  "cart",
				EntityID:    cart.ID,
				Action:      models.AuditActionOverrideResume,
				Description: fmt.Sprintf("Expired cart %d reactivated by override", cart.ID),
				Before:      fiber.Map{"status": models.CartStatusExpired},
				After:       fiber.Map{"status": cart.Status},
			})
		}

		return c.JSON(toCartResponse(cart))
	}
}

// DELETE /api/admin/carts/:id
func DiscardHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		cartID, err := c.ParamsInt("id")
		if err != nil || cartID < 1 {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid cart id")
		}

		// Snapshot before the purge so the audit trail keeps what was dropped.
		cart, err := GetCart(database.DB, uint(cartID))
		if err != nil {
			return httpError(err)
		}

		if err := Discard(database.DB, uint(cartID)); err != nil {
			return httpError(err)
		}

		if userID, uerr := auth.CurrentUserID(c); uerr == nil {
			_ = audit.WriteLog(audit.LogOptions{
				UserID:      userID,
				UserName:    auth.CurrentUsername(c),
				EntityType:  "cart",
				EntityID:    cart.ID,
				Action:      models.AuditActionDiscardHold,
				Description: fmt.Sprintf("Held cart %d discarded", cart.ID),
				Before:      toCartResponse(cart),
				After:       nil,
			})
		}

		return c.JSON(fiber.Map{"status": "discarded"})
	}
}

type CheckoutRequest struct {
	CartID        uint                 `json:"cart_id"`
	PaymentMethod models.PaymentMethod `json:"payment_method"`
	CustomerName  string               `json:"customer_name"`
	CustomerPhone string               `json:"customer_phone"`
	TxnRef        string               `json:"txn_ref"`
	Discount      int64                `json:"discount"`
}

// POST /api/checkout
func CheckoutHandler(cfg *config.Config) fiber.Handler {
	return func(c *fiber.Ctx) error {
		staffID, err := auth.CurrentUserID(c)
		if err != nil {
			return err
		}

		var body CheckoutRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		sale, err := Checkout(database.DB, cfg.BillPrefix, CheckoutInput{
			CartID:        body.CartID,
			PaymentMethod: body.PaymentMethod,
			CustomerName:  body.CustomerName,
			CustomerPhone: body.CustomerPhone,
			TxnRef:        body.TxnRef,
			Discount:      body.Discount,
			StaffID:       staffID,
		}, time.Now())
		if err != nil {
			return httpError(err)
		}

		return c.Status(fiber.StatusCreated).JSON(toSaleResponse(sale))
	}
}

// GET /api/sales/:id
func GetSaleHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		saleID, err := c.ParamsInt("id")
		if err != nil || saleID < 1 {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid sale id")
		}

		sale, err := GetSale(database.DB, uint(saleID))
		if err != nil {
			return httpError(err)
		}
		return c.JSON(toSaleResponse(sale))
	}
}

// POST /api/admin/sales/:id/void
func VoidSaleHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		saleID, err := c.ParamsInt("id")
		if err != nil || saleID < 1 {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid sale id")
		}

		sale, err := VoidSale(database.DB, uint(saleID))
		if err != nil {
			return httpError(err)
		}

		if userID, uerr := auth.CurrentUserID(c); uerr == nil {
			_ = audit.WriteLog(audit.LogOptions{
				UserID:      userID,
				UserName:    auth.CurrentUsername(c),
				EntityType:  "sale",
				EntityID:    sale.ID,
				Action:      models.AuditActionVoidSale,
				Description: fmt.Sprintf("Sale %s voided", sale.BillNo),
				Before:      fiber.Map{"status": models.SaleStatusCompleted},
				After:       fiber.Map{"status": models.SaleStatusVoid},
			})
		}

		return c.JSON(toSaleResponse(sale))
	}
}
