package menu

import (
	"strings"

	"pos-backend/internal/database"
	"pos-backend/internal/models"

	"github.com/gofiber/fiber/v2"
)

type MenuItemResponse struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Price int64  `json:"price"`
}

type CreateMenuItemRequest struct {
	Name  string `json:"name"`
	Price int64  `json:"price"`
}

type UpdateMenuItemRequest struct {
	Name  *string `json:"name"`
	Price *int64  `json:"price"`
}

// GET /api/menu (all authenticated staff)
func ListMenuHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var items []models.MenuItem
		if err := database.DB.Order("name asc").Find(&items).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not list menu")
		}

		res := make([]MenuItemResponse, 0, len(items))
		for _, it := range items {
			res = append(res, MenuItemResponse{ID: it.ID, Name: it.Name, Price: it.Price})
		}
		return c.JSON(res)
	}
}

// POST /api/admin/menu
func CreateMenuItemHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateMenuItemRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		body.Name = strings.TrimSpace(body.Name)
		if body.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Name is required")
		}
		if body.Price < 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Price must not be negative")
		}

		var existing models.MenuItem
		if err := database.DB.Where("name = ?", body.Name).First(&existing).Error; err == nil {
			return fiber.NewError(fiber.StatusBadRequest, "A menu item with this name already exists")
		}

		item := models.MenuItem{Name: body.Name, Price: body.Price}
		if err := database.DB.Create(&item).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not create menu item")
		}

		return c.Status(fiber.StatusCreated).JSON(MenuItemResponse{ID: item.ID, Name: item.Name, Price: item.Price})
	}
}

// PUT /api/admin/menu/:id
// Price edits never touch settled sales; bills keep the snapshot captured at
// checkout.
func UpdateMenuItemHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var item models.MenuItem
		if err := database.DB.First(&item, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Menu item not found")
		}

		var body UpdateMenuItemRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		if body.Name != nil {
			name := strings.TrimSpace(*body.Name)
			if name == "" {
				return fiber.NewError(fiber.StatusBadRequest, "Name must not be empty")
			}
			item.Name = name
		}
		if body.Price != nil {
			if *body.Price < 0 {
				return fiber.NewError(fiber.StatusBadRequest, "Price must not be negative")
			}
			item.Price = *body.Price
		}

		if err := database.DB.Save(&item).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not update menu item")
		}

		return c.JSON(MenuItemResponse{ID: item.ID, Name: item.Name, Price: item.Price})
	}
}

// DELETE /api/admin/menu/:id
func DeleteMenuItemHandler() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")

		var item models.MenuItem
		if err := database.DB.First(&item, "id = ?", id).Error; err != nil {
			return fiber.NewError(fiber.StatusNotFound, "Menu item not found")
		}

		if err := database.DB.Delete(&item).Error; err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "Could not delete menu item")
		}

		return c.JSON(fiber.Map{"status": "deleted"})
	}
}
