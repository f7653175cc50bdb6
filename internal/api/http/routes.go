package httpapi

import (
	"errors"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/ski-conditions/internal/common"
	"github.com/i474232898/ski-conditions/internal/store"
	"github.com/i474232898/ski-conditions/internal/weather"
)

var validate = validator.New()

// Handler serves fleet summaries and comparisons.
type Handler struct {
	service    *weather.Service
	selections *store.SelectionStore
	cache      store.ComparisonCache
}

// NewHandler creates a new Handler.
func NewHandler(service *weather.Service, selections *store.SelectionStore, cache store.ComparisonCache) *Handler {
	return &Handler{
		service:    service,
		selections: selections,
		cache:      cache,
	}
}

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, h *Handler) {
	v1 := app.Group("/api/v1")

	v1.Get("/resorts", h.listResorts)
	v1.Get("/resorts/:key", h.getResort)
	v1.Get("/resorts/:key/forecast", h.getForecast)
	v1.Get("/compare", h.compare)

	v1.Post("/selections", h.createSelection)
	v1.Get("/selections/:id", h.getSelection)
	v1.Post("/selections/:id/toggle/:key", h.toggleSelection)
	v1.Delete("/selections/:id", h.resetSelection)
	v1.Get("/selections/:id/comparison", h.selectionComparison)
}

func (h *Handler) latest() (weather.FleetResult, error) {
	fleet, err := h.service.Latest()
	if err != nil {
		return fleet, fiber.NewError(fiber.StatusServiceUnavailable, "forecasts not available yet")
	}
	return fleet, nil
}

func (h *Handler) listResorts(c *fiber.Ctx) error {
	fleet, err := h.latest()
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"cycleId":     fleet.CycleID,
		"completedAt": fleet.CompletedAt,
		"failures":    fleet.Failures(),
		"resorts":     fleet.Entries,
	})
}

func (h *Handler) getResort(c *fiber.Ctx) error {
	entry, err := h.entry(resortKey(c))
	if err != nil {
		return err
	}
	return c.JSON(entry.Summary)
}

func (h *Handler) getForecast(c *fiber.Ctx) error {
	var q forecastQuery
	if err := q.bind(c); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	entry, err := h.entry(resortKey(c))
	if err != nil {
		return err
	}

	days := entry.Summary.Days
	if len(days) > q.Days {
		days = days[:q.Days]
	}
	return c.JSON(fiber.Map{
		"location": entry.Location,
		"days":     days,
	})
}

// entry resolves a resort of the latest cycle, mapping failures to HTTP errors.
func (h *Handler) entry(key string) (weather.FleetEntry, error) {
	if _, ok := h.service.Location(key); !ok {
		return weather.FleetEntry{}, fiber.NewError(fiber.StatusNotFound, "unknown resort")
	}

	fleet, err := h.latest()
	if err != nil {
		return weather.FleetEntry{}, err
	}

	entry, ok := fleet.Lookup(key)
	if !ok || !entry.OK() {
		return weather.FleetEntry{}, fiber.NewError(fiber.StatusBadGateway, "no forecast data for requested resort")
	}
	return entry, nil
}

func (h *Handler) compare(c *fiber.Ctx) error {
	q := compareQuery{Resorts: common.SplitList(strings.ToLower(c.Query("resorts")))}
	if err := validate.Struct(q); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	return h.renderComparison(c, weather.NewComparisonSet(q.Resorts...))
}

func (h *Handler) createSelection(c *fiber.Ctx) error {
	id := h.selections.Create()
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"id":      id,
		"resorts": weather.ComparisonSet{},
	})
}

func (h *Handler) getSelection(c *fiber.Ctx) error {
	id := c.Params("id")
	set, err := h.selections.Get(id)
	if err != nil {
		return selectionError(err)
	}
	return c.JSON(selectionBody(id, set))
}

func (h *Handler) toggleSelection(c *fiber.Ctx) error {
	id, key := c.Params("id"), resortKey(c)
	if _, ok := h.service.Location(key); !ok {
		return fiber.NewError(fiber.StatusNotFound, "unknown resort")
	}

	set, err := h.selections.Toggle(id, key)
	if err != nil {
		return selectionError(err)
	}
	return c.JSON(selectionBody(id, set))
}

func (h *Handler) resetSelection(c *fiber.Ctx) error {
	id := c.Params("id")
	set, err := h.selections.Reset(id)
	if err != nil {
		return selectionError(err)
	}
	return c.JSON(selectionBody(id, set))
}

func (h *Handler) selectionComparison(c *fiber.Ctx) error {
	set, err := h.selections.Get(c.Params("id"))
	if err != nil {
		return selectionError(err)
	}
	return h.renderComparison(c, set)
}

// renderComparison builds the table for set against the latest cycle,
// reusing the encoded table while the cycle is current.
func (h *Handler) renderComparison(c *fiber.Ctx, set weather.ComparisonSet) error {
	fleet, err := h.latest()
	if err != nil {
		return err
	}

	keys := set.Keys()
	body, ok := h.cache.Get(fleet.CycleID, keys)
	if !ok {
		body, err = json.Marshal(fiber.Map{
			"cycleId":  fleet.CycleID,
			"resorts":  set,
			"table":    weather.BuildComparison(set, fleet),
			"selected": set.Len(),
		})
		if err != nil {
			return err
		}
		h.cache.Set(fleet.CycleID, keys, body)
	}

	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return c.Send(body)
}

// resortKey reads the :key path parameter. Keys are lower-case, the URL need not be.
func resortKey(c *fiber.Ctx) string {
	return strings.ToLower(c.Params("key"))
}

func selectionBody(id string, set weather.ComparisonSet) fiber.Map {
	return fiber.Map{
		"id":      id,
		"resorts": set,
	}
}

func selectionError(err error) error {
	if errors.Is(err, store.ErrSelectionNotFound) {
		return fiber.NewError(fiber.StatusNotFound, "selection not found")
	}
	return fiber.NewError(fiber.StatusInternalServerError, "failed to update selection")
}

// compareQuery holds the resort keys of a stateless comparison.
type compareQuery struct {
	Resorts []string `validate:"required,min=1,max=3,unique,dive,required"`
}

// forecastQuery holds query parameters for the forecast endpoint.
type forecastQuery struct {
	Days int `validate:"required,min=1,max=7"`
}

func (q *forecastQuery) bind(c *fiber.Ctx) error {
	raw := c.Query("days")
	if raw == "" {
		return errors.New("days query parameter is required")
	}
	days, err := strconv.Atoi(raw)
	if err != nil {
		return errors.New("days must be an integer")
	}
	q.Days = days
	return validate.Struct(q)
}
