package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/agency-crm/internal/api/dto"
	"github.com/spec-kit/agency-crm/internal/service"
	apperrors "github.com/spec-kit/agency-crm/pkg/util"
)

// RecordsHandler manages tasks, interactions, calendar notes and
// testimonials.
type RecordsHandler struct {
	tasks  *service.TaskService
	agency *service.AgencyService
}

// NewRecordsHandler constructs handler.
func NewRecordsHandler(taskService *service.TaskService, agencyService *service.AgencyService) *RecordsHandler {
	return &RecordsHandler{tasks: taskService, agency: agencyService}
}

// CreateTask POST /api/tasks.
func (h *RecordsHandler) CreateTask(c *fiber.Ctx) error {
	user, err := requireUser(c)
	if err != nil {
		return err
	}
	var req dto.TaskRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	task, err := h.tasks.CreateTask(c.Context(), user, taskInput(req))
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": dto.NewTaskResponse(task)})
}

// ListTasks GET /api/tasks.
func (h *RecordsHandler) ListTasks(c *fiber.Ctx) error {
	user, err := requireUser(c)
	if err != nil {
		return err
	}
	tasks, err := h.tasks.ListTasks(c.Context(), user, c.QueryBool("open"))
	if err != nil {
		return err
	}
	items := make([]dto.TaskResponse, 0, len(tasks))
	for i := range tasks {
		items = append(items, dto.NewTaskResponse(&tasks[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// UpdateTask PUT /api/tasks/:id.
func (h *RecordsHandler) UpdateTask(c *fiber.Ctx) error {
	user, err := requireUser(c)
	if err != nil {
		return err
	}
	var req dto.TaskRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	task, err := h.tasks.UpdateTask(c.Context(), user, c.Params("id"), taskInput(req))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewTaskResponse(task)})
}

// DeleteTask DELETE /api/tasks/:id.
func (h *RecordsHandler) DeleteTask(c *fiber.Ctx) error {
	user, err := requireUser(c)
	if err != nil {
		return err
	}
	if err := h.tasks.DeleteTask(c.Context(), user, c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// LogInteraction POST /api/interactions.
func (h *RecordsHandler) LogInteraction(c *fiber.Ctx) error {
	user, err := requireUser(c)
	if err != nil {
		return err
	}
	var req dto.InteractionRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	in, err := h.agency.LogInteraction(c.Context(), user, service.InteractionInput{
		ClientID:   req.ClientID,
		Kind:       req.Kind,
		Summary:    req.Summary,
		OccurredAt: req.OccurredAt,
	})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": dto.NewInteractionResponse(in)})
}

// DeleteInteraction DELETE /api/interactions/:id. Staff only.
func (h *RecordsHandler) DeleteInteraction(c *fiber.Ctx) error {
	if err := h.agency.DeleteInteraction(c.Context(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// AddCalendarNote POST /api/calendar-notes.
func (h *RecordsHandler) AddCalendarNote(c *fiber.Ctx) error {
	user, err := requireUser(c)
	if err != nil {
		return err
	}
	var req dto.CalendarNoteRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	note, err := h.agency.AddCalendarNote(c.Context(), user, req.Date, req.Note)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": dto.NewCalendarNoteResponse(note)})
}

// ListCalendarNotes GET /api/calendar-notes?from=...&to=...
func (h *RecordsHandler) ListCalendarNotes(c *fiber.Ctx) error {
	user, err := requireUser(c)
	if err != nil {
		return err
	}
	from, to, err := parseDateRange(c.Query("from"), c.Query("to"))
	if err != nil {
		return err
	}
	notes, err := h.agency.ListCalendarNotes(c.Context(), user, from, to)
	if err != nil {
		return err
	}
	items := make([]dto.CalendarNoteResponse, 0, len(notes))
	for i := range notes {
		items = append(items, dto.NewCalendarNoteResponse(&notes[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// DeleteCalendarNote DELETE /api/calendar-notes/:id.
func (h *RecordsHandler) DeleteCalendarNote(c *fiber.Ctx) error {
	if err := h.agency.RemoveCalendarNote(c.Context(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// AddTestimonial POST /api/testimonials. Staff only.
func (h *RecordsHandler) AddTestimonial(c *fiber.Ctx) error {
	var req dto.TestimonialRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	t, err := h.agency.AddTestimonial(c.Context(), testimonialInput(req))
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"data": dto.NewTestimonialResponse(t)})
}

// ListTestimonials GET /api/testimonials.
func (h *RecordsHandler) ListTestimonials(c *fiber.Ctx) error {
	testimonials, err := h.agency.ListTestimonials(c.Context(), c.QueryBool("published"))
	if err != nil {
		return err
	}
	items := make([]dto.TestimonialResponse, 0, len(testimonials))
	for i := range testimonials {
		items = append(items, dto.NewTestimonialResponse(&testimonials[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// UpdateTestimonial PUT /api/testimonials/:id. Staff only.
func (h *RecordsHandler) UpdateTestimonial(c *fiber.Ctx) error {
	var req dto.TestimonialRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	t, err := h.agency.UpdateTestimonial(c.Context(), c.Params("id"), testimonialInput(req))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewTestimonialResponse(t)})
}

// DeleteTestimonial DELETE /api/testimonials/:id. Staff only.
func (h *RecordsHandler) DeleteTestimonial(c *fiber.Ctx) error {
	if err := h.agency.RemoveTestimonial(c.Context(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func taskInput(req dto.TaskRequest) service.TaskInput {
	return service.TaskInput{
		Title:     req.Title,
		Notes:     req.Notes,
		ClientID:  req.ClientID,
		DueDate:   req.DueDate,
		Completed: req.Completed,
	}
}

func testimonialInput(req dto.TestimonialRequest) service.TestimonialInput {
	return service.TestimonialInput{
		AgentID:   req.AgentID,
		Author:    req.Author,
		Quote:     req.Quote,
		Published: req.Published,
	}
}

func parseDateRange(fromRaw, toRaw string) (time.Time, time.Time, error) {
	now := time.Now()
	from := now.AddDate(0, -1, 0)
	to := now.AddDate(0, 1, 0)
	var err error
	if fromRaw != "" {
		if from, err = time.Parse("2006-01-02", fromRaw); err != nil {
			return time.Time{}, time.Time{}, apperrors.NewValidationError("invalid from date", nil)
		}
	}
	if toRaw != "" {
		if to, err = time.Parse("2006-01-02", toRaw); err != nil {
			return time.Time{}, time.Time{}, apperrors.NewValidationError("invalid to date", nil)
		}
	}
	return from, to, nil
}
