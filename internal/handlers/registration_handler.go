package handlers

import (
	"errors"
	"fmt"
	"io"
	"log"
	"reflect"
	"regexp"
	"strings"

	"festreg/internal/exporter"
	"festreg/internal/models"
	"festreg/internal/services"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

var (
	mobileRe = regexp.MustCompile(`^[6-9][0-9]{9}$`)
	aadharRe = regexp.MustCompile(`^[0-9]{12}$`)
)

// RegistrationRequest is the multipart form payload for POST /api/register.
// The two file parts (aadharImage, collegeId) are read separately.
type RegistrationRequest struct {
	RegistrationID string `form:"registrationId" validate:"required,uuid"`
	Event          string `form:"event" validate:"required"`
	TeamName       string `form:"teamName" validate:"required"`
	TeamLeaderName string `form:"teamLeaderName" validate:"required"`
	Email          string `form:"email" validate:"required,email"`
	Mobile         string `form:"mobile" validate:"required,mobile"`
	Gender         string `form:"gender" validate:"required"`
	College        string `form:"college" validate:"required"`
	Course         string `form:"course" validate:"required"`
	Year           string `form:"year" validate:"required"`
	RollNo         string `form:"rollno" validate:"required"`
	Aadhar         string `form:"aadhar" validate:"required,aadhar"`
	TeamSize       int    `form:"teamSize" validate:"required,min=1,max=4"`
}

func (r *RegistrationRequest) trim() {
	r.RegistrationID = strings.TrimSpace(r.RegistrationID)
	r.Event = strings.TrimSpace(r.Event)
	r.TeamName = strings.TrimSpace(r.TeamName)
	r.TeamLeaderName = strings.TrimSpace(r.TeamLeaderName)
	r.Email = strings.TrimSpace(r.Email)
	r.Mobile = strings.TrimSpace(r.Mobile)
	r.Gender = strings.TrimSpace(r.Gender)
	r.College = strings.TrimSpace(r.College)
	r.Course = strings.TrimSpace(r.Course)
	r.Year = strings.TrimSpace(r.Year)
	r.RollNo = strings.TrimSpace(r.RollNo)
	r.Aadhar = strings.TrimSpace(r.Aadhar)
}

func (r *RegistrationRequest) toRegistration() *models.Registration {
	return &models.Registration{
		RegistrationID: r.RegistrationID,
		Event:          r.Event,
		TeamName:       r.TeamName,
		TeamLeaderName: r.TeamLeaderName,
		Email:          r.Email,
		Mobile:         r.Mobile,
		Gender:         r.Gender,
		College:        r.College,
		Course:         r.Course,
		Year:           r.Year,
		RollNo:         r.RollNo,
		Aadhar:         r.Aadhar,
		TeamSize:       r.TeamSize,
	}
}

// RegistrationHandler handles HTTP requests for registrations.
type RegistrationHandler struct {
	service  *services.RegistrationService
	exporter *exporter.ExcelExporter
	validate *validator.Validate
	events   map[string]bool // accepted event slugs; empty accepts any
}

// NewRegistrationHandler creates a new RegistrationHandler. events is the list
// of accepted event slugs; an empty list accepts any non-empty event name.
func NewRegistrationHandler(service *services.RegistrationService, ex *exporter.ExcelExporter, events []string) *RegistrationHandler {
	v := validator.New()
	v.RegisterValidation("mobile", func(fl validator.FieldLevel) bool {
		return mobileRe.MatchString(fl.Field().String())
	})
	v.RegisterValidation("aadhar", func(fl validator.FieldLevel) bool {
		return aadharRe.MatchString(fl.Field().String())
	})
	// Report errors under the form field names the client submitted
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		return fld.Tag.Get("form")
	})

	allowed := make(map[string]bool, len(events))
	for _, e := range events {
		if e = strings.TrimSpace(e); e != "" {
			allowed[e] = true
		}
	}

	return &RegistrationHandler{
		service:  service,
		exporter: ex,
		validate: v,
		events:   allowed,
	}
}

// RegisterRoutes registers the public registration routes with the Fiber app.
func (h *RegistrationHandler) RegisterRoutes(router fiber.Router) {
	router.Post("/register", h.HandleRegister)
	router.Get("/confirm/:registrationId", h.HandleConfirm)
}

// RegisterExportRoute registers the export download. The caller is expected to
// wrap the router in the auth middleware.
func (h *RegistrationHandler) RegisterExportRoute(router fiber.Router) {
	router.Get("/export-excel", h.HandleExportExcel)
}

// HandleRegister accepts a new team registration.
func (h *RegistrationHandler) HandleRegister(c *fiber.Ctx) error {
	var req RegistrationRequest
	if err := c.BodyParser(&req); err != nil {
		log.Printf("Error parsing registration form: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid form data",
		})
	}
	req.trim()

	if err := h.validate.Struct(req); err != nil {
		var validationErrors validator.ValidationErrors
		if errors.As(err, &validationErrors) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"errors": validationMessages(validationErrors),
			})
		}
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid form data",
		})
	}
	if len(h.events) > 0 && !h.events[req.Event] {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"errors": []fiber.Map{{"msg": fmt.Sprintf("unknown event '%s'", req.Event), "param": "event"}},
		})
	}

	aadharDoc, aadharFile, err := formDocument(c, "aadharImage")
	if err != nil {
		return h.errorResponse(c, err)
	}
	defer aadharFile.Close()

	collegeDoc, collegeFile, err := formDocument(c, "collegeId")
	if err != nil {
		return h.errorResponse(c, err)
	}
	defer collegeFile.Close()

	reg, emailQueued, err := h.service.CreateRegistration(req.toRegistration(), aadharDoc, collegeDoc)
	if err != nil {
		return h.errorResponse(c, err)
	}

	message := "Registration successful, confirmation email queued"
	if !emailQueued {
		message = "Registration successful, confirmation email delivery pending"
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"message":        message,
		"registrationId": reg.RegistrationID,
		"data":           reg,
	})
}

// HandleConfirm flips a registration's confirmed flag via the emailed link.
func (h *RegistrationHandler) HandleConfirm(c *fiber.Ctx) error {
	id := c.Params("registrationId")
	if err := h.service.ConfirmRegistration(id); err != nil {
		return h.errorResponse(c, err)
	}
	return c.JSON(fiber.Map{
		"message": "Email confirmed successfully",
	})
}

// HandleExportExcel streams a spreadsheet of all registrations.
func (h *RegistrationHandler) HandleExportExcel(c *fiber.Ctx) error {
	regs, err := h.service.GetAllRegistrations()
	if err != nil {
		return h.errorResponse(c, err)
	}
	buf, err := h.exporter.Workbook(regs)
	if err != nil {
		log.Printf("Failed to build export workbook: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "internal server error",
		})
	}
	c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="registrations.xlsx"`)
	return c.Send(buf.Bytes())
}

// errorResponse translates workflow errors into the client-visible envelopes.
// Unexpected errors are logged in full and returned as a generic 500.
func (h *RegistrationHandler) errorResponse(c *fiber.Ctx, err error) error {
	var (
		dupDoc   *models.DuplicateDocumentError
		dupTeam  *models.DuplicateTeamError
		dupField *models.DuplicateFieldError
		upload   *models.UploadError
	)
	switch {
	case errors.As(err, &dupDoc), errors.As(err, &dupTeam), errors.As(err, &dupField), errors.As(err, &upload):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, models.ErrRegistrationNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Registration not found"})
	case errors.Is(err, models.ErrAlreadyConfirmed):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Email already confirmed"})
	}
	log.Printf("Unexpected registration error: %v", err)
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
}

// formDocument extracts exactly one uploaded file from the named multipart slot.
func formDocument(c *fiber.Ctx, slot string) (*services.DocumentUpload, io.Closer, error) {
	form, err := c.MultipartForm()
	if err != nil {
		return nil, nil, &models.UploadError{Slot: slot, Reason: "multipart form is required"}
	}
	headers := form.File[slot]
	if len(headers) != 1 {
		return nil, nil, &models.UploadError{Slot: slot, Reason: "exactly one file is required"}
	}

	fh := headers[0]
	f, err := fh.Open()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open uploaded file %s: %w", slot, err)
	}
	return &services.DocumentUpload{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Size:        fh.Size,
		Content:     f,
	}, f, nil
}

func validationMessages(errs validator.ValidationErrors) []fiber.Map {
	msgs := make([]fiber.Map, 0, len(errs))
	for _, e := range errs {
		msgs = append(msgs, fiber.Map{
			"msg":   fmt.Sprintf("Field '%s' failed on the '%s' rule", e.Field(), e.Tag()),
			"param": e.Field(),
		})
	}
	return msgs
}
