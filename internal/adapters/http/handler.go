package httpadapter

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/PabloGalante/farum-oracle/internal/app/conversation"
	"github.com/PabloGalante/farum-oracle/internal/app/profile"
	"github.com/PabloGalante/farum-oracle/internal/app/readings"
	"github.com/PabloGalante/farum-oracle/internal/domain"
	"github.com/PabloGalante/farum-oracle/internal/observability"
)

// PersonaCatalog lists the personas a session can be opened with.
type PersonaCatalog interface {
	List() []domain.Persona
	Default() domain.Persona
}

type Handler struct {
	personas PersonaCatalog
	sessions *conversation.Manager
	readings *readings.Service
	profiles *profile.Service
}

func NewHandler(
	personas PersonaCatalog,
	sessions *conversation.Manager,
	readingSvc *readings.Service,
	profileSvc *profile.Service,
) *Handler {
	return &Handler{
		personas: personas,
		sessions: sessions,
		readings: readingSvc,
		profiles: profileSvc,
	}
}

func (h *Handler) Register(e *echo.Echo) {
	e.GET("/healthz", h.Healthz)
	e.GET("/personas", h.ListPersonas)

	e.POST("/sessions", h.CreateSession)
	e.GET("/sessions/:id", h.GetSession)
	e.DELETE("/sessions/:id", h.CloseSession)
	e.POST("/sessions/:id/messages", h.SendMessage)
	e.POST("/sessions/:id/actions/:action", h.TriggerAction)

	e.GET("/users/:id/readings", h.ListReadings)
	e.PUT("/users/:id/birth-data", h.SaveBirthData)
}

func (h *Handler) Healthz(c echo.Context) error {
	return c.String(http.StatusOK, "OK")
}

func (h *Handler) ListPersonas(c echo.Context) error {
	list := h.personas.List()
	out := make([]personaResponse, 0, len(list))
	for _, p := range list {
		out = append(out, toPersonaResponse(p))
	}
	return c.JSON(http.StatusOK, out)
}

func (h *Handler) CreateSession(c echo.Context) error {
	var req createSessionRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid JSON body"})
	}
	if strings.TrimSpace(req.UserID) == "" {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "user_id is required"})
	}

	personaID := domain.PersonaID(req.PersonaID)
	if personaID == "" {
		personaID = h.personas.Default().ID
	}

	ctrl, err := h.sessions.Open(c.Request().Context(), conversation.OpenInput{
		UserID:    domain.UserID(req.UserID),
		PersonaID: personaID,
	})
	if err != nil {
		return mapError(c, err)
	}
	return c.JSON(http.StatusCreated, toSessionResponse(ctrl))
}

func (h *Handler) GetSession(c echo.Context) error {
	ctrl, err := h.sessions.Get(domain.SessionID(c.Param("id")))
	if err != nil {
		return mapError(c, err)
	}
	return c.JSON(http.StatusOK, toSessionResponse(ctrl))
}

func (h *Handler) CloseSession(c echo.Context) error {
	if err := h.sessions.Close(domain.SessionID(c.Param("id"))); err != nil {
		return mapError(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *Handler) SendMessage(c echo.Context) error {
	ctrl, err := h.sessions.Get(domain.SessionID(c.Param("id")))
	if err != nil {
		return mapError(c, err)
	}

	var req sendMessageRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid JSON body"})
	}

	if err := ctrl.SubmitUserText(c.Request().Context(), req.Text); err != nil {
		return mapError(c, err)
	}
	return c.JSON(http.StatusOK, toSessionResponse(ctrl))
}

func (h *Handler) TriggerAction(c echo.Context) error {
	ctrl, err := h.sessions.Get(domain.SessionID(c.Param("id")))
	if err != nil {
		return mapError(c, err)
	}

	action := domain.ActionID(c.Param("action"))
	if err := ctrl.TriggerAction(c.Request().Context(), action); err != nil {
		return mapError(c, err)
	}
	return c.JSON(http.StatusOK, toSessionResponse(ctrl))
}

func (h *Handler) ListReadings(c echo.Context) error {
	userID := domain.UserID(c.Param("id"))

	limit := 0
	if raw := c.QueryParam("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 {
			return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "limit must be a positive integer"})
		}
		limit = parsed
	}

	recs, err := h.readings.ListByUser(c.Request().Context(), userID, limit)
	if err != nil {
		return mapError(c, err)
	}
	return c.JSON(http.StatusOK, toReadingsResponse(userID, recs))
}

func (h *Handler) SaveBirthData(c echo.Context) error {
	var req birthDataRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid JSON body"})
	}

	data, err := h.profiles.SaveBirthData(c.Request().Context(), domain.UserID(c.Param("id")), profile.BirthDataInput{
		Name:      req.Name,
		Date:      req.Date,
		Time:      req.Time,
		Latitude:  req.Latitude,
		Longitude: req.Longitude,
		Timezone:  req.Timezone,
	})
	if err != nil {
		return mapError(c, err)
	}
	return c.JSON(http.StatusOK, data)
}

func mapError(c echo.Context, err error) error {
	log := observability.LoggerFromContext(c.Request().Context())

	switch {
	case errors.Is(err, domain.ErrSessionNotFound),
		errors.Is(err, domain.ErrPersonaNotFound),
		errors.Is(err, domain.ErrProfileNotFound):
		return c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error()})
	case errors.Is(err, conversation.ErrBusy):
		return c.JSON(http.StatusConflict, ErrorResponse{Error: err.Error()})
	case errors.Is(err, conversation.ErrEmptyInput),
		errors.Is(err, conversation.ErrUnknownAction),
		errors.Is(err, domain.ErrValidation):
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
	default:
		log.Error("internal error", "error", err)
		return c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal error"})
	}
}
