// Package api is the local HTTP facade editor plugins talk to. It exposes
// the assistance pipeline and the selection state over a loopback listener;
// there is no authentication because the server never leaves the machine.
package api

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/rolepilot/internal/assist"
	"github.com/rolepilot/internal/catalog"
	"github.com/rolepilot/internal/roles"
	"github.com/rolepilot/internal/selection"
	"github.com/rolepilot/pkg/models"
)

// Server represents the API server
type Server struct {
	echo     *echo.Echo
	listen   string
	engine   *assist.Engine
	sel      *selection.Manager
	personas *roles.Catalog
	cat      *catalog.Catalog
}

// NewServer creates a new API server
func NewServer(listen string, engine *assist.Engine, sel *selection.Manager, personas *roles.Catalog, cat *catalog.Catalog) *Server {
	e := echo.New()
	e.HideBanner = true

	// Middleware
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	server := &Server{
		echo:     e,
		listen:   listen,
		engine:   engine,
		sel:      sel,
		personas: personas,
		cat:      cat,
	}

	server.setupRoutes()

	return server
}

// setupRoutes configures all API endpoints
func (s *Server) setupRoutes() {
	s.echo.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{
			"status": "healthy",
		})
	})

	v1 := s.echo.Group("/api/v1")

	v1.POST("/assist/:task", s.doAssist)
	v1.GET("/selection", s.getSelection)
	v1.PUT("/selection", s.putSelection)
	v1.GET("/personas", s.getPersonas)
	v1.GET("/models", s.getModels)
	v1.GET("/models/recommended", s.getRecommendedModel)
}

// Start begins the API server and blocks until interrupted.
func (s *Server) Start() error {
	go func() {
		if err := s.echo.Start(s.listen); err != nil && err != http.ErrServerClosed {
			s.echo.Logger.Fatal("shutting down the server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return s.echo.Shutdown(ctx)
}

func (s *Server) doAssist(c echo.Context) error {
	kind, err := models.ParseTaskKind(c.Param("task"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, errorBody(err))
	}

	var req assist.Request
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorBody(err))
	}
	req.Kind = kind

	res, err := s.engine.Do(c.Request().Context(), req)
	if err != nil {
		if models.IsValidationError(err) {
			return c.JSON(http.StatusConflict, errorBody(err))
		}
		return c.JSON(http.StatusBadGateway, errorBody(err))
	}
	return c.JSON(http.StatusOK, res)
}

type selectionView struct {
	Persona string `json:"persona"`
	Model   string `json:"model"`
}

func (s *Server) getSelection(c echo.Context) error {
	return c.JSON(http.StatusOK, selectionView{
		Persona: s.sel.CurrentPersona(),
		Model:   s.sel.CurrentModel(),
	})
}

func (s *Server) putSelection(c echo.Context) error {
	var req selectionView
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorBody(err))
	}

	if req.Persona != "" {
		if err := s.sel.SetPersona(req.Persona); err != nil {
			return c.JSON(http.StatusInternalServerError, errorBody(err))
		}
	}
	if req.Model != "" {
		if err := s.sel.SetModel(req.Model); err != nil {
			if models.IsValidationError(err) {
				return c.JSON(http.StatusConflict, errorBody(err))
			}
			return c.JSON(http.StatusInternalServerError, errorBody(err))
		}
	}
	return s.getSelection(c)
}

func (s *Server) getPersonas(c echo.Context) error {
	return c.JSON(http.StatusOK, s.personas.List())
}

type modelView struct {
	models.Model
	Enabled bool `json:"enabled"`
}

func (s *Server) getModels(c echo.Context) error {
	enabled := map[string]bool{}
	for _, m := range s.sel.EnabledModels() {
		enabled[m.ID] = true
	}
	var out []modelView
	for _, m := range s.cat.List() {
		out = append(out, modelView{Model: m, Enabled: enabled[m.ID]})
	}
	return c.JSON(http.StatusOK, out)
}

func (s *Server) getRecommendedModel(c echo.Context) error {
	taskTag := c.QueryParam("task")
	mdl, ok := s.sel.RecommendedModel(taskTag)
	if !ok {
		return c.JSON(http.StatusNotFound, map[string]string{
			"error": "no enabled models",
		})
	}
	return c.JSON(http.StatusOK, mdl)
}

func errorBody(err error) map[string]string {
	return map[string]string{"error": err.Error()}
}
