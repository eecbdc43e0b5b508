// Package server exposes the calculator over HTTP.
package server

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/google/uuid"

	"github.com/zephyrtronium/calculator"
	"github.com/zephyrtronium/calculator/internal/config"
)

// Server is the HTTP API for the calculator.
type Server struct {
	app    *fiber.App
	engine *calculator.Engine
}

// New creates a server evaluating with e. Requests may select another scale
// or rounding mode with the scale and round query parameters. If logs is not
// nil, one line per request is written to it.
func New(e *calculator.Engine, logs io.Writer) *Server {
	srv := &Server{engine: e}

	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
		ReadTimeout:           10 * time.Second,
		WriteTimeout:          10 * time.Second,
		BodyLimit:             1 << 20,
		ErrorHandler:          errorHandler,
	})
	app.Use(recover.New())
	app.Use(requestID)
	if logs != nil {
		app.Use(logger.New(logger.Config{
			Format:     "${time} ${locals:requestid} ${status} ${method} ${path} ${latency}\n",
			TimeFormat: time.RFC3339,
			Output:     logs,
		}))
	}

	app.Get("/healthz", srv.health)
	app.Post("/v1/calculate", srv.calculate)
	app.Post("/v1/terms", srv.terms)
	app.Post("/v1/postfix", srv.postfix)
	app.Post("/v1/evaluate", srv.evaluate)

	srv.app = app
	return srv
}

// Listen starts the HTTP server on the given address.
func (s *Server) Listen(addr string) error {
	return s.app.Listen(addr)
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown() error {
	return s.app.Shutdown()
}

// App returns the underlying Fiber app.
func (s *Server) App() *fiber.App {
	return s.app
}

// requestID tags each exchange with the caller's X-Request-ID or a new one.
func requestID(c *fiber.Ctx) error {
	id := c.Get(fiber.HeaderXRequestID)
	if id == "" {
		id = uuid.NewString()
	}
	c.Set(fiber.HeaderXRequestID, id)
	c.Locals("requestid", id)
	return c.Next()
}

type expressionRequest struct {
	Expression string `json:"expression"`
}

type termsRequest struct {
	Terms []string `json:"terms"`
}

type postfixRequest struct {
	Postfix []string `json:"postfix"`
}

type calculateResponse struct {
	Result  string   `json:"result"`
	Terms   []string `json:"terms"`
	Postfix []string `json:"postfix"`
	Scale   int      `json:"scale"`
}

func (s *Server) health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status": "ok",
		"scale":  s.engine.Scale(),
		"round":  s.engine.RoundsHalfUp(),
	})
}

func (s *Server) calculate(c *fiber.Ctx) error {
	e, err := s.engineFor(c)
	if err != nil {
		return invalidArgument(c, err.Error())
	}
	var req expressionRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidArgument(c, fmt.Sprintf("invalid request body: %v", err))
	}
	terms, err := calculator.SplitTerms(req.Expression)
	if err != nil {
		return calcError(c, err)
	}
	rpn, err := calculator.ToPostfix(terms)
	if err != nil {
		return calcError(c, err)
	}
	r, err := e.EvaluatePostfix(rpn)
	if err != nil {
		return calcError(c, err)
	}
	return c.JSON(calculateResponse{Result: r, Terms: terms, Postfix: rpn, Scale: e.Scale()})
}

func (s *Server) terms(c *fiber.Ctx) error {
	var req expressionRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidArgument(c, fmt.Sprintf("invalid request body: %v", err))
	}
	terms, err := calculator.SplitTerms(req.Expression)
	if err != nil {
		return calcError(c, err)
	}
	return c.JSON(fiber.Map{"terms": terms})
}

func (s *Server) postfix(c *fiber.Ctx) error {
	var req termsRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidArgument(c, fmt.Sprintf("invalid request body: %v", err))
	}
	if req.Terms == nil {
		return invalidArgument(c, "terms is required")
	}
	rpn, err := calculator.ToPostfix(req.Terms)
	if err != nil {
		return calcError(c, err)
	}
	return c.JSON(fiber.Map{"postfix": rpn})
}

func (s *Server) evaluate(c *fiber.Ctx) error {
	e, err := s.engineFor(c)
	if err != nil {
		return invalidArgument(c, err.Error())
	}
	var req postfixRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidArgument(c, fmt.Sprintf("invalid request body: %v", err))
	}
	r, err := e.EvaluatePostfix(req.Postfix)
	if err != nil {
		return calcError(c, err)
	}
	return c.JSON(fiber.Map{"result": r, "scale": e.Scale()})
}

// engineFor gets the engine for a request. Engines are cheap, so requests
// overriding the defaults get their own.
func (s *Server) engineFor(c *fiber.Ctx) (*calculator.Engine, error) {
	qs, qr := c.Query("scale"), c.Query("round")
	if qs == "" && qr == "" {
		return s.engine, nil
	}
	scale, round := s.engine.Scale(), s.engine.RoundsHalfUp()
	if qs != "" {
		n, err := strconv.Atoi(qs)
		if err != nil || n < 0 || n > config.MaxScale {
			return nil, fmt.Errorf("scale must be an integer in [0, %d]", config.MaxScale)
		}
		scale = n
	}
	if qr != "" {
		b, err := strconv.ParseBool(qr)
		if err != nil {
			return nil, fmt.Errorf("round must be a boolean")
		}
		round = b
	}
	return calculator.NewEngine(calculator.Scale(scale), calculator.RoundHalfUp(round)), nil
}

func invalidArgument(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"error": fiber.Map{
			"code":    fiber.StatusBadRequest,
			"message": msg,
			"status":  "INVALID_ARGUMENT",
		},
	})
}

// calcError writes the envelope for an error from the calculator.
func calcError(c *fiber.Ctx, err error) error {
	code, status := classify(err)
	body := fiber.Map{
		"code":    code,
		"message": err.Error(),
		"status":  status,
	}
	var ie calculator.InputError
	if errors.As(err, &ie) && ie.Pos() > 0 {
		body["column"] = ie.Pos()
	}
	return c.Status(code).JSON(fiber.Map{"error": body})
}

// classify maps an error to an HTTP status code and a status name.
func classify(err error) (int, string) {
	var (
		invalid   *calculator.InvalidExpressionError
		malformed *calculator.MalformedLiteralError
		underflow *calculator.StackUnderflowError
		empty     *calculator.EmptyResultError
		name      *calculator.NameError
		zero      *calculator.DivisionByZeroError
		domain    *calculator.DomainError
	)
	switch {
	case errors.As(err, &invalid):
		return fiber.StatusBadRequest, "INVALID_EXPRESSION"
	case errors.As(err, &malformed):
		return fiber.StatusBadRequest, "MALFORMED_LITERAL"
	case errors.As(err, &underflow):
		return fiber.StatusBadRequest, "STACK_UNDERFLOW"
	case errors.As(err, &empty):
		return fiber.StatusBadRequest, "EMPTY_RESULT"
	case errors.As(err, &name):
		return fiber.StatusBadRequest, "UNDEFINED_VARIABLE"
	case errors.As(err, &zero):
		return fiber.StatusUnprocessableEntity, "DIVISION_BY_ZERO"
	case errors.As(err, &domain):
		return fiber.StatusUnprocessableEntity, "DOMAIN_ERROR"
	default:
		return fiber.StatusInternalServerError, "INTERNAL"
	}
}

// errorHandler renders errors escaping handlers, including unknown routes and
// recovered panics, in the same envelope.
func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	status := "INTERNAL"
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
		switch code {
		case fiber.StatusNotFound:
			status = "NOT_FOUND"
		case fiber.StatusMethodNotAllowed:
			status = "METHOD_NOT_ALLOWED"
		case fiber.StatusRequestEntityTooLarge:
			status = "INVALID_ARGUMENT"
		}
	}
	return c.Status(code).JSON(fiber.Map{
		"error": fiber.Map{
			"code":    code,
			"message": err.Error(),
			"status":  status,
		},
	})
}
