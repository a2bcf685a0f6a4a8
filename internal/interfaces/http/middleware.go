package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
)

// requestObserver es el contrato mínimo que necesita Instrument.
// Lo implementa *metrics.Recorder; la interfaz evita acoplar el router a Prometheus.
type requestObserver interface {
	RequestStarted() func(method, route string, status int)
}

// AccessLog registra un evento por petición: request id, método, ruta, status, latencia y usuario.
// Los errores del handler se resuelven aquí con el ErrorHandler de la app para registrar el status real.
func AccessLog(log zerolog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		if err := c.Next(); err != nil {
			if herr := c.App().ErrorHandler(c, err); herr != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}
		status := c.Response().StatusCode()
		ev := log.Info()
		switch {
		case status >= fiber.StatusInternalServerError:
			ev = log.Error()
		case status >= fiber.StatusBadRequest:
			ev = log.Warn()
		}
		ev.Str("request_id", requestID(c)).
			Str("method", c.Method()).
			Str("route", c.Route().Path).
			Str("path", c.Path()).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Int64("user_id", GetUserID(c)).
			Msg("petición HTTP")
		return nil
	}
}

// Instrument mide duración y peticiones en curso por ruta (patrón, no path concreto).
func Instrument(obs requestObserver) fiber.Handler {
	return func(c *fiber.Ctx) error {
		done := obs.RequestStarted()
		err := c.Next()
		if err != nil {
			if herr := c.App().ErrorHandler(c, err); herr != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}
		done(c.Method(), c.Route().Path, c.Response().StatusCode())
		return nil
	}
}
