package handlers

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/seu-repo/takeaway-voice/internal/adapter/telephony/twilio"
	"github.com/seu-repo/takeaway-voice/internal/domain"
)

// CallHandler serves the Twilio voice webhooks. Each webhook receives the
// caller's speech as form fields and answers with TwiML.
type CallHandler struct {
	flow     CallFlow
	renderer *twilio.Renderer
	log      *zap.Logger
}

// CallFlow is the conversation state machine behind the webhooks.
type CallFlow interface {
	StartCall(ctx context.Context, in domain.TurnInput) (domain.CallReply, error)
	ProcessSpeech(ctx context.Context, in domain.TurnInput) (domain.CallReply, error)
	ConfirmSpeech(ctx context.Context, in domain.TurnInput) (domain.CallReply, error)
}

func NewCallHandler(flow CallFlow, renderer *twilio.Renderer, log *zap.Logger) *CallHandler {
	return &CallHandler{
		flow:     flow,
		renderer: renderer,
		log:      log,
	}
}

// Voice answers a new incoming call.
func (h *CallHandler) Voice(c *fiber.Ctx) error {
	in := turnInput(c)
	if in.CallID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Missing CallSid"})
	}

	reply, err := h.flow.StartCall(c.Context(), in)
	if err != nil {
		return err
	}
	return h.respond(c, reply)
}

// Process handles a gathering turn.
func (h *CallHandler) Process(c *fiber.Ctx) error {
	in := turnInput(c)
	if in.CallID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Missing CallSid"})
	}

	reply, err := h.flow.ProcessSpeech(c.Context(), in)
	if err != nil {
		return err
	}
	return h.respond(c, reply)
}

// Confirm handles the yes/no turn.
func (h *CallHandler) Confirm(c *fiber.Ctx) error {
	in := turnInput(c)
	if in.CallID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Missing CallSid"})
	}

	reply, err := h.flow.ConfirmSpeech(c.Context(), in)
	if err != nil {
		return err
	}
	return h.respond(c, reply)
}

func (h *CallHandler) respond(c *fiber.Ctx, reply domain.CallReply) error {
	body, err := h.renderer.Render(reply)
	if err != nil {
		return err
	}
	c.Set(fiber.HeaderContentType, "application/xml")
	return c.SendString(body)
}

func turnInput(c *fiber.Ctx) domain.TurnInput {
	return domain.TurnInput{
		CallID:      c.FormValue("CallSid"),
		CallerPhone: c.FormValue("From"),
		Utterance:   c.FormValue("SpeechResult"),
		Confidence:  c.FormValue("Confidence"),
	}
}
