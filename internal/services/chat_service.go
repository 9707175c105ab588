package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/whipsplash/concierge-backend/internal/database"
	"github.com/whipsplash/concierge-backend/internal/models"
	"github.com/whipsplash/concierge-backend/pkg/agent"
)

// ChatService runs conversational turns against the agent runtime. For
// each turn it replays the session's stored history, exposes the
// reservation and order operations as tools, relays the agent's text
// output fragment by fragment, and persists the completed turn.
type ChatService struct {
	runtime      agent.Runtime
	messageRepo  *database.MessageRepository
	reservations *ReservationService
	orders       *OrderService
	logger       *logrus.Logger
}

// NewChatService creates a new ChatService
func NewChatService(
	runtime agent.Runtime,
	messageRepo *database.MessageRepository,
	reservations *ReservationService,
	orders *OrderService,
	logger *logrus.Logger,
) *ChatService {
	return &ChatService{
		runtime:      runtime,
		messageRepo:  messageRepo,
		reservations: reservations,
		orders:       orders,
		logger:       logger,
	}
}

// Stream executes one conversational turn. Text fragments are sent on
// the returned channel as the agent produces them; the channel is
// closed when the run completes. A run failure is reported on the
// error channel. The turn is persisted only after the full agent run
// has finished, so a consumer that stops reading early does not lose
// conversation history.
func (s *ChatService) Stream(
	ctx context.Context,
	sessionID uuid.UUID,
	guest models.Guest,
	userText string,
) (<-chan string, <-chan error) {
	fragments := make(chan string)
	errs := make(chan error, 1)

	go func() {
		defer close(fragments)
		defer close(errs)

		pairs, err := s.messageRepo.ListBySession(sessionID)
		if err != nil {
			errs <- err
			return
		}

		history := make([]agent.Message, 0, len(pairs)*2)
		for _, pair := range pairs {
			history = append(history,
				agent.Message{Role: agent.RoleUser, Content: pair.UserMessage},
				agent.Message{Role: agent.RoleAssistant, Content: pair.AssistantText},
			)
		}

		s.logger.WithFields(logrus.Fields{
			"session_id": sessionID,
			"history":    len(history),
		}).Debug("Starting agent run")

		result, err := s.runtime.Run(ctx, agent.RunRequest{
			SystemPrompt: s.systemPrompt(guest),
			History:      history,
			UserPrompt:   userText,
			Tools:        s.tools(guest),
		}, fragments)
		if err != nil {
			errs <- fmt.Errorf("agent run failed: %w", err)
			return
		}

		userMsg, assistantMsg, ok := splitTurn(result.NewMessages)
		if !ok {
			s.logger.WithFields(logrus.Fields{
				"session_id": sessionID,
				"messages":   len(result.NewMessages),
			}).Warn("Agent run did not produce a user/assistant pair, skipping persistence")
			return
		}

		pair := &models.MessagePair{
			SessionID:     sessionID,
			GuestID:       guest.ID,
			UserMessage:   userMsg,
			AssistantText: assistantMsg,
		}
		if err := s.messageRepo.Append(pair); err != nil {
			errs <- err
		}
	}()

	return fragments, errs
}

// History returns the stored turns for a session in insertion order
func (s *ChatService) History(sessionID uuid.UUID) ([]models.MessagePair, error) {
	return s.messageRepo.ListBySession(sessionID)
}

// ClearHistory removes all stored turns for a session
func (s *ChatService) ClearHistory(sessionID uuid.UUID) error {
	return s.messageRepo.DeleteBySession(sessionID)
}

// splitTurn extracts the user and assistant texts from the messages a
// run produced, expecting exactly one of each.
func splitTurn(messages []agent.Message) (string, string, bool) {
	if len(messages) != 2 {
		return "", "", false
	}
	if messages[0].Role != agent.RoleUser || messages[1].Role != agent.RoleAssistant {
		return "", "", false
	}
	return messages[0].Content, messages[1].Content, true
}

func (s *ChatService) systemPrompt(guest models.Guest) string {
	return fmt.Sprintf(
		"You are the hotel concierge agent for WhipSplash. WhipSplash offers three "+
			"types of rooms: single, double, and suite. You help guests create, modify, "+
			"or cancel reservations and add service orders to their reservations. Use "+
			"the list_services tool to see the service catalog. The guest you are "+
			"assisting is %s (%s), guest id %s. Use the get_reservations tool to see "+
			"that guest's reservations; do not rely on message history for reservation "+
			"data. All dates are RFC 3339 timestamps.",
		guest.FullName, guest.Email, guest.ID,
	)
}

// tools builds the static tool set exposed to the agent. Each tool is
// a thin delegation into the reservation or order service, with the
// authenticated guest carried as call context.
func (s *ChatService) tools(guest models.Guest) []agent.Tool {
	return []agent.Tool{
		{
			Name:        "create_reservation",
			Description: "Create a new reservation for the current guest with a room type, check-in and check-out.",
			Parameters: objectSchema(map[string]interface{}{
				"room_type": map[string]interface{}{"type": "string", "enum": []string{"single", "double", "suite"}},
				"check_in":  map[string]interface{}{"type": "string", "format": "date-time"},
				"check_out": map[string]interface{}{"type": "string", "format": "date-time"},
			}, "room_type", "check_in", "check_out"),
			Invoke: func(ctx context.Context, args json.RawMessage) (interface{}, error) {
				var params struct {
					RoomType string    `json:"room_type"`
					CheckIn  time.Time `json:"check_in"`
					CheckOut time.Time `json:"check_out"`
				}
				if err := json.Unmarshal(args, &params); err != nil {
					return nil, err
				}
				return s.reservations.Book(guest, models.RoomType(params.RoomType), params.CheckIn, params.CheckOut)
			},
		},
		{
			Name:        "get_reservations",
			Description: "List all reservations for the current guest.",
			Parameters:  objectSchema(map[string]interface{}{}),
			Invoke: func(ctx context.Context, args json.RawMessage) (interface{}, error) {
				return s.reservations.ListForGuest(guest.ID)
			},
		},
		{
			Name:        "modify_reservation",
			Description: "Modify an existing reservation's dates or room type.",
			Parameters: objectSchema(map[string]interface{}{
				"reservation_id": map[string]interface{}{"type": "string", "format": "uuid"},
				"check_in":       map[string]interface{}{"type": "string", "format": "date-time"},
				"check_out":      map[string]interface{}{"type": "string", "format": "date-time"},
				"room_type":      map[string]interface{}{"type": "string", "enum": []string{"single", "double", "suite"}},
			}, "reservation_id"),
			Invoke: func(ctx context.Context, args json.RawMessage) (interface{}, error) {
				var params struct {
					ReservationID uuid.UUID  `json:"reservation_id"`
					CheckIn       *time.Time `json:"check_in"`
					CheckOut      *time.Time `json:"check_out"`
					RoomType      *string    `json:"room_type"`
				}
				if err := json.Unmarshal(args, &params); err != nil {
					return nil, err
				}
				var roomType *models.RoomType
				if params.RoomType != nil {
					rt := models.RoomType(*params.RoomType)
					roomType = &rt
				}
				return s.reservations.Modify(params.ReservationID, params.CheckIn, params.CheckOut, roomType)
			},
		},
		{
			Name:        "cancel_reservation",
			Description: "Cancel an existing reservation by its id.",
			Parameters: objectSchema(map[string]interface{}{
				"reservation_id": map[string]interface{}{"type": "string", "format": "uuid"},
			}, "reservation_id"),
			Invoke: func(ctx context.Context, args json.RawMessage) (interface{}, error) {
				var params struct {
					ReservationID uuid.UUID `json:"reservation_id"`
				}
				if err := json.Unmarshal(args, &params); err != nil {
					return nil, err
				}
				if err := s.reservations.Cancel(params.ReservationID); err != nil {
					return nil, err
				}
				return map[string]bool{"cancelled": true}, nil
			},
		},
		{
			Name:        "list_services",
			Description: "List all services the hotel offers.",
			Parameters:  objectSchema(map[string]interface{}{}),
			Invoke: func(ctx context.Context, args json.RawMessage) (interface{}, error) {
				return s.orders.ListServices()
			},
		},
		{
			Name:        "create_service_order",
			Description: "Order a service for one of the guest's reservations.",
			Parameters: objectSchema(map[string]interface{}{
				"reservation_id": map[string]interface{}{"type": "string", "format": "uuid"},
				"service_id":     map[string]interface{}{"type": "string", "format": "uuid"},
				"quantity":       map[string]interface{}{"type": "integer", "minimum": 1},
			}, "reservation_id", "service_id", "quantity"),
			Invoke: func(ctx context.Context, args json.RawMessage) (interface{}, error) {
				var params struct {
					ReservationID uuid.UUID `json:"reservation_id"`
					ServiceID     uuid.UUID `json:"service_id"`
					Quantity      int       `json:"quantity"`
				}
				if err := json.Unmarshal(args, &params); err != nil {
					return nil, err
				}
				return s.orders.PlaceOrder(params.ReservationID, params.ServiceID, params.Quantity, models.OrderStatusPending)
			},
		},
		{
			Name:        "list_service_orders",
			Description: "List the service orders placed against a reservation.",
			Parameters: objectSchema(map[string]interface{}{
				"reservation_id": map[string]interface{}{"type": "string", "format": "uuid"},
			}, "reservation_id"),
			Invoke: func(ctx context.Context, args json.RawMessage) (interface{}, error) {
				var params struct {
					ReservationID uuid.UUID `json:"reservation_id"`
				}
				if err := json.Unmarshal(args, &params); err != nil {
					return nil, err
				}
				return s.orders.ListOrders(params.ReservationID)
			},
		},
		{
			Name:        "delete_service_order",
			Description: "Delete a single service order by its id.",
			Parameters: objectSchema(map[string]interface{}{
				"order_id": map[string]interface{}{"type": "string", "format": "uuid"},
			}, "order_id"),
			Invoke: func(ctx context.Context, args json.RawMessage) (interface{}, error) {
				var params struct {
					OrderID uuid.UUID `json:"order_id"`
				}
				if err := json.Unmarshal(args, &params); err != nil {
					return nil, err
				}
				if err := s.orders.DeleteOrder(params.OrderID); err != nil {
					return nil, err
				}
				return map[string]bool{"deleted": true}, nil
			},
		},
		{
			Name:        "delete_service_orders_for_reservation",
			Description: "Delete all service orders placed against a reservation.",
			Parameters: objectSchema(map[string]interface{}{
				"reservation_id": map[string]interface{}{"type": "string", "format": "uuid"},
			}, "reservation_id"),
			Invoke: func(ctx context.Context, args json.RawMessage) (interface{}, error) {
				var params struct {
					ReservationID uuid.UUID `json:"reservation_id"`
				}
				if err := json.Unmarshal(args, &params); err != nil {
					return nil, err
				}
				if err := s.orders.DeleteOrdersForReservation(params.ReservationID); err != nil {
					return nil, err
				}
				return map[string]bool{"deleted": true}, nil
			},
		},
	}
}

// objectSchema builds a JSON schema for a tool's argument object
func objectSchema(properties map[string]interface{}, required ...string) map[string]interface{} {
	schema := map[string]interface{}{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}
