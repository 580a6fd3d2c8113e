package conversation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/iyhunko/price-monitor/internal/extraction"
	"github.com/iyhunko/price-monitor/internal/metrics"
	"github.com/iyhunko/price-monitor/internal/model"
	"github.com/iyhunko/price-monitor/internal/repository"
)

// Catalog is the set of catalog use-cases the chat can drive.
type Catalog interface {
	AddProduct(ctx context.Context, urlInfo, urlPrice string) (*model.Product, error)
	RemoveProduct(ctx context.Context, id int64) error
	ListProducts(ctx context.Context) ([]model.Product, error)
	PriceHistory(ctx context.Context, id int64) ([]model.PriceSample, error)
}

// Machine routes operator messages through the chat flows.
type Machine struct {
	catalog    Catalog
	sessions   SessionStore
	operatorID int64
	location   *time.Location
}

type Option func(*Machine)

// WithLocation sets the time zone used to display price history dates. Defaults to UTC.
func WithLocation(loc *time.Location) Option {
	return func(m *Machine) {
		if loc != nil {
			m.location = loc
		}
	}
}

func NewMachine(catalog Catalog, sessions SessionStore, operatorID int64, opts ...Option) *Machine {
	m := &Machine{
		catalog:    catalog,
		sessions:   sessions,
		operatorID: operatorID,
		location:   time.UTC,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// OperatorID is the only user whose messages reach the flows.
func (m *Machine) OperatorID() int64 {
	return m.operatorID
}

// Handle processes one message and returns the replies to send, in order.
func (m *Machine) Handle(ctx context.Context, msg Message) []Reply {
	if msg.UserID != m.operatorID {
		metrics.ChatMessages.WithLabelValues("rejected").Inc()
		slog.Info("message from unknown user ignored", slog.Int64("user_id", msg.UserID))
		return m.reply(msg, fmt.Sprintf(textGreetingStranger, msg.FirstName))
	}

	// a command always wins over the active stage and replaces the session
	text := strings.TrimSpace(msg.Text)
	switch text {
	case CommandStart:
		metrics.ChatMessages.WithLabelValues("start").Inc()
		m.clear(ctx, msg.UserID)
		return []Reply{{ChatID: msg.ChatID, Text: fmt.Sprintf(textMenu, msg.FirstName), Keyboard: MenuKeyboard}}
	case CommandInstruction:
		metrics.ChatMessages.WithLabelValues("instruction").Inc()
		m.clear(ctx, msg.UserID)
		return m.reply(msg, textInstruction)
	case CommandAddProduct:
		metrics.ChatMessages.WithLabelValues(string(FlowAdd)).Inc()
		return m.advance(ctx, msg, Session{Flow: FlowAdd, Stage: StageAwaitingInfoURL}, textAskInfoURL)
	case CommandDeleteProduct:
		metrics.ChatMessages.WithLabelValues(string(FlowDelete)).Inc()
		return m.advance(ctx, msg, Session{Flow: FlowDelete, Stage: StageAwaitingProductID}, textAskID)
	case CommandPriceHistory:
		metrics.ChatMessages.WithLabelValues(string(FlowHistory)).Inc()
		return m.advance(ctx, msg, Session{Flow: FlowHistory, Stage: StageAwaitingProductID}, textAskID)
	case CommandListProducts:
		metrics.ChatMessages.WithLabelValues("list").Inc()
		m.clear(ctx, msg.UserID)
		return m.listProducts(ctx, msg)
	}

	session, err := m.sessions.Get(ctx, msg.UserID)
	if errors.Is(err, ErrNoSession) {
		metrics.ChatMessages.WithLabelValues("unknown").Inc()
		return m.reply(msg, textUnknown)
	}
	if err != nil {
		slog.Error("failed to load session", slog.Int64("user_id", msg.UserID), slog.Any("err", err))
		return m.reply(msg, textGeneric)
	}
	metrics.ChatMessages.WithLabelValues(string(session.Flow)).Inc()

	switch session.Stage {
	case StageAwaitingInfoURL:
		session.URLInfo = text
		session.Stage = StageAwaitingPriceURL
		return m.advance(ctx, msg, session, textAskPriceURL)
	case StageAwaitingPriceURL:
		defer m.clear(ctx, msg.UserID)
		return m.addProduct(ctx, msg, session.URLInfo, text)
	case StageAwaitingProductID:
		defer m.clear(ctx, msg.UserID)
		id, err := strconv.ParseInt(text, 10, 64)
		if err != nil {
			return m.reply(msg, textInvalidID)
		}
		if session.Flow == FlowDelete {
			return m.removeProduct(ctx, msg, id)
		}
		return m.priceHistory(ctx, msg, id)
	default:
		slog.Warn("session in unknown stage dropped", slog.String("stage", string(session.Stage)))
		m.clear(ctx, msg.UserID)
		return m.reply(msg, textUnknown)
	}
}

func (m *Machine) advance(ctx context.Context, msg Message, session Session, prompt string) []Reply {
	if err := m.sessions.Save(ctx, msg.UserID, session); err != nil {
		slog.Error("failed to save session", slog.Int64("user_id", msg.UserID), slog.Any("err", err))
		return m.reply(msg, textGeneric)
	}
	return m.reply(msg, prompt)
}

func (m *Machine) addProduct(ctx context.Context, msg Message, urlInfo, urlPrice string) []Reply {
	product, err := m.catalog.AddProduct(ctx, urlInfo, urlPrice)
	if err != nil {
		kind := extraction.Kind(err)
		slog.Warn("failed to add product", slog.String("kind", kind), slog.Any("err", err))
		switch kind {
		case extraction.KindMalformedURL:
			return m.reply(msg, textMalformedURL)
		case extraction.KindConnection:
			return m.reply(msg, textConnection)
		case extraction.KindAuth, extraction.KindFormat, extraction.KindValidation:
			return m.reply(msg, textExtraction)
		default:
			return m.reply(msg, textGeneric)
		}
	}

	rating := textNoRating
	if product.Rating != nil {
		rating = strconv.FormatFloat(*product.Rating, 'f', -1, 64)
	}
	return m.reply(msg, fmt.Sprintf(textProductAdded, product.ID, product.Name, rating))
}

func (m *Machine) removeProduct(ctx context.Context, msg Message, id int64) []Reply {
	err := m.catalog.RemoveProduct(ctx, id)
	switch {
	case err == nil:
		return m.reply(msg, fmt.Sprintf(textRemoved, id))
	case errors.Is(err, repository.ErrProductNotFound):
		return m.reply(msg, fmt.Sprintf(textNotFound, id))
	default:
		slog.Error("failed to remove product", slog.Int64("product_id", id), slog.Any("err", err))
		return m.reply(msg, textGeneric)
	}
}

func (m *Machine) listProducts(ctx context.Context, msg Message) []Reply {
	products, err := m.catalog.ListProducts(ctx)
	if err != nil {
		slog.Error("failed to list products", slog.Any("err", err))
		return m.reply(msg, textGeneric)
	}
	if len(products) == 0 {
		return m.reply(msg, textNoProducts)
	}

	replies := make([]Reply, 0, len(products))
	for _, p := range products {
		rating := textNoRating
		if r := p.RoundedRating(); r != nil {
			rating = strconv.FormatFloat(*r, 'f', 1, 64)
		}
		replies = append(replies, Reply{ChatID: msg.ChatID, Text: fmt.Sprintf(textProductLine, p.ID, p.Name, rating)})
	}
	return replies
}

func (m *Machine) priceHistory(ctx context.Context, msg Message, id int64) []Reply {
	samples, err := m.catalog.PriceHistory(ctx, id)
	if errors.Is(err, repository.ErrProductNotFound) {
		return m.reply(msg, fmt.Sprintf(textNotFound, id))
	}
	if err != nil {
		slog.Error("failed to load price history", slog.Int64("product_id", id), slog.Any("err", err))
		return m.reply(msg, textGeneric)
	}
	if len(samples) == 0 {
		return m.reply(msg, fmt.Sprintf(textNoHistory, id))
	}

	replies := make([]Reply, 0, len(samples))
	for _, s := range samples {
		price := strconv.FormatFloat(s.Price, 'f', -1, 64)
		date := s.RecordedAt.In(m.location).Format(historyDateLayout)
		replies = append(replies, Reply{ChatID: msg.ChatID, Text: fmt.Sprintf(textHistoryLine, s.ProductID, price, date)})
	}
	return replies
}

// clear runs even after the caller's context is cancelled, so a finished flow never stays active.
func (m *Machine) clear(ctx context.Context, userID int64) {
	if err := m.sessions.Clear(context.WithoutCancel(ctx), userID); err != nil {
		slog.Error("failed to clear session", slog.Int64("user_id", userID), slog.Any("err", err))
	}
}

func (m *Machine) reply(msg Message, text string) []Reply {
	return []Reply{{ChatID: msg.ChatID, Text: text}}
}
