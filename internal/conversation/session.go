package conversation

import (
	"context"
	"errors"
)

type Flow string

const (
	FlowAdd     Flow = "add"
	FlowDelete  Flow = "delete"
	FlowHistory Flow = "history"
)

type Stage string

const (
	StageAwaitingInfoURL   Stage = "awaiting_info_url"
	StageAwaitingPriceURL  Stage = "awaiting_price_url"
	StageAwaitingProductID Stage = "awaiting_product_id"
)

// Session is the operator's in-progress flow.
type Session struct {
	Flow    Flow   `json:"flow"`
	Stage   Stage  `json:"stage"`
	URLInfo string `json:"url_info,omitempty"`
}

// ErrNoSession is returned by SessionStore.Get when the user has no active flow.
var ErrNoSession = errors.New("no active session")

// SessionStore keeps one Session per user id.
type SessionStore interface {
	Get(ctx context.Context, userID int64) (Session, error)
	Save(ctx context.Context, userID int64, session Session) error
	Clear(ctx context.Context, userID int64) error
}
