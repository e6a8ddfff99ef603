package reviewtui

import (
	"github.com/jrmoreno/catalogbridge/internal/domain/job"
)

// MsgKind discriminates the payload carried by a Msg.
type MsgKind int

const (
	KindItemsLoaded MsgKind = iota
	KindDecisionApplied
	KindError
)

// Msg wraps an async command result for Update to dispatch on.
type Msg struct {
	Kind MsgKind
	Data any
}

func itemsLoadedMsg(items []*job.Item) Msg {
	return Msg{Kind: KindItemsLoaded, Data: items}
}

func decisionAppliedMsg(itemID string) Msg {
	return Msg{Kind: KindDecisionApplied, Data: itemID}
}

func errMsg(err error) Msg {
	return Msg{Kind: KindError, Data: err}
}
