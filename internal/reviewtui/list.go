package reviewtui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/list"

	"github.com/jrmoreno/catalogbridge/internal/domain/job"
)

var _ list.Item = reviewItem{}

// reviewItem wraps a job.Item awaiting a decision to implement list.Item.
type reviewItem struct {
	item *job.Item
}

func (i reviewItem) FilterValue() string { return i.item.Source.Label() }

func (i reviewItem) Title() string {
	return fmt.Sprintf("[%s] %s", i.item.Classification, i.item.Source.Label())
}

func (i reviewItem) Description() string {
	if i.item.Best == nil {
		return "no candidate found"
	}
	artists := strings.Join(i.item.Best.Artists, ", ")
	return fmt.Sprintf("best: %s — %s (score %.2f)", i.item.Best.Title, artists, i.item.Best.Score)
}
