// Package reviewtui implements an interactive terminal front end for the
// review API, using bubbletea's Elm architecture: a list of items
// currently UNCERTAIN or NOT_FOUND for one job, with per-item confirm and
// reject actions.
//
// The [Model] follows bubbletea's Init/Update/View pattern; item loading
// and decision submission are async commands that report back via the Msg
// union type. Keyboard navigation uses vim-style bindings (j/k, c/x, q)
// with contextual help displayed via charmbracelet/bubbles/help.
package reviewtui
