package material

import (
	"gioui.org/widget"
	"gioui.org/widget/material"
	"gioui.org/x/component"
	"golang.org/x/exp/shiny/materialdesign/icons"

	"git.sr.ht/~rywen/msgactions/action"
)

var (
	RecallIcon  = mustIcon(icons.ContentUndo)
	StarIcon    = mustIcon(icons.ToggleStar)
	QuoteIcon   = mustIcon(icons.ContentReply)
	ForwardIcon = mustIcon(icons.ContentForward)
	DeleteIcon  = mustIcon(icons.ActionDelete)
	SelectIcon  = mustIcon(icons.ContentSelectAll)
)

func mustIcon(data []byte) *widget.Icon {
	icon, err := widget.NewIcon(data)
	if err != nil {
		panic(err)
	}
	return icon
}

// ActionMenuState holds the menu surface state shared by every row of
// a chat. The option list is rebuilt whenever a menu opens on a new
// target message.
type ActionMenuState struct {
	component.MenuState
	kinds  []action.Kind
	clicks map[action.Kind]*widget.Clickable
}

// SetOptions rebuilds the menu's option list for the given operation
// kinds.
func (s *ActionMenuState) SetOptions(th *material.Theme, kinds []action.Kind) {
	s.kinds = append(s.kinds[:0], kinds...)
	s.MenuState.Options = s.MenuState.Options[:0]
	for _, k := range kinds {
		item := component.MenuItem(th, s.click(k), itemLabel(k))
		item.Icon = itemIcon(k)
		s.MenuState.Options = append(s.MenuState.Options, item.Layout)
	}
}

// Clicked reports which operation the user chose, if any, consuming
// the click.
func (s *ActionMenuState) Clicked() (action.Kind, bool) {
	for _, k := range s.kinds {
		if s.clicks[k].Clicked() {
			return k, true
		}
	}
	return 0, false
}

func (s *ActionMenuState) click(k action.Kind) *widget.Clickable {
	if s.clicks == nil {
		s.clicks = make(map[action.Kind]*widget.Clickable)
	}
	c, ok := s.clicks[k]
	if !ok {
		c = &widget.Clickable{}
		s.clicks[k] = c
	}
	return c
}

func itemLabel(k action.Kind) string {
	switch k {
	case action.Recall:
		return "Recall"
	case action.Favorite:
		return "Favorite"
	case action.QuoteReply:
		return "Quote"
	case action.Forward:
		return "Forward"
	case action.MultiSelect:
		return "Select"
	case action.Delete:
		return "Delete"
	default:
		return k.String()
	}
}

func itemIcon(k action.Kind) *widget.Icon {
	switch k {
	case action.Recall:
		return RecallIcon
	case action.Favorite:
		return StarIcon
	case action.QuoteReply:
		return QuoteIcon
	case action.Forward:
		return ForwardIcon
	case action.MultiSelect:
		return SelectIcon
	case action.Delete:
		return DeleteIcon
	default:
		return nil
	}
}

// ActionMenu renders the shared menu state with the standard menu
// surface.
func ActionMenu(th *material.Theme, state *ActionMenuState) component.MenuStyle {
	return component.Menu(th, &state.MenuState)
}
