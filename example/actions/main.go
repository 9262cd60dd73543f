// Package main demonstrates the message action menu. Long-press or
// right-click a message to recall, favorite, quote or delete it.
package main

import (
	"flag"
	"fmt"
	"image"
	"image/color"
	"os"
	"sync"
	"time"

	"gioui.org/app"
	"gioui.org/font/gofont"
	"gioui.org/io/system"
	"gioui.org/layout"
	"gioui.org/op"
	"gioui.org/op/paint"
	"gioui.org/text"
	"gioui.org/unit"
	"gioui.org/widget"
	"gioui.org/widget/material"
	lorem "github.com/drhodes/golorem"
	colorful "github.com/lucasb-eyer/go-colorful"
	"github.com/rs/zerolog"

	"git.sr.ht/~rywen/msgactions/action"
	"git.sr.ht/~rywen/msgactions/async"
	"git.sr.ht/~rywen/msgactions/debug"
	chatlayout "git.sr.ht/~rywen/msgactions/layout"
	"git.sr.ht/~rywen/msgactions/model"
	"git.sr.ht/~rywen/msgactions/profile"
	"git.sr.ht/~rywen/msgactions/store"
	"git.sr.ht/~rywen/msgactions/view"
	chatwidget "git.sr.ht/~rywen/msgactions/widget"
	chatmaterial "git.sr.ht/~rywen/msgactions/widget/material"
)

type (
	C = layout.Context
	D = layout.Dimensions
)

const conversation = "demo"

func main() {
	var (
		profileOpt = flag.String("profile", "none", "profile the application, one of [cpu, mem, block, goroutine, mutex, trace]")
		outline    = flag.Bool("outline", false, "outline each layout area")
		storePath  = flag.String("store", "", "path to a bolt database file, empty uses an in-memory store")
	)
	flag.Parse()
	debug.Enabled = *outline

	w := app.NewWindow(
		app.Title("Messages"),
		app.Size(unit.Dp(500), unit.Dp(700)),
	)

	ui, err := NewUI(w, *storePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: initializing ui: %v\n", err)
		os.Exit(1)
	}

	go func() {
		p := profile.Opt(*profileOpt).NewProfiler()
		p.Start()
		var ops op.Ops
		for event := range w.Events() {
			switch event := event.(type) {
			case system.DestroyEvent:
				p.Stop()
				if err := event.Err; err != nil {
					fmt.Fprintf(os.Stderr, "error: premature window close: %v\n", err)
					os.Exit(1)
				}
				os.Exit(0)
			case system.FrameEvent:
				ui.Layout(layout.NewContext(&ops, event))
				event.Frame(&ops)
			}
		}
	}()
	go func() {
		for range ui.writer.Updated() {
			w.Invalidate()
		}
	}()
	app.Main()
}

// Store combines the message and favorite persistence both backends
// provide.
type Store interface {
	store.Messages
	store.Favorites
}

// Theme wraps the material theme with per-user colors.
type Theme struct {
	*material.Theme
	UserColors map[string]color.NRGBA
}

// NewTheme instantiates a theme using the provided fonts.
func NewTheme(fonts []text.FontFace) *Theme {
	return &Theme{
		Theme:      material.NewTheme(fonts),
		UserColors: make(map[string]color.NRGBA),
	}
}

// UserColor returns a color for the provided username, choosing a new
// one if the username is new.
func (t *Theme) UserColor(username string) color.NRGBA {
	if c, ok := t.UserColors[username]; ok {
		return c
	}
	c := ToNRGBA(colorful.FastHappyColor().Clamped())
	t.UserColors[username] = c
	return c
}

// ToNRGBA converts a colorful.Color to the nearest representable
// color.NRGBA.
func ToNRGBA(c colorful.Color) color.NRGBA {
	r, g, b, a := c.RGBA()
	return color.NRGBA{R: uint8(r), G: uint8(g), B: uint8(b), A: uint8(a)}
}

// UI manages the state for the entire application.
type UI struct {
	th     *Theme
	win    *app.Window
	store  Store
	roster *view.Roster
	ctl    *action.Controller
	writer async.Writer
	menus  chatwidget.MenuController
	menu   chatmaterial.ActionMenuState
	notice chatmaterial.NoticeState
	list   layout.List
	log    zerolog.Logger

	peer   string
	images map[string]image.Image
	owner  map[*chatwidget.MenuArea]model.Message
	target model.Message

	// viewport and rowHeights reconstruct each row's visible rectangle
	// so its menu can flip above when the row sits near the bottom of
	// the list. Heights are one frame stale, which placement tolerates.
	viewport    image.Point
	rowViewport image.Rectangle
	rowHeights  []int

	dismissQuote widget.Clickable

	// mu guards the fields below, which are written off the layout
	// goroutine.
	mu      sync.Mutex
	quote   *action.QuoteRef
	preview string
}

// NewUI constructs the application state, seeding the store when it is
// empty.
func NewUI(w *app.Window, storePath string) (*UI, error) {
	ui := &UI{
		th:     NewTheme(gofont.Collection()),
		win:    w,
		peer:   lorem.Word(4, 9),
		images: make(map[string]image.Image),
		owner:  make(map[*chatwidget.MenuArea]model.Message),
		log:    zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger(),
	}
	ui.notice.Invalidator = w.Invalidate
	ui.menus.OnOpen = ui.menuOpened

	if storePath != "" {
		bolt, err := store.OpenBolt(storePath)
		if err != nil {
			return nil, fmt.Errorf("opening store: %w", err)
		}
		ui.store = bolt
	} else {
		ui.store = store.NewMemory()
	}

	msgs, err := ui.store.Load(conversation)
	if err != nil {
		return nil, fmt.Errorf("loading conversation: %w", err)
	}
	if len(msgs) == 0 {
		msgs = seedMessages()
		model.BackfillIDs(msgs)
		if err := ui.store.Save(conversation, msgs); err != nil {
			return nil, fmt.Errorf("seeding conversation: %w", err)
		}
	}
	for _, m := range msgs {
		if p, ok := m.Payload.(model.MediaPayload); ok {
			ui.images[p.Ref] = genImage()
		}
	}

	ui.roster = view.NewRoster(view.Hooks{
		Presenter:   ui.present,
		Allocator:   ui.allocate,
		Invalidator: w.Invalidate,
		Resolve:     resolveReaction,
	})
	ui.roster.Populate(msgs)

	ui.ctl = action.NewController(action.Config{
		Conversation:    conversation,
		Messages:        ui.store,
		Favorites:       ui.store,
		View:            ui.roster,
		Notifier:        &ui.notice,
		RefreshPreview:  ui.refreshPreview,
		ResolveReaction: resolveReaction,
		OnQuote:         ui.quoteSelected,
		PeerDisplay:     ui.peer,
		Log:             ui.log,
	})
	ui.refreshPreview(conversation)
	return ui, nil
}

// seedMessages fabricates a conversation exercising every message
// variant. The final local message is still within the recall window.
func seedMessages() []model.Message {
	now := time.Now()
	return []model.Message{
		{Local: false, SentAt: now.Add(-50 * time.Minute), Payload: model.TextPayload{Body: lorem.Paragraph(1, 3)}},
		{Local: true, SentAt: now.Add(-45 * time.Minute), Payload: model.TextPayload{Body: lorem.Paragraph(1, 2)}},
		{Local: false, SentAt: now.Add(-40 * time.Minute), Payload: model.ReactionPayload{Ref: "thumbs-up"}},
		{Local: false, SentAt: now.Add(-30 * time.Minute), Payload: model.MediaPayload{Ref: "landscape", Caption: lorem.Sentence(3, 6)}},
		{Local: true, SentAt: now.Add(-20 * time.Minute), Payload: model.QuotePayload{Echo: lorem.Sentence(4, 8), Reply: lorem.Sentence(3, 7)}},
		{Local: false, SentAt: now.Add(-10 * time.Minute), Payload: model.TransferPayload{Amount: "42.50"}},
		{Local: true, SentAt: now.Add(-30 * time.Second), Payload: model.TextPayload{Body: lorem.Sentence(3, 8)}},
	}
}

// resolveReaction recovers display names for legacy reaction refs.
func resolveReaction(ref string) string {
	switch ref {
	case "thumbs-up":
		return "👍"
	case "heart":
		return "❤️"
	default:
		return ""
	}
}

// genImage fabricates media content as a gradient between two random
// pleasing colors.
func genImage() image.Image {
	var (
		a   = colorful.FastHappyColor().Clamped()
		b   = colorful.FastHappyColor().Clamped()
		img = image.NewNRGBA(image.Rect(0, 0, 192, 128))
	)
	for x := 0; x < 192; x++ {
		col := ToNRGBA(a.BlendLuv(b, float64(x)/191).Clamped())
		for y := 0; y < 128; y++ {
			img.SetNRGBA(x, y, col)
		}
	}
	return img
}

func (ui *UI) allocate(msg model.Message) interface{} {
	row := &chatwidget.Row{}
	row.Menu.Controller = &ui.menus
	return row
}

func (ui *UI) present(msg model.Message, state interface{}) layout.Widget {
	row, ok := state.(*chatwidget.Row)
	if !ok || row == nil {
		return func(C) D { return D{} }
	}
	ui.owner[&row.Menu] = msg
	row.Menu.Viewport = ui.rowViewport
	sender := "You"
	if !msg.Local {
		sender = ui.peer
	}
	var img image.Image
	if p, ok := msg.Payload.(model.MediaPayload); ok {
		img = ui.images[p.Ref]
	}
	rs := chatmaterial.NewRow(ui.th.Theme, row, &ui.menu, chatmaterial.RowConfig{
		Sender:  sender,
		Message: msg,
		Image:   img,
		Resolve: resolveReaction,
	})
	if !msg.Local {
		rs.Sender.Color = ui.th.UserColor(sender)
	}
	return func(gtx C) D {
		return debug.Wrap(gtx, rs.Layout)
	}
}

// menuOpened rebuilds the option list for the newly targeted message.
func (ui *UI) menuOpened(a *chatwidget.MenuArea) {
	msg, ok := ui.owner[a]
	if !ok {
		return
	}
	ui.target = msg
	ui.menu.SetOptions(ui.th.Theme, ui.ctl.Options(msg))
}

// quoteSelected receives the quote signal, possibly off the layout
// goroutine.
func (ui *UI) quoteSelected(ref action.QuoteRef) {
	ui.mu.Lock()
	ui.quote = &ref
	ui.mu.Unlock()
	ui.win.Invalidate()
}

// refreshPreview recomputes the conversation summary line.
func (ui *UI) refreshPreview(string) {
	text := "no messages"
	if latest, ok := ui.roster.Latest(); ok {
		text = latest.DisplayString(resolveReaction)
	}
	ui.mu.Lock()
	ui.preview = text
	ui.mu.Unlock()
	ui.win.Invalidate()
}

// Layout the application UI.
func (ui *UI) Layout(gtx C) D {
	paint.Fill(gtx.Ops, color.NRGBA{R: 220, G: 220, B: 220, A: 255})

	if kind, ok := ui.menu.Clicked(); ok {
		msg := ui.target
		ui.menus.Dismiss()
		ui.writer.Go(func() error {
			return ui.ctl.Do(kind, msg)
		}, func(err error) {
			if err != nil {
				ui.log.Warn().Err(err).Stringer("action", kind).Msg("action failed")
			}
		})
	}
	if ui.dismissQuote.Clicked() {
		ui.mu.Lock()
		ui.quote = nil
		ui.mu.Unlock()
	}

	return layout.Stack{}.Layout(gtx,
		layout.Stacked(func(gtx C) D {
			gtx.Constraints.Min = gtx.Constraints.Max
			return ui.layoutColumn(gtx)
		}),
		layout.Expanded(func(gtx C) D {
			return chatmaterial.Notice(ui.th.Theme, &ui.notice).Layout(gtx)
		}),
	)
}

func (ui *UI) layoutColumn(gtx C) D {
	ui.mu.Lock()
	quote := ui.quote
	preview := ui.preview
	ui.mu.Unlock()

	ui.list.Axis = layout.Vertical
	return layout.Flex{Axis: layout.Vertical}.Layout(gtx,
		layout.Rigid(func(gtx C) D {
			return ui.layoutBar(gtx, material.Body2(ui.th.Theme, "Latest: "+preview).Layout, nil)
		}),
		layout.Rigid(func(gtx C) D {
			if quote == nil {
				return D{}
			}
			label := material.Body2(ui.th.Theme, fmt.Sprintf("Replying to %s: %s", quote.SenderDisplay, quote.Content))
			return ui.layoutBar(gtx, label.Layout, &ui.dismissQuote)
		}),
		layout.Flexed(1, func(gtx C) D {
			ui.viewport = gtx.Constraints.Max
			ui.pruneOwners()
			return ui.list.Layout(gtx, ui.roster.Len(), func(gtx C, index int) D {
				ui.rowViewport = ui.visibleRect(index)
				dims := ui.roster.Layout(gtx, index)
				ui.setRowHeight(index, dims.Size.Y)
				return dims
			})
		}),
	)
}

// visibleRect returns the list viewport expressed in row index's own
// coordinate space, from the scroll position and the heights of the
// rows laid out above it.
func (ui *UI) visibleRect(index int) image.Rectangle {
	top := -ui.list.Position.Offset
	for i := ui.list.Position.First; i < index && i < len(ui.rowHeights); i++ {
		top += ui.rowHeights[i]
	}
	return image.Rect(0, -top, ui.viewport.X, ui.viewport.Y-top)
}

func (ui *UI) setRowHeight(index, height int) {
	for index >= len(ui.rowHeights) {
		ui.rowHeights = append(ui.rowHeights, 0)
	}
	ui.rowHeights[index] = height
}

// pruneOwners drops menu-area bookkeeping for rows no longer in the
// roster, mirroring the roster's own state eviction.
func (ui *UI) pruneOwners() {
	if len(ui.owner) <= ui.roster.Len() {
		return
	}
	live := make(map[string]bool, ui.roster.Len())
	for i := 0; i < ui.roster.Len(); i++ {
		live[ui.roster.Row(i).ID] = true
	}
	for area, msg := range ui.owner {
		if !live[msg.ID] {
			delete(ui.owner, area)
		}
	}
}

// layoutBar lays out a full-width white bar with a label and an
// optional dismiss button.
func (ui *UI) layoutBar(gtx C, label layout.Widget, dismiss *widget.Clickable) D {
	bg := chatlayout.Background(color.NRGBA{R: 255, G: 255, B: 255, A: 255})
	return bg.Layout(gtx, func(gtx C) D {
		gtx.Constraints.Min.X = gtx.Constraints.Max.X
		return layout.UniformInset(unit.Dp(8)).Layout(gtx, func(gtx C) D {
			return layout.Flex{Alignment: layout.Middle}.Layout(gtx,
				layout.Flexed(1, label),
				layout.Rigid(func(gtx C) D {
					if dismiss == nil {
						return D{}
					}
					btn := material.Button(ui.th.Theme, dismiss, "Dismiss")
					btn.Inset = layout.UniformInset(unit.Dp(4))
					btn.TextSize = btn.TextSize * 3 / 4
					return btn.Layout(gtx)
				}),
			)
		})
	})
}
