// Package tui is the participant order form: enter a token and a name, browse
// the menu, fill a cart and submit it to the ledger.
package tui

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mmynk/grouporder/internal/cart"
	"github.com/mmynk/grouporder/internal/intake"
	"github.com/mmynk/grouporder/internal/menu"
	"github.com/mmynk/grouporder/internal/models"
	"github.com/mmynk/grouporder/internal/report"
)

type step int

const (
	stepToken step = iota
	stepName
	stepType
	stepCategory
	stepItems
	stepCart
	stepDone
)

const (
	noticeAdded   = "Item added to cart!"
	noticeSuccess = "Order placed successfully!"
)

// option is one row on the items screen: an item at one size.
type option struct {
	item  menu.Item
	price menu.SizePrice
}

func (o option) label() string {
	if !o.item.Sized() {
		return o.item.Name
	}
	return fmt.Sprintf("%s (%s)", o.item.Name, o.price.Size)
}

// App is the bubbletea model for the order form.
type App struct {
	ctx      context.Context
	flow     *intake.Flow
	menu     *menu.Menu
	cart     *cart.Cart
	currency string

	step     step
	prevStep step
	cursor   int

	tokenInput textinput.Model
	nameInput  textinput.Model

	token    models.Token
	userName string
	foodType menu.FoodType
	category menu.Category
	options  []option

	notice    string
	noticeErr bool
	lastOrder models.Order

	keys keyMap
	help help.Model
}

// NewApp creates the form on top of flow and m. Amounts are shown with
// currency in front.
func NewApp(ctx context.Context, flow *intake.Flow, m *menu.Menu, currency string) *App {
	a := &App{
		ctx:      ctx,
		flow:     flow,
		menu:     m,
		currency: currency,
		keys:     defaultKeys(),
		help:     help.New(),
	}
	a.reset()
	return a
}

// reset returns the form to the token screen with an empty cart.
func (a *App) reset() {
	a.cart = cart.New()
	a.step = stepToken
	a.cursor = 0
	a.token = models.Token{}
	a.userName = ""
	a.foodType = menu.FoodType{}
	a.category = menu.Category{}
	a.options = nil
	a.lastOrder = models.Order{}

	a.tokenInput = textinput.New()
	a.tokenInput.Placeholder = "8-character token"
	a.tokenInput.CharLimit = models.TokenIDLength
	a.tokenInput.Focus()

	a.nameInput = textinput.New()
	a.nameInput.Placeholder = "Your name"
	a.nameInput.CharLimit = 64
}

func (a *App) Init() tea.Cmd {
	return textinput.Blink
}

func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return a, a.updateInputs(msg)
	}
	if key.Matches(keyMsg, a.keys.ForceQuit) {
		return a, tea.Quit
	}

	switch a.step {
	case stepToken:
		return a.updateToken(keyMsg)
	case stepName:
		return a.updateName(keyMsg)
	case stepType, stepCategory, stepItems:
		return a.updateBrowse(keyMsg)
	case stepCart:
		return a.updateCart(keyMsg)
	case stepDone:
		return a.updateDone(keyMsg)
	}
	return a, nil
}

func (a *App) updateInputs(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch a.step {
	case stepToken:
		a.tokenInput, cmd = a.tokenInput.Update(msg)
	case stepName:
		a.nameInput, cmd = a.nameInput.Update(msg)
	}
	return cmd
}

func (a *App) updateToken(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, a.keys.Back):
		return a, tea.Quit
	case key.Matches(msg, a.keys.Enter):
		token, err := a.flow.ValidateToken(a.ctx, a.tokenInput.Value())
		if err != nil {
			a.setError(err)
			return a, nil
		}
		a.token = token
		a.clearNotice()
		a.step = stepName
		a.tokenInput.Blur()
		return a, a.nameInput.Focus()
	}
	return a, a.updateInputs(msg)
}

func (a *App) updateName(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, a.keys.Back):
		a.clearNotice()
		a.step = stepToken
		a.nameInput.Blur()
		return a, a.tokenInput.Focus()
	case key.Matches(msg, a.keys.Enter):
		name := a.nameInput.Value()
		if err := intake.ValidateName(name); err != nil {
			a.setError(err)
			return a, nil
		}
		a.userName = name
		a.clearNotice()
		a.nameInput.Blur()
		a.goTo(stepType)
		return a, nil
	}
	return a, a.updateInputs(msg)
}

// updateBrowse handles the three menu screens, which share list navigation.
func (a *App) updateBrowse(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, a.keys.Quit):
		return a, tea.Quit
	case key.Matches(msg, a.keys.Up):
		a.moveCursor(-1)
	case key.Matches(msg, a.keys.Down):
		a.moveCursor(1)
	case key.Matches(msg, a.keys.Cart):
		if a.cart.Empty() {
			a.setError(intake.ErrEmptyCart)
			return a, nil
		}
		a.clearNotice()
		a.prevStep = a.step
		a.goTo(stepCart)
	case key.Matches(msg, a.keys.Back):
		a.clearNotice()
		a.back()
	case key.Matches(msg, a.keys.Enter):
		a.selectBrowse()
	}
	return a, nil
}

func (a *App) selectBrowse() {
	switch a.step {
	case stepType:
		if a.cursor >= len(a.menu.Types) {
			return
		}
		a.foodType = a.menu.Types[a.cursor]
		a.clearNotice()
		a.goTo(stepCategory)
	case stepCategory:
		if a.cursor >= len(a.foodType.Categories) {
			return
		}
		a.category = a.foodType.Categories[a.cursor]
		a.options = buildOptions(a.category)
		a.clearNotice()
		a.goTo(stepItems)
	case stepItems:
		if a.cursor >= len(a.options) {
			return
		}
		opt := a.options[a.cursor]
		a.cart.Add(opt.item.Name, opt.price.Size, opt.price.Price)
		slog.Debug("Item added", "item", opt.item.Name, "size", opt.price.Size, "price", opt.price.Price)
		a.setNotice(noticeAdded)
	}
}

func (a *App) back() {
	switch a.step {
	case stepType:
		a.step = stepName
		a.cursor = 0
		a.nameInput.Focus()
	case stepCategory:
		a.goTo(stepType)
	case stepItems:
		a.goTo(stepCategory)
	case stepCart:
		a.goTo(a.prevStep)
	}
}

func (a *App) updateCart(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	lines := a.cart.Lines()
	switch {
	case key.Matches(msg, a.keys.Quit):
		return a, tea.Quit
	case key.Matches(msg, a.keys.Up):
		a.moveCursor(-1)
	case key.Matches(msg, a.keys.Down):
		a.moveCursor(1)
	case key.Matches(msg, a.keys.Back):
		a.clearNotice()
		a.back()
	case key.Matches(msg, a.keys.Menu):
		a.clearNotice()
		a.goTo(stepType)
	case key.Matches(msg, a.keys.Plus):
		if a.cursor < len(lines) {
			_ = a.cart.Increment(lines[a.cursor].ID)
		}
	case key.Matches(msg, a.keys.Minus):
		if a.cursor < len(lines) {
			_ = a.cart.Decrement(lines[a.cursor].ID)
			a.afterRemoval()
		}
	case key.Matches(msg, a.keys.Remove):
		if a.cursor < len(lines) {
			_ = a.cart.SetQuantity(lines[a.cursor].ID, 0)
			a.afterRemoval()
		}
	case key.Matches(msg, a.keys.Enter):
		a.submit()
	}
	return a, nil
}

// afterRemoval keeps the cursor on a line and leaves the cart screen once
// the last line is gone.
func (a *App) afterRemoval() {
	if a.cart.Empty() {
		a.goTo(a.prevStep)
		return
	}
	if n := len(a.cart.Lines()); a.cursor >= n {
		a.cursor = n - 1
	}
}

func (a *App) submit() {
	order, err := a.flow.Submit(a.ctx, a.token.ID, a.userName, a.cart)
	if err != nil {
		a.setError(err)
		return
	}
	slog.Info("Order submitted", "token_id", a.token.ID, "order_id", order.ID, "total", order.Total)
	a.lastOrder = order
	a.cart.Clear()
	a.setNotice(noticeSuccess)
	a.goTo(stepDone)
}

func (a *App) updateDone(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, a.keys.Quit), key.Matches(msg, a.keys.Back):
		return a, tea.Quit
	case key.Matches(msg, a.keys.NewOrder), key.Matches(msg, a.keys.Enter):
		a.reset()
		a.clearNotice()
		return a, textinput.Blink
	}
	return a, nil
}

func (a *App) goTo(s step) {
	a.step = s
	a.cursor = 0
}

func (a *App) moveCursor(delta int) {
	n := a.listLen()
	if n == 0 {
		return
	}
	a.cursor = (a.cursor + delta + n) % n
}

func (a *App) listLen() int {
	switch a.step {
	case stepType:
		return len(a.menu.Types)
	case stepCategory:
		return len(a.foodType.Categories)
	case stepItems:
		return len(a.options)
	case stepCart:
		return len(a.cart.Lines())
	}
	return 0
}

func (a *App) setNotice(msg string) {
	a.notice = msg
	a.noticeErr = false
}

func (a *App) setError(err error) {
	a.notice = intake.UserMessage(err)
	a.noticeErr = true
}

func (a *App) clearNotice() {
	a.notice = ""
	a.noticeErr = false
}

func buildOptions(c menu.Category) []option {
	var opts []option
	for _, item := range c.Items {
		for _, p := range item.Options() {
			opts = append(opts, option{item: item, price: p})
		}
	}
	return opts
}

func (a *App) money(v float64) string {
	return a.currency + report.FormatAmount(v)
}

func (a *App) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Group Order"))
	b.WriteString("\n")

	if a.step > stepToken && a.step < stepDone {
		badge := "Token: " + a.token.ID
		if a.userName != "" {
			badge += "  |  " + a.userName
		}
		if n := a.cart.Count(); n > 0 {
			badge += fmt.Sprintf("  |  Cart: %d (%s)", n, a.money(a.cart.Total()))
		}
		b.WriteString(badgeStyle.Render(badge))
		b.WriteString("\n\n")
	}

	switch a.step {
	case stepToken:
		b.WriteString("Enter your order token\n\n")
		b.WriteString(a.tokenInput.View())
	case stepName:
		if a.token.Description != "" {
			b.WriteString(dimStyle.Render(a.token.Description))
			b.WriteString("\n\n")
		}
		b.WriteString("What's your name?\n\n")
		b.WriteString(a.nameInput.View())
	case stepType:
		b.WriteString("Choose a food type\n\n")
		rows := make([]string, len(a.menu.Types))
		for i, t := range a.menu.Types {
			rows[i] = t.Label()
		}
		b.WriteString(a.renderList(rows))
	case stepCategory:
		b.WriteString(a.foodType.Label() + " categories\n\n")
		rows := make([]string, len(a.foodType.Categories))
		for i, c := range a.foodType.Categories {
			rows[i] = c.Label()
		}
		b.WriteString(a.renderList(rows))
	case stepItems:
		b.WriteString(a.category.Label() + "\n\n")
		rows := make([]string, len(a.options))
		for i, o := range a.options {
			rows[i] = o.label() + "  " + priceStyle.Render(a.money(o.price.Price))
		}
		b.WriteString(a.renderList(rows))
	case stepCart:
		b.WriteString(a.renderCart())
	case stepDone:
		b.WriteString(a.renderDone())
	}

	if a.notice != "" {
		b.WriteString("\n\n")
		if a.noticeErr {
			b.WriteString(errorStyle.Render(a.notice))
		} else {
			b.WriteString(successStyle.Render(a.notice))
		}
	}

	b.WriteString("\n\n")
	b.WriteString(a.help.ShortHelpView(a.helpKeys()))
	return boxStyle.Render(b.String())
}

func (a *App) renderList(rows []string) string {
	lines := make([]string, len(rows))
	for i, row := range rows {
		if i == a.cursor {
			lines[i] = cursorStyle.Render("> ") + selectedStyle.Render(row)
		} else {
			lines[i] = "  " + row
		}
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (a *App) renderCart() string {
	lines := a.cart.Lines()
	rows := make([]string, len(lines))
	for i, l := range lines {
		rows[i] = fmt.Sprintf("%s (%s) x%d  %s", l.Name, l.SizeLabel(), l.Quantity, priceStyle.Render(a.money(l.Amount())))
	}
	return "Your cart\n\n" + a.renderList(rows) +
		"\n\n" + selectedStyle.Render("Total: "+a.money(a.cart.Total()))
}

func (a *App) renderDone() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Thanks, %s!\n\n", a.lastOrder.UserName)
	for _, item := range a.lastOrder.Items {
		fmt.Fprintf(&b, "  %s (%s) x%d  %s\n", item.Name, item.SizeLabel(), item.Quantity, a.money(item.Amount()))
	}
	b.WriteString("\n")
	b.WriteString(selectedStyle.Render("Total: " + a.money(a.lastOrder.Total)))
	return b.String()
}

func (a *App) helpKeys() []key.Binding {
	k := a.keys
	switch a.step {
	case stepToken:
		return []key.Binding{k.Enter, k.Back}
	case stepName:
		return []key.Binding{k.Enter, k.Back}
	case stepType, stepCategory, stepItems:
		return []key.Binding{k.Up, k.Down, k.Enter, k.Cart, k.Back, k.Quit}
	case stepCart:
		return []key.Binding{k.Plus, k.Minus, k.Remove, k.Menu, k.Enter, k.Back}
	case stepDone:
		return []key.Binding{k.NewOrder, k.Quit}
	}
	return nil
}
