package vapi

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Lixing-Zhang/restaurant-backoffice/internal/models"
	"github.com/Lixing-Zhang/restaurant-backoffice/internal/service"
	"github.com/shopspring/decimal"
)

// DineInCustomerName is stored when a dine-in caller gives no name.
const DineInCustomerName = "Client sur place"

// UnmatchedPolicy decides what happens to requested items missing from the menu.
type UnmatchedPolicy string

const (
	// UnmatchedZero keeps the item at a price of 0 DA.
	UnmatchedZero UnmatchedPolicy = "zero"
	// UnmatchedReject refuses the whole order.
	UnmatchedReject UnmatchedPolicy = "reject"
)

// MenuSource reads the catalog. Menu includes unavailable items, AvailableMenu does not.
type MenuSource interface {
	Menu(ctx context.Context) (*models.Menu, error)
	AvailableMenu(ctx context.Context) (*models.Menu, error)
}

type OrderCreator interface {
	Create(ctx context.Context, draft models.OrderDraft) (*models.Order, error)
}

type SettingsSource interface {
	Get(ctx context.Context) (*models.Settings, error)
}

// Rejection is a refusal the assistant reads back to the caller.
type Rejection struct {
	Reason string
}

func (r *Rejection) Error() string {
	return r.Reason
}

func reject(format string, args ...any) error {
	return &Rejection{Reason: fmt.Sprintf(format, args...)}
}

// Confirmation is the outcome of a voice order.
type Confirmation struct {
	Order     *models.Order
	Unmatched []string
	Message   string
}

// Adapter turns voice tool calls into orders and renders the menu for reading aloud.
type Adapter struct {
	menu      MenuSource
	orders    OrderCreator
	settings  SettingsSource
	unmatched UnmatchedPolicy
	log       *slog.Logger
}

// NewAdapter creates a voice adapter. settings may be nil, in which case
// confirmations carry no pickup estimate.
func NewAdapter(menu MenuSource, orders OrderCreator, settings SettingsSource, unmatched UnmatchedPolicy, log *slog.Logger) *Adapter {
	if unmatched == "" {
		unmatched = UnmatchedZero
	}
	if log == nil {
		log = slog.Default()
	}
	return &Adapter{
		menu:      menu,
		orders:    orders,
		settings:  settings,
		unmatched: unmatched,
		log:       log,
	}
}

// PlaceOrder validates the arguments, prices every item from the catalog and
// creates the order. Caller-facing refusals are returned as *Rejection.
func (a *Adapter) PlaceOrder(ctx context.Context, args OrderArguments) (*Confirmation, error) {
	if len(args.Items) == 0 {
		return nil, reject("Aucun article dans la commande. Quels plats souhaitez-vous commander ?")
	}

	orderType := voiceOrderType(args.OrderType)
	customerName := strings.TrimSpace(args.CustomerName)
	customerPhone := strings.TrimSpace(args.CustomerPhone)

	switch orderType {
	case models.OrderDineIn:
		if args.TableNumber <= 0 {
			return nil, reject("Le numéro de table est requis pour une commande sur place.")
		}
		if customerName == "" {
			customerName = DineInCustomerName
		}
	case models.OrderTakeaway:
		if customerName == "" {
			return nil, reject("Le nom du client est requis pour une commande à emporter.")
		}
		if customerPhone == "" {
			return nil, reject("Le numéro de téléphone est requis pour une commande à emporter.")
		}
	}

	menu, err := a.menu.Menu(ctx)
	if err != nil {
		return nil, err
	}

	items, unmatched := priceItems(*menu, args.Items)
	if len(unmatched) > 0 {
		if a.unmatched == UnmatchedReject {
			return nil, reject("Ces articles ne figurent pas au menu: %s.", strings.Join(unmatched, ", "))
		}
		a.log.Warn("voice order items not found in menu, priced at 0",
			"items", unmatched,
		)
	}

	total := service.OrderTotal(items)
	draft := models.OrderDraft{
		OrderType:     string(orderType),
		CustomerName:  customerName,
		CustomerPhone: customerPhone,
		Items:         items,
		TotalPrice:    &total,
		Notes:         strings.TrimSpace(args.Notes),
	}
	if args.TableNumber > 0 {
		table := int(args.TableNumber)
		draft.TableNumber = &table
	}

	order, err := a.orders.Create(ctx, draft)
	if err != nil {
		return nil, err
	}

	return &Confirmation{
		Order:     order,
		Unmatched: unmatched,
		Message:   a.confirmationMessage(ctx, order),
	}, nil
}

func (a *Adapter) confirmationMessage(ctx context.Context, order *models.Order) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Commande créée avec succès! Numéro de commande: %s. Total: %s DA.", shortID(order.ID), formatPrice(order.TotalPrice))

	if order.OrderType == models.OrderTakeaway && a.settings != nil {
		settings, err := a.settings.Get(ctx)
		if err != nil {
			a.log.Warn("failed to load settings for pickup estimate", "error", err)
		} else {
			fmt.Fprintf(&b, " Votre commande sera prête dans environ %d minutes.", settings.PickupTime)
		}
	}
	return b.String()
}

// AvailableMenu returns the catalog restricted to available items.
func (a *Adapter) AvailableMenu(ctx context.Context) (*models.Menu, error) {
	return a.menu.AvailableMenu(ctx)
}

// MenuText renders the available menu for the assistant.
func (a *Adapter) MenuText(ctx context.Context) (string, error) {
	menu, err := a.AvailableMenu(ctx)
	if err != nil {
		return "", err
	}
	return RenderMenu(*menu), nil
}

// voiceOrderType maps the assistant's vocabulary onto the canonical order type.
// Anything that is not explicitly a takeaway is served on site.
func voiceOrderType(raw string) models.OrderType {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "a_emporter", "à_emporter", "a emporter", "à emporter", "takeaway", "takeout", "take-away":
		return models.OrderTakeaway
	default:
		return models.OrderDineIn
	}
}

// priceItems resolves each requested name against the menu, case-insensitively.
// The first item with a matching name wins. Unknown names are priced at 0.
func priceItems(menu models.Menu, requested []RequestedItem) ([]models.OrderItem, []string) {
	prices := make(map[string]float64, menu.Len())
	for _, kind := range models.MenuKinds {
		for _, item := range menu.Items(kind) {
			key := matchKey(item.Name)
			if _, seen := prices[key]; !seen {
				prices[key] = item.Price
			}
		}
	}

	items := make([]models.OrderItem, 0, len(requested))
	var unmatched []string
	for _, req := range requested {
		name := strings.TrimSpace(req.Name)
		quantity := int(req.Quantity)
		if quantity <= 0 {
			quantity = 1
		}

		price, ok := prices[matchKey(name)]
		if !ok {
			unmatched = append(unmatched, name)
		}
		items = append(items, models.OrderItem{Name: name, Price: price, Quantity: quantity})
	}
	return items, unmatched
}

func matchKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func shortID(id string) string {
	if len(id) > 8 {
		return strings.ToUpper(id[:8])
	}
	return strings.ToUpper(id)
}

// formatPrice prints a price without trailing zeros: 350, 120.5.
func formatPrice(price float64) string {
	return decimal.NewFromFloat(price).String()
}
