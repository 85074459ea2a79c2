// Package dialog - Quote-collection state machine
// Inputs are processed one at a time per session; invalid input
// re-prompts without advancing and without touching prior answers.
package dialog

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"cargo-quote/core/cart"
	"cargo-quote/core/category"
	"cargo-quote/core/tariff"
	"cargo-quote/internal/errors"
)

const (
	promptCity        = "Which city should we deliver to?"
	promptWarehouse   = "Which origin warehouse? (%s)"
	promptCategory    = "What is the product? (free text, e.g. \"winter jackets\")"
	promptWeight      = "Item weight in kg? (or \"3 x 20\" for 3 boxes of 20 kg, or \"2 pallets\")"
	promptVolume      = "Item volume in m3? (a number, or dimensions like 60x40x30, or 0 if unknown)"
	promptRateChoice  = "Apply this rate? (yes / manual)"
	promptManualRate  = "Enter the agreed rate in USD per kg:"
	promptDecision    = "Add another item, or finish? (add / done)"
	promptContactName = "Your name?"
	promptContact     = "Your phone number?"

	msgApology = "Sorry, pricing is unavailable right now. Please try again later."
)

// Machine advances sessions through the quote dialogue. It holds only
// immutable dependencies and is safe for concurrent sessions.
type Machine struct {
	tables     *tariff.Tables
	intl       *tariff.International
	pricer     *cart.Pricer
	classifier category.Classifier
	recorder   Recorder
	log        *zap.Logger
}

// NewMachine creates a dialogue machine. classifier and recorder may be
// nil: classification degrades to the keyword matcher and completed
// quotes are then only logged.
func NewMachine(tables *tariff.Tables, classifier category.Classifier, recorder Recorder, log *zap.Logger) *Machine {
	if log == nil {
		log = zap.NewNop()
	}
	return &Machine{
		tables:     tables,
		intl:       tariff.NewInternational(tables),
		pricer:     cart.NewPricer(tables),
		classifier: classifier,
		recorder:   recorder,
		log:        log,
	}
}

// Start opens a session and returns its first prompt. With unusable
// tariff tables the session ends immediately with an apology.
func (m *Machine) Start(id string) (*Session, Reply) {
	sess := NewSession(id)
	if m.tables.Degraded() {
		sess.State = StateCancelled
		return sess, Reply{Notice: msgApology, Done: true}
	}
	m.log.Info("session started", zap.String("session", sess.ID))
	return sess, Reply{Prompt: promptCity}
}

// Advance feeds one validated input to the session.
//
// Parsing and validation failures are resolved here by re-prompting;
// they never propagate. Data-availability failures (missing tariffs,
// unloaded configuration) surface as notices or end the session.
func (m *Machine) Advance(ctx context.Context, sess *Session, input string) Reply {
	if sess.State.Terminal() {
		return Reply{Notice: "this session is finished", Done: true}
	}

	input = strings.TrimSpace(input)
	if isCancel(input) {
		sess.State = StateCancelled
		sess.Pending = nil
		m.log.Info("session cancelled", zap.String("session", sess.ID))
		return Reply{Notice: "Cancelled.", Done: true}
	}

	switch sess.State {
	case StateAwaitCity:
		return m.onCity(sess, input)
	case StateAwaitWarehouse:
		return m.onWarehouse(sess, input)
	case StateAwaitCategory:
		return m.onCategory(ctx, sess, input)
	case StateAwaitWeight:
		return m.onWeight(sess, input)
	case StateAwaitVolume:
		return m.onVolume(sess, input)
	case StateAwaitRateChoice:
		return m.onRateChoice(sess, input)
	case StateAwaitManualRate:
		return m.onManualRate(sess, input)
	case StateAwaitItemDecision:
		return m.onItemDecision(sess, input)
	case StateAwaitContactName:
		return m.onContactName(sess, input)
	case StateAwaitContactPhone:
		return m.onContactPhone(ctx, sess, input)
	default:
		return Reply{Notice: "unknown state", Done: true}
	}
}

func (m *Machine) onCity(sess *Session, input string) Reply {
	if input == "" {
		return Reply{Notice: "Please name a city.", Prompt: promptCity}
	}
	sess.Cart.City = input
	sess.State = StateAwaitWarehouse
	return Reply{Prompt: fmt.Sprintf(promptWarehouse, strings.Join(m.tables.Warehouses(), ", "))}
}

func (m *Machine) onWarehouse(sess *Session, input string) Reply {
	code := strings.ToUpper(input)
	if !m.tables.HasWarehouse(code) {
		return Reply{
			Notice: fmt.Sprintf("Unknown warehouse %q.", input),
			Prompt: fmt.Sprintf(promptWarehouse, strings.Join(m.tables.Warehouses(), ", ")),
		}
	}
	sess.Cart.Warehouse = code
	sess.State = StateAwaitCategory
	return Reply{Prompt: promptCategory}
}

func (m *Machine) onCategory(ctx context.Context, sess *Session, input string) Reply {
	if input == "" {
		return Reply{Notice: "Please describe the product.", Prompt: promptCategory}
	}
	cat := category.Resolve(ctx, m.classifier, input)
	sess.Pending = &PendingItem{Description: input, Category: cat, Count: 1}
	sess.State = StateAwaitWeight
	return Reply{
		Notice: fmt.Sprintf("Category: %s", cat),
		Prompt: promptWeight,
	}
}

func (m *Machine) onWeight(sess *Session, input string) Reply {
	if count, ok := ParsePallets(input); ok {
		sess.Pending.Count = count
		sess.Pending.Pallets = true
		sess.Pending.Weight = cart.PalletWeightKg
		sess.Pending.Volume = cart.PalletVolumeM3
		notice := fmt.Sprintf("%d standard pallets, %.0f kg and %.1f m3 each.",
			count, cart.PalletWeightKg, cart.PalletVolumeM3)
		// Pallet dimensions are known, so the volume question is skipped
		return m.offerRate(sess, notice, promptWeight)
	}

	if count, each, ok := ParseBoxes(input); ok {
		sess.Pending.Count = count
		sess.Pending.Weight = each
		sess.State = StateAwaitVolume
		return Reply{
			Notice: fmt.Sprintf("%d boxes of %g kg each.", count, each),
			Prompt: promptVolume,
		}
	}

	w, err := ParsePositive(input)
	if err != nil {
		return Reply{Notice: "Please enter a positive number.", Prompt: promptWeight}
	}
	sess.Pending.Weight = w
	sess.State = StateAwaitVolume
	return Reply{Prompt: promptVolume}
}

func (m *Machine) onVolume(sess *Session, input string) Reply {
	volume, assumed := ParseVolume(input)
	sess.Pending.Volume = volume
	sess.Pending.AssumedVolume = assumed

	var notice string
	if assumed {
		notice = fmt.Sprintf(
			"Could not read a volume; assuming %.3f m3 from a standard density of %.0f kg/m3.",
			sess.Pending.Weight/tariff.DefaultDensityDivisor, tariff.DefaultDensityDivisor)
	}
	return m.offerRate(sess, notice, promptVolume)
}

// offerRate computes the automatic offer for the pending item and asks
// the customer to accept it or enter a rate manually. reprompt is the
// current state's question, re-issued on a computation failure.
func (m *Machine) offerRate(sess *Session, notice, reprompt string) Reply {
	p := sess.Pending

	res, err := m.intl.Compute(p.Weight, p.Volume, p.Category, sess.Cart.Warehouse)
	switch {
	case errors.IsType(err, errors.TypeConfig):
		sess.State = StateCancelled
		return Reply{Notice: msgApology, Done: true}
	case errors.IsType(err, errors.TypeTariffNotFound):
		// No automatic offer possible; fall through to a manual rate
		sess.State = StateAwaitManualRate
		return Reply{
			Notice: joinNotices(notice, "No tariff covers this item; a rate must be entered manually."),
			Prompt: promptManualRate,
		}
	case err != nil:
		return Reply{Notice: "Could not compute a rate: " + err.Error(), Prompt: reprompt}
	}

	p.OfferedRate = res.ClientRate
	p.OfferedCost = res.ClientCost
	sess.State = StateAwaitRateChoice

	offer := fmt.Sprintf("Density %.1f kg/m3, rate $%s per %s, item total $%s.",
		res.Density, res.ClientRate.StringFixed(2), res.Unit, res.ClientCost.StringFixed(2))
	if p.Count > 1 {
		total := res.ClientCost.Mul(decimal.NewFromInt(int64(p.Count)))
		offer = fmt.Sprintf("Density %.1f kg/m3, rate $%s per %s, $%s each, $%s for all %d.",
			res.Density, res.ClientRate.StringFixed(2), res.Unit,
			res.ClientCost.StringFixed(2), total.StringFixed(2), p.Count)
	}
	return Reply{Notice: joinNotices(notice, offer), Prompt: promptRateChoice}
}

func (m *Machine) onRateChoice(sess *Session, input string) Reply {
	switch strings.ToLower(input) {
	case "yes", "y", "accept", "auto", "ok":
		return m.saveItem(sess)
	case "manual", "no", "n", "m":
		sess.State = StateAwaitManualRate
		return Reply{Prompt: promptManualRate}
	default:
		return Reply{Notice: "Please answer \"yes\" or \"manual\".", Prompt: promptRateChoice}
	}
}

func (m *Machine) onManualRate(sess *Session, input string) Reply {
	rate, err := ParsePositive(input)
	if err != nil {
		return Reply{Notice: "Please enter a positive rate.", Prompt: promptManualRate}
	}
	d := decimal.NewFromFloat(rate)
	sess.Pending.AgreedRate = &d
	return m.saveItem(sess)
}

func (m *Machine) saveItem(sess *Session) Reply {
	p := sess.Pending

	volume := p.Volume
	if p.AssumedVolume {
		// Stored as zero so pricing re-derives and re-flags the
		// assumption
		volume = 0
	}

	count := p.Count
	if count < 1 {
		count = 1
	}
	var items []cart.Item
	if p.Pallets {
		items = cart.ExpandPallets(count, p.Category)
	} else {
		items = cart.ExpandBoxes(count, p.Weight, volume, p.Category)
	}
	for i := range items {
		if count == 1 {
			items[i].Description = p.Description
		} else {
			items[i].Description = fmt.Sprintf("%s (%s)", p.Description, items[i].Description)
		}
		items[i].AgreedRate = p.AgreedRate
		sess.Cart.Add(items[i])
	}

	sess.Pending = nil
	sess.State = StateAwaitItemDecision

	m.log.Debug("items saved",
		zap.String("session", sess.ID),
		zap.Int("added", count),
		zap.Int("items", len(sess.Cart.Items)))

	notice := fmt.Sprintf("Item %d saved.", len(sess.Cart.Items))
	if count > 1 {
		notice = fmt.Sprintf("%d items saved (%d in the cart).", count, len(sess.Cart.Items))
	}
	return Reply{Notice: notice, Prompt: promptDecision}
}

func (m *Machine) onItemDecision(sess *Session, input string) Reply {
	switch strings.ToLower(input) {
	case "add", "+", "another", "more":
		sess.State = StateAwaitCategory
		return Reply{Prompt: promptCategory}
	case "done", "finish", "finalize":
		return m.finalize(sess)
	default:
		return Reply{Notice: "Please answer \"add\" or \"done\".", Prompt: promptDecision}
	}
}

// finalize prices the accumulated cart exactly once, so the
// shipment-level domestic leg sees the true aggregate weight
func (m *Machine) finalize(sess *Session) Reply {
	quote, err := m.pricer.Price(&sess.Cart)
	if err != nil {
		if errors.IsType(err, errors.TypeConfig) {
			sess.State = StateCancelled
			return Reply{Notice: msgApology, Done: true}
		}
		// Names the offending item; the session stays recoverable
		return Reply{
			Notice: "Could not price the cart: " + err.Error(),
			Prompt: promptDecision,
		}
	}

	sess.Quote = quote
	sess.State = StateAwaitContactName

	m.log.Info("cart priced",
		zap.String("session", sess.ID),
		zap.Int("items", len(quote.Items)),
		zap.String("international_usd", quote.InternationalTotalUSD.StringFixed(2)),
		zap.String("domestic_kzt", quote.DomesticEstimateKZT.StringFixed(0)))

	return Reply{Quote: quote, Prompt: promptContactName}
}

func (m *Machine) onContactName(sess *Session, input string) Reply {
	if input == "" {
		return Reply{Notice: "Please enter a name.", Prompt: promptContactName}
	}
	sess.Contact.Name = input
	sess.State = StateAwaitContactPhone
	return Reply{Prompt: promptContact}
}

func (m *Machine) onContactPhone(ctx context.Context, sess *Session, input string) Reply {
	phone, err := NormalizePhone(input)
	if err != nil {
		return Reply{Notice: "That does not look like a phone number.", Prompt: promptContact}
	}
	sess.Contact.Phone = phone
	sess.State = StateComplete

	if m.recorder != nil {
		if err := m.recorder.Record(ctx, sess); err != nil {
			m.log.Error("recording quote failed",
				zap.String("session", sess.ID), zap.Error(err))
		}
	}

	m.log.Info("session complete",
		zap.String("session", sess.ID),
		zap.String("name", sess.Contact.Name))

	return Reply{
		Notice: fmt.Sprintf("Thank you, %s! A manager will contact you shortly.", sess.Contact.Name),
		Done:   true,
	}
}

func isCancel(input string) bool {
	switch strings.ToLower(input) {
	case "/cancel", "cancel":
		return true
	}
	return false
}

func joinNotices(a, b string) string {
	if a == "" {
		return b
	}
	return a + " " + b
}
