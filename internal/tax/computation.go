// Package tax computes a person's self-assessment liability for one tax
// year from the categorized ledger, the year's statutory constants, any
// manual overrides, and the people directory.
//
// A Computation is built per (person, tax year) request and is not safe
// for concurrent use. Every derived amount is memoized for the lifetime
// of the computation, so repeated reads of the same quantity hit the
// store at most once. When marriage allowance is in play the spouse's
// figures are computed through a second Computation sharing the same
// cache, so the pair is evaluated at most once as a whole.
package tax

import (
	"context"
	"log/slog"

	"github.com/shopspring/decimal"

	"github.com/taxfolk/selfassess/internal/models"
	"github.com/taxfolk/selfassess/internal/storage"
)

// Engine builds computations over a shared store.
type Engine struct {
	store storage.Store
}

// NewEngine creates an Engine backed by the given store.
func NewEngine(store storage.Store) *Engine {
	return &Engine{store: store}
}

// NewComputation loads the person, their spouse if married, and the tax
// year's constants, and returns a ready computation. Fails fast on a
// missing person or an incomplete constants table.
func (e *Engine) NewComputation(ctx context.Context, personCode string, year models.TaxYear) (*Computation, error) {
	consts, err := LoadConstants(ctx, e.store, year)
	if err != nil {
		return nil, err
	}
	sess := &session{
		amounts: make(map[string]decimal.Decimal),
		comps:   make(map[string]*Computation),
	}
	return newComputation(ctx, e.store, sess, consts, personCode)
}

// Compute runs the full computation and returns the assembled result.
func (e *Engine) Compute(ctx context.Context, personCode string, year models.TaxYear) (*Result, error) {
	c, err := e.NewComputation(ctx, personCode, year)
	if err != nil {
		return nil, err
	}
	return c.Result(ctx)
}

// session is the cache shared by a computation and its spouse's
// computation. Keys are person code, tax year and quantity name, so the
// same figure is derived once no matter which side asks for it.
type session struct {
	amounts map[string]decimal.Decimal
	comps   map[string]*Computation
}

// Computation derives one person's figures for one tax year.
type Computation struct {
	store  storage.Store
	sess   *session
	consts *Constants
	person *models.Person
	spouse *models.Person // nil when unmarried
	log    *slog.Logger
}

func newComputation(ctx context.Context, store storage.Store, sess *session, consts *Constants, personCode string) (*Computation, error) {
	if c, ok := sess.comps[personCode]; ok {
		return c, nil
	}

	person, err := store.Person(ctx, personCode)
	if err != nil {
		return nil, err
	}

	c := &Computation{
		store:  store,
		sess:   sess,
		consts: consts,
		person: person,
		log: slog.Default().With(
			slog.String("person", person.Code),
			slog.String("tax_year", string(consts.Year)),
		),
	}
	sess.comps[personCode] = c

	if person.IsMarried() {
		spouse, err := store.Person(ctx, person.SpouseCode)
		if err != nil {
			return nil, err
		}
		c.spouse = spouse
	}

	return c, nil
}

// Person returns the person this computation is for.
func (c *Computation) Person() *models.Person { return c.person }

// Spouse returns the person's spouse, or nil when unmarried.
func (c *Computation) Spouse() *models.Person { return c.spouse }

// TaxYear returns the tax year this computation is for.
func (c *Computation) TaxYear() models.TaxYear { return c.consts.Year }

// Constants returns the statutory figures snapshot in use.
func (c *Computation) Constants() *Constants { return c.consts }

// spouseComputation returns the computation for the person's spouse,
// building it on first use. The spouse computation shares this session,
// so when it looks back at this person it finds the cached figures
// instead of recursing.
func (c *Computation) spouseComputation(ctx context.Context) (*Computation, error) {
	return newComputation(ctx, c.store, c.sess, c.consts, c.spouse.Code)
}

// memoized returns the cached value for the named quantity, deriving and
// caching it on a miss. Errors are never cached; a failed derivation is
// retried on the next read.
func (c *Computation) memoized(ctx context.Context, quantity string, derive func(context.Context) (decimal.Decimal, error)) (decimal.Decimal, error) {
	key := c.person.Code + "|" + string(c.consts.Year) + "|" + quantity
	if v, ok := c.sess.amounts[key]; ok {
		return v, nil
	}
	v, err := derive(ctx)
	if err != nil {
		return decimal.Zero, err
	}
	c.sess.amounts[key] = v
	c.log.Debug("derived quantity", slog.String("quantity", quantity), slog.String("value", v.String()))
	return v, nil
}

// Breakdown lists the ledger rows behind an aggregate, ordered by date.
func (c *Computation) Breakdown(ctx context.Context, prefix string) ([]models.Transaction, error) {
	return c.store.ListByCategoryPrefix(ctx, c.consts.Year, prefix)
}
