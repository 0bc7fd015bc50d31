// Package seed compiles the CUE seed catalog that every run starts from.
//
// A catalog is plain CUE data unified with an embedded schema, so a custom
// seed file only lists players, sports and sessions:
//
//	players: [{name: "Kody"}]
//	sports: [{name: "Baseball", activities: ["Hitting"]}]
//	sessions: [{key: "opener", measurements: [{value: 50, unit: "mph"}]}]
//
// Entity IDs are derived from names (session keys for sessions), so the
// same catalog always yields the same IDs.
package seed

import (
	"context"
	_ "embed"
	"fmt"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"

	"github.com/roach88/navsplit/internal/feature/app"
	"github.com/roach88/navsplit/internal/model"
	"github.com/roach88/navsplit/internal/provider"
)

//go:embed schema.cue
var schemaSource string

//go:embed catalog.cue
var catalogSource string

// Catalog is the compiled seed data.
type Catalog struct {
	Players    []model.Player   `json:"players"`
	Sports     []model.Sport    `json:"sports"`
	Activities []model.Activity `json:"activities"`
	Sessions   []model.Session  `json:"sessions"`
}

// Default compiles the embedded catalog.
func Default() (*Catalog, error) {
	return Compile("catalog.cue", []byte(catalogSource))
}

// Load compiles the catalog at path, or the embedded one when path is empty.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default()
	}
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed: %w", err)
	}
	return Compile(path, src)
}

// Compile unifies src with the seed schema and extracts the catalog.
// filename is used for error positions only.
func Compile(filename string, src []byte) (*Catalog, error) {
	ctx := cuecontext.New()

	schema := ctx.CompileString(schemaSource, cue.Filename("schema.cue"))
	if err := schema.Err(); err != nil {
		return nil, formatCUEError(err)
	}
	data := ctx.CompileBytes(src, cue.Filename(filename))
	if err := data.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	v := schema.Unify(data)
	if err := v.Validate(cue.Concrete(true)); err != nil {
		return nil, formatCUEError(err)
	}

	c := &Catalog{}
	if err := c.compilePlayers(v.LookupPath(cue.ParsePath("players"))); err != nil {
		return nil, err
	}
	if err := c.compileSports(v.LookupPath(cue.ParsePath("sports"))); err != nil {
		return nil, err
	}
	if err := c.compileSessions(v.LookupPath(cue.ParsePath("sessions"))); err != nil {
		return nil, err
	}
	return c, nil
}

func (c *Catalog) compilePlayers(v cue.Value) error {
	seen := map[string]bool{}
	return eachElem(v, func(elem cue.Value) error {
		name, err := lookupName(elem, "name")
		if err != nil {
			return err
		}
		if seen[name] {
			return duplicate("players", name, elem)
		}
		seen[name] = true
		c.Players = append(c.Players, model.NewPlayer(model.SeedID(model.KindPlayer, name), name))
		return nil
	})
}

func (c *Catalog) compileSports(v cue.Value) error {
	seen := map[string]bool{}
	return eachElem(v, func(elem cue.Value) error {
		name, err := lookupName(elem, "name")
		if err != nil {
			return err
		}
		if seen[name] {
			return duplicate("sports", name, elem)
		}
		seen[name] = true
		sport := model.NewSport(model.SeedID(model.KindSport, name), name)
		c.Sports = append(c.Sports, sport)

		activities := map[string]bool{}
		return eachElem(elem.LookupPath(cue.ParsePath("activities")), func(a cue.Value) error {
			label, err := a.String()
			if err != nil {
				return formatCUEError(err)
			}
			label = model.NormalizeName(label)
			if activities[label] {
				return duplicate("activities", label, a)
			}
			activities[label] = true
			id := model.SeedID(model.KindActivity, name+"/"+label)
			c.Activities = append(c.Activities, model.NewActivity(id, sport.ID, label))
			return nil
		})
	})
}

func (c *Catalog) compileSessions(v cue.Value) error {
	seen := map[string]bool{}
	return eachElem(v, func(elem cue.Value) error {
		key, err := lookupName(elem, "key")
		if err != nil {
			return err
		}
		if seen[key] {
			return duplicate("sessions", key, elem)
		}
		seen[key] = true

		var ms []model.Measurement
		err = eachElem(elem.LookupPath(cue.ParsePath("measurements")), func(m cue.Value) error {
			value, err := m.LookupPath(cue.ParsePath("value")).Float64()
			if err != nil {
				return formatCUEError(err)
			}
			unit, err := m.LookupPath(cue.ParsePath("unit")).String()
			if err != nil {
				return formatCUEError(err)
			}
			ms = append(ms, model.Measurement{Value: value, Unit: model.Unit(unit)})
			return nil
		})
		if err != nil {
			return err
		}
		c.Sessions = append(c.Sessions, model.NewSession(model.SeedID(model.KindSession, key), ms...))
		return nil
	})
}

// ActivitiesOf returns the activities belonging to sport in catalog order.
func (c *Catalog) ActivitiesOf(sport model.ID) []model.Activity {
	var out []model.Activity
	for _, a := range c.Activities {
		if a.SportID == sport {
			out = append(out, a)
		}
	}
	return out
}

// State returns the initial root state populated from the catalog.
func (c *Catalog) State() app.State {
	return app.NewState(c.Players, c.Sports, c.Sessions)
}

// Providers returns fresh in-memory providers holding the catalog.
func (c *Catalog) Providers() provider.Set {
	return provider.Set{
		Players:    provider.NewMemory(c.Players...),
		Sports:     provider.NewMemory(c.Sports...),
		Activities: provider.NewMemory(c.Activities...),
		Sessions:   provider.NewMemory(c.Sessions...),
	}
}

// Install saves every catalog entity into set.
func (c *Catalog) Install(ctx context.Context, set provider.Set) error {
	if err := saveAll(ctx, set.Players, c.Players); err != nil {
		return fmt.Errorf("install players: %w", err)
	}
	if err := saveAll(ctx, set.Sports, c.Sports); err != nil {
		return fmt.Errorf("install sports: %w", err)
	}
	if err := saveAll(ctx, set.Activities, c.Activities); err != nil {
		return fmt.Errorf("install activities: %w", err)
	}
	if err := saveAll(ctx, set.Sessions, c.Sessions); err != nil {
		return fmt.Errorf("install sessions: %w", err)
	}
	return nil
}

// Fingerprint identifies the catalog's content.
func (c *Catalog) Fingerprint() string {
	return model.MustFingerprint(c)
}

func saveAll[E model.Entity](ctx context.Context, p provider.Provider[E], items []E) error {
	for _, item := range items {
		if err := p.Save(ctx, item); err != nil {
			return err
		}
	}
	return nil
}

func eachElem(v cue.Value, fn func(cue.Value) error) error {
	if !v.Exists() {
		return nil
	}
	iter, err := v.List()
	if err != nil {
		return formatCUEError(err)
	}
	for iter.Next() {
		if err := fn(iter.Value()); err != nil {
			return err
		}
	}
	return nil
}

func lookupName(v cue.Value, field string) (string, error) {
	s, err := v.LookupPath(cue.ParsePath(field)).String()
	if err != nil {
		return "", formatCUEError(err)
	}
	name := model.NormalizeName(s)
	if name == "" {
		return "", &CompileError{Field: field, Message: "must not be blank", Pos: v.Pos()}
	}
	return name, nil
}

func duplicate(field, name string, v cue.Value) error {
	return &CompileError{Field: field, Message: fmt.Sprintf("duplicate %q", name), Pos: v.Pos()}
}

// CompileError is a seed catalog error with its CUE source position.
type CompileError struct {
	Field   string
	Message string
	Pos     token.Pos
}

func (e *CompileError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// formatCUEError keeps the first CUE error and its position.
func formatCUEError(err error) error {
	if err == nil {
		return nil
	}
	errs := errors.Errors(err)
	if len(errs) == 0 {
		return err
	}
	first := errs[0]
	if positions := errors.Positions(first); len(positions) > 0 {
		return &CompileError{
			Field:   "cue",
			Message: first.Error(),
			Pos:     positions[0],
		}
	}
	return err
}
