/*
factory.go - Tier-gated method construction

PURPOSE:
  Maps a MethodType to a configured Method implementation. Tier gating
  is cross-cutting configuration checked here at the boundary - method
  implementations themselves know nothing about tiers.

TIERS:
  Tier 1: straight-line, units-of-production
  Tier 2: + double-declining, 150%-declining, sum-of-years-digits
  Tier 3: + MACRS, bonus, annuity

  The enterprise methods (MACRS, bonus, annuity) are wired through at
  Tier 3 rather than stubbed as unsupported.

DEFAULTS:
  The factory applies per-method default configuration: daily proration
  for straight-line, switch-to-straight-line for the declining family,
  interest excluded from expense for annuity. Callers needing different
  behavior construct methods directly via New*.

USAGE:
  factory := depreciation.NewFactory(depreciation.Tier2)
  method, err := factory.Create(depreciation.MethodDoubleDeclining)
*/
package depreciation

import "sort"

// methodTiers maps each method to the minimum tier that may use it.
var methodTiers = map[MethodType]Tier{
	MethodStraightLine:      Tier1,
	MethodUnitsOfProduction: Tier1,
	MethodDoubleDeclining:   Tier2,
	MethodDeclining150:      Tier2,
	MethodSumOfYears:        Tier2,
	MethodMACRS:             Tier3,
	MethodBonus:             Tier3,
	MethodAnnuity:           Tier3,
}

// Factory constructs method implementations, enforcing tier gating.
type Factory struct {
	tier Tier
}

func NewFactory(tier Tier) *Factory {
	if tier < Tier1 {
		tier = Tier1
	}
	return &Factory{tier: tier}
}

// Tier returns the configured capability tier.
func (f *Factory) Tier() Tier { return f.tier }

// Available reports whether the method can be created at this tier.
func (f *Factory) Available(mt MethodType) bool {
	required, ok := methodTiers[mt]
	return ok && required <= f.tier
}

// Methods returns every method type available at this tier, sorted by
// name for stable output.
func (f *Factory) Methods() []MethodType {
	var out []MethodType
	for mt, required := range methodTiers {
		if required <= f.tier {
			out = append(out, mt)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Create returns a configured method implementation.
// Fails with ErrMethodNotSupported for unknown types and with a
// TierError when the method's tier exceeds the factory's.
func (f *Factory) Create(mt MethodType) (Method, error) {
	required, ok := methodTiers[mt]
	if !ok {
		return nil, ErrMethodNotSupported
	}
	if required > f.tier {
		return nil, &TierError{Method: mt, Required: required, Current: f.tier}
	}

	switch mt {
	case MethodStraightLine:
		return NewStraightLine(true), nil
	case MethodUnitsOfProduction:
		return NewUnitsOfProduction(), nil
	case MethodDoubleDeclining:
		return NewDoubleDeclining(true), nil
	case MethodDeclining150:
		return NewDeclining150(true), nil
	case MethodSumOfYears:
		return NewSumOfYears(), nil
	case MethodMACRS:
		return NewMACRS(), nil
	case MethodBonus:
		return NewBonus(), nil
	case MethodAnnuity:
		return NewAnnuity(false), nil
	default:
		return nil, ErrMethodNotSupported
	}
}
