package fx

import (
	"strings"
)

// canonicalCurrency lowercases a currency code. No validation is applied
// beyond lowercasing, so this is intentionally permissive.
func canonicalCurrency(s string) string {
	return strings.ToLower(s)
}

// canonicalPair lowercases a 6-character domestic-foreign pair code.
func canonicalPair(s string) string {
	return strings.ToLower(s)
}

// splitPair parses a canonical 6-character pair into its domestic and
// foreign 3-character legs.
func splitPair(pair string) (domestic, foreign string, ok bool) {
	if len(pair) != 6 {
		return "", "", false
	}
	return pair[:3], pair[3:], true
}

// pairVarName returns the AD variable name associated with a pair, under
// the "fx_<pair>" naming convention every sensitivity uses.
func pairVarName(pair string) string {
	return "fx_" + pair
}

// currencyIndex assigns stable indices to currencies in first-appearance
// order across a pair list, domestic before foreign within each pair. This
// ordering is deterministic and is part of the public contract, which is
// why NewRates takes an ordered []RateInput rather than a Go map (map
// iteration order is not stable across runs).
type currencyIndex struct {
	order []string
	index map[string]int
}

func buildCurrencyIndex(pairs []string) *currencyIndex {
	ci := &currencyIndex{index: make(map[string]int)}
	insert := func(ccy string) {
		if _, ok := ci.index[ccy]; !ok {
			ci.index[ccy] = len(ci.order)
			ci.order = append(ci.order, ccy)
		}
	}
	for _, p := range pairs {
		dom, for_, _ := splitPair(p)
		insert(dom)
		insert(for_)
	}
	return ci
}

func (ci *currencyIndex) len() int { return len(ci.order) }

func (ci *currencyIndex) idx(ccy string) (int, bool) {
	i, ok := ci.index[ccy]
	return i, ok
}
