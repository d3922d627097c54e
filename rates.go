package bookkeeper

import (
	"fmt"
	"log"
	"net/http"

	"github.com/PaesslerAG/jsonpath"
)

// FrankfurterRates is a RateProvider backed by the free frankfurter.app
// historical FX API, behind a daily-expiring disk cache. A miss (unknown
// currency, weekend gap the API does not backfill, network failure) is
// reported as unavailable, never guessed at.
type FrankfurterRates struct {
	Home   string // the home currency rates are quoted in
	client *http.Client
}

// NewFrankfurterRates creates a provider quoting rates in 'home'.
func NewFrankfurterRates(home string) *FrankfurterRates {
	return &FrankfurterRates{Home: home, client: daily()}
}

var _ RateProvider = (*FrankfurterRates)(nil)

// RateAsOf returns the home cost of one unit of 'currency' on 'on'.
//
//	https://api.frankfurter.app/2025-01-02?from=USD&to=EUR
//	{"amount":1.0,"base":"USD","date":"2025-01-02","rates":{"EUR":0.96}}
func (f *FrankfurterRates) RateAsOf(currency string, on Date) (Money, bool) {
	if currency == f.Home {
		return M(1, f.Home), true
	}

	addr := fmt.Sprintf("https://api.frankfurter.app/%s?from=%s&to=%s", on, currency, f.Home)
	var jobj any
	if err := jwget(f.client, addr, &jobj); err != nil {
		log.Printf("rate lookup %s on %s failed (treated as unavailable): %v", currency, on, err)
		return Money{}, false
	}

	path := "$.rates." + f.Home
	jval, err := jsonpath.Get(path, jobj)
	if err != nil {
		log.Printf("rate lookup %s on %s: %q not in response: %v", currency, on, path, err)
		return Money{}, false
	}
	// because jsonpath is never clear about whether it returns a list of 1 answer, or a single answer:
	// by this call I keep the first one if any
	if jlist, ok := jval.([]any); ok && len(jlist) > 0 {
		jval = jlist[0]
	}
	val, ok := jval.(float64)
	if !ok || val <= 0 {
		return Money{}, false
	}
	return M(val, f.Home).exact(), true
}

// StaticRates is an in-memory RateProvider for tests and offline use.
// Rates are keyed by currency and date; a missing key is unavailable.
type StaticRates struct {
	Home  string
	rates map[string]map[Date]Money
}

// NewStaticRates creates an empty provider quoting rates in 'home'.
func NewStaticRates(home string) *StaticRates {
	return &StaticRates{Home: home, rates: make(map[string]map[Date]Money)}
}

var _ RateProvider = (*StaticRates)(nil)

// Set records the home cost of one unit of 'currency' on 'on'.
func (s *StaticRates) Set(currency string, on Date, rate Money) {
	if s.rates[currency] == nil {
		s.rates[currency] = make(map[Date]Money)
	}
	s.rates[currency][on] = rate
}

// RateAsOf returns the recorded rate, or false when none was set.
func (s *StaticRates) RateAsOf(currency string, on Date) (Money, bool) {
	if currency == s.Home {
		return M(1, s.Home), true
	}
	rate, ok := s.rates[currency][on]
	return rate, ok
}
