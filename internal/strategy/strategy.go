// File: internal/strategy/strategy.go
package strategy

import "strings"

// StepStrategy is a prioritized sequence of candidate selectors for one
// workflow step. The first visible match wins. Fallback is only consulted
// when every primary candidate misses.
type StepStrategy struct {
	Primary  []string
	Fallback []string
}

// LoginStrategy names the credential form pieces in priority order.
type LoginStrategy struct {
	UserFields    []string
	PasswordField []string
	SubmitButtons []string
}

// Bundle is the full interaction strategy for a site, selected once per
// run and immutable thereafter.
type Bundle struct {
	Name     string
	Login    LoginStrategy
	Seat     StepStrategy
	Checkout StepStrategy
	// ConfirmPhrases drives the checkout fallback: if any phrase appears
	// in the rendered body text, checkout is considered complete.
	ConfirmPhrases []string
}

// registryEntry binds a site-identifier fragment to its bundle. Matching
// is a case-insensitive substring test against the target URL; the first
// entry that matches wins. New sites are additive rows here, not new
// branching logic.
type registryEntry struct {
	fragment string
	bundle   Bundle
}

var registry = []registryEntry{
	{fragment: "interpark", bundle: interparkBundle},
	{fragment: "ticketmaster", bundle: ticketmasterBundle},
}

// Select maps a target URL to its strategy bundle. Unknown targets get
// the generic bundle. Pure function, no network access.
func Select(targetURL string) Bundle {
	lower := strings.ToLower(targetURL)
	for _, entry := range registry {
		if strings.Contains(lower, entry.fragment) {
			return entry.bundle
		}
	}
	return genericBundle
}

var interparkBundle = Bundle{
	Name: "interpark",
	Login: LoginStrategy{
		UserFields:    []string{"#userId", "input[name='userId']", "input[type='email']"},
		PasswordField: []string{"#userPwd", "input[name='userPwd']", "input[type='password']"},
		SubmitButtons: []string{"#btn_login", "button[type='submit']", "input[type='submit']"},
	},
	Seat: StepStrategy{
		Primary: []string{
			".seat.available",
			"img[class*='stySeat']",
			"[data-seat-available='true']",
		},
		Fallback: []string{
			"a[href*='booking']",
			"a.btn_book",
			"button[class*='reserve']",
		},
	},
	Checkout: StepStrategy{
		Primary: []string{
			"#smallBtnPayment",
			"a[href*='payment']",
			"button[class*='payment']",
		},
		Fallback: []string{
			"#largeNextPayment",
			"button[class*='confirm']",
		},
	},
	ConfirmPhrases: []string{"예매가 완료", "결제 완료", "booking complete"},
}

var ticketmasterBundle = Bundle{
	Name: "ticketmaster",
	Login: LoginStrategy{
		UserFields:    []string{"input[name='email']", "#email", "input[type='email']"},
		PasswordField: []string{"input[name='password']", "#password", "input[type='password']"},
		SubmitButtons: []string{"button[name='sign-in']", "button[type='submit']"},
	},
	Seat: StepStrategy{
		Primary: []string{
			"[data-bdd='quick-picks-list'] li button",
			"circle[data-component='seat'][data-unavailable='false']",
			".seat:not(.unavailable)",
		},
		Fallback: []string{
			"a[href*='buy']",
			"button[class*='find-tickets']",
		},
	},
	Checkout: StepStrategy{
		Primary: []string{
			"button[data-bdd='offer-card-buy-button']",
			"button[class*='checkout']",
			"a[href*='checkout']",
		},
		Fallback: []string{
			"button[data-bdd='place-order-button']",
		},
	},
	ConfirmPhrases: []string{"order confirmed", "you're going to"},
}

var genericBundle = Bundle{
	Name: "generic",
	Login: LoginStrategy{
		UserFields: []string{
			"input[type='email']",
			"input[name='email']",
			"input[name='username']",
			"#username",
			"input[name*='user']",
		},
		PasswordField: []string{"input[type='password']"},
		SubmitButtons: []string{
			"button[type='submit']",
			"input[type='submit']",
			"button[name*='login']",
			"button[id*='login']",
		},
	},
	Seat: StepStrategy{
		Primary: []string{
			".seat.available",
			"[data-seat-available='true']",
			".seat-map .available",
			"li[class*='seat']:not([class*='sold'])",
		},
		Fallback: []string{
			"a[href*='book']",
			"a[href*='reserve']",
			"button[class*='book']",
			"button[class*='reserve']",
		},
	},
	Checkout: StepStrategy{
		Primary: []string{
			"#checkout",
			"button[name='checkout']",
			"a[href*='checkout']",
			"button[class*='checkout']",
			"button[class*='payment']",
		},
		Fallback: []string{
			"button[class*='confirm']",
			"input[type='submit'][value*='pay']",
		},
	},
	ConfirmPhrases: []string{
		"order confirmed",
		"payment complete",
		"booking confirmed",
		"thank you for your purchase",
	},
}
