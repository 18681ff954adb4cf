package payload

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/matzehuels/emojiqr/pkg/errors"
)

// Payment modes for KindPayment.
const (
	PaymentLink    = "link"
	PaymentPayPal  = "paypal"
	PaymentVenmo   = "venmo"
	PaymentCashApp = "cashapp"
)

func buildURL(f Fields) (string, error) {
	u, err := f.require(KindURL, "url")
	if err != nil {
		return "", err
	}
	return track(u, f), nil
}

// track appends source, medium and tracking query parameters when any of
// them is set.
func track(u string, f Fields) string {
	src, med, tok := f.Get("source"), f.Get("medium"), f.Get("tracking")
	if src == "" && med == "" && tok == "" {
		return u
	}
	joiner := "?"
	if strings.Contains(u, "?") {
		joiner = "&"
	}
	return u + joiner +
		"source=" + url.QueryEscape(src) +
		"&medium=" + url.QueryEscape(med) +
		"&tracking=" + url.QueryEscape(tok)
}

func buildPayment(f Fields) (string, error) {
	mode := strings.ToLower(f.Get("mode"))
	if mode == "" {
		mode = PaymentLink
	}
	if mode == PaymentLink {
		link, err := f.require(KindPayment, "link")
		if err != nil {
			return "", err
		}
		return track(link, f), nil
	}

	user := strings.TrimLeft(f.Get("user"), "$@")
	if user == "" {
		return "", errors.New(errors.ErrCodeInvalidPayload, "%s payment requires %q", mode, "user")
	}
	amount := f.Get("amount")
	hasAmount := isAmount(amount)

	var u string
	switch mode {
	case PaymentPayPal:
		u = "https://paypal.me/" + user
		if hasAmount {
			u += "/" + amount
		}
	case PaymentCashApp:
		u = "https://cash.app/$" + user
		if hasAmount {
			u += "/" + amount
		}
	case PaymentVenmo:
		u = "https://venmo.com/" + user + "?txn=pay"
		if hasAmount {
			u += "&amount=" + amount
		}
		if note := f.Get("note"); note != "" {
			u += "&note=" + escapeQuery(note)
		}
	default:
		return "", errors.New(errors.ErrCodeUnsupported, "unsupported payment mode %q", mode)
	}
	return track(u, f), nil
}

func isAmount(s string) bool {
	v, err := strconv.ParseFloat(s, 64)
	return err == nil && v >= 0
}

// Map providers for KindMap.
const (
	MapGoogle = "google"
	MapApple  = "apple"
	MapGeo    = "geo"
)

func buildMap(f Fields) (string, error) {
	provider := strings.ToLower(f.Get("provider"))
	if provider == "" {
		provider = MapGoogle
	}
	q, lat, lng := f.Get("query"), f.Get("lat"), f.Get("lng")
	hasPoint := lat != "" && lng != ""
	if !hasPoint && q == "" {
		return "", errors.New(errors.ErrCodeInvalidPayload, "map payload requires %q or %q and %q", "query", "lat", "lng")
	}

	var u string
	switch provider {
	case MapGoogle:
		if hasPoint {
			u = "https://maps.google.com/?q=" + lat + "," + lng
		} else {
			u = "https://maps.google.com/?q=" + escapeQuery(q)
		}
	case MapApple:
		if hasPoint {
			u = "https://maps.apple.com/?ll=" + lat + "," + lng
			if q != "" {
				u += "&q=" + escapeQuery(q)
			}
		} else {
			u = "https://maps.apple.com/?q=" + escapeQuery(q)
		}
	case MapGeo:
		if hasPoint {
			label := lat + "," + lng
			if q != "" {
				label = escapeQuery(q)
			}
			u = "geo:" + lat + "," + lng + "?q=" + lat + "," + lng + "(" + label + ")"
		} else {
			u = "geo:0,0?q=" + escapeQuery(q)
		}
	default:
		return "", errors.New(errors.ErrCodeUnsupported, "unsupported map provider %q", provider)
	}
	return track(u, f), nil
}

// escapeQuery percent-encodes s with %20 for spaces.
func escapeQuery(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
